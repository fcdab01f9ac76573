package stac

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/venicegeo/bf-imagery-clip/model"
	"github.com/venicegeo/bf-imagery-clip/util"
)

// expiryMargin is how long before actual token expiry a cached token is
// considered stale, so a token never dies mid-download
const expiryMargin = 5 * time.Minute

type sasTokenResponse struct {
	Token  string `json:"token"`
	Expiry string `json:"msft:expiry"`
}

type sasToken struct {
	token  string
	expiry time.Time
}

// Signer signs asset URLs with short-lived SAS tokens fetched from the
// catalog's signing endpoint, one token per collection
type Signer struct {
	BaseSasURL string
	mutex      sync.Mutex
	tokens     map[string]sasToken
}

// NewSigner returns a Signer against the given signing endpoint
func NewSigner(baseSasURL string) *Signer {
	return &Signer{
		BaseSasURL: baseSasURL,
		tokens:     map[string]sasToken{},
	}
}

// Token returns a valid SAS token for the collection, reusing the cached one
// while it has life left
func (s *Signer) Token(context util.LogContext, collection string) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if cached, ok := s.tokens[collection]; ok && time.Now().Before(cached.expiry.Add(-expiryMargin)) {
		return cached.token, nil
	}

	tokenURL := strings.TrimRight(s.BaseSasURL, "/") + "/token/" + collection
	var response sasTokenResponse
	if _, err := util.ReqByObjJSON("GET", tokenURL, "", nil, &response); err != nil {
		return "", err
	}
	if response.Token == "" {
		return "", fmt.Errorf("signing endpoint returned an empty token for collection %q", collection)
	}

	expiry, err := model.ParseStacTime(response.Expiry)
	if err != nil {
		// unparseable expiry: use the token but do not cache it
		util.LogAlert(context, fmt.Sprintf("Could not parse SAS token expiry %q for collection %v; token will not be cached", response.Expiry, collection))
		return response.Token, nil
	}

	s.tokens[collection] = sasToken{token: response.Token, expiry: expiry}
	return response.Token, nil
}

// SignURL appends a SAS token to an asset URL so GDAL can read it directly
func (s *Signer) SignURL(context util.LogContext, collection, href string) (string, error) {
	token, err := s.Token(context, collection)
	if err != nil {
		return "", err
	}
	separator := "?"
	if strings.Contains(href, "?") {
		separator = "&"
	}
	return href + separator + token, nil
}
