package stac

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/venicegeo/bf-imagery-clip/model"
	"github.com/venicegeo/bf-imagery-clip/util"
	"github.com/venicegeo/geojson-go/geojson"
)

// Context is the context for a STAC catalog operation. One Context may be
// shared across concurrent pipeline workers.
type Context struct {
	BaseStacURL     string
	SubscriptionKey string
	Signer          *Signer
	sessionID       string
	sessionOnce     sync.Once
}

// NewContext builds a Context from the process environment
func NewContext() *Context {
	return &Context{
		BaseStacURL:     util.GetStacAPIURL(),
		SubscriptionKey: util.GetSubscriptionKey(),
		Signer:          NewSigner(util.GetSasAPIURL()),
	}
}

// AppName returns the application name for log entries
func (c *Context) AppName() string {
	return "bf-imagery-clip"
}

// SessionID returns a Session ID, creating one if needed. Workers log
// through a shared Context concurrently, so creation is synchronized.
func (c *Context) SessionID() string {
	c.sessionOnce.Do(func() {
		c.sessionID = uuid.NewString()
	})
	return c.sessionID
}

// LogRootDir returns an empty string
func (c *Context) LogRootDir() string {
	return ""
}

// SearchOptions are the options for one catalog search request
type SearchOptions struct {
	Collection string
	Bbox       geojson.BoundingBox
	Datetime   string
	Query      map[string]map[string]interface{}
	Limit      int
}

type searchRequest struct {
	Collections []string                          `json:"collections"`
	Intersects  interface{}                       `json:"intersects,omitempty"`
	Datetime    string                            `json:"datetime,omitempty"`
	Query       map[string]map[string]interface{} `json:"query,omitempty"`
	Limit       int                               `json:"limit,omitempty"`
}

type stacAsset struct {
	Href  string `json:"href"`
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
}

type stacItem struct {
	ID         string                 `json:"id"`
	Collection string                 `json:"collection"`
	Geometry   interface{}            `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
	Assets     map[string]stacAsset   `json:"assets"`
}

type searchResponse struct {
	Type     string     `json:"type"`
	Features []stacItem `json:"features"`
}

type stacRequestInput struct {
	method      string
	inputURL    string // URL may be relative or absolute based on BaseStacURL
	body        []byte
	contentType string
}

func sceneFromItem(item stacItem) model.Scene {
	scene := model.Scene{
		ID:         item.ID,
		Collection: item.Collection,
		Geometry:   item.Geometry,
		FileFormat: model.GeoTIFF,
		Bands:      map[string]string{},
	}

	if cc, ok := item.Properties["eo:cloud_cover"].(float64); ok {
		scene.CloudCover = cc
	} else {
		scene.CloudCover = -1
	}
	if platform, ok := item.Properties["platform"].(string); ok {
		scene.Platform = platform
	}
	if datetime, ok := item.Properties["datetime"].(string); ok {
		scene.AcquiredDate, _ = model.ParseStacTime(datetime)
	}

	for key, asset := range item.Assets {
		scene.Bands[key] = asset.Href
		if strings.Contains(asset.Type, "jp2") {
			scene.FileFormat = model.JPEG2000
		}
	}
	return scene
}

// hasBandingIssues reports a truthy QA flag used by some collections to mark
// scenes with sensor banding artifacts; such scenes are never selected
func hasBandingIssues(item stacItem) bool {
	flagged, ok := item.Properties["banding_issues"].(bool)
	return ok && flagged
}
