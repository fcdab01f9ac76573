package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandKeysRoundTrip(t *testing.T) {
	encoded := encodeBandKeys([]string{"B04", "B03", "B02"})
	assert.Equal(t, "B04,B03,B02", encoded)
	assert.Equal(t, []string{"B04", "B03", "B02"}, decodeBandKeys(encoded))
}

func TestBandKeysEmpty(t *testing.T) {
	assert.Equal(t, "", encodeBandKeys(nil))
	assert.Equal(t, []string{}, decodeBandKeys(""))
}

// Ordering is significant: the encoded key participates in the table's
// uniqueness constraint, so [B04,B03] and [B03,B04] are distinct artifacts.
func TestBandKeysOrderPreserved(t *testing.T) {
	assert.NotEqual(t, encodeBandKeys([]string{"B04", "B03"}), encodeBandKeys([]string{"B03", "B04"}))
}
