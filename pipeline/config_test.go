package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJobYAML = `
radius: 100
bands: [B04, B03, B02]
collection: sentinel-2-l2a
start_date: "2023-06-01"
end_date: "2023-06-30"
platforms: [sentinel-2a, sentinel-2b]
query:
  eo:cloud_cover:
    lt: 10
workers: 3
`

func TestLoadJobConfig(t *testing.T) {
	config, err := LoadJobConfig(strings.NewReader(sampleJobYAML))

	require.NoError(t, err)
	assert.Equal(t, 100.0, config.Radius)
	assert.Equal(t, []string{"B04", "B03", "B02"}, config.Bands)
	assert.Equal(t, 3, config.Workers)
}

func TestLoadJobConfig_DefaultsWorkers(t *testing.T) {
	yaml := `
radius: 50
bands: [B04]
collection: sentinel-2-l2a
start_date: "2023-06-01"
end_date: "2023-06-30"
`
	config, err := LoadJobConfig(strings.NewReader(yaml))

	require.NoError(t, err)
	assert.Equal(t, defaultWorkers, config.Workers)
}

func TestLoadJobConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"zero radius":    "radius: 0\nbands: [B04]\ncollection: c\nstart_date: \"2023-06-01\"\nend_date: \"2023-06-30\"\n",
		"no bands":       "radius: 10\nbands: []\ncollection: c\nstart_date: \"2023-06-01\"\nend_date: \"2023-06-30\"\n",
		"no collection":  "radius: 10\nbands: [B04]\nstart_date: \"2023-06-01\"\nend_date: \"2023-06-30\"\n",
		"bad date":       "radius: 10\nbands: [B04]\ncollection: c\nstart_date: \"June 1st\"\nend_date: \"2023-06-30\"\n",
		"unknown field":  "radius: 10\nbands: [B04]\ncollection: c\nstart_date: \"2023-06-01\"\nend_date: \"2023-06-30\"\nradiu: 5\n",
		"malformed yaml": "radius: [nope",
	}
	for name, yaml := range cases {
		_, err := LoadJobConfig(strings.NewReader(yaml))
		assert.NotNil(t, err, "expected %s to fail validation", name)
	}
}

func TestJobConfigQuerySpec(t *testing.T) {
	config, err := LoadJobConfig(strings.NewReader(sampleJobYAML))
	require.NoError(t, err)

	spec := config.QuerySpec()

	assert.Equal(t, "2023-06-01/2023-06-30", spec.Datetime())
	assert.Contains(t, spec.Query, "eo:cloud_cover")

	platform, ok := spec.Query["platform"]
	require.True(t, ok, "platform allow-list should become a query filter")
	assert.Equal(t, []interface{}{"sentinel-2a", "sentinel-2b"}, platform["in"])
}

func TestJobConfigQuerySpec_ExplicitPlatformQueryWins(t *testing.T) {
	yaml := `
radius: 100
bands: [B04]
collection: sentinel-2-l2a
start_date: "2023-06-01"
end_date: "2023-06-30"
platforms: [sentinel-2a]
query:
  platform:
    eq: landsat-9
`
	config, err := LoadJobConfig(strings.NewReader(yaml))
	require.NoError(t, err)

	spec := config.QuerySpec()
	assert.Equal(t, "landsat-9", spec.Query["platform"]["eq"])
}
