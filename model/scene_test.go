package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/venicegeo/geojson-go/geojson"
)

func sampleScene() Scene {
	return Scene{
		ID:           "S2B_MSIL2A_20230612T190919_R056_T10TET_20230613T120000",
		Collection:   "sentinel-2-l2a",
		Geometry:     geojson.NewPolygon([][][]float64{{{-122.4, 47.5}, {-122.4, 47.7}, {-122.2, 47.7}, {-122.2, 47.5}, {-122.4, 47.5}}}),
		CloudCover:   2.5,
		AcquiredDate: time.Date(2023, 6, 12, 19, 9, 19, 0, time.UTC),
		Platform:     "sentinel-2b",
		FileFormat:   GeoTIFF,
		Bands: map[string]string{
			"B04": "https://example.localdomain/t10tet/B04.tif",
			"B03": "https://example.localdomain/t10tet/B03.tif",
		},
	}
}

func TestSceneAssetURL(t *testing.T) {
	scene := sampleScene()

	href, ok := scene.AssetURL("B04")
	assert.True(t, ok)
	assert.Equal(t, "https://example.localdomain/t10tet/B04.tif", href)

	_, ok = scene.AssetURL("B99")
	assert.False(t, ok)
}

func TestSceneGeoJSONFeature(t *testing.T) {
	feature, err := sampleScene().GeoJSONFeature()

	assert.Nil(t, err)
	assert.Equal(t, "sentinel-2-l2a", feature.Properties["collection"])
	assert.Equal(t, 2.5, feature.Properties["cloudCover"])
	assert.Equal(t, "sentinel-2b", feature.Properties["platform"])
	assert.NotEmpty(t, feature.Bbox)
}

func TestSceneCollectionGeoJSON(t *testing.T) {
	collection := SceneCollection{Scenes: []Scene{sampleScene(), sampleScene()}}

	fc, err := collection.GeoJSONFeatureCollection()

	assert.Nil(t, err)
	assert.Len(t, fc.Features, 2)
}

func TestParseStacTime(t *testing.T) {
	for _, input := range []string{
		"2023-06-12T19:09:19.024000Z",
		"2023-06-12T19:09:19Z",
		"2023-06-12T19:09:19",
		"2023-06-12",
	} {
		parsed, err := ParseStacTime(input)
		assert.Nil(t, err, "failed to parse %s", input)
		assert.Equal(t, 2023, parsed.Year())
	}
}

func TestParseStacTime_Invalid(t *testing.T) {
	_, err := ParseStacTime("not-a-time")
	assert.NotNil(t, err)
}
