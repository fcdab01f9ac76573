package model

import (
	"time"

	"github.com/venicegeo/geojson-go/geojson"
)

// SceneFileFormat is an enum type for recognized scene raster encodings
type SceneFileFormat string

// GeoTIFF corresponds to .TIF files with geospatial info
const GeoTIFF SceneFileFormat = "geotiff"

// JPEG2000 corresponds to .JP2 files
const JPEG2000 SceneFileFormat = "jpeg2000"

// Scene is one satellite observation selected from the catalog, carrying a
// resolvable asset locator for each of its spectral bands
type Scene struct {
	ID           string
	Collection   string
	Geometry     interface{}
	CloudCover   float64
	AcquiredDate time.Time
	Platform     string
	FileFormat   SceneFileFormat
	// Bands maps a band key (e.g. "B04") to the asset's locator URL
	Bands map[string]string
}

// AssetURL returns the locator for one band key of the scene
func (s Scene) AssetURL(bandKey string) (string, bool) {
	href, ok := s.Bands[bandKey]
	return href, ok
}

// GeoJSONFeature renders the scene as a GeoJSON feature for the discover endpoint
func (s Scene) GeoJSONFeature() (*geojson.Feature, error) {
	feature := geojson.NewFeature(s.Geometry, s.ID, map[string]interface{}{
		"collection":   s.Collection,
		"cloudCover":   s.CloudCover,
		"acquiredDate": s.AcquiredDate.Format(StandardTimeLayout),
		"platform":     s.Platform,
		"fileFormat":   string(s.FileFormat),
		"bands":        s.Bands,
	})
	feature.Bbox = feature.ForceBbox()
	return feature, nil
}

// GeoJSONFeatureCreator is an interface for data that can convert itself to a GeoJSON feature
type GeoJSONFeatureCreator interface {
	GeoJSONFeature() (*geojson.Feature, error)
}

// SceneCollection bundles multiple scenes, e.g. as results from a search endpoint
type SceneCollection struct {
	Scenes []Scene
}

// GeoJSONFeatureCollection renders all member scenes as a GeoJSON feature collection
func (sc SceneCollection) GeoJSONFeatureCollection() (*geojson.FeatureCollection, error) {
	var err error
	features := make([]*geojson.Feature, len(sc.Scenes))
	for i, scene := range sc.Scenes {
		features[i], err = scene.GeoJSONFeature()
		if err != nil {
			return nil, err
		}
	}
	return geojson.NewFeatureCollection(features), nil
}
