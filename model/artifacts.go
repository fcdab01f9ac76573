package model

import (
	"fmt"
	"strconv"
	"strings"
)

// QuerySpec is the process-wide, read-only configuration shared by every
// point's pipeline run
type QuerySpec struct {
	Radius     float64
	BandKeys   []string
	Collection string
	StartDate  string
	EndDate    string
	// Query holds raw STAC query-extension filters, field -> operator -> value
	Query map[string]map[string]interface{}
}

// Datetime renders the temporal window in the catalog's interval syntax
func (s QuerySpec) Datetime() string {
	return s.StartDate + "/" + s.EndDate
}

// BandAsset is one cropped single-band raster produced for a (point, band) pair
type BandAsset struct {
	Point   PointOfInterest
	BandKey string
	Radius  float64
	Path    string
	// Clipped reports that the requested window exceeded the asset's
	// coverage and the output extent is smaller than 2*radius
	Clipped bool
}

// CompositeArtifact is the final multi-band raster for one point of interest
type CompositeArtifact struct {
	Point    PointOfInterest
	Radius   float64
	BandKeys []string
	SceneID  string
	Path     string
}

// formatCoordinate renders a float the way the artifact naming scheme
// requires: shortest representation, but integral values keep a trailing
// ".0" (so a 100m radius names files "..._100.0m.tif")
func formatCoordinate(value float64) string {
	formatted := strconv.FormatFloat(value, 'f', -1, 64)
	if !strings.Contains(formatted, ".") {
		formatted += ".0"
	}
	return formatted
}

// ArtifactPrefix is the shared deterministic name stem for every file
// belonging to a (point, radius) pair
func ArtifactPrefix(point PointOfInterest, radius float64) string {
	return fmt.Sprintf("%s_%s_%s_%sm",
		point.Name, formatCoordinate(point.Lat), formatCoordinate(point.Lon), formatCoordinate(radius))
}

// BandFileName is the deterministic intermediate file name for a (point, band) pair
func BandFileName(point PointOfInterest, radius float64, bandKey string) string {
	return ArtifactPrefix(point, radius) + "_" + bandKey + ".tif"
}

// CompositeFileName is the deterministic final artifact name for a point
func CompositeFileName(point PointOfInterest, radius float64) string {
	return ArtifactPrefix(point, radius) + ".tif"
}
