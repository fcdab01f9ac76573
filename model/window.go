package model

import (
	"math"

	"github.com/venicegeo/geojson-go/geojson"
)

// metersPerDegreeLat is the spherical-earth meridian arc length of one degree
const metersPerDegreeLat = 111320.0

// Window is a geographic (EPSG:4326) bounding window around a point of interest
type Window struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// WindowAround derives the square crop window of the given half-width in
// meters centered on the point, in geographic coordinates. Longitude spacing
// shrinks with the cosine of the latitude; the window is clamped to the
// valid coordinate ranges near the poles and the antimeridian.
func WindowAround(point PointOfInterest, radiusMeters float64) Window {
	dLat := radiusMeters / metersPerDegreeLat
	cosLat := math.Cos(point.Lat * math.Pi / 180)
	if cosLat < 1e-6 {
		cosLat = 1e-6
	}
	dLon := radiusMeters / (metersPerDegreeLat * cosLat)

	return Window{
		MinLon: math.Max(point.Lon-dLon, -180),
		MinLat: math.Max(point.Lat-dLat, -90),
		MaxLon: math.Min(point.Lon+dLon, 180),
		MaxLat: math.Min(point.Lat+dLat, 90),
	}
}

// BoundingBox renders the window as a geojson bounding box for catalog queries
func (w Window) BoundingBox() geojson.BoundingBox {
	return geojson.BoundingBox{w.MinLon, w.MinLat, w.MaxLon, w.MaxLat}
}

// Intersect clips the window to another window, returning the overlap and
// whether any overlap exists
func (w Window) Intersect(other Window) (Window, bool) {
	overlap := Window{
		MinLon: math.Max(w.MinLon, other.MinLon),
		MinLat: math.Max(w.MinLat, other.MinLat),
		MaxLon: math.Min(w.MaxLon, other.MaxLon),
		MaxLat: math.Min(w.MaxLat, other.MaxLat),
	}
	if overlap.MinLon >= overlap.MaxLon || overlap.MinLat >= overlap.MaxLat {
		return Window{}, false
	}
	return overlap, true
}

// Equals reports coordinate-wise equality within a small tolerance
func (w Window) Equals(other Window) bool {
	const eps = 1e-9
	return math.Abs(w.MinLon-other.MinLon) < eps &&
		math.Abs(w.MinLat-other.MinLat) < eps &&
		math.Abs(w.MaxLon-other.MaxLon) < eps &&
		math.Abs(w.MaxLat-other.MaxLat) < eps
}
