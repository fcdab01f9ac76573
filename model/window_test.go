package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowAround(t *testing.T) {
	window := WindowAround(lakeview, 100)

	assert.InDelta(t, 47.6, (window.MinLat+window.MaxLat)/2, 1e-9, "window not centered on latitude")
	assert.InDelta(t, -122.3, (window.MinLon+window.MaxLon)/2, 1e-9, "window not centered on longitude")

	// 100m at 47.6N spans about 0.0009 degrees of latitude
	assert.InDelta(t, 2*100/111320.0, window.MaxLat-window.MinLat, 1e-9)
	// longitude degrees are wider than latitude degrees off the equator
	assert.Greater(t, window.MaxLon-window.MinLon, window.MaxLat-window.MinLat)
}

func TestWindowAround_ClampsAtPole(t *testing.T) {
	window := WindowAround(PointOfInterest{Name: "North", Lat: 89.9999, Lon: 0}, 50000)
	assert.LessOrEqual(t, window.MaxLat, 90.0)
	assert.GreaterOrEqual(t, window.MinLon, -180.0)
	assert.LessOrEqual(t, window.MaxLon, 180.0)
}

func TestWindowIntersect(t *testing.T) {
	a := Window{MinLon: 0, MinLat: 0, MaxLon: 10, MaxLat: 10}
	b := Window{MinLon: 5, MinLat: 5, MaxLon: 15, MaxLat: 15}

	overlap, ok := a.Intersect(b)
	assert.True(t, ok)
	assert.Equal(t, Window{MinLon: 5, MinLat: 5, MaxLon: 10, MaxLat: 10}, overlap)
}

func TestWindowIntersect_Disjoint(t *testing.T) {
	a := Window{MinLon: 0, MinLat: 0, MaxLon: 10, MaxLat: 10}
	b := Window{MinLon: 20, MinLat: 20, MaxLon: 30, MaxLat: 30}

	_, ok := a.Intersect(b)
	assert.False(t, ok)
}

func TestWindowBoundingBox(t *testing.T) {
	window := Window{MinLon: -122.4, MinLat: 47.5, MaxLon: -122.2, MaxLat: 47.7}
	bbox := window.BoundingBox()
	assert.Equal(t, []float64{-122.4, 47.5, -122.2, 47.7}, []float64(bbox))
}
