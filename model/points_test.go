package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadPoints(t *testing.T) {
	source := strings.NewReader("name,lat,lon\nLakeview,47.6,-122.3\nMesa,33.4,-111.8\n")

	points, err := LoadPoints(source)

	assert.Nil(t, err)
	assert.Len(t, points, 2)
	assert.Equal(t, PointOfInterest{Name: "Lakeview", Lat: 47.6, Lon: -122.3}, points[0])
	assert.Equal(t, "Mesa", points[1].Name)
}

func TestLoadPoints_NoHeader(t *testing.T) {
	points, err := LoadPoints(strings.NewReader("Lakeview,47.6,-122.3\n"))

	assert.Nil(t, err)
	assert.Len(t, points, 1)
	assert.Equal(t, "Lakeview", points[0].Name)
}

func TestLoadPoints_DuplicateName(t *testing.T) {
	source := strings.NewReader("Lakeview,47.6,-122.3\nLakeview,33.4,-111.8\n")

	_, err := LoadPoints(source)

	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoadPoints_OutOfRange(t *testing.T) {
	_, latErr := LoadPoints(strings.NewReader("Bad,97.6,-122.3\n"))
	_, lonErr := LoadPoints(strings.NewReader("Bad,47.6,-190.0\n"))

	assert.NotNil(t, latErr)
	assert.NotNil(t, lonErr)
}

func TestLoadPoints_Empty(t *testing.T) {
	_, err := LoadPoints(strings.NewReader("name,lat,lon\n"))
	assert.NotNil(t, err)
}

func TestLoadPoints_MalformedFirstDataRow(t *testing.T) {
	_, err := LoadPoints(strings.NewReader("Lakeview,abc,def\nMesa,33.4,-111.8\n"))

	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "could not parse coordinates")
}

func TestLoadPoints_HeaderVariants(t *testing.T) {
	points, err := LoadPoints(strings.NewReader("site,latitude,longitude\nLakeview,47.6,-122.3\n"))

	assert.Nil(t, err)
	assert.Len(t, points, 1)
}

func TestLoadPoints_BadRow(t *testing.T) {
	_, err := LoadPoints(strings.NewReader("Lakeview,47.6,-122.3\nMesa,not-a-number,-111.8\n"))
	assert.NotNil(t, err)
}
