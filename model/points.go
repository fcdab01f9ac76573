package model

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// PointOfInterest is a named geographic coordinate around which imagery is
// retrieved. Instances are immutable once loaded.
type PointOfInterest struct {
	Name string
	Lat  float64
	Lon  float64
}

// Validate checks the point for a usable name and in-range coordinates
func (p PointOfInterest) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("point of interest has an empty name")
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("point %q: latitude %v out of range [-90,90]", p.Name, p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("point %q: longitude %v out of range [-180,180]", p.Name, p.Lon)
	}
	return nil
}

// looksLikeHeader reports whether a first row names the expected columns.
// Only such rows are skipped; a first data row with bad coordinates is an
// error, not a header.
func looksLikeHeader(record []string) bool {
	lat := strings.ToLower(strings.TrimSpace(record[1]))
	lon := strings.ToLower(strings.TrimSpace(record[2]))
	return (lat == "lat" || lat == "latitude") && (lon == "lon" || lon == "longitude")
}

// LoadPoints reads a CSV point list with columns name,lat,lon. A header row
// is recognized and skipped. Names must be unique since they key artifacts.
func LoadPoints(source io.Reader) ([]PointOfInterest, error) {
	reader := csv.NewReader(source)
	reader.ReuseRecord = true
	reader.TrimLeadingSpace = true

	points := []PointOfInterest{}
	seen := map[string]bool{}
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(record) < 3 {
			return nil, fmt.Errorf("line %d: expected 3 columns (name,lat,lon), got %d", line, len(record))
		}

		if line == 1 && looksLikeHeader(record) {
			continue
		}

		lat, latErr := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if latErr != nil || lonErr != nil {
			return nil, fmt.Errorf("line %d: could not parse coordinates %q,%q", line, record[1], record[2])
		}

		point := PointOfInterest{Name: strings.TrimSpace(record[0]), Lat: lat, Lon: lon}
		if err = point.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if seen[point.Name] {
			return nil, fmt.Errorf("line %d: duplicate point name %q", line, point.Name)
		}
		seen[point.Name] = true
		points = append(points, point)
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("point list contains no points")
	}
	return points, nil
}
