// Copyright 2018, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package raster

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/airbusgeo/godal"
	"github.com/venicegeo/bf-imagery-clip/model"
	"github.com/venicegeo/bf-imagery-clip/util"
)

var registerOnce sync.Once

// Register initializes the GDAL driver registry. Safe to call more than
// once; every entry point into this package calls it.
func Register() {
	registerOnce.Do(godal.RegisterAll)
}

// sourcePath maps an asset locator to a GDAL-openable path; remote HTTP(S)
// assets are streamed through the vsicurl virtual filesystem
func sourcePath(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return "/vsicurl/" + href
	}
	return href
}

func formatDegree(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// FetchBand retrieves one band asset of a scene, windows it to the crop
// radius around the point, and writes a single-band raster to destPath. The
// asset keeps its native pixel values and coordinate reference system; only
// the window is cut. A window partially beyond the asset's coverage is
// clipped to the available extent and flagged on the returned BandAsset; a
// window entirely outside it is an error.
func FetchBand(context util.LogContext, scene *model.Scene, bandKey string, point model.PointOfInterest, radius float64, destPath string) (*model.BandAsset, error) {
	Register()

	href, ok := scene.AssetURL(bandKey)
	if !ok {
		return nil, fmt.Errorf("scene %q carries no asset for band key %q", scene.ID, bandKey)
	}

	dataset, err := godal.Open(sourcePath(href))
	if err != nil {
		return nil, DownloadFailedError{URL: href, Err: err}
	}
	defer dataset.Close()

	coverage, err := geographicBounds(dataset)
	if err != nil {
		return nil, DownloadFailedError{URL: href, Err: err}
	}

	window := model.WindowAround(point, radius)
	overlap, ok := window.Intersect(coverage)
	if !ok {
		return nil, WindowOutOfBoundsError{BandKey: bandKey, URL: href}
	}
	clipped := !overlap.Equals(window)
	if clipped {
		util.LogAlert(context, fmt.Sprintf(
			"Crop window for point %v band %v exceeds asset coverage; output clipped to the available extent", point.Name, bandKey))
	}

	// gdal_translate window semantics: upper-left x/y then lower-right x/y
	switches := []string{
		"-projwin",
		formatDegree(overlap.MinLon), formatDegree(overlap.MaxLat),
		formatDegree(overlap.MaxLon), formatDegree(overlap.MinLat),
		"-projwin_srs", "EPSG:4326",
		"-of", "GTiff",
	}
	output, err := dataset.Translate(destPath, switches)
	if err != nil {
		return nil, DownloadFailedError{URL: href, Err: err}
	}
	output.Close()

	return &model.BandAsset{
		Point:   point,
		BandKey: bandKey,
		Radius:  radius,
		Path:    destPath,
		Clipped: clipped,
	}, nil
}

// geographicBounds returns the asset's coverage window in EPSG:4326
func geographicBounds(dataset *godal.Dataset) (model.Window, error) {
	wgs84, err := godal.NewSpatialRefFromEPSG(4326)
	if err != nil {
		return model.Window{}, err
	}
	defer wgs84.Close()

	bounds, err := dataset.Bounds(godal.BoundsSRS(wgs84))
	if err != nil {
		return model.Window{}, err
	}
	return model.Window{MinLon: bounds[0], MinLat: bounds[1], MaxLon: bounds[2], MaxLat: bounds[3]}, nil
}
