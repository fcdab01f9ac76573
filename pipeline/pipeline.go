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

package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/venicegeo/bf-imagery-clip/model"
	"github.com/venicegeo/bf-imagery-clip/raster"
	"github.com/venicegeo/bf-imagery-clip/stac"
	"github.com/venicegeo/bf-imagery-clip/util"
)

// SceneResolver selects the single best-matching scene for a point
type SceneResolver interface {
	ResolveScene(point model.PointOfInterest, spec model.QuerySpec) (*model.Scene, error)
}

// BandFetcher windows one band asset of a scene to a local single-band raster
type BandFetcher interface {
	FetchBand(scene *model.Scene, bandKey string, point model.PointOfInterest, radius float64, destPath string) (*model.BandAsset, error)
}

// Compositor stacks ordered single-band rasters into one multi-band raster
type Compositor interface {
	Compose(bandPaths []string, destPath string) error
}

// RunLedger records completed composites; implementations may be backed by
// a database and are optional
type RunLedger interface {
	RecordComposite(artifact model.CompositeArtifact) error
}

// Outcome is the per-point result of a pipeline run. A skipped outcome
// points at the pre-existing artifact without resolving a scene, so its
// Artifact carries no SceneID and is never re-recorded in the ledger.
type Outcome struct {
	Point    model.PointOfInterest
	Artifact *model.CompositeArtifact
	Err      error
	Skipped  bool
}

// Driver sequences resolve, fetch, and compose for each point of interest.
// Points run independently; a failure on one never aborts its siblings.
type Driver struct {
	Resolver   SceneResolver
	Fetcher    BandFetcher
	Compositor Compositor
	Ledger     RunLedger
	WorkDir    string
	OutputDir  string
	Force      bool
	LogContext util.LogContext
}

// NewDriver wires the production resolver, fetcher, and compositor
func NewDriver(context *stac.Context, workDir, outputDir string) *Driver {
	return &Driver{
		Resolver:   stacResolver{context: context},
		Fetcher:    godalFetcher{logContext: context},
		Compositor: godalCompositor{logContext: context},
		WorkDir:    workDir,
		OutputDir:  outputDir,
		LogContext: context,
	}
}

// RunAll drives every point through the pipeline on a bounded worker pool
// and returns one outcome per point, in input order
func (d *Driver) RunAll(points []model.PointOfInterest, spec model.QuerySpec, workers int) []Outcome {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > len(points) {
		workers = len(points)
	}

	outcomes := make([]Outcome, len(points))
	indexes := make(chan int)
	var waitGroup sync.WaitGroup

	for worker := 0; worker < workers; worker++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			for i := range indexes {
				outcomes[i] = d.runPoint(points[i], spec)
			}
		}()
	}
	for i := range points {
		indexes <- i
	}
	close(indexes)
	waitGroup.Wait()

	return outcomes
}

// runPoint executes resolve -> fetch all bands -> compose for one point.
// Band fetches run concurrently; the composite waits for all of them. The
// composite is written to a scratch name and renamed so a failed run never
// publishes a partial artifact.
func (d *Driver) runPoint(point model.PointOfInterest, spec model.QuerySpec) Outcome {
	outcome := Outcome{Point: point}
	outputPath := filepath.Join(d.OutputDir, model.CompositeFileName(point, spec.Radius))

	if !d.Force {
		if _, err := os.Stat(outputPath); err == nil {
			util.LogInfo(d.LogContext, fmt.Sprintf("Artifact for point %v already exists at %v, skipping", point.Name, outputPath))
			outcome.Skipped = true
			// no scene was resolved; SceneID stays empty and the ledger
			// keeps whatever record the producing run wrote
			outcome.Artifact = &model.CompositeArtifact{
				Point: point, Radius: spec.Radius, BandKeys: spec.BandKeys, Path: outputPath,
			}
			return outcome
		}
	}

	scene, err := d.Resolver.ResolveScene(point, spec)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	assets, err := d.fetchAllBands(scene, point, spec)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	bandPaths := make([]string, len(assets))
	for i, asset := range assets {
		bandPaths[i] = asset.Path
	}

	scratchPath := outputPath + ".partial"
	if err = d.Compositor.Compose(bandPaths, scratchPath); err != nil {
		os.Remove(scratchPath)
		outcome.Err = err
		return outcome
	}
	if err = os.Rename(scratchPath, outputPath); err != nil {
		outcome.Err = err
		return outcome
	}

	outcome.Artifact = &model.CompositeArtifact{
		Point:    point,
		Radius:   spec.Radius,
		BandKeys: spec.BandKeys,
		SceneID:  scene.ID,
		Path:     outputPath,
	}

	if d.Ledger != nil {
		if err = d.Ledger.RecordComposite(*outcome.Artifact); err != nil {
			// the artifact is already published; a ledger miss is not fatal
			util.LogAlert(d.LogContext, fmt.Sprintf("Failed to record artifact for point %v in the ledger: %v", point.Name, err))
		}
	}
	return outcome
}

// fetchAllBands retrieves every requested band concurrently and joins before
// returning. Results keep the query's band-key order, which is the
// single source of truth for composite channel order.
func (d *Driver) fetchAllBands(scene *model.Scene, point model.PointOfInterest, spec model.QuerySpec) ([]*model.BandAsset, error) {
	assets := make([]*model.BandAsset, len(spec.BandKeys))
	fetchErrors := make([]error, len(spec.BandKeys))
	var waitGroup sync.WaitGroup

	for i, bandKey := range spec.BandKeys {
		waitGroup.Add(1)
		go func(i int, bandKey string) {
			defer waitGroup.Done()
			destPath := filepath.Join(d.WorkDir, model.BandFileName(point, spec.Radius, bandKey))
			assets[i], fetchErrors[i] = d.Fetcher.FetchBand(scene, bandKey, point, spec.Radius, destPath)
		}(i, bandKey)
	}
	waitGroup.Wait()

	for _, err := range fetchErrors {
		if err != nil {
			return nil, err
		}
	}
	return assets, nil
}

// ErrorKind classifies a pipeline error for run reporting
func ErrorKind(err error) string {
	var (
		noMatch      stac.NoMatchingSceneError
		assetMissing stac.AssetMissingError
		download     raster.DownloadFailedError
		outOfBounds  raster.WindowOutOfBoundsError
		bandCount    raster.BandCountMismatchError
		extent       raster.ExtentMismatchError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &noMatch):
		return "NoMatchingScene"
	case errors.As(err, &assetMissing):
		return "AssetMissing"
	case errors.As(err, &download):
		return "DownloadFailed"
	case errors.As(err, &outOfBounds):
		return "WindowOutOfBounds"
	case errors.As(err, &bandCount):
		return "BandCountMismatch"
	case errors.As(err, &extent):
		return "ExtentMismatch"
	default:
		return "Internal"
	}
}

// Retryable reports whether an error belongs to the one class a caller's
// retry policy may re-run; the pipeline itself never retries
func Retryable(err error) bool {
	return ErrorKind(err) == "DownloadFailed"
}

type stacResolver struct {
	context *stac.Context
}

func (r stacResolver) ResolveScene(point model.PointOfInterest, spec model.QuerySpec) (*model.Scene, error) {
	return stac.ResolveScene(point, spec, r.context)
}

type godalFetcher struct {
	logContext util.LogContext
}

func (f godalFetcher) FetchBand(scene *model.Scene, bandKey string, point model.PointOfInterest, radius float64, destPath string) (*model.BandAsset, error) {
	return raster.FetchBand(f.logContext, scene, bandKey, point, radius, destPath)
}

type godalCompositor struct {
	logContext util.LogContext
}

func (c godalCompositor) Compose(bandPaths []string, destPath string) error {
	return raster.Compose(c.logContext, bandPaths, destPath)
}
