package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venicegeo/bf-imagery-clip/model"
	"github.com/venicegeo/bf-imagery-clip/raster"
	"github.com/venicegeo/bf-imagery-clip/stac"
	"github.com/venicegeo/bf-imagery-clip/util"
)

var testSpec = model.QuerySpec{
	Radius:     100,
	BandKeys:   []string{"B04", "B03", "B02"},
	Collection: "sentinel-2-l2a",
	StartDate:  "2023-06-01",
	EndDate:    "2023-06-30",
}

var lakeview = model.PointOfInterest{Name: "Lakeview", Lat: 47.6, Lon: -122.3}
var mesa = model.PointOfInterest{Name: "Mesa", Lat: 33.4, Lon: -111.8}

type fakeResolver struct {
	mutex   sync.Mutex
	calls   []string
	failFor map[string]error
}

func (r *fakeResolver) ResolveScene(point model.PointOfInterest, spec model.QuerySpec) (*model.Scene, error) {
	r.mutex.Lock()
	r.calls = append(r.calls, point.Name)
	r.mutex.Unlock()
	if err, ok := r.failFor[point.Name]; ok {
		return nil, err
	}
	bands := map[string]string{}
	for _, bandKey := range spec.BandKeys {
		bands[bandKey] = fmt.Sprintf("https://assets.localdomain/scene-%s/%s.tif", point.Name, bandKey)
	}
	return &model.Scene{ID: "scene-" + point.Name, Bands: bands}, nil
}

type fakeFetcher struct {
	failBand string
}

func (f fakeFetcher) FetchBand(scene *model.Scene, bandKey string, point model.PointOfInterest, radius float64, destPath string) (*model.BandAsset, error) {
	if bandKey == f.failBand {
		return nil, raster.DownloadFailedError{URL: scene.Bands[bandKey], Err: fmt.Errorf("connection reset")}
	}
	if err := os.WriteFile(destPath, []byte(bandKey), 0644); err != nil {
		return nil, err
	}
	return &model.BandAsset{Point: point, BandKey: bandKey, Radius: radius, Path: destPath}, nil
}

type fakeCompositor struct {
	mutex    sync.Mutex
	received [][]string
}

func (c *fakeCompositor) Compose(bandPaths []string, destPath string) error {
	c.mutex.Lock()
	c.received = append(c.received, append([]string{}, bandPaths...))
	c.mutex.Unlock()
	return os.WriteFile(destPath, []byte("composite"), 0644)
}

type fakeLedger struct {
	mutex   sync.Mutex
	records []model.CompositeArtifact
}

func (l *fakeLedger) RecordComposite(artifact model.CompositeArtifact) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.records = append(l.records, artifact)
	return nil
}

func testDriver(t *testing.T) (*Driver, *fakeResolver, *fakeCompositor) {
	t.Helper()
	resolver := &fakeResolver{failFor: map[string]error{}}
	compositor := &fakeCompositor{}
	return &Driver{
		Resolver:   resolver,
		Fetcher:    fakeFetcher{},
		Compositor: compositor,
		WorkDir:    t.TempDir(),
		OutputDir:  t.TempDir(),
		LogContext: &util.BasicLogContext{},
	}, resolver, compositor
}

func TestRunAll(t *testing.T) {
	driver, _, _ := testDriver(t)

	outcomes := driver.RunAll([]model.PointOfInterest{lakeview, mesa}, testSpec, 2)

	require.Len(t, outcomes, 2)
	for i, point := range []model.PointOfInterest{lakeview, mesa} {
		assert.Equal(t, point, outcomes[i].Point, "outcomes must keep input order")
		assert.Nil(t, outcomes[i].Err)
		require.NotNil(t, outcomes[i].Artifact)
		assert.FileExists(t, outcomes[i].Artifact.Path)
	}
	assert.Equal(t,
		filepath.Join(driver.OutputDir, "Lakeview_47.6_-122.3_100.0m.tif"),
		outcomes[0].Artifact.Path)
	assert.Equal(t, "scene-Lakeview", outcomes[0].Artifact.SceneID)
}

func TestRunAll_BandOrderThreadedThrough(t *testing.T) {
	driver, _, compositor := testDriver(t)

	driver.RunAll([]model.PointOfInterest{lakeview}, testSpec, 1)

	require.Len(t, compositor.received, 1)
	expected := []string{}
	for _, bandKey := range testSpec.BandKeys {
		expected = append(expected, filepath.Join(driver.WorkDir, model.BandFileName(lakeview, testSpec.Radius, bandKey)))
	}
	assert.Equal(t, expected, compositor.received[0], "composite inputs must follow the declared band-key order")
}

func TestRunAll_FailureIsolation(t *testing.T) {
	driver, resolver, _ := testDriver(t)
	resolver.failFor["Lakeview"] = stac.NoMatchingSceneError{Collection: testSpec.Collection, Datetime: testSpec.Datetime()}

	outcomes := driver.RunAll([]model.PointOfInterest{lakeview, mesa}, testSpec, 2)

	assert.NotNil(t, outcomes[0].Err)
	assert.Equal(t, "NoMatchingScene", ErrorKind(outcomes[0].Err))
	assert.Nil(t, outcomes[0].Artifact)

	// the sibling point still completes
	assert.Nil(t, outcomes[1].Err)
	require.NotNil(t, outcomes[1].Artifact)
	assert.FileExists(t, outcomes[1].Artifact.Path)
}

func TestRunAll_FetchFailureAbortsCompose(t *testing.T) {
	driver, _, compositor := testDriver(t)
	driver.Fetcher = fakeFetcher{failBand: "B03"}

	outcomes := driver.RunAll([]model.PointOfInterest{lakeview}, testSpec, 1)

	assert.Equal(t, "DownloadFailed", ErrorKind(outcomes[0].Err))
	assert.True(t, Retryable(outcomes[0].Err))
	assert.Empty(t, compositor.received, "compose must not run after a band fetch failure")
	assert.NoFileExists(t, filepath.Join(driver.OutputDir, model.CompositeFileName(lakeview, testSpec.Radius)))
}

func TestRunAll_SkipExistingArtifact(t *testing.T) {
	driver, resolver, _ := testDriver(t)
	existing := filepath.Join(driver.OutputDir, model.CompositeFileName(lakeview, testSpec.Radius))
	require.NoError(t, os.WriteFile(existing, []byte("previous run"), 0644))

	outcomes := driver.RunAll([]model.PointOfInterest{lakeview}, testSpec, 1)

	assert.True(t, outcomes[0].Skipped)
	assert.Empty(t, resolver.calls, "a skipped point must not query the catalog")
	assert.Empty(t, outcomes[0].Artifact.SceneID, "a skipped outcome carries no scene identity")
}

func TestRunAll_SkipDoesNotTouchLedger(t *testing.T) {
	driver, _, _ := testDriver(t)
	ledger := &fakeLedger{}
	driver.Ledger = ledger
	existing := filepath.Join(driver.OutputDir, model.CompositeFileName(lakeview, testSpec.Radius))
	require.NoError(t, os.WriteFile(existing, []byte("previous run"), 0644))

	driver.RunAll([]model.PointOfInterest{lakeview}, testSpec, 1)

	assert.Empty(t, ledger.records)
}

func TestRunAll_ForceReruns(t *testing.T) {
	driver, resolver, _ := testDriver(t)
	driver.Force = true
	existing := filepath.Join(driver.OutputDir, model.CompositeFileName(lakeview, testSpec.Radius))
	require.NoError(t, os.WriteFile(existing, []byte("previous run"), 0644))

	outcomes := driver.RunAll([]model.PointOfInterest{lakeview}, testSpec, 1)

	assert.False(t, outcomes[0].Skipped)
	assert.Equal(t, []string{"Lakeview"}, resolver.calls)
}

func TestRunAll_RecordsLedger(t *testing.T) {
	driver, _, _ := testDriver(t)
	ledger := &fakeLedger{}
	driver.Ledger = ledger

	driver.RunAll([]model.PointOfInterest{lakeview, mesa}, testSpec, 2)

	assert.Len(t, ledger.records, 2)
}

func TestRunAll_ManyPointsFewWorkers(t *testing.T) {
	driver, _, _ := testDriver(t)
	points := []model.PointOfInterest{}
	for i := 0; i < 9; i++ {
		points = append(points, model.PointOfInterest{Name: fmt.Sprintf("P%d", i), Lat: float64(i), Lon: float64(i)})
	}

	outcomes := driver.RunAll(points, testSpec, 2)

	require.Len(t, outcomes, 9)
	for _, outcome := range outcomes {
		assert.Nil(t, outcome.Err)
	}
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "", ErrorKind(nil))
	assert.Equal(t, "NoMatchingScene", ErrorKind(stac.NoMatchingSceneError{}))
	assert.Equal(t, "AssetMissing", ErrorKind(stac.AssetMissingError{}))
	assert.Equal(t, "DownloadFailed", ErrorKind(raster.DownloadFailedError{}))
	assert.Equal(t, "WindowOutOfBounds", ErrorKind(raster.WindowOutOfBoundsError{}))
	assert.Equal(t, "BandCountMismatch", ErrorKind(raster.BandCountMismatchError{}))
	assert.Equal(t, "ExtentMismatch", ErrorKind(raster.ExtentMismatchError{}))
	assert.Equal(t, "Internal", ErrorKind(fmt.Errorf("boom")))
	assert.False(t, Retryable(stac.NoMatchingSceneError{}))
}
