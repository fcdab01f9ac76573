package raster

import (
	"fmt"
)

// DownloadFailedError reports a failure to retrieve or read a remote band
// asset. These are transient: the caller's retry policy may re-run the
// whole per-point pipeline, which is idempotent by construction.
type DownloadFailedError struct {
	URL string
	Err error
}

func (e DownloadFailedError) Error() string {
	return fmt.Sprintf("failed to retrieve band asset %s: %v", e.URL, e.Err)
}

func (e DownloadFailedError) Unwrap() error {
	return e.Err
}

// WindowOutOfBoundsError reports a crop window that falls entirely outside
// the asset's coverage
type WindowOutOfBoundsError struct {
	BandKey string
	URL     string
}

func (e WindowOutOfBoundsError) Error() string {
	return fmt.Sprintf("requested window falls entirely outside the coverage of band %q asset %s", e.BandKey, e.URL)
}

// BandCountMismatchError reports a composite request with no input bands
type BandCountMismatchError struct{}

func (e BandCountMismatchError) Error() string {
	return "cannot compose a multi-band raster from zero band files"
}

// ExtentMismatchError reports composite inputs that do not share a spatial
// extent and resolution
type ExtentMismatchError struct {
	Path   string
	Detail string
}

func (e ExtentMismatchError) Error() string {
	return fmt.Sprintf("band file %s does not match the extent of the first band: %s", e.Path, e.Detail)
}
