package stac

import (
	"fmt"
)

// NoMatchingSceneError reports a catalog search that returned zero usable
// scenes; the pipeline must fail loudly instead of emitting an empty artifact
type NoMatchingSceneError struct {
	Collection string
	Datetime   string
}

func (e NoMatchingSceneError) Error() string {
	return fmt.Sprintf("no scene in collection %q matches the query window %s", e.Collection, e.Datetime)
}

// AssetMissingError reports that the selected scene lacks one of the
// requested band keys
type AssetMissingError struct {
	SceneID string
	BandKey string
}

func (e AssetMissingError) Error() string {
	return fmt.Sprintf("scene %q has no asset for band key %q", e.SceneID, e.BandKey)
}
