package raster

import (
	"fmt"
	"math"
	"os"

	"github.com/airbusgeo/godal"
	"github.com/venicegeo/bf-imagery-clip/util"
)

const boundsTolerance = 1e-9

// Compose stacks the ordered single-band raster files into one multi-band
// raster at destPath. Output band N carries input file N's single band. With
// exactly three bands the result is tagged with red/green/blue color
// interpretation in input order; any other band count stays generic.
func Compose(context util.LogContext, bandPaths []string, destPath string) error {
	Register()

	if len(bandPaths) == 0 {
		return BandCountMismatchError{}
	}
	if err := verifySharedExtent(bandPaths); err != nil {
		return err
	}

	vrtPath := destPath + ".vrt"
	stack, err := godal.BuildVRT(vrtPath, bandPaths, []string{"-separate"})
	if err != nil {
		return fmt.Errorf("failed to build band stack for %s: %w", destPath, err)
	}
	defer os.Remove(vrtPath)

	output, err := stack.Translate(destPath, []string{"-of", "GTiff"})
	stack.Close()
	if err != nil {
		return fmt.Errorf("failed to write composite %s: %w", destPath, err)
	}
	defer output.Close()

	if len(bandPaths) == 3 {
		for i, interp := range []godal.ColorInterp{godal.CIRed, godal.CIGreen, godal.CIBlue} {
			if err = output.Bands()[i].SetColorInterp(interp); err != nil {
				return fmt.Errorf("failed to tag color interpretation on %s: %w", destPath, err)
			}
		}
	}

	util.LogInfo(context, fmt.Sprintf("Composed %d bands into %s", len(bandPaths), destPath))
	return nil
}

// verifySharedExtent confirms every band file shares the first file's
// georeferenced bounds and pixel dimensions
func verifySharedExtent(bandPaths []string) error {
	var (
		refBounds [4]float64
		refSizeX  int
		refSizeY  int
	)

	for i, path := range bandPaths {
		dataset, err := godal.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open band file %s: %w", path, err)
		}
		bounds, err := dataset.Bounds()
		if err != nil {
			dataset.Close()
			return fmt.Errorf("failed to read bounds of band file %s: %w", path, err)
		}
		structure := dataset.Structure()
		dataset.Close()

		if i == 0 {
			refBounds = bounds
			refSizeX = structure.SizeX
			refSizeY = structure.SizeY
			continue
		}
		if structure.SizeX != refSizeX || structure.SizeY != refSizeY {
			return ExtentMismatchError{Path: path,
				Detail: fmt.Sprintf("size %dx%d != %dx%d", structure.SizeX, structure.SizeY, refSizeX, refSizeY)}
		}
		for j := range bounds {
			if math.Abs(bounds[j]-refBounds[j]) > boundsTolerance {
				return ExtentMismatchError{Path: path,
					Detail: fmt.Sprintf("bounds %v != %v", bounds, refBounds)}
			}
		}
	}
	return nil
}
