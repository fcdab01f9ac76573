package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/venicegeo/bf-imagery-clip/ledger"
	"github.com/venicegeo/bf-imagery-clip/model"
	"github.com/venicegeo/bf-imagery-clip/pipeline"
	"github.com/venicegeo/bf-imagery-clip/stac"
	"github.com/venicegeo/bf-imagery-clip/util"
)

var runFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "points, p",
		Usage: "path to the CSV point list (name,lat,lon)",
		Value: "points.csv",
	},
	cli.StringFlag{
		Name:  "job, j",
		Usage: "path to the YAML job configuration",
		Value: "job.yaml",
	},
	cli.StringFlag{
		Name:  "work-dir",
		Usage: "directory for intermediate single-band rasters (defaults to IMAGERY_WORK_DIR)",
	},
	cli.StringFlag{
		Name:  "output-dir",
		Usage: "directory for final composite artifacts (defaults to IMAGERY_OUTPUT_DIR)",
	},
	cli.IntFlag{
		Name:  "workers, w",
		Usage: "override the job configuration's worker count",
	},
	cli.BoolFlag{
		Name:  "force, f",
		Usage: "rebuild artifacts that already exist",
	},
	cli.BoolFlag{
		Name:  "ledger",
		Usage: "record completed artifacts in the database",
	},
}

func runAction(c *cli.Context) error {
	logContext := &util.BasicLogContext{}

	pointsFile, err := os.Open(c.String("points"))
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("could not open point list: %v", err), 1)
	}
	points, err := model.LoadPoints(pointsFile)
	pointsFile.Close()
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("could not load point list: %v", err), 1)
	}

	jobFile, err := os.Open(c.String("job"))
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("could not open job configuration: %v", err), 1)
	}
	config, err := pipeline.LoadJobConfig(jobFile)
	jobFile.Close()
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	workDir := c.String("work-dir")
	if workDir == "" {
		workDir = util.GetWorkDir()
	}
	outputDir := c.String("output-dir")
	if outputDir == "" {
		outputDir = util.GetOutputDir()
	}
	for _, dir := range []string{workDir, outputDir} {
		if err = os.MkdirAll(dir, 0755); err != nil {
			return cli.NewExitError(fmt.Sprintf("could not create directory %s: %v", dir, err), 1)
		}
	}

	driver := pipeline.NewDriver(stac.NewContext(), workDir, outputDir)
	driver.Force = c.Bool("force")

	if c.Bool("ledger") {
		database, err := getDbConnectionFunc(logContext)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("could not open ledger database: %v", err), 1)
		}
		defer database.Close()
		driver.Ledger = ledger.New(database)
	}

	workers := config.Workers
	if c.Int("workers") > 0 {
		workers = c.Int("workers")
	}

	util.LogInfo(logContext, fmt.Sprintf("Running %d point pipelines with %d workers", len(points), workers))
	outcomes := driver.RunAll(points, config.QuerySpec(), workers)

	failed := 0
	for _, outcome := range outcomes {
		switch {
		case outcome.Err != nil:
			failed++
			fmt.Printf("FAILED  %-20s %s: %v\n", outcome.Point.Name, pipeline.ErrorKind(outcome.Err), outcome.Err)
		case outcome.Skipped:
			fmt.Printf("skipped %-20s %s\n", outcome.Point.Name, outcome.Artifact.Path)
		default:
			fmt.Printf("ok      %-20s %s\n", outcome.Point.Name, outcome.Artifact.Path)
		}
	}

	if failed > 0 {
		return cli.NewExitError(fmt.Sprintf("%d of %d point pipelines failed", failed, len(outcomes)), 1)
	}
	return nil
}
