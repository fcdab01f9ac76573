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

package util

import (
	"os"
)

// Environment variables
const (
	STAC_API_URL          = "STAC_API_URL"
	STAC_SAS_URL          = "STAC_SAS_URL"
	STAC_SUBSCRIPTION_KEY = "STAC_SUBSCRIPTION_KEY"
	IMAGERY_WORK_DIR      = "IMAGERY_WORK_DIR"
	IMAGERY_OUTPUT_DIR    = "IMAGERY_OUTPUT_DIR"
)

const defaultStacURL = "https://planetarycomputer.microsoft.com/api/stac/v1"
const defaultSasURL = "https://planetarycomputer.microsoft.com/api/sas/v1"

// GetStacAPIURL returns a string for the STAC_API_URL environment variable
// or the default Planetary Computer catalog endpoint
func GetStacAPIURL() string {
	stacURL, ok := os.LookupEnv(STAC_API_URL)
	if !ok {
		LogInfo(&BasicLogContext{}, "Did not get explicit STAC API URL from the environment. Using default catalog URL: "+defaultStacURL)
		return defaultStacURL
	}
	return stacURL
}

// GetSasAPIURL returns a string for the STAC_SAS_URL environment variable
// or the default Planetary Computer signing endpoint
func GetSasAPIURL() string {
	sasURL, ok := os.LookupEnv(STAC_SAS_URL)
	if !ok {
		LogInfo(&BasicLogContext{}, "Did not get explicit SAS token URL from the environment. Using default signing URL: "+defaultSasURL)
		return defaultSasURL
	}
	return sasURL
}

// GetSubscriptionKey returns a string for the STAC_SUBSCRIPTION_KEY
// environment variable; anonymous catalog access is allowed, so an empty
// result is not an error here
func GetSubscriptionKey() string {
	return os.Getenv(STAC_SUBSCRIPTION_KEY)
}

// GetWorkDir returns the directory receiving intermediate single-band rasters
func GetWorkDir() string {
	workDir, ok := os.LookupEnv(IMAGERY_WORK_DIR)
	if !ok {
		LogAlert(&BasicLogContext{}, "Did not get work directory from the environment. Using the current directory.")
		return "."
	}
	return workDir
}

// GetOutputDir returns the directory receiving final composite artifacts
func GetOutputDir() string {
	outputDir, ok := os.LookupEnv(IMAGERY_OUTPUT_DIR)
	if !ok {
		LogAlert(&BasicLogContext{}, "Did not get output directory from the environment. Using the current directory.")
		return "."
	}
	return outputDir
}
