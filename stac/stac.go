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

package stac

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/venicegeo/bf-imagery-clip/model"
	"github.com/venicegeo/bf-imagery-clip/util"
)

// searchLimit bounds how many candidate items one search pulls back; only
// the first usable item is ever selected
const searchLimit = 25

// GetScenes performs one search against the catalog and returns the scenes
// it reported, QA-suppressed but otherwise in the catalog's own order
func GetScenes(options SearchOptions, context *Context) ([]model.Scene, error) {
	req := searchRequest{
		Collections: []string{options.Collection},
		Datetime:    options.Datetime,
		Query:       options.Query,
		Limit:       options.Limit,
	}
	if req.Limit == 0 {
		req.Limit = searchLimit
	}
	if options.Bbox != nil {
		req.Intersects = options.Bbox.Geometry()
	}

	requestBody, err := json.Marshal(req)
	if err != nil {
		return nil, util.LogSimpleErr(context, fmt.Sprintf("Failed to marshal request object %#v.", req), err)
	}

	response, err := stacRequest(stacRequestInput{method: "POST", inputURL: "search", body: requestBody, contentType: "application/json"}, context)
	if err != nil {
		return nil, util.LogSimpleErr(context, fmt.Sprintf("Failed to complete STAC search request %#v.", string(requestBody)), err)
	}
	switch {
	case (response.StatusCode >= 400) && (response.StatusCode < 500):
		message := fmt.Sprintf("Failed to discover scenes from the STAC catalog: %v. ", response.Status)
		util.LogAlert(context, message)
		return nil, util.HTTPErr{Status: response.StatusCode, Message: message}
	case response.StatusCode >= 500:
		return nil, util.LogSimpleErr(context, "Failed to discover scenes from the STAC catalog.", errors.New(response.Status))
	default:
		//no op
	}

	defer response.Body.Close()
	responseBody, _ := io.ReadAll(response.Body)

	var results searchResponse
	if err = json.Unmarshal(responseBody, &results); err != nil {
		stacErr := util.Error{LogMsg: "Failed to unmarshal response from STAC search request: " + err.Error(),
			SimpleMsg:  "The catalog returned an unexpected response for this request. See log for further details.",
			Response:   string(responseBody),
			URL:        "search",
			HTTPStatus: response.StatusCode}
		return nil, stacErr.Log(context, "")
	}

	scenes := []model.Scene{}
	for _, item := range results.Features {
		// suppress scenes with known sensor banding artifacts
		if hasBandingIssues(item) {
			continue
		}
		scenes = append(scenes, sceneFromItem(item))
	}
	return scenes, nil
}

// ResolveScene selects the single best-matching scene for one point of
// interest. Zero matches is an error; with multiple matches the catalog's
// default result ordering decides, so the first usable item wins.
func ResolveScene(point model.PointOfInterest, spec model.QuerySpec, context *Context) (*model.Scene, error) {
	options := SearchOptions{
		Collection: spec.Collection,
		Bbox:       model.WindowAround(point, spec.Radius).BoundingBox(),
		Datetime:   spec.Datetime(),
		Query:      spec.Query,
	}

	scenes, err := GetScenes(options, context)
	if err != nil {
		return nil, err
	}
	if len(scenes) == 0 {
		return nil, NoMatchingSceneError{Collection: spec.Collection, Datetime: spec.Datetime()}
	}

	scene := scenes[0]
	for _, bandKey := range spec.BandKeys {
		if _, ok := scene.AssetURL(bandKey); !ok {
			return nil, AssetMissingError{SceneID: scene.ID, BandKey: bandKey}
		}
	}

	if context.Signer != nil {
		for _, bandKey := range spec.BandKeys {
			signed, err := context.Signer.SignURL(context, scene.Collection, scene.Bands[bandKey])
			if err != nil {
				return nil, util.LogSimpleErr(context, fmt.Sprintf("Failed to sign asset URL for band %v of scene %v.", bandKey, scene.ID), err)
			}
			scene.Bands[bandKey] = signed
		}
	}

	util.LogInfo(context, fmt.Sprintf("Resolved scene %v (cloud cover %.1f%%) for point %v", scene.ID, scene.CloudCover, point.Name))
	return &scene, nil
}

// stacRequest performs the request
func stacRequest(input stacRequestInput, context *Context) (*http.Response, error) {
	inputURL := input.inputURL
	if !strings.Contains(inputURL, context.BaseStacURL) {
		baseURL, err := url.Parse(strings.TrimRight(context.BaseStacURL, "/") + "/")
		if err != nil {
			return nil, util.LogSimpleErr(context, fmt.Sprintf("Failed to parse %v into a URL.", context.BaseStacURL), err)
		}
		relativeURL, err := url.Parse(input.inputURL)
		if err != nil {
			return nil, util.LogSimpleErr(context, fmt.Sprintf("Failed to parse %v into a URL.", input.inputURL), err)
		}
		inputURL = baseURL.ResolveReference(relativeURL).String()
	}

	request, err := http.NewRequest(input.method, inputURL, bytes.NewBuffer(input.body))
	if err != nil {
		return nil, util.LogSimpleErr(context, fmt.Sprintf("Failed to make a new HTTP request for %v.", inputURL), err)
	}
	if input.contentType != "" {
		request.Header.Set("Content-Type", input.contentType)
	}
	if context.SubscriptionKey != "" {
		request.Header.Set("Ocp-Apim-Subscription-Key", context.SubscriptionKey)
	}

	message := "Requesting data from the STAC catalog"
	if len(input.body) > 0 {
		message += ": " + string(input.body)
	}
	util.LogAudit(context, util.LogAuditInput{Actor: "stac/stacRequest", Action: input.method, Actee: inputURL, Message: message, Severity: util.INFO})
	util.LogAudit(context, util.LogAuditInput{Actor: inputURL, Action: input.method + " response", Actee: "stac/stacRequest", Message: "Receiving data from the STAC catalog", Severity: util.INFO})
	return util.HTTPClient().Do(request)
}
