package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

var httpClient = &http.Client{Timeout: 120 * time.Second}

// HTTPClient returns the shared HTTP client used for all upstream requests
func HTTPClient() *http.Client {
	return httpClient
}

// ReqByObjJSON performs an HTTP request whose input and output are both
// known JSON objects. The response body is returned as a string alongside
// any error so callers can log what the upstream actually said.
func ReqByObjJSON(method, url, authKey string, inObj, outObj interface{}) (string, error) {
	var (
		requestBody []byte
		err         error
	)
	if inObj != nil {
		if requestBody, err = json.Marshal(inObj); err != nil {
			return "", fmt.Errorf("failed to marshal request object %#v: %w", inObj, err)
		}
	}

	request, err := http.NewRequest(method, url, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", err
	}
	request.Header.Set("Content-Type", "application/json")
	if authKey != "" {
		request.Header.Set("Authorization", authKey)
	}

	response, err := HTTPClient().Do(request)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	responseBody, _ := io.ReadAll(response.Body)
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return string(responseBody), HTTPErr{
			Status:  response.StatusCode,
			Message: fmt.Sprintf("%s %s failed: %s", method, url, response.Status),
		}
	}

	if outObj != nil {
		if err = json.Unmarshal(responseBody, outObj); err != nil {
			return string(responseBody), fmt.Errorf("failed to unmarshal response from %s: %w", url, err)
		}
	}
	return string(responseBody), nil
}
