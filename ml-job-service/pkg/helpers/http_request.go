/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"mlbridge/common/client"
	bridgeErrors "mlbridge/common/errors"
)

// DoRequest sends one request and returns the body of a 2xx answer. Network failures and
// any other status are reported as TransportError.
func DoRequest(ctx context.Context, httpClient client.HTTPClient, method string, url string, contentType string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeConfig, fmt.Sprintf("invalid request %s %s", method, url), err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", client.ContentTypeJSON)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeTransport, fmt.Sprintf("%s %s failed", method, url), errors.WithStack(err))
	}
	var respBody []byte
	if resp.Body != nil {
		defer resp.Body.Close()
		respBody, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeTransport, fmt.Sprintf("%s %s: failed to read response", method, url), errors.WithStack(err))
		}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeTransport,
			fmt.Sprintf("%s %s returned status %d: %s", method, url, resp.StatusCode, truncate(string(respBody), 256)))
	}
	return respBody, nil
}

// DoJSONRequest marshals payload (when not nil) and decodes the JSON answer into out
func DoJSONRequest(ctx context.Context, httpClient client.HTTPClient, method string, url string, payload interface{}, out interface{}) error {
	var body []byte
	contentType := ""
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeServerError, "failed to marshal request", err)
		}
		contentType = client.ContentTypeJSON
	}
	respBody, err := DoRequest(ctx, httpClient, method, url, contentType, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeTransport, fmt.Sprintf("%s %s returned an empty body", method, url))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeTransport, fmt.Sprintf("%s %s returned an invalid body", method, url), errors.WithStack(err))
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
