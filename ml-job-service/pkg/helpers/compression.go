/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package helpers

import (
	"bytes"
	"encoding/base64"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	bridgeErrors "mlbridge/common/errors"
)

// Compress gzips text and encodes it as unpadded standard base64
func Compress(text string) (string, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write([]byte(text)); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return base64.RawStdEncoding.EncodeToString(buf.Bytes()), nil
}

// Decompress is the inverse of Compress, padded input is accepted as well
func Decompress(encoded string) (string, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(encoded), "=")
	raw, err := base64.RawStdEncoding.DecodeString(trimmed)
	if err != nil {
		return "", bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeBadRequest, "payload is not valid base64", err)
	}
	r, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return "", bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeBadRequest, "payload is not gzip compressed", err)
	}
	defer r.Close()
	text, err := io.ReadAll(r)
	if err != nil {
		return "", bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeBadRequest, "failed to decompress payload", err)
	}
	return string(text), nil
}
