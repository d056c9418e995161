/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

// Package encoder turns a batch of records into the delimited table a prediction job reads.
//
// The header is the time field followed by the remaining columns in ascending order. Each
// row carries the record value, else the column default, else the empty placeholder.
package encoder

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"unicode/utf8"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/spf13/cast"
	bridgeErrors "mlbridge/common/errors"
	"mlbridge/ml-job-service/pkg/dto/data"
	"mlbridge/ml-job-service/pkg/dto/model"
)

type CSVEncoder struct {
	timeField   string
	delimiter   rune
	placeholder string
	lc          logger.LoggingClient
}

func NewCSVEncoder(timeField string, delimiter string, placeholder string, lc logger.LoggingClient) (*CSVEncoder, error) {
	if timeField == "" {
		return nil, bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeConfig, "time field must not be blank")
	}
	if utf8.RuneCountInString(delimiter) != 1 {
		return nil, bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeConfig, fmt.Sprintf("delimiter must be a single character, got %q", delimiter))
	}
	d, _ := utf8.DecodeRuneInString(delimiter)
	if d == '"' || d == '\r' || d == '\n' || d == utf8.RuneError {
		return nil, bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeConfig, fmt.Sprintf("invalid delimiter %q", delimiter))
	}
	return &CSVEncoder{
		timeField:   timeField,
		delimiter:   d,
		placeholder: placeholder,
		lc:          lc,
	}, nil
}

func (e *CSVEncoder) TimeField() string {
	return e.timeField
}

// Header derives the header row from the first record. When expectedColumns is not nil the
// record columns are reconciled against it: unknown columns are dropped and missing ones added.
func (e *CSVEncoder) Header(batch data.Batch, expectedColumns []string) []string {
	var first data.Record
	if len(batch) > 0 {
		first = batch[0]
	}
	recordColumns := make([]string, 0, len(first))
	for column := range first {
		if column != e.timeField {
			recordColumns = append(recordColumns, column)
		}
	}
	slices.Sort(recordColumns)

	columns := recordColumns
	if expectedColumns != nil {
		columns = slices.DeleteFunc(model.CanonicalColumns(expectedColumns), func(c string) bool {
			return c == e.timeField
		})
		e.logReconciliation(recordColumns, columns)
	}

	return append([]string{e.timeField}, columns...)
}

func (e *CSVEncoder) logReconciliation(recordColumns []string, expected []string) {
	var removed, added []string
	for _, c := range recordColumns {
		if _, found := slices.BinarySearch(expected, c); !found {
			removed = append(removed, c)
		}
	}
	for _, c := range expected {
		if _, found := slices.BinarySearch(recordColumns, c); !found {
			added = append(added, c)
		}
	}
	if len(removed) > 0 {
		e.lc.Warnf("unknown features removed: %v", removed)
	}
	if len(added) > 0 {
		e.lc.Warnf("missing features added: %v", added)
	}
}

// Encode builds the table for batch. expectedColumns and defaults may be nil.
func (e *CSVEncoder) Encode(batch data.Batch, expectedColumns []string, defaults map[string]interface{}) (string, error) {
	if len(batch) == 0 {
		return "", bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeBadRequest, "cannot encode an empty batch")
	}
	header := e.Header(batch, expectedColumns)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = e.delimiter
	if err := w.Write(header); err != nil {
		return "", bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeServerError, "failed to write csv header", err)
	}

	row := make([]string, len(header))
	for _, record := range batch {
		for i, column := range header {
			row[i] = e.cellValue(record, column, defaults)
		}
		if err := w.Write(row); err != nil {
			return "", bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeServerError, "failed to write csv row", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeServerError, "failed to flush csv", err)
	}
	return buf.String(), nil
}

func (e *CSVEncoder) cellValue(record data.Record, column string, defaults map[string]interface{}) string {
	if value, ok := FormatValue(record[column]); ok {
		return value
	}
	if column != e.timeField {
		if value, ok := FormatValue(defaults[column]); ok {
			return value
		}
	}
	return e.placeholder
}

// FormatValue renders strings as is and numbers in plain decimal notation without a trailing
// fractional zero. Any other value, nil included, is reported as absent.
func FormatValue(v interface{}) (string, bool) {
	switch value := v.(type) {
	case nil:
		return "", false
	case string:
		return value, true
	case json.Number:
		if i, err := value.Int64(); err == nil {
			return strconv.FormatInt(i, 10), true
		}
		f, err := cast.ToFloat64E(value.String())
		if err != nil {
			return value.String(), true
		}
		return formatFloat(f), true
	case float64:
		return formatFloat(value), true
	case float32:
		return formatFloat(float64(value)), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		s, err := cast.ToStringE(value)
		if err != nil {
			return "", false
		}
		return s, true
	default:
		return "", false
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
