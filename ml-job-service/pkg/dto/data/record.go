/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package data

import (
	"encoding/json"

	"github.com/spf13/cast"
)

// Record is one timestamped observation, field name to scalar value
type Record map[string]interface{}

// Batch is the ordered sequence of records of one run
type Batch []Record

type InputSource struct {
	Name string `json:"name"`
}

type MetaData struct {
	InputSources []InputSource `json:"input_sources"`
}

// InputMessage is the pipeline payload, data and meta_data may each be embedded JSON or a JSON string
type InputMessage struct {
	Data     json.RawMessage `json:"data"`
	MetaData json.RawMessage `json:"meta_data"`
}

// InputBatch is what the pipeline hands over to a prediction run
type InputBatch struct {
	SourceID      string
	CorrelationID string
	Records       Batch
}

// Window returns the time field of the first and last record
func (b Batch) Window(timeField string) (string, string) {
	if len(b) == 0 {
		return "", ""
	}
	return cast.ToString(b[0][timeField]), cast.ToString(b[len(b)-1][timeField])
}
