/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package trainer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mlbridge/ml-job-service/pkg/dto/model"
)

func TestGroupKey(t *testing.T) {
	tests := []struct {
		name      string
		a         []string
		b         []string
		wantEqual bool
	}{
		{name: "same order", a: []string{"temp", "hum"}, b: []string{"temp", "hum"}, wantEqual: true},
		{name: "different order", a: []string{"temp", "hum"}, b: []string{"hum", "temp"}, wantEqual: true},
		{name: "duplicates ignored", a: []string{"temp", "hum", "temp"}, b: []string{"hum", "temp"}, wantEqual: true},
		{name: "different sets", a: []string{"temp", "hum"}, b: []string{"temp"}, wantEqual: false},
		{name: "separator inside names", a: []string{"a,b", "c"}, b: []string{"a", "b,c"}, wantEqual: false},
		{name: "empty sets", a: nil, b: []string{}, wantEqual: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantEqual, GroupKey(tt.a) == GroupKey(tt.b))
		})
	}
	assert.Equal(t, []string{"hum", "temp"}, GroupKey([]string{"temp", "hum"}).Columns())
}

func TestGroupModels(t *testing.T) {
	models := []model.Model{
		{ID: "m1", Columns: []string{"temp", "hum"}},
		{ID: "m2", Columns: []string{"pressure"}},
		{ID: "m3", Columns: []string{"hum", "temp"}, Defaults: map[string]interface{}{"hum": 0.0}},
	}

	groups := GroupModels(models)

	require.Len(t, groups, 2)
	assert.Equal(t, []string{"m1", "m3"}, groups[0].ModelIDs())
	assert.Equal(t, []string{"hum", "temp"}, groups[0].Columns)
	assert.Equal(t, map[string]interface{}{"hum": 0.0}, groups[0].Defaults())
	assert.Equal(t, []string{"m2"}, groups[1].ModelIDs())
	for _, g := range groups {
		for _, m := range g.Models {
			assert.Equal(t, g.Key, GroupKey(m.Columns))
		}
	}
	assert.Empty(t, GroupModels(nil))
}

func TestModelGroup_DefaultsFirstModelWins(t *testing.T) {
	group := model.ModelGroup{Models: []model.Model{
		{ID: "m1", Defaults: map[string]interface{}{"a": 1.0, "b": nil}},
		{ID: "m2", Defaults: map[string]interface{}{"a": 2.0, "b": 5.0}},
	}}

	assert.Equal(t, map[string]interface{}{"a": 1.0, "b": 5.0}, group.Defaults())
}
