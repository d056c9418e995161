/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package trainer

import (
	"mlbridge/ml-job-service/pkg/dto/model"
)

// GroupKey identifies a column set independently of column order
func GroupKey(columns []string) model.ColumnSetKey {
	return model.NewColumnSetKey(columns)
}

// GroupModels puts models with the same column set in one group. Groups keep the order in
// which their first model appears.
func GroupModels(models []model.Model) []model.ModelGroup {
	groups := make([]model.ModelGroup, 0)
	index := make(map[model.ColumnSetKey]int)
	for _, m := range models {
		key := GroupKey(m.Columns)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, model.ModelGroup{Key: key, Columns: model.CanonicalColumns(m.Columns)})
		}
		groups[i].Models = append(groups[i].Models, m)
	}
	return groups
}
