/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package trainer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bridgeErrors "mlbridge/common/errors"
	"mlbridge/ml-job-service/pkg/dto/model"
	"mlbridge/ml-job-service/pkg/retry"
	"mlbridge/mocks/mlbridge/common/infrastructure/interfaces/utils"
)

const trainerURL = "http://trainer:5000/models"

var mlConfig = json.RawMessage(`{"algorithm":"isolation_forest","window":60}`)

func newTestResolver(t *testing.T, mockClient *utils.MockClient, maxRetries uint) *ModelResolver {
	t.Helper()
	resolver, err := NewModelResolver(trainerURL+"/", mlConfig, mockClient, retry.NewPolicy(maxRetries, 0), logger.NewMockClient())
	require.NoError(t, err)
	return resolver
}

func modelDoc(id string, columns []string, defaults map[string]interface{}) map[string]interface{} {
	doc := map[string]interface{}{
		"id":      id,
		"created": 1704067200,
		"columns": columns,
		"data":    map[string]interface{}{"weights": []float64{0.1, 0.2}},
	}
	if defaults != nil {
		doc["defaults"] = defaults
	}
	return doc
}

func TestNewModelResolver_Validation(t *testing.T) {
	_, err := NewModelResolver(" ", mlConfig, utils.NewMockClient(), retry.NewPolicy(0, 0), logger.NewMockClient())
	assert.True(t, bridgeErrors.IsErrorType(err, bridgeErrors.ErrorTypeConfig))

	_, err = NewModelResolver(trainerURL, nil, utils.NewMockClient(), retry.NewPolicy(0, 0), logger.NewMockClient())
	assert.True(t, bridgeErrors.IsErrorType(err, bridgeErrors.ErrorTypeConfig))

	_, err = NewModelResolver(trainerURL, json.RawMessage(`{broken`), utils.NewMockClient(), retry.NewPolicy(0, 0), logger.NewMockClient())
	assert.True(t, bridgeErrors.IsErrorType(err, bridgeErrors.ErrorTypeConfig))
}

func TestModelResolver_ResolveModelIDs(t *testing.T) {
	mockClient := utils.NewMockClient()
	mockClient.RegisterExternalMockRestCall(trainerURL, http.MethodPost, nil, 0, errors.New("connection reset"))
	mockClient.RegisterExternalMockRestCall(trainerURL, http.MethodPost, model.ModelIDs{Available: []string{"m1"}, Pending: []string{"m2"}})
	resolver := newTestResolver(t, mockClient, 3)

	ids, err := resolver.ResolveModelIDs(context.Background(), "sensor-7")

	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, ids.Available)
	assert.Equal(t, []string{"m2"}, ids.Pending)
	requests := mockClient.RequestsTo(http.MethodPost, trainerURL)
	require.Len(t, requests, 2)
	assert.JSONEq(t, `{"service_id":"sensor-7","ml_config":{"algorithm":"isolation_forest","window":60}}`, requests[1].Body)
}

func TestModelResolver_ResolveModelIDs_Exhausted(t *testing.T) {
	mockClient := utils.NewMockClient()
	mockClient.RegisterExternalMockRestCall(trainerURL, http.MethodPost, "unavailable", http.StatusServiceUnavailable)
	resolver := newTestResolver(t, mockClient, 2)

	_, err := resolver.ResolveModelIDs(context.Background(), "sensor-7")

	require.Error(t, err)
	assert.True(t, bridgeErrors.IsErrorType(err, bridgeErrors.ErrorTypeTransport))
	assert.Equal(t, 3, mockClient.CallCount(http.MethodPost, trainerURL))
}

func TestModelResolver_FetchModel(t *testing.T) {
	t.Run("keeps the document as received", func(t *testing.T) {
		mockClient := utils.NewMockClient()
		mockClient.RegisterExternalMockRestCall(trainerURL+"/m1", http.MethodGet, modelDoc("m1", []string{"temp", "hum"}, map[string]interface{}{"hum": 0}))
		resolver := newTestResolver(t, mockClient, 0)

		m, err := resolver.FetchModel(context.Background(), "m1")

		require.NoError(t, err)
		assert.Equal(t, "m1", m.ID)
		assert.Equal(t, []string{"temp", "hum"}, m.Columns)
		assert.Equal(t, map[string]interface{}{"hum": 0.0}, m.Defaults)
		assert.JSONEq(t, `1704067200`, string(m.Created))
		doc, err := m.Document()
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"m1","created":1704067200,"columns":["temp","hum"],"defaults":{"hum":0},"data":{"weights":[0.1,0.2]}}`, string(doc))
	})
	t.Run("model without data is unavailable after the retry budget", func(t *testing.T) {
		mockClient := utils.NewMockClient()
		mockClient.RegisterExternalMockRestCall(trainerURL+"/m1", http.MethodGet, map[string]interface{}{"id": "m1", "columns": []string{"a"}, "data": nil})
		resolver := newTestResolver(t, mockClient, 2)

		_, err := resolver.FetchModel(context.Background(), "m1")

		require.Error(t, err)
		assert.True(t, bridgeErrors.IsErrorType(err, bridgeErrors.ErrorTypeModelUnavailable))
		assert.Equal(t, 3, mockClient.CallCount(http.MethodGet, trainerURL+"/m1"))
	})
	t.Run("data becomes available", func(t *testing.T) {
		mockClient := utils.NewMockClient()
		mockClient.RegisterExternalMockRestCall(trainerURL+"/m1", http.MethodGet, map[string]interface{}{"id": "m1", "columns": []string{"a"}})
		mockClient.RegisterExternalMockRestCall(trainerURL+"/m1", http.MethodGet, modelDoc("m1", []string{"a"}, nil))
		resolver := newTestResolver(t, mockClient, 2)

		m, err := resolver.FetchModel(context.Background(), "m1")

		require.NoError(t, err)
		assert.True(t, m.HasData())
		assert.Equal(t, 2, mockClient.CallCount(http.MethodGet, trainerURL+"/m1"))
	})
}

func TestModelResolver_ResolveModelGroups(t *testing.T) {
	t.Run("pending models skipped without waiting", func(t *testing.T) {
		mockClient := utils.NewMockClient()
		mockClient.RegisterExternalMockRestCall(trainerURL, http.MethodPost, model.ModelIDs{Available: []string{"m1", "m2", "m1"}, Pending: []string{"p1", "p2"}})
		mockClient.RegisterExternalMockRestCall(trainerURL+"/m1", http.MethodGet, modelDoc("m1", []string{"temp", "hum"}, nil))
		mockClient.RegisterExternalMockRestCall(trainerURL+"/m2", http.MethodGet, modelDoc("m2", []string{"hum", "temp"}, nil))
		resolver := newTestResolver(t, mockClient, 3)

		resolution, err := resolver.ResolveModelGroups(context.Background(), "sensor-7", false)

		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p2"}, resolution.SkippedPending)
		require.Len(t, resolution.Groups, 1)
		assert.Equal(t, []string{"m1", "m2"}, resolution.Groups[0].ModelIDs())
		assert.Equal(t, 1, mockClient.CallCount(http.MethodPost, trainerURL))
		assert.Equal(t, 1, mockClient.CallCount(http.MethodGet, trainerURL+"/m1"))
	})
	t.Run("waits for pending models", func(t *testing.T) {
		mockClient := utils.NewMockClient()
		mockClient.RegisterExternalMockRestCall(trainerURL, http.MethodPost, model.ModelIDs{Available: []string{"m1"}, Pending: []string{"m2"}})
		mockClient.RegisterExternalMockRestCall(trainerURL, http.MethodPost, model.ModelIDs{Available: []string{"m1"}, Pending: []string{"m2"}})
		mockClient.RegisterExternalMockRestCall(trainerURL, http.MethodPost, model.ModelIDs{Available: []string{"m1", "m2"}, Pending: []string{}})
		mockClient.RegisterExternalMockRestCall(trainerURL+"/m1", http.MethodGet, modelDoc("m1", []string{"temp"}, nil))
		mockClient.RegisterExternalMockRestCall(trainerURL+"/m2", http.MethodGet, modelDoc("m2", []string{"pressure"}, nil))
		resolver := newTestResolver(t, mockClient, 5)

		resolution, err := resolver.ResolveModelGroups(context.Background(), "sensor-7", true)

		require.NoError(t, err)
		assert.Empty(t, resolution.SkippedPending)
		assert.Len(t, resolution.Groups, 2)
		assert.Equal(t, 3, mockClient.CallCount(http.MethodPost, trainerURL))
	})
	t.Run("still pending after the budget", func(t *testing.T) {
		mockClient := utils.NewMockClient()
		mockClient.RegisterExternalMockRestCall(trainerURL, http.MethodPost, model.ModelIDs{Available: []string{"m1"}, Pending: []string{"m2"}})
		mockClient.RegisterExternalMockRestCall(trainerURL+"/m1", http.MethodGet, modelDoc("m1", []string{"temp"}, nil))
		resolver := newTestResolver(t, mockClient, 2)

		resolution, err := resolver.ResolveModelGroups(context.Background(), "sensor-7", true)

		require.NoError(t, err)
		assert.Equal(t, []string{"m2"}, resolution.SkippedPending)
		assert.Len(t, resolution.Groups, 1)
		assert.Equal(t, 4, mockClient.CallCount(http.MethodPost, trainerURL))
	})
	t.Run("unavailable model is dropped", func(t *testing.T) {
		mockClient := utils.NewMockClient()
		mockClient.RegisterExternalMockRestCall(trainerURL, http.MethodPost, model.ModelIDs{Available: []string{"m1", "m2"}})
		mockClient.RegisterExternalMockRestCall(trainerURL+"/m1", http.MethodGet, map[string]interface{}{"id": "m1", "columns": []string{"a"}})
		mockClient.RegisterExternalMockRestCall(trainerURL+"/m2", http.MethodGet, modelDoc("m2", []string{"a"}, nil))
		resolver := newTestResolver(t, mockClient, 1)

		resolution, err := resolver.ResolveModelGroups(context.Background(), "sensor-7", false)

		require.NoError(t, err)
		require.Len(t, resolution.FailedModels, 1)
		assert.Equal(t, "m1", resolution.FailedModels[0].ModelID)
		assert.Equal(t, string(bridgeErrors.ErrorTypeModelUnavailable), resolution.FailedModels[0].Kind)
		require.Len(t, resolution.Groups, 1)
		assert.Equal(t, []string{"m2"}, resolution.Groups[0].ModelIDs())
	})
	t.Run("no model at all", func(t *testing.T) {
		mockClient := utils.NewMockClient()
		mockClient.RegisterExternalMockRestCall(trainerURL, http.MethodPost, model.ModelIDs{Available: []string{}, Pending: []string{"m9"}})
		resolver := newTestResolver(t, mockClient, 1)

		resolution, err := resolver.ResolveModelGroups(context.Background(), "sensor-7", false)

		require.Error(t, err)
		assert.True(t, bridgeErrors.IsErrorType(err, bridgeErrors.ErrorTypeModelUnavailable))
		assert.Equal(t, []string{"m9"}, resolution.SkippedPending)
	})
}
