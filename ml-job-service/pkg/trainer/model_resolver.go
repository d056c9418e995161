/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

// Package trainer resolves the trained models of a data source.
package trainer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/pkg/errors"
	"mlbridge/common/client"
	bridgeErrors "mlbridge/common/errors"
	"mlbridge/ml-job-service/pkg/dto/model"
	"mlbridge/ml-job-service/pkg/helpers"
	"mlbridge/ml-job-service/pkg/retry"
)

type ModelResolver struct {
	trainerURL string
	mlConfig   json.RawMessage
	httpClient client.HTTPClient
	policy     retry.Policy
	lc         logger.LoggingClient
}

type modelIDsRequest struct {
	ServiceID string          `json:"service_id"`
	MLConfig  json.RawMessage `json:"ml_config"`
}

func NewModelResolver(trainerURL string, mlConfig json.RawMessage, httpClient client.HTTPClient, policy retry.Policy, lc logger.LoggingClient) (*ModelResolver, error) {
	if strings.TrimSpace(trainerURL) == "" {
		return nil, bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeConfig, "trainer url must not be blank")
	}
	if len(bytes.TrimSpace(mlConfig)) == 0 {
		return nil, bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeConfig, "ml config must not be blank")
	}
	if !json.Valid(mlConfig) {
		return nil, bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeConfig, "ml config is not valid JSON")
	}
	return &ModelResolver{
		trainerURL: strings.TrimRight(trainerURL, "/"),
		mlConfig:   mlConfig,
		httpClient: httpClient,
		policy:     policy,
		lc:         lc,
	}, nil
}

func (r *ModelResolver) retryLogger(step string) retry.Policy {
	return r.policy.WithOnRetry(func(attempt uint, err error) {
		r.lc.Debugf("%s: attempt %d/%d failed: %v", step, attempt, r.policy.Attempts(), err)
	})
}

// ResolveModelIDs asks the trainer which models of sourceID are available and which are pending
func (r *ModelResolver) ResolveModelIDs(ctx context.Context, sourceID string) (model.ModelIDs, error) {
	request := modelIDsRequest{ServiceID: sourceID, MLConfig: r.mlConfig}
	ids, err := retry.DoWithResult(ctx, r.retryLogger("resolve model ids"), func(ctx context.Context) (model.ModelIDs, error) {
		var ids model.ModelIDs
		err := helpers.DoJSONRequest(ctx, r.httpClient, http.MethodPost, r.trainerURL, request, &ids)
		return ids, err
	})
	if err != nil {
		r.lc.Errorf("failed to resolve models for source %s: %v", sourceID, err)
		return model.ModelIDs{}, err
	}
	return ids, nil
}

// FetchModel gets one model document. A model without trained data is ModelUnavailable and is
// retried with the same budget as transport errors.
func (r *ModelResolver) FetchModel(ctx context.Context, modelID string) (model.Model, error) {
	modelURL := r.trainerURL + "/" + url.PathEscape(modelID)
	return retry.DoWithResult(ctx, r.retryLogger("fetch model "+modelID), func(ctx context.Context) (model.Model, error) {
		body, err := helpers.DoRequest(ctx, r.httpClient, http.MethodGet, modelURL, "", nil)
		if err != nil {
			return model.Model{}, err
		}
		var m model.Model
		if err := json.Unmarshal(body, &m); err != nil {
			return model.Model{}, bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeTransport,
				fmt.Sprintf("invalid model document for %s", modelID), errors.WithStack(err))
		}
		if !m.HasData() {
			return model.Model{}, bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeModelUnavailable,
				fmt.Sprintf("model %s has no trained data", modelID))
		}
		if m.ID == "" {
			m.ID = modelID
		}
		m.Raw = json.RawMessage(body)
		return m, nil
	})
}

// ResolveModelGroups resolves, fetches and groups the models of sourceID. When waitForPending
// is set the trainer is asked again until nothing is pending or the retry budget is spent;
// whatever is still pending then is reported as skipped.
func (r *ModelResolver) ResolveModelGroups(ctx context.Context, sourceID string, waitForPending bool) (model.Resolution, error) {
	resolution := model.Resolution{}

	ids, err := r.ResolveModelIDs(ctx, sourceID)
	if err != nil {
		return resolution, err
	}
	if waitForPending && len(ids.Pending) > 0 {
		ids = r.waitForPendingModels(ctx, sourceID, ids)
	}
	if len(ids.Pending) > 0 {
		resolution.SkippedPending = ids.Pending
		r.lc.Warnf("source %s: %d pending models skipped: %v", sourceID, len(ids.Pending), ids.Pending)
	}

	models := make([]model.Model, 0, len(ids.Available))
	seen := make(map[string]bool)
	for _, modelID := range ids.Available {
		if seen[modelID] {
			continue
		}
		seen[modelID] = true

		m, err := r.FetchModel(ctx, modelID)
		if err != nil {
			if ctx.Err() != nil {
				return resolution, err
			}
			r.lc.Errorf("source %s: model %s dropped from run: %v", sourceID, modelID, err)
			resolution.FailedModels = append(resolution.FailedModels, model.FailedModel{
				ModelID: modelID,
				Kind:    string(bridgeErrors.ErrorTypeOf(err)),
				Reason:  err.Error(),
			})
			continue
		}
		models = append(models, m)
	}

	if len(models) == 0 {
		return resolution, bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeModelUnavailable,
			fmt.Sprintf("no model available for source %s", sourceID))
	}

	resolution.Groups = GroupModels(models)
	if len(resolution.Groups) > 1 {
		r.lc.Infof("source %s: %d models with %d different feature sets, one job per feature set", sourceID, len(models), len(resolution.Groups))
	} else {
		r.lc.Infof("source %s: %d models resolved", sourceID, len(models))
	}
	return resolution, nil
}

func (r *ModelResolver) waitForPendingModels(ctx context.Context, sourceID string, ids model.ModelIDs) model.ModelIDs {
	r.lc.Infof("source %s: waiting for %d pending models", sourceID, len(ids.Pending))
	latest := ids
	policy := r.retryLogger("wait for pending models")
	err := policy.Do(ctx, func(ctx context.Context) error {
		var current model.ModelIDs
		request := modelIDsRequest{ServiceID: sourceID, MLConfig: r.mlConfig}
		if err := helpers.DoJSONRequest(ctx, r.httpClient, http.MethodPost, r.trainerURL, request, &current); err != nil {
			return err
		}
		latest = current
		if len(current.Pending) > 0 {
			return bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeModelsPending,
				fmt.Sprintf("%d models still pending", len(current.Pending)))
		}
		return nil
	})
	if err != nil {
		r.lc.Warnf("source %s: stopped waiting for pending models: %v", sourceID, err)
	}
	return latest
}
