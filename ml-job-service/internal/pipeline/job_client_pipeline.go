/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

// Package pipeline holds the functions of the ml-job-client functions pipeline:
// ParseInputMessage -> RunPredictionJobs -> BuildOutputMessage -> [compression] -> PublishPredictions
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/edgexfoundry/app-functions-sdk-go/v3/pkg/interfaces"
	"github.com/edgexfoundry/app-functions-sdk-go/v3/pkg/util"
	"mlbridge/common/client"
	bridgeErrors "mlbridge/common/errors"
	"mlbridge/ml-job-service/internal/config"
	"mlbridge/ml-job-service/pkg/db/redis"
	"mlbridge/ml-job-service/pkg/dto/data"
	"mlbridge/ml-job-service/pkg/dto/run"
	"mlbridge/ml-job-service/pkg/helpers"
)

type Runner interface {
	Run(ctx context.Context, sourceID string, batch data.Batch) (*run.RunRecord, error)
}

type RunRecorder interface {
	ProcessRun(record *run.RunRecord) bridgeErrors.BridgeError
}

// Sender is the part of transforms.MQTTSecretSender used to export predictions
type Sender interface {
	MQTTSend(ctx interfaces.AppFunctionContext, data any) (bool, any)
}

type JobClientPipeline struct {
	appCtx    context.Context
	config    *config.ClientConfig
	runner    Runner
	runStore  redis.RunStore
	telemetry RunRecorder
	sender    Sender
}

// NewJobClientPipeline builds the pipeline functions. Runs are bound to appCtx so that a
// shutdown stops pending polls. runStore and telemetry are optional.
func NewJobClientPipeline(appCtx context.Context, cfg *config.ClientConfig, runner Runner, runStore redis.RunStore, telemetry RunRecorder) *JobClientPipeline {
	if appCtx == nil {
		appCtx = context.Background()
	}
	return &JobClientPipeline{
		appCtx:    appCtx,
		config:    cfg,
		runner:    runner,
		runStore:  runStore,
		telemetry: telemetry,
	}
}

// SetSender enables the MQTT export of the output message
func (p *JobClientPipeline) SetSender(sender Sender) {
	p.sender = sender
}

// ParseInputMessage decodes the inbound message into an InputBatch
func (p *JobClientPipeline) ParseInputMessage(ctx interfaces.AppFunctionContext, in any) (bool, any) {
	lc := ctx.LoggingClient()
	if in == nil {
		lc.Errorf("no data received by pipeline %s", ctx.PipelineId())
		return false, bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeBadRequest, "no data received")
	}

	payload, err := util.CoerceType(in)
	if err != nil {
		lc.Errorf("unexpected input type %T: %v", in, err)
		return false, bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeBadRequest, "unexpected input type", err)
	}

	batch, err := p.decodeInput(payload)
	if err != nil {
		lc.Errorf("invalid input message: %v", err)
		return false, err
	}
	batch.CorrelationID = ctx.CorrelationID()
	lc.Debugf("received %d records for source %s", len(batch.Records), batch.SourceID)
	return true, batch
}

func (p *JobClientPipeline) decodeInput(payload []byte) (data.InputBatch, error) {
	var message data.InputMessage
	if err := json.Unmarshal(payload, &message); err != nil {
		return data.InputBatch{}, bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeBadRequest, "input is not a JSON object", err)
	}

	sourceID, err := sourceFromMetaData(message.MetaData)
	if err != nil {
		return data.InputBatch{}, err
	}

	recordsJSON, err := unwrapJSONString(message.Data, "data")
	if err != nil {
		return data.InputBatch{}, err
	}
	if p.config.CompressedInput {
		var encoded string
		if err := json.Unmarshal(message.Data, &encoded); err != nil {
			return data.InputBatch{}, bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeBadRequest, "compressed data must be a string", err)
		}
		text, err := helpers.Decompress(encoded)
		if err != nil {
			return data.InputBatch{}, err
		}
		recordsJSON = []byte(text)
	}

	decoder := json.NewDecoder(bytes.NewReader(recordsJSON))
	decoder.UseNumber()
	var records data.Batch
	if err := decoder.Decode(&records); err != nil {
		return data.InputBatch{}, bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeBadRequest, "data is not a list of records", err)
	}
	return data.InputBatch{SourceID: sourceID, Records: records}, nil
}

// sourceFromMetaData returns the name of the single input source
func sourceFromMetaData(raw json.RawMessage) (string, error) {
	metaJSON, err := unwrapJSONString(raw, "meta_data")
	if err != nil {
		return "", bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeConfig, err.Error())
	}
	var metaData struct {
		InputSources *[]data.InputSource `json:"input_sources"`
	}
	if err := json.Unmarshal(metaJSON, &metaData); err != nil {
		return "", bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeConfig, "invalid meta_data", err)
	}
	if metaData.InputSources == nil {
		return "", bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeConfig, "meta_data has no input_sources")
	}
	sources := *metaData.InputSources
	switch {
	case len(sources) == 0:
		return "", bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeConfig, "no input source in meta_data")
	case len(sources) > 1:
		return "", bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeConfig,
			fmt.Sprintf("expected exactly one input source, got %d", len(sources)))
	}
	name := strings.TrimSpace(sources[0].Name)
	if name == "" {
		return "", bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeConfig, "input source name must not be blank")
	}
	return name, nil
}

// unwrapJSONString accepts either embedded JSON or a string holding JSON text
func unwrapJSONString(raw json.RawMessage, field string) ([]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeBadRequest, fmt.Sprintf("%s is missing", field))
	}
	if trimmed[0] != '"' {
		return trimmed, nil
	}
	var text string
	if err := json.Unmarshal(trimmed, &text); err != nil {
		return nil, bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeBadRequest, fmt.Sprintf("invalid %s", field), err)
	}
	return []byte(text), nil
}

// RunPredictionJobs performs one orchestration run. The run is recorded even when it is
// aborted, an aborted run stops the pipeline.
func (p *JobClientPipeline) RunPredictionJobs(ctx interfaces.AppFunctionContext, in any) (bool, any) {
	lc := ctx.LoggingClient()
	batch, ok := in.(data.InputBatch)
	if !ok {
		lc.Errorf("RunPredictionJobs expects an input batch, got %T", in)
		return false, bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeServerError, "unexpected pipeline data")
	}

	record, err := p.runner.Run(p.appCtx, batch.SourceID, batch.Records)
	if record != nil {
		record.CorrelationID = batch.CorrelationID
		p.recordRun(ctx, record)
	}
	if err != nil {
		return false, err
	}
	return true, record
}

func (p *JobClientPipeline) recordRun(ctx interfaces.AppFunctionContext, record *run.RunRecord) {
	lc := ctx.LoggingClient()
	if p.runStore != nil {
		if err := p.runStore.SaveRun(record); err != nil {
			lc.Errorf("failed to save run %s: %v", record.ID, err)
		}
	}
	if p.telemetry != nil {
		if err := p.telemetry.ProcessRun(record); err != nil {
			lc.Errorf("failed to update run metrics: %v", err)
		}
	}
}

// BuildOutputMessage converts the run record into the JSON output message
func (p *JobClientPipeline) BuildOutputMessage(ctx interfaces.AppFunctionContext, in any) (bool, any) {
	lc := ctx.LoggingClient()
	record, ok := in.(*run.RunRecord)
	if !ok || record == nil {
		lc.Errorf("BuildOutputMessage expects a run record, got %T", in)
		return false, bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeServerError, "unexpected pipeline data")
	}
	output, err := json.Marshal(run.NewOutputMessage(record))
	if err != nil {
		lc.Errorf("failed to marshal output of run %s: %v", record.ID, err)
		return false, bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeServerError, "failed to marshal output message", err)
	}
	return true, output
}

// PublishPredictions sets the output as pipeline response and exports it over MQTT when a
// publish topic is configured
func (p *JobClientPipeline) PublishPredictions(ctx interfaces.AppFunctionContext, in any) (bool, any) {
	lc := ctx.LoggingClient()
	output, err := util.CoerceType(in)
	if err != nil {
		lc.Errorf("failed to publish predictions: %v", err)
		return false, err
	}

	if p.config.CompressOutput {
		ctx.SetResponseContentType("text/plain")
	} else {
		ctx.SetResponseContentType(client.ContentTypeJSON)
	}
	ctx.SetResponseData(output)

	if p.sender == nil {
		return true, output
	}
	lc.Debugf("publishing %d bytes of predictions to %s", len(output), p.config.PublishTopic)
	return p.sender.MQTTSend(ctx, output)
}
