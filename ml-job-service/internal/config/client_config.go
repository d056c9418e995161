/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/edgexfoundry/app-functions-sdk-go/v3/pkg/interfaces"
	"github.com/go-playground/validator/v10"
	commonConfig "mlbridge/common/config"
	bridgeErrors "mlbridge/common/errors"
)

const (
	DefaultDelimiter         = ","
	DefaultPollDelaySeconds  = 15
	DefaultMaxRetries        = 240
	DefaultMaxParallelGroups = 4
	DefaultRunHistoryLimit   = 100
	DefaultSubscribeTopic    = "ml-job-client/input"

	// without RequestTimeout a request may take requestTimeoutPollDelays poll delays,
	// never less than minRequestTimeout
	requestTimeoutPollDelays = 4
	minRequestTimeout        = 30 * time.Second
)

// ClientConfig is the ApplicationSettings section of the ml-job-client
type ClientConfig struct {
	TimeField        string `validate:"required"`
	Delimiter        string `validate:"len=1"`
	EmptyPlaceholder string
	WorkerURL        string `validate:"required,url"`
	TrainerURL       string `validate:"required,url"`
	// MLConfig is forwarded as is to the trainer
	MLConfig        string `validate:"required,json"`
	CompressedInput bool

	RequestPollDelaySeconds int `validate:"gte=0"`
	RequestMaxRetries       int `validate:"gte=0"`
	// RequestTimeoutSeconds bounds a single trainer or worker request, 0 derives it from the poll delay
	RequestTimeoutSeconds int `validate:"gte=0"`

	FixFeatures           bool
	WaitForPendingModels  bool
	FailRunOnGroupFailure bool
	ParallelGroups        bool
	MaxParallelGroups     int `validate:"gte=1"`

	SubscribeTopics []string `validate:"min=1,dive,required"`
	PublishTopic    string
	CompressOutput  bool

	PersistRuns     bool
	RunHistoryLimit int `validate:"gte=1"`
}

func (c *ClientConfig) PollDelay() time.Duration {
	return time.Duration(c.RequestPollDelaySeconds) * time.Second
}

func (c *ClientConfig) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds > 0 {
		return time.Duration(c.RequestTimeoutSeconds) * time.Second
	}
	return max(requestTimeoutPollDelays*c.PollDelay(), minRequestTimeout)
}

func (c *ClientConfig) MaxRetries() uint {
	return uint(c.RequestMaxRetries)
}

func (c *ClientConfig) MLConfigJSON() json.RawMessage {
	return json.RawMessage(c.MLConfig)
}

// LoadClientConfig reads and validates the settings. Any missing required or invalid setting
// is a ConfigurationError.
func LoadClientConfig(service interfaces.ApplicationService) (*ClientConfig, error) {
	lc := service.LoggingClient()
	cfg := &ClientConfig{}
	var err error

	if cfg.TimeField, err = requiredSetting(service, "TimeField"); err != nil {
		return nil, err
	}
	if cfg.WorkerURL, err = requiredSetting(service, "WorkerURL"); err != nil {
		return nil, err
	}
	if cfg.TrainerURL, err = requiredSetting(service, "TrainerURL"); err != nil {
		return nil, err
	}
	if cfg.MLConfig, err = requiredSetting(service, "MLConfig"); err != nil {
		return nil, err
	}

	// wait for pending models has no default, it must be an explicit choice
	waitForPending, err := requiredSetting(service, "WaitForPendingModels")
	if err != nil {
		return nil, err
	}
	if cfg.WaitForPendingModels, err = strconv.ParseBool(waitForPending); err != nil {
		return nil, bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeConfig,
			fmt.Sprintf("invalid WaitForPendingModels %q", waitForPending))
	}

	cfg.Delimiter = optionalSetting(service, "Delimiter", DefaultDelimiter)
	cfg.EmptyPlaceholder, _ = service.GetAppSetting("EmptyPlaceholder")
	cfg.PublishTopic, _ = service.GetAppSetting("PublishTopic")

	if cfg.RequestPollDelaySeconds, err = intSetting(service, "RequestPollDelay", DefaultPollDelaySeconds); err != nil {
		return nil, err
	}
	if cfg.RequestMaxRetries, err = intSetting(service, "RequestMaxRetries", DefaultMaxRetries); err != nil {
		return nil, err
	}
	if cfg.RequestTimeoutSeconds, err = intSetting(service, "RequestTimeout", 0); err != nil {
		return nil, err
	}
	if cfg.MaxParallelGroups, err = intSetting(service, "MaxParallelGroups", DefaultMaxParallelGroups); err != nil {
		return nil, err
	}
	if cfg.RunHistoryLimit, err = intSetting(service, "RunHistoryLimit", DefaultRunHistoryLimit); err != nil {
		return nil, err
	}

	cfg.CompressedInput = commonConfig.GetBoolSetting(service, "CompressedInput", false)
	cfg.FixFeatures = commonConfig.GetBoolSetting(service, "FixFeatures", false)
	cfg.FailRunOnGroupFailure = commonConfig.GetBoolSetting(service, "FailRunOnGroupFailure", false)
	cfg.ParallelGroups = commonConfig.GetBoolSetting(service, "ParallelGroups", false)
	cfg.CompressOutput = commonConfig.GetBoolSetting(service, "CompressOutput", false)
	cfg.PersistRuns = commonConfig.GetBoolSetting(service, "PersistRuns", false)

	topics, err := service.GetAppSettingStrings("SubscribeTopics")
	if err != nil || len(topics) == 0 {
		lc.Infof("SubscribeTopics not configured, using %s", DefaultSubscribeTopic)
		topics = []string{DefaultSubscribeTopic}
	}
	for _, topic := range topics {
		if topic = strings.TrimSpace(topic); topic != "" {
			cfg.SubscribeTopics = append(cfg.SubscribeTopics, topic)
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeConfig, "invalid ml-job-client configuration", err)
	}

	lc.Infof("ml-job-client configuration: worker %s, trainer %s, time field %s, poll delay %ds, max retries %d, wait for pending models %t, fail run on group failure %t",
		cfg.WorkerURL, cfg.TrainerURL, cfg.TimeField, cfg.RequestPollDelaySeconds, cfg.RequestMaxRetries, cfg.WaitForPendingModels, cfg.FailRunOnGroupFailure)
	return cfg, nil
}

func requiredSetting(service interfaces.ApplicationService, name string) (string, error) {
	value, err := service.GetAppSetting(name)
	if err != nil {
		return "", bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeConfig, fmt.Sprintf("%s is required to be configured", name), err)
	}
	if strings.TrimSpace(value) == "" {
		return "", bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeConfig, fmt.Sprintf("%s must not be blank", name))
	}
	return strings.TrimSpace(value), nil
}

func optionalSetting(service interfaces.ApplicationService, name string, def string) string {
	value, err := service.GetAppSetting(name)
	if err != nil || value == "" {
		return def
	}
	return value
}

func intSetting(service interfaces.ApplicationService, name string, def int) (int, error) {
	value, err := service.GetAppSetting(name)
	if err != nil || strings.TrimSpace(value) == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeConfig, fmt.Sprintf("invalid %s %q", name, value))
	}
	return parsed, nil
}
