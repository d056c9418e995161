/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package redis

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gomodule/redigo/redis"
	db2 "mlbridge/common/db"
	redis2 "mlbridge/common/db/redis"
	bridgeErrors "mlbridge/common/errors"
	"mlbridge/ml-job-service/pkg/dto/run"
)

// RunStore keeps the history of prediction runs
type RunStore interface {
	SaveRun(record *run.RunRecord) bridgeErrors.BridgeError
	GetRun(runID string) (*run.RunRecord, bridgeErrors.BridgeError)
	// GetRuns lists the latest runs of sourceID, or of every source when sourceID is empty
	GetRuns(sourceID string, limit int) ([]run.RunSummary, bridgeErrors.BridgeError)
}

type DBClient struct {
	client       *redis2.DBClient
	historyLimit int
}

func NewRunStore(client *redis2.DBClient, historyLimit int) *DBClient {
	if historyLimit < 1 {
		historyLimit = 1
	}
	return &DBClient{client: client, historyLimit: historyLimit}
}

func runKey(runID string) string {
	return db2.PredictionRun + ":" + runID
}

func sourceIndexKey(sourceID string) string {
	return db2.PredictionRunBySource + ":" + sourceID
}

func (dbClient *DBClient) SaveRun(record *run.RunRecord) bridgeErrors.BridgeError {
	conn := dbClient.client.Pool.Get()
	defer conn.Close()
	lc := dbClient.client.Logger

	errorMessage := fmt.Sprintf("Failed to save prediction run %s", record.ID)

	m, err := json.Marshal(record)
	if err != nil {
		lc.Errorf("%s: %v", errorMessage, err)
		return bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeDBError, errorMessage)
	}

	key := runKey(record.ID)
	_ = conn.Send("MULTI")
	_ = conn.Send("SET", key, m)
	_ = conn.Send("ZADD", sourceIndexKey(record.SourceID), record.FinishedAt, key)
	_ = conn.Send("ZADD", db2.PredictionRunAll, record.FinishedAt, key)
	_, err = conn.Do("EXEC")
	if err != nil {
		lc.Errorf("%s: %v", errorMessage, err)
		return bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeDBError, errorMessage)
	}

	return dbClient.trimHistory(conn, record.SourceID)
}

// trimHistory drops the oldest runs of sourceID beyond the history limit
func (dbClient *DBClient) trimHistory(conn redis.Conn, sourceID string) bridgeErrors.BridgeError {
	lc := dbClient.client.Logger
	errorMessage := fmt.Sprintf("Failed to trim run history of source %s", sourceID)

	expired, err := redis.Strings(conn.Do("ZREVRANGE", sourceIndexKey(sourceID), dbClient.historyLimit, -1))
	if err != nil {
		lc.Errorf("%s: %v", errorMessage, err)
		return bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeDBError, errorMessage)
	}
	if len(expired) == 0 {
		return nil
	}

	_ = conn.Send("MULTI")
	for _, key := range expired {
		_ = conn.Send("DEL", key)
		_ = conn.Send("ZREM", sourceIndexKey(sourceID), key)
		_ = conn.Send("ZREM", db2.PredictionRunAll, key)
	}
	if _, err = conn.Do("EXEC"); err != nil {
		lc.Errorf("%s: %v", errorMessage, err)
		return bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeDBError, errorMessage)
	}
	lc.Debugf("removed %d old runs of source %s", len(expired), sourceID)
	return nil
}

func (dbClient *DBClient) GetRun(runID string) (*run.RunRecord, bridgeErrors.BridgeError) {
	conn := dbClient.client.Pool.Get()
	defer conn.Close()
	lc := dbClient.client.Logger

	var record run.RunRecord
	err := redis2.GetObjectById(conn, runKey(runID), redis2.JSONUnmarshal, &record)
	if err != nil {
		if errors.Is(err, db2.ErrNotFound) {
			return nil, bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeNotFound, fmt.Sprintf("Prediction run %s not found", runID))
		}
		lc.Errorf("Error while getting prediction run %s: %v", runID, err)
		return nil, bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeDBError, fmt.Sprintf("Failed to get prediction run %s", runID))
	}
	return &record, nil
}

func (dbClient *DBClient) GetRuns(sourceID string, limit int) ([]run.RunSummary, bridgeErrors.BridgeError) {
	conn := dbClient.client.Pool.Get()
	defer conn.Close()
	lc := dbClient.client.Logger

	key := db2.PredictionRunAll
	if sourceID != "" {
		key = sourceIndexKey(sourceID)
	}
	if limit < 1 {
		limit = dbClient.historyLimit
	}

	objects, err := redis2.GetObjectsByRevRange(conn, key, 0, limit-1)
	if err != nil {
		lc.Errorf("Error while listing prediction runs of %s: %v", key, err)
		return nil, bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeDBError, "Failed to list prediction runs")
	}

	summaries := make([]run.RunSummary, 0, len(objects))
	for _, object := range objects {
		var record run.RunRecord
		if err := redis2.JSONUnmarshal(object, &record); err != nil {
			lc.Warnf("skipping unreadable prediction run: %v", err)
			continue
		}
		summaries = append(summaries, record.Summary())
	}
	return summaries, nil
}
