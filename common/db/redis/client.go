/*******************************************************************************
 * Copyright 2018 Redis Labs Inc.
 * (c) Copyright 2020-2025 BMC Software, Inc.
 *
 * Contributors: BMC Software, Inc. - BMC Helix Edge
 *
 * Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License. You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software distributed under the License
 * is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express
 * or implied. See the License for the specific language governing permissions and limitations under
 * the License.
 *******************************************************************************/
package redis

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/edgexfoundry/go-mod-bootstrap/v3/bootstrap/startup"
	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/redigo"
	"github.com/gomodule/redigo/redis"
	"mlbridge/common/db"
	bridgeErrors "mlbridge/common/errors"
)

const (
	lockExpiry   = 5 * time.Second
	lockAttempts = 5
)

// DBClient represents a Redis client
type DBClient struct {
	Pool      *redis.Pool // A thread-safe pool of connections to Redis
	Logger    logger.LoggingClient
	RedisSync *redsync.Redsync
	// lockRetryDelay is the wait between two lock attempts
	lockRetryDelay time.Duration
}

type CommonRedisDBInterface interface {
	IncrMetricCounterBy(key string, value int64) (int64, bridgeErrors.BridgeError)
	GetMetricCounter(key string) (int64, bridgeErrors.BridgeError)
	AcquireRedisLock(lockName string) (*redsync.Mutex, bridgeErrors.BridgeError)
}

func (c *DBClient) IncrMetricCounterBy(key string, value int64) (int64, bridgeErrors.BridgeError) {
	conn := c.Pool.Get()
	defer conn.Close()

	errorMessage := "Error incrementing metric counter"

	val, err := redis.Int64(conn.Do("INCRBY", key, value))
	if err != nil {
		c.Logger.Errorf("%s key %s value %v: %v", errorMessage, key, value, err)
		return 0, bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeDBError, errorMessage)
	}
	return val, nil
}

func (c *DBClient) GetMetricCounter(key string) (int64, bridgeErrors.BridgeError) {
	conn := c.Pool.Get()
	defer conn.Close()

	errorMessage := "error getting metric"

	val, err := redis.Int64(conn.Do("GET", key))
	if errors.Is(err, redis.ErrNil) {
		return 0, nil // return 0 if key does not exist
	}
	if err != nil {
		c.Logger.Errorf("%s from DB for key %s: %v", errorMessage, key, err)
		return 0, bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeDBError, errorMessage)
	}
	return val, nil
}

func (c *DBClient) AcquireRedisLock(lockName string) (*redsync.Mutex, bridgeErrors.BridgeError) {
	mutex := c.RedisSync.NewMutex(lockName, redsync.WithExpiry(lockExpiry))

	var err error
	for attempt := 1; attempt <= lockAttempts; attempt++ {
		if err = mutex.Lock(); err == nil {
			return mutex, nil
		}
		if attempt < lockAttempts {
			time.Sleep(c.lockRetryDelay)
		}
	}
	c.Logger.Errorf("Failed to acquire lock %s in Redis after %d attempts: %v", lockName, lockAttempts, err)
	return nil, bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeServerError, "Failed to acquire lock in Redis after multiple attempts", err)
}

// CreateDBClient keeps dialing redis until the bootstrap startup timer elapses
func CreateDBClient(dbConfig *db.DatabaseConfig, lc logger.LoggingClient) (*DBClient, error) {
	var dbClient *DBClient
	var err error
	startupTimer := startup.NewStartUpTimer("redis-db")
	for startupTimer.HasNotElapsed() {
		dbClient, err = newDBClient(dbConfig, lc)
		if err == nil {
			return dbClient, nil
		}
		lc.Warnf("Couldn't create database client: %v", err)
		startupTimer.SleepForInterval()
	}
	return nil, fmt.Errorf("failed to create database client in allotted time: %w", err)
}

func newDBClient(dbConfig *db.DatabaseConfig, lc logger.LoggingClient) (*DBClient, error) {
	connectionString := fmt.Sprintf("%s:%s", dbConfig.RedisHost, dbConfig.RedisPort)
	opts := []redis.DialOption{
		redis.DialConnectTimeout(9 * time.Second),
	}
	if os.Getenv("EDGEX_SECURITY_SECRET_STORE") != "false" {
		opts = append(opts, redis.DialPassword(dbConfig.RedisPassword))
	}

	pool := &redis.Pool{
		MaxIdle: 10,
		Dial: func() (redis.Conn, error) {
			conn, err := redis.Dial("tcp", connectionString, opts...)
			if err != nil {
				return nil, fmt.Errorf("could not dial Redis: %s", err)
			}
			return conn, nil
		},
	}

	// Test connectivity now so don't have failures later when doing lazy connect.
	conn, err := pool.Dial()
	if err != nil {
		return nil, err
	}
	_ = conn.Close()

	return NewDBClientFromPool(pool, lc), nil
}

// NewDBClientFromPool builds the client around an existing pool
func NewDBClientFromPool(pool *redis.Pool, lc logger.LoggingClient) *DBClient {
	return &DBClient{
		Pool:           pool,
		Logger:         lc,
		RedisSync:      redsync.New(redigo.NewPool(pool)),
		lockRetryDelay: time.Second,
	}
}

// CloseSession closes the connections to Redis
func (c *DBClient) CloseSession() {
	_ = c.Pool.Close()
}
