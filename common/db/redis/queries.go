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
	"encoding/json"
	"errors"

	"github.com/gomodule/redigo/redis"
	db2 "mlbridge/common/db"
)

type UnmarshalFunc func([]byte, interface{}) error

// JSONUnmarshal is the UnmarshalFunc for objects stored as JSON
func JSONUnmarshal(data []byte, out interface{}) error {
	return json.Unmarshal(data, out)
}

func GetObjectById(conn redis.Conn, id string, unmarshal UnmarshalFunc, out interface{}) error {
	object, err := redis.Bytes(conn.Do("GET", id))
	if errors.Is(err, redis.ErrNil) {
		return db2.ErrNotFound
	} else if err != nil {
		return err
	}

	return unmarshal(object, out)
}

// GetObjectsByRevRange returns the objects whose ids are members of the sorted set key, highest score first
func GetObjectsByRevRange(conn redis.Conn, key string, start int, end int) ([][]byte, error) {
	return GetObjectsBySomeRange(conn, "ZREVRANGE", key, start, end)
}

func GetObjectsBySomeRange(conn redis.Conn, command string, key string, start int, end int) ([][]byte, error) {
	ids, err := redis.Values(conn.Do(command, key, start, end))
	if err != nil && !errors.Is(err, redis.ErrNil) {
		return nil, err
	}

	var result [][]byte
	if len(ids) > 0 {
		result, err = redis.ByteSlices(conn.Do("MGET", ids...))
		if err != nil {
			return nil, err
		}
	}

	var objects [][]byte
	for _, obj := range result {
		if obj != nil {
			objects = append(objects, obj)
		}
	}

	return objects, nil
}
