// Copyright 2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Byte cache for downloaded quote and bar history. Entries live in a local
// LRU; when cache.redis is enabled a shared redis tier backs the LRU so
// repeated scans across invocations don't re-download history.

var ErrCacheMiss = errors.New("key not in cache")

var cacheCtx = context.Background()
var rdb *redis.Client
var cache *lru.Cache

func SetupCache() error {
	var err error
	if viper.GetBool("cache.redis") {
		opt, err := redis.ParseURL(viper.GetString("cache.redis_url"))
		if err != nil {
			log.Error().Stack().Err(err).Msg("could not parse redis URL")
			return err
		}
		rdb = redis.NewClient(opt)
	}

	sz := viper.GetInt("cache.local_size")
	if sz <= 0 {
		sz = 128
	}
	cache, err = lru.New(sz)
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not create LRU cache")
		return err
	}
	return nil
}

func CacheSet(key string, val []byte) error {
	if cache == nil {
		return nil
	}

	compressed, err := Compress(val)
	if err != nil {
		return err
	}
	cache.Add(key, compressed)

	if rdb != nil {
		expires := time.Duration(viper.GetInt("cache.ttl")) * time.Second
		return rdb.Set(cacheCtx, key, compressed, expires).Err()
	}
	return nil
}

func CacheGet(key string) ([]byte, error) {
	if cache == nil {
		return nil, ErrCacheMiss
	}

	if v, ok := cache.Get(key); ok {
		return Decompress(v.([]byte))
	}

	if rdb != nil {
		expires := time.Duration(viper.GetInt("cache.ttl")) * time.Second
		val, err := rdb.GetEx(cacheCtx, key, expires).Bytes()
		if err != nil {
			return nil, ErrCacheMiss
		}
		cache.Add(key, val)
		return Decompress(val)
	}

	return nil, ErrCacheMiss
}
