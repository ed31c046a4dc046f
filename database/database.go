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

package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	// ErrNotConnected is returned when the pool is used before Connect
	ErrNotConnected = errors.New("database is not connected")

	pool *pgxpool.Pool
)

// schema statements are idempotent so Connect can run them on every start
var schema = []string{
	`CREATE TABLE IF NOT EXISTS ledger_transactions (
		id BIGSERIAL PRIMARY KEY,
		source_id TEXT NOT NULL,
		event_date TIMESTAMPTZ NOT NULL,
		symbol TEXT NOT NULL,
		qty INT NOT NULL,
		price DOUBLE PRECISION NOT NULL,
		demat TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		kind TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ledger_dividends (
		id BIGSERIAL PRIMARY KEY,
		event_date TIMESTAMPTZ NOT NULL,
		symbol TEXT NOT NULL,
		amount DOUBLE PRECISION NOT NULL,
		notes TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS ledger_realized_pnl (
		id BIGSERIAL PRIMARY KEY,
		event_date TIMESTAMPTZ NOT NULL,
		symbol TEXT NOT NULL,
		qty_sold INT NOT NULL,
		sell_price DOUBLE PRECISION NOT NULL,
		avg_cost DOUBLE PRECISION NOT NULL,
		realized_pnl DOUBLE PRECISION NOT NULL,
		notes TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS ledger_consolidated (
		symbol TEXT PRIMARY KEY,
		total_qty TEXT NOT NULL,
		avg_price TEXT NOT NULL,
		total_value_sum TEXT NOT NULL,
		transactions_detail TEXT NOT NULL
	)`,
}

// Connect establishes the connection pool configured by database.url and
// ensures the ledger schema exists
func Connect(ctx context.Context) error {
	dbURL := viper.GetString("database.url")
	var err error
	pool, err = pgxpool.Connect(ctx, dbURL)
	if err != nil {
		log.Error().Stack().Err(err).Str("DatabaseURL", dbURL).Msg("could not connect to database")
		return err
	}

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			log.Error().Stack().Err(err).Msg("could not apply ledger schema")
			return err
		}
	}

	log.Info().Msg("connected to database")
	return nil
}

// Pool returns the active connection pool
func Pool() (*pgxpool.Pool, error) {
	if pool == nil {
		return nil, ErrNotConnected
	}
	return pool, nil
}

// Close tears down the connection pool
func Close() {
	if pool != nil {
		pool.Close()
		pool = nil
	}
}
