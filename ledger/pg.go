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

package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog/log"
)

// PGQuerier is the subset of pgx functionality the postgres store needs;
// both pgxpool.Pool and pgxmock satisfy it.
type PGQuerier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// PGStore keeps the ledger in postgres instead of CSV files. The snapshot
// table is rebuilt wholesale on every WriteSnapshot, mirroring the CSV
// store's overwrite semantics.
type PGStore struct {
	conn PGQuerier
}

// NewPGStore wraps an existing connection or pool
func NewPGStore(conn PGQuerier) *PGStore {
	return &PGStore{conn: conn}
}

func (store *PGStore) Transactions(ctx context.Context) ([]*Transaction, error) {
	rows, err := store.conn.Query(ctx, `SELECT event_date, symbol, qty, price, demat, notes, kind FROM ledger_transactions ORDER BY id`)
	if err != nil {
		log.Warn().Stack().Err(err).Msg("query ledger_transactions failed")
		return nil, err
	}
	defer rows.Close()

	trxs := make([]*Transaction, 0, 100)
	for rows.Next() {
		var trx Transaction
		var eventDate time.Time
		if err := rows.Scan(&eventDate, &trx.Symbol, &trx.Qty, &trx.Price, &trx.Demat, &trx.Notes, &trx.Kind); err != nil {
			log.Warn().Stack().Err(err).Msg("scan ledger_transactions row failed")
			return nil, err
		}
		trx.Date = eventDate.UTC()
		trxs = append(trxs, &trx)
	}

	return trxs, rows.Err()
}

func (store *PGStore) AppendTransaction(ctx context.Context, trx *Transaction) error {
	trx.Normalize()
	if err := trx.Validate(); err != nil {
		return err
	}

	_, err := store.conn.Exec(ctx,
		`INSERT INTO ledger_transactions (source_id, event_date, symbol, qty, price, demat, notes, kind) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		trx.SourceID(), trx.Date, trx.Symbol, trx.Qty, trx.Price, trx.Demat, trx.Notes, trx.Kind)
	if err != nil {
		log.Warn().Stack().Err(err).Str("Symbol", trx.Symbol).Msg("insert transaction failed")
	}
	return err
}

func (store *PGStore) Dividends(ctx context.Context) ([]*Dividend, error) {
	rows, err := store.conn.Query(ctx, `SELECT event_date, symbol, amount, notes FROM ledger_dividends ORDER BY event_date, id`)
	if err != nil {
		log.Warn().Stack().Err(err).Msg("query ledger_dividends failed")
		return nil, err
	}
	defer rows.Close()

	divs := make([]*Dividend, 0, 100)
	for rows.Next() {
		var div Dividend
		var eventDate time.Time
		if err := rows.Scan(&eventDate, &div.Symbol, &div.Amount, &div.Notes); err != nil {
			log.Warn().Stack().Err(err).Msg("scan ledger_dividends row failed")
			return nil, err
		}
		div.Date = eventDate.UTC()
		divs = append(divs, &div)
	}

	return divs, rows.Err()
}

func (store *PGStore) AppendDividend(ctx context.Context, div *Dividend) error {
	div.Symbol = strings.ToUpper(strings.TrimSpace(div.Symbol))
	if err := div.Validate(); err != nil {
		return err
	}

	_, err := store.conn.Exec(ctx,
		`INSERT INTO ledger_dividends (event_date, symbol, amount, notes) VALUES ($1, $2, $3, $4)`,
		div.Date, div.Symbol, div.Amount, div.Notes)
	if err != nil {
		log.Warn().Stack().Err(err).Str("Symbol", div.Symbol).Msg("insert dividend failed")
	}
	return err
}

func (store *PGStore) RealizedPnL(ctx context.Context) ([]*RealizedPnLRecord, error) {
	rows, err := store.conn.Query(ctx, `SELECT event_date, symbol, qty_sold, sell_price, avg_cost, realized_pnl, notes FROM ledger_realized_pnl ORDER BY id`)
	if err != nil {
		log.Warn().Stack().Err(err).Msg("query ledger_realized_pnl failed")
		return nil, err
	}
	defer rows.Close()

	recs := make([]*RealizedPnLRecord, 0, 100)
	for rows.Next() {
		var rec RealizedPnLRecord
		var eventDate time.Time
		if err := rows.Scan(&eventDate, &rec.Symbol, &rec.QtySold, &rec.SellPrice, &rec.AvgCost, &rec.RealizedPnL, &rec.Notes); err != nil {
			log.Warn().Stack().Err(err).Msg("scan ledger_realized_pnl row failed")
			return nil, err
		}
		rec.Date = eventDate.UTC()
		recs = append(recs, &rec)
	}

	return recs, rows.Err()
}

func (store *PGStore) AppendRealizedPnL(ctx context.Context, rec *RealizedPnLRecord) error {
	_, err := store.conn.Exec(ctx,
		`INSERT INTO ledger_realized_pnl (event_date, symbol, qty_sold, sell_price, avg_cost, realized_pnl, notes) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.Date, rec.Symbol, rec.QtySold, rec.SellPrice, rec.AvgCost, rec.RealizedPnL, rec.Notes)
	if err != nil {
		log.Warn().Stack().Err(err).Str("Symbol", rec.Symbol).Msg("insert realized pnl failed")
	}
	return err
}

// WriteSnapshot replaces the consolidated snapshot table with rows
func (store *PGStore) WriteSnapshot(ctx context.Context, rows [][]string) error {
	if _, err := store.conn.Exec(ctx, `TRUNCATE ledger_consolidated`); err != nil {
		log.Warn().Stack().Err(err).Msg("truncate ledger_consolidated failed")
		return err
	}

	for _, row := range rows {
		if len(row) != 5 {
			return &ValidationError{Field: "snapshot", Reason: "snapshot rows must have 5 columns"}
		}
		_, err := store.conn.Exec(ctx,
			`INSERT INTO ledger_consolidated (symbol, total_qty, avg_price, total_value_sum, transactions_detail) VALUES ($1, $2, $3, $4, $5)`,
			row[0], row[1], row[2], row[3], row[4])
		if err != nil {
			log.Warn().Stack().Err(err).Str("Symbol", row[0]).Msg("insert consolidated row failed")
			return err
		}
	}

	return nil
}
