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

package portfolio

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/penny-vault/pftrack/ledger"
	"github.com/shopspring/decimal"
)

// Holding is one consolidated position derived from the ledger
type Holding struct {
	Symbol   string
	NetQty   int
	BuyQty   int
	AvgCost  float64
	Value    float64
	Detail   string
	FirstBuy time.Time
}

// Rebuild derives the consolidated view from scratch. The result is a pure
// function of the transaction rows: rebuilding twice from the same ledger
// yields identical output. Holdings are sorted by symbol; the per-symbol
// detail string lists transactions in ledger order, which is informational
// only and carries no accounting weight.
//
// Value intentionally multiplies average buy cost by NET quantity, so a
// partially sold position carries the remaining shares at average cost.
func Rebuild(trxs []*ledger.Transaction) []*Holding {
	bySymbol := make(map[string][]*ledger.Transaction)
	for _, trx := range trxs {
		bySymbol[trx.Symbol] = append(bySymbol[trx.Symbol], trx)
	}

	symbols := make([]string, 0, len(bySymbol))
	for symbol := range bySymbol {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	holdings := make([]*Holding, 0, len(symbols))
	for _, symbol := range symbols {
		rows := bySymbol[symbol]
		holding := &Holding{Symbol: symbol}
		details := make([]string, 0, len(rows))
		for _, trx := range rows {
			holding.NetQty += trx.Qty
			if trx.Kind == ledger.BuyTransaction {
				holding.BuyQty += trx.Qty
				if holding.FirstBuy.IsZero() || trx.Date.Before(holding.FirstBuy) {
					holding.FirstBuy = trx.Date
				}
			}
			details = append(details, trx.DetailString())
		}
		holding.Detail = strings.Join(details, " | ")

		if avg, _, ok := WeightedAverageCost(rows, symbol, time.Time{}); ok {
			holding.AvgCost = avg
			holding.Value, _ = decimal.NewFromFloat(avg).
				Mul(decimal.NewFromInt(int64(holding.NetQty))).
				Round(2).Float64()
		}

		holdings = append(holdings, holding)
	}

	return holdings
}

// SnapshotRows formats holdings for the consolidated snapshot. Formatting
// is deterministic so repeated rebuilds produce byte-identical files.
func SnapshotRows(holdings []*Holding) [][]string {
	rows := make([][]string, 0, len(holdings))
	for _, holding := range holdings {
		rows = append(rows, []string{
			holding.Symbol,
			strconv.Itoa(holding.NetQty),
			strconv.FormatFloat(holding.AvgCost, 'f', -1, 64),
			strconv.FormatFloat(holding.Value, 'f', -1, 64),
			holding.Detail,
		})
	}
	return rows
}

// Consolidate rebuilds the consolidated view from the store's transaction
// ledger and overwrites the snapshot
func Consolidate(ctx context.Context, store ledger.Store) ([]*Holding, error) {
	trxs, err := store.Transactions(ctx)
	if err != nil {
		return nil, err
	}

	holdings := Rebuild(trxs)
	if err := store.WriteSnapshot(ctx, SnapshotRows(holdings)); err != nil {
		return nil, err
	}

	return holdings, nil
}
