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

// Package portfolio derives holdings, cost basis, realized gains and
// valuation views from the raw transaction ledger. All derivations are
// pure functions of ledger state; nothing here mutates the ledger.
package portfolio

import (
	"strings"
	"time"

	"github.com/penny-vault/pftrack/ledger"
	"github.com/shopspring/decimal"
)

// WeightedAverageCost computes the buy-side weighted average cost for
// symbol across BUY rows in trxs dated on or before asOf; a zero asOf
// means no date filter. The average is rounded to 4 decimal places. ok is
// false when the qualifying buy quantity sums to zero or less; sells never
// reduce the average.
func WeightedAverageCost(trxs []*ledger.Transaction, symbol string, asOf time.Time) (avg float64, buyQty int, ok bool) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	totalCost := decimal.Zero
	for _, trx := range trxs {
		if trx.Symbol != symbol || trx.Kind != ledger.BuyTransaction {
			continue
		}
		if !asOf.IsZero() && trx.Date.After(asOf) {
			continue
		}
		qty := decimal.NewFromInt(int64(trx.Qty))
		totalCost = totalCost.Add(qty.Mul(decimal.NewFromFloat(trx.Price)))
		buyQty += trx.Qty
	}

	if buyQty <= 0 {
		return 0, 0, false
	}

	avg, _ = totalCost.Div(decimal.NewFromInt(int64(buyQty))).Round(4).Float64()
	return avg, buyQty, true
}

// RealizeSale computes the realized gain for a SELL transaction against the
// weighted average cost of the symbol's buys. The realized quantity is
// capped at the total bought quantity; any excess is reported in the
// record's Unmatched field rather than realized. ok is false when the
// symbol has no buy history at all, in which case nothing is realized.
func RealizeSale(trxs []*ledger.Transaction, sale *ledger.Transaction) (*ledger.RealizedPnLRecord, bool) {
	if sale.Kind != ledger.SellTransaction {
		return nil, false
	}

	avg, buyQty, ok := WeightedAverageCost(trxs, sale.Symbol, sale.Date)
	if !ok {
		return nil, false
	}

	qtySold := sale.Qty
	if qtySold < 0 {
		qtySold = -qtySold
	}

	matched := qtySold
	if buyQty < matched {
		matched = buyQty
	}

	pnl, _ := decimal.NewFromFloat(sale.Price).
		Sub(decimal.NewFromFloat(avg)).
		Mul(decimal.NewFromInt(int64(matched))).
		Round(2).Float64()

	return &ledger.RealizedPnLRecord{
		Date:        sale.Date,
		Symbol:      sale.Symbol,
		QtySold:     matched,
		SellPrice:   sale.Price,
		AvgCost:     avg,
		RealizedPnL: pnl,
		Notes:       sale.Notes,
		Unmatched:   qtySold - matched,
	}, true
}
