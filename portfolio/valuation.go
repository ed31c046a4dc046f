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

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	RemarkBookProfit = "Book profit"
	RemarkBuyMore    = "Buy more"
)

// Quoter supplies the last traded price for a symbol
type Quoter interface {
	LastPrice(ctx context.Context, symbol string) (float64, error)
}

// ValuationRow joins a holding with its live quote
type ValuationRow struct {
	Symbol   string  `json:"stock_name"`
	NetQty   int     `json:"net_qty"`
	AvgCost  float64 `json:"avg_cost"`
	LTP      float64 `json:"ltp"`
	Invested float64 `json:"invested"`
	Current  float64 `json:"current_value"`
	Gain     float64 `json:"gain"`
	Percent  float64 `json:"percent"`
	Remark   string  `json:"remark,omitempty"`
}

// Summary totals a set of valuation rows
type Summary struct {
	Invested float64 `json:"total_invested"`
	Current  float64 `json:"total_current"`
	Gain     float64 `json:"total_gain"`
	Percent  float64 `json:"total_percent"`
}

// Value prices each holding with a non-zero net quantity. A failed quote
// falls back to the holding's average cost so its gain reads as zero; one
// symbol's quote failure never aborts the batch.
func Value(ctx context.Context, quoter Quoter, holdings []*Holding) []*ValuationRow {
	rows := make([]*ValuationRow, 0, len(holdings))
	for _, holding := range holdings {
		if holding.NetQty == 0 {
			continue
		}

		ltp, err := quoter.LastPrice(ctx, holding.Symbol)
		if err != nil {
			log.Warn().Stack().Err(err).Str("Symbol", holding.Symbol).Msg("quote unavailable; valuing at average cost")
			ltp = holding.AvgCost
		}

		rows = append(rows, buildValuationRow(holding, ltp))
	}

	return rows
}

func buildValuationRow(holding *Holding, ltp float64) *ValuationRow {
	qty := decimal.NewFromInt(int64(holding.NetQty))
	avg := decimal.NewFromFloat(holding.AvgCost)
	last := decimal.NewFromFloat(ltp)

	invested := avg.Mul(qty)
	current := last.Mul(qty)
	gain := last.Sub(avg).Mul(qty)

	percent := decimal.Zero
	if !invested.IsZero() {
		percent = gain.Div(invested).Mul(decimal.NewFromInt(100))
	}

	row := &ValuationRow{
		Symbol:  holding.Symbol,
		NetQty:  holding.NetQty,
		AvgCost: holding.AvgCost,
		LTP:     ltp,
	}
	row.Invested, _ = invested.Round(2).Float64()
	row.Current, _ = current.Round(2).Float64()
	row.Gain, _ = gain.Round(2).Float64()
	row.Percent, _ = percent.Round(2).Float64()
	row.Remark = remark(row.Percent, row.Invested)

	return row
}

// remark classifies a row; Book profit takes priority over Buy more
func remark(percent float64, invested float64) string {
	switch {
	case percent > 5 && invested > 10000:
		return RemarkBookProfit
	case percent < -10:
		return RemarkBuyMore
	default:
		return ""
	}
}

// SortHoldingsView orders rows for the holdings view: winners first
// (percent descending), ties broken by symbol ascending
func SortHoldingsView(rows []*ValuationRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Percent != rows[j].Percent {
			return rows[i].Percent > rows[j].Percent
		}
		return rows[i].Symbol < rows[j].Symbol
	})
}

// SortPnLView orders rows for the P&L view: losers first (percent
// ascending), ties broken by symbol ascending
func SortPnLView(rows []*ValuationRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Percent != rows[j].Percent {
			return rows[i].Percent < rows[j].Percent
		}
		return rows[i].Symbol < rows[j].Symbol
	})
}

// Summarize totals the valuation rows
func Summarize(rows []*ValuationRow) *Summary {
	invested := decimal.Zero
	current := decimal.Zero
	for _, row := range rows {
		invested = invested.Add(decimal.NewFromFloat(row.Invested))
		current = current.Add(decimal.NewFromFloat(row.Current))
	}

	gain := current.Sub(invested)
	percent := decimal.Zero
	if !invested.IsZero() {
		percent = gain.Div(invested).Mul(decimal.NewFromInt(100))
	}

	summary := &Summary{}
	summary.Invested, _ = invested.Round(2).Float64()
	summary.Current, _ = current.Round(2).Float64()
	summary.Gain, _ = gain.Round(2).Float64()
	summary.Percent, _ = percent.Round(2).Float64()

	return summary
}
