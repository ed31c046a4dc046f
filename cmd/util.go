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

package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/pftrack/data"
	"github.com/penny-vault/pftrack/database"
	"github.com/penny-vault/pftrack/ledger"
	"github.com/penny-vault/pftrack/portfolio"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// openStore builds the configured ledger store; the cleanup func closes
// any database resources and is safe to call unconditionally
func openStore(ctx context.Context) (ledger.Store, func(), error) {
	if viper.GetString("ledger.store") == "postgres" {
		if err := database.Connect(ctx); err != nil {
			return nil, func() {}, err
		}
		pool, err := database.Pool()
		if err != nil {
			return nil, func() {}, err
		}
		return ledger.NewPGStore(pool), database.Close, nil
	}

	return ledger.NewCSVStore(), func() {}, nil
}

// newManager builds the market data manager; without a tiingo token it
// stays disconnected and consumers fall back per their contracts
func newManager() *data.Manager {
	manager := data.NewManager()
	if viper.GetString("tiingo.token") != "" {
		manager.Connect(data.NewTiingo())
	} else {
		log.Info().Msg("no tiingo token configured; valuations fall back to average cost")
	}
	return manager
}

// parseDateFlag interprets an optional --date value; blank means today
func parseDateFlag(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return ledger.Today(), nil
	}
	return ledger.ParseDate(dateStr)
}

// recordTransaction appends trx, realizes a sale when applicable, and
// rebuilds the consolidated snapshot as one logical unit. The ledger append
// happens first; the realized P&L record is only written once the sale is
// durably in the ledger.
func recordTransaction(ctx context.Context, store ledger.Store, trx *ledger.Transaction) error {
	trx.Normalize()

	var rec *ledger.RealizedPnLRecord
	if trx.Kind == ledger.SellTransaction {
		trxs, err := store.Transactions(ctx)
		if err != nil {
			return err
		}
		if r, ok := portfolio.RealizeSale(trxs, trx); ok {
			rec = r
			if rec.Unmatched > 0 {
				log.Warn().Str("Symbol", rec.Symbol).Int("Unmatched", rec.Unmatched).Msg("sale exceeds recorded buy quantity; excess has no cost basis")
			}
		} else {
			log.Warn().Str("Symbol", trx.Symbol).Msg("no buy history; nothing to realize")
		}
	}

	if err := store.AppendTransaction(ctx, trx); err != nil {
		return err
	}

	if rec != nil {
		if err := store.AppendRealizedPnL(ctx, rec); err != nil {
			return err
		}
		fmt.Printf("realized %s: %d @ %s (avg cost %s) => %s\n", rec.Symbol, rec.QtySold,
			strconv.FormatFloat(rec.SellPrice, 'f', 2, 64),
			strconv.FormatFloat(rec.AvgCost, 'f', 4, 64),
			strconv.FormatFloat(rec.RealizedPnL, 'f', 2, 64))
	}

	_, err := portfolio.Consolidate(ctx, store)
	return err
}

func valuationTable(rows []*portfolio.ValuationRow) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Symbol", "Qty", "Avg Cost", "LTP", "Invested", "Current", "Gain", "%", "Remark"})
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")

	for _, row := range rows {
		table.Append([]string{
			row.Symbol,
			strconv.Itoa(row.NetQty),
			strconv.FormatFloat(row.AvgCost, 'f', 4, 64),
			strconv.FormatFloat(row.LTP, 'f', 2, 64),
			strconv.FormatFloat(row.Invested, 'f', 2, 64),
			strconv.FormatFloat(row.Current, 'f', 2, 64),
			strconv.FormatFloat(row.Gain, 'f', 2, 64),
			strconv.FormatFloat(row.Percent, 'f', 2, 64),
			row.Remark,
		})
	}

	table.Render()
}

func summaryLine(summary *portfolio.Summary) {
	fmt.Printf("invested: %.2f  current: %.2f  gain: %.2f (%.2f%%)\n",
		summary.Invested, summary.Current, summary.Gain, summary.Percent)
}
