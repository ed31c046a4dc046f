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
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/pftrack/ledger"
	"github.com/penny-vault/pftrack/portfolio"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var pnlRealized bool

func init() {
	pnlCmd.Flags().BoolVarP(&pnlRealized, "realized", "r", false, "show booked realized P&L instead of the open-position view")
	rootCmd.AddCommand(pnlCmd)
}

var pnlCmd = &cobra.Command{
	Use:   "pnl",
	Short: "show unrealized P&L sorted losers first, or realized P&L with --realized",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		store, cleanup, err := openStore(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not open ledger store")
		}
		defer cleanup()

		if pnlRealized {
			recs, err := store.RealizedPnL(ctx)
			if err != nil {
				log.Fatal().Err(err).Msg("could not read realized P&L")
			}
			realizedTable(recs)
			return
		}

		trxs, err := store.Transactions(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not read ledger")
		}

		holdings := portfolio.Rebuild(trxs)
		rows := portfolio.Value(ctx, newManager(), holdings)
		portfolio.SortPnLView(rows)

		valuationTable(rows)
		summaryLine(portfolio.Summarize(rows))
	},
}

func realizedTable(recs []*ledger.RealizedPnLRecord) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Date", "Symbol", "Qty", "Sell Price", "Avg Cost", "P&L", "Notes"})
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")

	for _, rec := range recs {
		table.Append([]string{
			ledger.FormatDate(rec.Date),
			rec.Symbol,
			strconv.Itoa(rec.QtySold),
			strconv.FormatFloat(rec.SellPrice, 'f', 2, 64),
			strconv.FormatFloat(rec.AvgCost, 'f', 4, 64),
			strconv.FormatFloat(rec.RealizedPnL, 'f', 2, 64),
			rec.Notes,
		})
	}

	table.Render()
}
