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

func init() {
	rootCmd.AddCommand(transactionsCmd)
}

var transactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "list ledger transactions by date with traded value and age",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		store, cleanup, err := openStore(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not open ledger store")
		}
		defer cleanup()

		trxs, err := store.Transactions(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not read ledger")
		}

		rows := portfolio.TransactionsView(trxs, ledger.Today())

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Date", "Symbol", "Type", "Qty", "Price", "Value", "Age (days)"})
		table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
		table.SetCenterSeparator("|")

		for _, row := range rows {
			table.Append([]string{
				ledger.FormatDate(row.Date),
				row.Symbol,
				row.Kind,
				strconv.Itoa(row.Qty),
				strconv.FormatFloat(row.Price, 'f', 2, 64),
				strconv.FormatFloat(row.Value, 'f', 2, 64),
				strconv.Itoa(row.AgeDays),
			})
		}

		table.Render()
	},
}
