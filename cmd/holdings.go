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

	"github.com/penny-vault/pftrack/notify"
	"github.com/penny-vault/pftrack/portfolio"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var holdingsNotify bool

func init() {
	holdingsCmd.Flags().BoolVar(&holdingsNotify, "notify", false, "send the valuation summary to the notification sink")
	rootCmd.AddCommand(holdingsCmd)
}

var holdingsCmd = &cobra.Command{
	Use:   "holdings",
	Short: "show current holdings valued at the last traded price, winners first",
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

		holdings := portfolio.Rebuild(trxs)
		rows := portfolio.Value(ctx, newManager(), holdings)
		portfolio.SortHoldingsView(rows)

		valuationTable(rows)
		summary := portfolio.Summarize(rows)
		summaryLine(summary)

		if holdingsNotify {
			sink := notify.NewTelegram()
			defer sink.Close()
			for _, row := range rows {
				if row.Remark != "" {
					sink.SendText(row.Symbol + ": " + row.Remark)
				}
			}
		}
	},
}
