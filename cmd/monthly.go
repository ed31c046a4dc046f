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
	"github.com/penny-vault/pftrack/portfolio"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(monthlyCmd)
}

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "show the amount invested in buys per calendar month",
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

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Month", "Invested"})
		table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
		table.SetCenterSeparator("|")

		for _, month := range portfolio.MonthlyInvestments(trxs) {
			table.Append([]string{
				month.Month.Format("Jan 2006"),
				strconv.FormatFloat(month.Invested, 'f', 2, 64),
			})
		}

		table.Render()
	},
}
