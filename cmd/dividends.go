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
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/pftrack/portfolio"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(dividendsCmd)
}

var dividendsCmd = &cobra.Command{
	Use:   "dividends",
	Short: "show dividend income grouped by calendar year",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		store, cleanup, err := openStore(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not open ledger store")
		}
		defer cleanup()

		divs, err := store.Dividends(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not read dividends")
		}

		for _, year := range portfolio.DividendsByYear(divs) {
			fmt.Printf("%d (total %.2f)\n", year.Year, year.Total)

			symbols := make([]string, 0, len(year.BySymbol))
			for symbol := range year.BySymbol {
				symbols = append(symbols, symbol)
			}
			sort.Strings(symbols)

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Symbol", "Amount"})
			table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
			table.SetCenterSeparator("|")
			for _, symbol := range symbols {
				table.Append([]string{symbol, strconv.FormatFloat(year.BySymbol[symbol], 'f', 2, 64)})
			}
			table.Render()
		}
	},
}
