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
	"strconv"

	"github.com/penny-vault/pftrack/ledger"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	dividendDate  string
	dividendNotes string
)

func init() {
	dividendCmd.Flags().StringVarP(&dividendDate, "date", "d", "", "payment date as '02 Jan 2006'; defaults to today")
	dividendCmd.Flags().StringVar(&dividendNotes, "notes", "", "free-form note stored with the dividend")
	rootCmd.AddCommand(dividendCmd)
}

var dividendCmd = &cobra.Command{
	Use:   "dividend <symbol> <amount>",
	Short: "record a dividend payment",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		date, err := parseDateFlag(dividendDate)
		if err != nil {
			log.Fatal().Err(err).Str("DateStr", dividendDate).Msg("could not parse payment date")
		}

		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			log.Fatal().Err(err).Str("Amount", args[1]).Msg("amount must be a number")
		}

		store, cleanup, err := openStore(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not open ledger store")
		}
		defer cleanup()

		div := &ledger.Dividend{
			Date:   date,
			Symbol: args[0],
			Amount: amount,
			Notes:  dividendNotes,
		}

		if err := store.AppendDividend(ctx, div); err != nil {
			log.Fatal().Err(err).Msg("could not record dividend")
		}

		fmt.Printf("recorded dividend of %s from %s\n", args[1], div.Symbol)
	},
}
