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
	buyDate  string
	buyDemat string
	buyNotes string
)

func init() {
	buyCmd.Flags().StringVarP(&buyDate, "date", "d", "", "trade date as '02 Jan 2006'; defaults to today")
	buyCmd.Flags().StringVar(&buyDemat, "demat", "", "demat account the shares settle in")
	buyCmd.Flags().StringVar(&buyNotes, "notes", "", "free-form note stored with the transaction")
	rootCmd.AddCommand(buyCmd)
}

var buyCmd = &cobra.Command{
	Use:   "buy <symbol> <qty> <price>",
	Short: "record a buy transaction and rebuild the consolidated view",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		date, err := parseDateFlag(buyDate)
		if err != nil {
			log.Fatal().Err(err).Str("DateStr", buyDate).Msg("could not parse trade date")
		}

		qty, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal().Err(err).Str("Qty", args[1]).Msg("quantity must be an integer")
		}

		price, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			log.Fatal().Err(err).Str("Price", args[2]).Msg("price must be a number")
		}

		store, cleanup, err := openStore(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not open ledger store")
		}
		defer cleanup()

		trx := &ledger.Transaction{
			Date:   date,
			Symbol: args[0],
			Qty:    qty,
			Price:  price,
			Demat:  buyDemat,
			Notes:  buyNotes,
			Kind:   ledger.BuyTransaction,
		}

		if err := recordTransaction(ctx, store, trx); err != nil {
			log.Fatal().Err(err).Msg("could not record buy")
		}

		fmt.Printf("bought %d %s @ %s\n", trx.Qty, trx.Symbol, args[2])
	},
}
