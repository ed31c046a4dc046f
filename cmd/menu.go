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
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/penny-vault/pftrack/ledger"
	"github.com/penny-vault/pftrack/portfolio"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(menuCmd)
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "interactive numbered menu over the ledger operations",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		store, cleanup, err := openStore(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not open ledger store")
		}
		defer cleanup()

		reader := bufio.NewReader(os.Stdin)
		for {
			fmt.Println()
			fmt.Println("1) add buy")
			fmt.Println("2) add sell")
			fmt.Println("3) add dividend")
			fmt.Println("4) show holdings")
			fmt.Println("5) show P&L")
			fmt.Println("6) show transactions")
			fmt.Println("7) rebuild consolidated view")
			fmt.Println("0) exit")
			fmt.Print("> ")

			choice, err := reader.ReadString('\n')
			if err != nil {
				return
			}

			switch strings.TrimSpace(choice) {
			case "1":
				menuTrade(ctx, store, reader, ledger.BuyTransaction)
			case "2":
				menuTrade(ctx, store, reader, ledger.SellTransaction)
			case "3":
				menuDividend(ctx, store, reader)
			case "4":
				menuValuation(ctx, store, false)
			case "5":
				menuValuation(ctx, store, true)
			case "6":
				menuTransactions(ctx, store)
			case "7":
				if holdings, err := portfolio.Consolidate(ctx, store); err != nil {
					fmt.Printf("rebuild failed: %v\n", err)
				} else {
					fmt.Printf("consolidated %d holdings\n", len(holdings))
				}
			case "0", "q", "exit":
				return
			default:
				fmt.Println("unknown choice")
			}
		}
	},
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Printf("%s: ", label)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(answer)
}

func menuTrade(ctx context.Context, store ledger.Store, reader *bufio.Reader, kind string) {
	symbol := prompt(reader, "symbol")

	qty, err := strconv.Atoi(prompt(reader, "quantity"))
	if err != nil {
		fmt.Println("quantity must be an integer")
		return
	}
	if kind == ledger.SellTransaction && qty > 0 {
		qty = -qty
	}

	price, err := strconv.ParseFloat(prompt(reader, "price"), 64)
	if err != nil {
		fmt.Println("price must be a number")
		return
	}

	date, err := parseDateFlag(prompt(reader, "date (blank = today)"))
	if err != nil {
		fmt.Printf("date must look like %q\n", ledger.DateFormat)
		return
	}

	trx := &ledger.Transaction{
		Date:   date,
		Symbol: symbol,
		Qty:    qty,
		Price:  price,
		Demat:  prompt(reader, "demat (optional)"),
		Notes:  prompt(reader, "notes (optional)"),
		Kind:   kind,
	}

	if err := recordTransaction(ctx, store, trx); err != nil {
		fmt.Printf("could not record transaction: %v\n", err)
		return
	}
	fmt.Println("recorded")
}

func menuDividend(ctx context.Context, store ledger.Store, reader *bufio.Reader) {
	symbol := prompt(reader, "symbol")

	amount, err := strconv.ParseFloat(prompt(reader, "amount"), 64)
	if err != nil {
		fmt.Println("amount must be a number")
		return
	}

	date, err := parseDateFlag(prompt(reader, "date (blank = today)"))
	if err != nil {
		fmt.Printf("date must look like %q\n", ledger.DateFormat)
		return
	}

	div := &ledger.Dividend{
		Date:   date,
		Symbol: symbol,
		Amount: amount,
		Notes:  prompt(reader, "notes (optional)"),
	}

	if err := store.AppendDividend(ctx, div); err != nil {
		fmt.Printf("could not record dividend: %v\n", err)
		return
	}
	fmt.Println("recorded")
}

func menuValuation(ctx context.Context, store ledger.Store, losersFirst bool) {
	trxs, err := store.Transactions(ctx)
	if err != nil {
		fmt.Printf("could not read ledger: %v\n", err)
		return
	}

	rows := portfolio.Value(ctx, newManager(), portfolio.Rebuild(trxs))
	if losersFirst {
		portfolio.SortPnLView(rows)
	} else {
		portfolio.SortHoldingsView(rows)
	}

	valuationTable(rows)
	summaryLine(portfolio.Summarize(rows))
}

func menuTransactions(ctx context.Context, store ledger.Store) {
	trxs, err := store.Transactions(ctx)
	if err != nil {
		fmt.Printf("could not read ledger: %v\n", err)
		return
	}

	for _, row := range portfolio.TransactionsView(trxs, ledger.Today()) {
		fmt.Printf("%s  %-12s %-4s %6d @ %10.2f  (%d days)\n",
			ledger.FormatDate(row.Date), row.Symbol, row.Kind, row.Qty, row.Price, row.AgeDays)
	}
}
