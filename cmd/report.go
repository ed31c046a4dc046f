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
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/penny-vault/pftrack/notify"
	"github.com/penny-vault/pftrack/portfolio"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var reportOut string

func init() {
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", ".", "directory to write report files to")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "write valuation report files and send them to the notification sink",
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

		reportPath := filepath.Join(reportOut, "holdings_report.csv")
		if err := writeValuationCSV(reportPath, rows); err != nil {
			log.Fatal().Err(err).Str("FilePath", reportPath).Msg("could not write report")
		}

		files := []string{reportPath}
		if consolidated := viper.GetString("files.consolidated"); consolidated != "" {
			if _, err := os.Stat(consolidated); err == nil {
				files = append(files, consolidated)
			}
		}

		summary := portfolio.Summarize(rows)
		sink := notify.NewTelegram()
		defer sink.Close()
		sink.SendText(fmt.Sprintf("portfolio: invested %.2f, current %.2f, gain %.2f (%.2f%%)",
			summary.Invested, summary.Current, summary.Gain, summary.Percent))
		sink.SendFiles(files)

		fmt.Printf("wrote %s\n", reportPath)
	},
}

func writeValuationCSV(path string, rows []*portfolio.ValuationRow) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fh.Close()

	writer := csv.NewWriter(fh)
	if err := writer.Write([]string{"stock_name", "qty", "avg_cost", "ltp", "invested", "current", "gain", "percent", "remark"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{
			row.Symbol,
			strconv.Itoa(row.NetQty),
			strconv.FormatFloat(row.AvgCost, 'f', 4, 64),
			strconv.FormatFloat(row.LTP, 'f', 2, 64),
			strconv.FormatFloat(row.Invested, 'f', 2, 64),
			strconv.FormatFloat(row.Current, 'f', 2, 64),
			strconv.FormatFloat(row.Gain, 'f', 2, 64),
			strconv.FormatFloat(row.Percent, 'f', 2, 64),
			row.Remark,
		}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
