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
	"fmt"
	"os"

	"github.com/penny-vault/pftrack/common"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Database
	viper.BindEnv("database.url", "DATABASE_URL")
	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL connection string")
	viper.BindPFlag("database.url", rootCmd.PersistentFlags().Lookup("database-url"))

	viper.BindEnv("ledger.store", "PFTRACK_LEDGER_STORE")
	rootCmd.PersistentFlags().String("ledger-store", "csv", "Ledger storage backend: csv or postgres")
	viper.BindPFlag("ledger.store", rootCmd.PersistentFlags().Lookup("ledger-store"))

	// Ledger files
	rootCmd.PersistentFlags().String("positions-file", "positions.csv", "Transaction ledger CSV file")
	viper.BindPFlag("files.positions", rootCmd.PersistentFlags().Lookup("positions-file"))

	rootCmd.PersistentFlags().String("dividends-file", "dividends.csv", "Dividend ledger CSV file")
	viper.BindPFlag("files.dividends", rootCmd.PersistentFlags().Lookup("dividends-file"))

	rootCmd.PersistentFlags().String("realized-file", "realized_pnl.csv", "Realized P&L CSV file")
	viper.BindPFlag("files.realized_pnl", rootCmd.PersistentFlags().Lookup("realized-file"))

	rootCmd.PersistentFlags().String("consolidated-file", "consolidated.csv", "Consolidated snapshot CSV file")
	viper.BindPFlag("files.consolidated", rootCmd.PersistentFlags().Lookup("consolidated-file"))

	// Market data
	viper.BindEnv("tiingo.token", "TIINGO_TOKEN")
	rootCmd.PersistentFlags().String("tiingo-token", "", "Tiingo API token")
	viper.BindPFlag("tiingo.token", rootCmd.PersistentFlags().Lookup("tiingo-token"))

	// Telegram
	viper.BindEnv("telegram.token", "TELEGRAM_TOKEN")
	rootCmd.PersistentFlags().String("telegram-token", "", "Telegram bot token; blank disables delivery")
	viper.BindPFlag("telegram.token", rootCmd.PersistentFlags().Lookup("telegram-token"))

	viper.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")
	rootCmd.PersistentFlags().String("telegram-chat-id", "", "Telegram chat to deliver messages to")
	viper.BindPFlag("telegram.chat_id", rootCmd.PersistentFlags().Lookup("telegram-chat-id"))

	// Logging configuration
	viper.BindEnv("log.level", "PFTRACK_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "warning", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.report_caller", "PFTRACK_LOG_REPORT_CALLER")
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	viper.BindEnv("log.output", "PFTRACK_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stdout", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	rootCmd.PersistentFlags().Bool("log-pretty", false, "Print logs in human readable form")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))
}

var rootCmd = &cobra.Command{
	Use:     "pftrack",
	Version: common.CurrentVersion.String(),
	Short:   "pftrack is a personal portfolio bookkeeping and signal scanning tool",
	Long: `Track buys, sells and dividends in a durable ledger, derive weighted
average cost, realized P&L and consolidated holdings, value the portfolio
against live quotes, and scan an instrument universe for EMA crossover
signals.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		if err := common.SetupCache(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: cache unavailable: %v\n", err)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
