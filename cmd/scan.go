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
	"os/signal"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/pftrack/notify"
	"github.com/penny-vault/pftrack/portfolio"
	"github.com/penny-vault/pftrack/scanner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	scanUniverse string
	scanHoldings bool
	scanMode     string
	scanOut      string
	scanSchedule string
	scanNotify   bool
)

func init() {
	scanCmd.Flags().StringVarP(&scanUniverse, "universe", "u", "", "CSV file listing symbols to scan, one per row")
	scanCmd.Flags().BoolVar(&scanHoldings, "holdings", false, "scan the symbols currently held in the ledger")
	scanCmd.Flags().StringVarP(&scanMode, "mode", "m", "ema", "indicator to apply: ema or supertrend")
	scanCmd.Flags().StringVarP(&scanOut, "out", "o", "", "also write results to this CSV file")
	scanCmd.Flags().StringVar(&scanSchedule, "schedule", "", "run daily at the given HH:MM instead of once")
	scanCmd.Flags().BoolVar(&scanNotify, "notify", false, "send actionable signals to the notification sink")
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "scan an instrument universe for EMA crossover or supertrend signals",
	Run: func(cmd *cobra.Command, args []string) {
		if scanSchedule == "" {
			runScan()
			return
		}

		sched := gocron.NewScheduler(time.UTC)
		if _, err := sched.Every(1).Day().At(scanSchedule).Do(runScan); err != nil {
			log.Fatal().Err(err).Str("Schedule", scanSchedule).Msg("could not schedule scan")
		}

		log.Info().Str("Schedule", scanSchedule).Msg("scan scheduled daily")
		sched.StartAsync()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt)
		<-quit
		sched.Stop()
	},
}

func runScan() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	universe, err := buildUniverse(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("could not build scan universe")
	}
	if len(universe) == 0 {
		log.Warn().Msg("scan universe is empty; give --universe or --holdings")
		return
	}

	scan := scanner.New(newManager(), scanner.Mode(scanMode))
	results, err := scan.Scan(ctx, universe)
	if err != nil {
		log.Warn().Err(err).Int("Completed", len(results)).Msg("scan stopped early")
	}

	resultsTable(results)

	if scanOut != "" {
		if err := scanner.WriteResults(scanOut, results); err != nil {
			log.Error().Stack().Err(err).Str("FilePath", scanOut).Msg("could not write scan results")
		}
	}

	if scanNotify {
		if payload, ok := scanner.SummaryJSON(results); ok {
			sink := notify.NewTelegram()
			defer sink.Close()
			sink.SendText(string(payload))
		}
	}
}

func buildUniverse(ctx context.Context) ([]string, error) {
	if scanUniverse != "" {
		return scanner.LoadUniverse(scanUniverse)
	}

	if !scanHoldings {
		return nil, nil
	}

	store, cleanup, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	trxs, err := store.Transactions(ctx)
	if err != nil {
		return nil, err
	}

	universe := []string{}
	for _, holding := range portfolio.Rebuild(trxs) {
		if holding.NetQty > 0 {
			universe = append(universe, holding.Symbol)
		}
	}
	return universe, nil
}

func resultsTable(results []*scanner.Result) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Symbol", "Signal", "Reason"})
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")

	for _, result := range results {
		table.Append([]string{result.Symbol, string(result.Signal), result.Reason})
	}

	table.Render()
}
