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

// Package scanner runs an indicator over an instrument universe and
// collects per-instrument signals. One instrument's data failure never
// aborts the batch, and cancellation is honored between instruments.
package scanner

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/penny-vault/pftrack/data"
	"github.com/penny-vault/pftrack/indicators"
	"github.com/rs/zerolog/log"
)

// Mode selects the indicator the scan applies
type Mode string

const (
	ModeEmaCrossover Mode = "ema"
	ModeSupertrend   Mode = "supertrend"
)

// calendar days of history to request; must cover 201 trading days with
// weekend and holiday slack
const lookbackDays = 400

// Result is the classification of one instrument
type Result struct {
	Symbol    string            `json:"symbol"`
	Signal    indicators.Signal `json:"signal"`
	Reason    string            `json:"reason"`
	Close     float64           `json:"close,omitempty"`
	ScannedAt time.Time         `json:"scanned_at"`
}

// Scanner applies an indicator to each instrument of a universe
type Scanner struct {
	manager *data.Manager
	mode    Mode
}

func New(manager *data.Manager, mode Mode) *Scanner {
	return &Scanner{manager: manager, mode: mode}
}

// Scan classifies every symbol in the universe. A failed bar download
// degrades that symbol to Hold with the failure as reason. Scan returns
// ctx.Err() only at instrument boundaries, with results for every
// instrument processed so far.
func (scan *Scanner) Scan(ctx context.Context, universe []string) ([]*Result, error) {
	results := make([]*Result, 0, len(universe))

	for _, symbol := range universe {
		if err := ctx.Err(); err != nil {
			log.Info().Int("Completed", len(results)).Int("Universe", len(universe)).Msg("scan cancelled")
			return results, err
		}

		results = append(results, scan.scanOne(ctx, symbol))
	}

	return results, nil
}

func (scan *Scanner) scanOne(ctx context.Context, symbol string) *Result {
	result := &Result{
		Symbol:    symbol,
		Signal:    indicators.Hold,
		ScannedAt: time.Now().UTC(),
	}

	bars, err := scan.manager.DailyBars(ctx, symbol, lookbackDays)
	if err != nil {
		log.Warn().Stack().Err(err).Str("Symbol", symbol).Msg("could not retrieve bars; holding")
		result.Reason = fmt.Sprintf("data unavailable: %v", err)
		return result
	}

	df := data.BarsToDataFrame(bars)
	closes := df.Col("close")
	if len(closes) > 0 {
		result.Close = closes[len(closes)-1]
	}

	switch scan.mode {
	case ModeSupertrend:
		result.Signal, result.Reason = indicators.Supertrend(df.Col("high"), df.Col("low"), closes)
	default:
		result.Signal, result.Reason = indicators.EmaCrossover(closes)
	}

	return result
}

// LoadUniverse reads one symbol per row from a CSV or newline separated
// file; blank rows and a leading "symbol" header are skipped
func LoadUniverse(path string) ([]string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	reader := csv.NewReader(fh)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	universe := make([]string, 0, len(rows))
	for idx, row := range rows {
		if len(row) == 0 {
			continue
		}
		symbol := strings.ToUpper(strings.TrimSpace(row[0]))
		if symbol == "" || (idx == 0 && symbol == "SYMBOL") {
			continue
		}
		universe = append(universe, symbol)
	}

	return universe, nil
}

// WriteResults saves the scan output as a CSV reference file
func WriteResults(path string, results []*Result) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fh.Close()

	writer := csv.NewWriter(fh)
	if err := writer.Write([]string{"symbol", "signal", "reason", "close", "scanned_at"}); err != nil {
		return err
	}
	for _, result := range results {
		if err := writer.Write([]string{
			result.Symbol,
			string(result.Signal),
			result.Reason,
			fmt.Sprintf("%.2f", result.Close),
			result.ScannedAt.Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// SummaryJSON renders only the actionable (non-Hold) results as JSON for
// the notification sink; it returns ok=false when every signal is Hold
func SummaryJSON(results []*Result) ([]byte, bool) {
	actionable := make([]*Result, 0, len(results))
	for _, result := range results {
		if result.Signal != indicators.Hold {
			actionable = append(actionable, result)
		}
	}
	if len(actionable) == 0 {
		return nil, false
	}

	payload, err := json.MarshalIndent(actionable, "", "  ")
	if err != nil {
		log.Warn().Stack().Err(err).Msg("could not marshal scan summary")
		return nil, false
	}
	return payload, true
}
