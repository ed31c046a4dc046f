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

package ledger

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	positionsHeader    = []string{"date", "stock_name", "qty", "price", "demat", "notes", "type"}
	dividendsHeader    = []string{"date", "stock_name", "amount", "notes"}
	realizedPnLHeader  = []string{"date", "stock_name", "qty_sold", "sell_price", "avg_cost", "realized_pnl", "notes"}
	consolidatedHeader = []string{"stock_name", "total_qty", "avg_price", "total_value_sum", "transactions_detail"}
)

// CSVStore persists the ledger as plain CSV files. A missing file reads as
// an empty ledger. Every mutation rewrites the target through a temp file
// followed by rename, so a crash mid-write never corrupts subsequent reads.
type CSVStore struct {
	PositionsPath    string
	DividendsPath    string
	RealizedPath     string
	ConsolidatedPath string
}

// NewCSVStore builds a store from the files.* viper configuration
func NewCSVStore() *CSVStore {
	store := &CSVStore{
		PositionsPath:    viper.GetString("files.positions"),
		DividendsPath:    viper.GetString("files.dividends"),
		RealizedPath:     viper.GetString("files.realized_pnl"),
		ConsolidatedPath: viper.GetString("files.consolidated"),
	}

	if store.PositionsPath == "" {
		store.PositionsPath = "positions.csv"
	}
	if store.DividendsPath == "" {
		store.DividendsPath = "dividends.csv"
	}
	if store.RealizedPath == "" {
		store.RealizedPath = "realized_pnl.csv"
	}
	if store.ConsolidatedPath == "" {
		store.ConsolidatedPath = "consolidated.csv"
	}

	return store
}

// Transactions reads the full positions ledger. Insertion order is
// preserved; it carries no accounting meaning.
func (store *CSVStore) Transactions(_ context.Context) ([]*Transaction, error) {
	rows, err := readCSV(store.PositionsPath)
	if err != nil {
		return nil, err
	}

	trxs := make([]*Transaction, 0, len(rows))
	for rowNum, row := range rows {
		trx, err := transactionFromRow(row)
		if err != nil {
			log.Error().Stack().Err(err).Int("Row", rowNum+2).Str("FilePath", store.PositionsPath).Msg("malformed ledger row")
			return nil, err
		}
		trxs = append(trxs, trx)
	}

	return trxs, nil
}

// AppendTransaction validates trx and durably appends it. On validation
// failure the store is left unchanged.
func (store *CSVStore) AppendTransaction(ctx context.Context, trx *Transaction) error {
	trx.Normalize()
	if err := trx.Validate(); err != nil {
		return err
	}

	existing, err := store.Transactions(ctx)
	if err != nil {
		return err
	}

	// duplicate detection is advisory only; same-day identical trades are
	// legal, the log line is there to catch retried appends
	sourceID := trx.SourceID()
	for _, prev := range existing {
		if prev.SourceID() == sourceID {
			log.Warn().Str("SourceID", sourceID).Str("Symbol", trx.Symbol).Int("Qty", trx.Qty).Msg("appending transaction with identical source id to an existing row; possible duplicate")
			break
		}
	}

	existing = append(existing, trx)
	records := make([][]string, 0, len(existing))
	for _, t := range existing {
		records = append(records, transactionToRow(t))
	}

	return writeAtomic(store.PositionsPath, positionsHeader, records)
}

// Dividends reads the dividend file
func (store *CSVStore) Dividends(_ context.Context) ([]*Dividend, error) {
	rows, err := readCSV(store.DividendsPath)
	if err != nil {
		return nil, err
	}

	divs := make([]*Dividend, 0, len(rows))
	for rowNum, row := range rows {
		div, err := dividendFromRow(row)
		if err != nil {
			log.Error().Stack().Err(err).Int("Row", rowNum+2).Str("FilePath", store.DividendsPath).Msg("malformed dividend row")
			return nil, err
		}
		divs = append(divs, div)
	}

	return divs, nil
}

// AppendDividend validates div and appends it; the dividend file is kept
// sorted by date on disk.
func (store *CSVStore) AppendDividend(ctx context.Context, div *Dividend) error {
	div.Symbol = strings.ToUpper(strings.TrimSpace(div.Symbol))
	if err := div.Validate(); err != nil {
		return err
	}

	existing, err := store.Dividends(ctx)
	if err != nil {
		return err
	}

	existing = append(existing, div)
	sort.SliceStable(existing, func(i, j int) bool {
		return existing[i].Date.Before(existing[j].Date)
	})

	records := make([][]string, 0, len(existing))
	for _, d := range existing {
		records = append(records, []string{
			FormatDate(d.Date),
			d.Symbol,
			strconv.FormatFloat(d.Amount, 'f', -1, 64),
			d.Notes,
		})
	}

	return writeAtomic(store.DividendsPath, dividendsHeader, records)
}

// RealizedPnL reads the realized P&L file
func (store *CSVStore) RealizedPnL(_ context.Context) ([]*RealizedPnLRecord, error) {
	rows, err := readCSV(store.RealizedPath)
	if err != nil {
		return nil, err
	}

	recs := make([]*RealizedPnLRecord, 0, len(rows))
	for rowNum, row := range rows {
		rec, err := realizedFromRow(row)
		if err != nil {
			log.Error().Stack().Err(err).Int("Row", rowNum+2).Str("FilePath", store.RealizedPath).Msg("malformed realized pnl row")
			return nil, err
		}
		recs = append(recs, rec)
	}

	return recs, nil
}

// AppendRealizedPnL appends rec to the append-only realized P&L file
func (store *CSVStore) AppendRealizedPnL(ctx context.Context, rec *RealizedPnLRecord) error {
	existing, err := store.RealizedPnL(ctx)
	if err != nil {
		return err
	}

	existing = append(existing, rec)
	records := make([][]string, 0, len(existing))
	for _, r := range existing {
		records = append(records, []string{
			FormatDate(r.Date),
			r.Symbol,
			strconv.Itoa(r.QtySold),
			strconv.FormatFloat(r.SellPrice, 'f', -1, 64),
			strconv.FormatFloat(r.AvgCost, 'f', -1, 64),
			strconv.FormatFloat(r.RealizedPnL, 'f', -1, 64),
			r.Notes,
		})
	}

	return writeAtomic(store.RealizedPath, realizedPnLHeader, records)
}

// WriteSnapshot fully overwrites the consolidated snapshot file. Rows must
// already be formatted; the snapshot is display output, never ledger input.
func (store *CSVStore) WriteSnapshot(_ context.Context, rows [][]string) error {
	return writeAtomic(store.ConsolidatedPath, consolidatedHeader, rows)
}

// readCSV returns the data rows of a headered CSV file; a missing file is
// an empty ledger, not an error
func readCSV(path string) ([][]string, error) {
	fh, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer fh.Close()

	reader := csv.NewReader(fh)
	reader.FieldsPerRecord = -1
	all, err := reader.ReadAll()
	if err != nil {
		return nil, &ValidationError{Field: "row", Reason: fmt.Sprintf("could not parse %s: %v", path, err)}
	}

	if len(all) <= 1 {
		return nil, nil
	}
	return all[1:], nil
}

func transactionFromRow(row []string) (*Transaction, error) {
	if len(row) < 4 {
		return nil, &ValidationError{Field: "row", Reason: fmt.Sprintf("expected at least 4 columns, got %d", len(row))}
	}

	date, err := ParseDate(strings.TrimSpace(row[0]))
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not in format %q", row[0], DateFormat)}
	}

	qty, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil {
		return nil, &ValidationError{Field: "qty", Reason: fmt.Sprintf("%q is not an integer", row[2])}
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil {
		return nil, &ValidationError{Field: "price", Reason: fmt.Sprintf("%q is not a number", row[3])}
	}

	trx := &Transaction{
		Date:   date,
		Symbol: row[1],
		Qty:    qty,
		Price:  price,
	}
	if len(row) > 4 {
		trx.Demat = row[4]
	}
	if len(row) > 5 {
		trx.Notes = row[5]
	}
	if len(row) > 6 {
		trx.Kind = row[6]
	}
	trx.Normalize()

	return trx, trx.Validate()
}

func transactionToRow(trx *Transaction) []string {
	return []string{
		FormatDate(trx.Date),
		trx.Symbol,
		strconv.Itoa(trx.Qty),
		strconv.FormatFloat(trx.Price, 'f', -1, 64),
		trx.Demat,
		trx.Notes,
		trx.Kind,
	}
}

func dividendFromRow(row []string) (*Dividend, error) {
	if len(row) < 3 {
		return nil, &ValidationError{Field: "row", Reason: fmt.Sprintf("expected at least 3 columns, got %d", len(row))}
	}

	date, err := ParseDate(strings.TrimSpace(row[0]))
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not in format %q", row[0], DateFormat)}
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil {
		return nil, &ValidationError{Field: "amount", Reason: fmt.Sprintf("%q is not a number", row[2])}
	}

	div := &Dividend{
		Date:   date,
		Symbol: strings.ToUpper(strings.TrimSpace(row[1])),
		Amount: amount,
	}
	if len(row) > 3 {
		div.Notes = row[3]
	}

	return div, div.Validate()
}

func realizedFromRow(row []string) (*RealizedPnLRecord, error) {
	if len(row) < 6 {
		return nil, &ValidationError{Field: "row", Reason: fmt.Sprintf("expected at least 6 columns, got %d", len(row))}
	}

	date, err := ParseDate(strings.TrimSpace(row[0]))
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not in format %q", row[0], DateFormat)}
	}

	qtySold, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil {
		return nil, &ValidationError{Field: "qty_sold", Reason: fmt.Sprintf("%q is not an integer", row[2])}
	}

	sellPrice, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil {
		return nil, &ValidationError{Field: "sell_price", Reason: fmt.Sprintf("%q is not a number", row[3])}
	}

	avgCost, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
	if err != nil {
		return nil, &ValidationError{Field: "avg_cost", Reason: fmt.Sprintf("%q is not a number", row[4])}
	}

	pnl, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
	if err != nil {
		return nil, &ValidationError{Field: "realized_pnl", Reason: fmt.Sprintf("%q is not a number", row[5])}
	}

	rec := &RealizedPnLRecord{
		Date:        date,
		Symbol:      strings.ToUpper(strings.TrimSpace(row[1])),
		QtySold:     qtySold,
		SellPrice:   sellPrice,
		AvgCost:     avgCost,
		RealizedPnL: pnl,
	}
	if len(row) > 6 {
		rec.Notes = row[6]
	}

	return rec, nil
}

// writeAtomic writes header + records to a temp file in the target
// directory, syncs it, then renames over the destination
func writeAtomic(path string, header []string, records [][]string) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	writer := csv.NewWriter(tmp)
	if err := writer.Write(header); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := writer.WriteAll(records); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, path)
}
