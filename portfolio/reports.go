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

package portfolio

import (
	"sort"
	"time"

	"github.com/penny-vault/pftrack/ledger"
	"github.com/shopspring/decimal"
)

// TransactionReportRow is one row of the transactions view
type TransactionReportRow struct {
	Date    time.Time
	Symbol  string
	Kind    string
	Qty     int
	Price   float64
	Value   float64
	AgeDays int
}

// TransactionsView lists the ledger sorted by symbol then date with each
// row's traded value and age in days relative to asOf
func TransactionsView(trxs []*ledger.Transaction, asOf time.Time) []*TransactionReportRow {
	rows := make([]*TransactionReportRow, 0, len(trxs))
	for _, trx := range trxs {
		value, _ := decimal.NewFromFloat(trx.Price).
			Mul(decimal.NewFromInt(int64(trx.Qty))).
			Round(2).Float64()
		rows = append(rows, &TransactionReportRow{
			Date:    trx.Date,
			Symbol:  trx.Symbol,
			Kind:    trx.Kind,
			Qty:     trx.Qty,
			Price:   trx.Price,
			Value:   value,
			AgeDays: int(asOf.Sub(trx.Date).Hours() / 24),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Symbol != rows[j].Symbol {
			return rows[i].Symbol < rows[j].Symbol
		}
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows
}

// MonthlyInvestment is the total of buy-side traded value for one month
type MonthlyInvestment struct {
	Month    time.Time
	Invested float64
}

// MonthlyInvestments totals buy transactions per calendar month, oldest
// first. Sells and dividends are excluded.
func MonthlyInvestments(trxs []*ledger.Transaction) []*MonthlyInvestment {
	byMonth := make(map[time.Time]decimal.Decimal)
	for _, trx := range trxs {
		if trx.Kind != ledger.BuyTransaction {
			continue
		}
		month := time.Date(trx.Date.Year(), trx.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		byMonth[month] = byMonth[month].Add(
			decimal.NewFromFloat(trx.Price).Mul(decimal.NewFromInt(int64(trx.Qty))))
	}

	months := make([]time.Time, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	report := make([]*MonthlyInvestment, 0, len(months))
	for _, month := range months {
		invested, _ := byMonth[month].Round(2).Float64()
		report = append(report, &MonthlyInvestment{Month: month, Invested: invested})
	}
	return report
}

// DividendYear totals dividend income for one calendar year
type DividendYear struct {
	Year     int
	Total    float64
	BySymbol map[string]float64
}

// DividendsByYear groups dividend income by calendar year, oldest first,
// with per-symbol subtotals
func DividendsByYear(divs []*ledger.Dividend) []*DividendYear {
	byYear := make(map[int]map[string]decimal.Decimal)
	for _, div := range divs {
		year := div.Date.Year()
		if byYear[year] == nil {
			byYear[year] = make(map[string]decimal.Decimal)
		}
		byYear[year][div.Symbol] = byYear[year][div.Symbol].Add(decimal.NewFromFloat(div.Amount))
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)

	report := make([]*DividendYear, 0, len(years))
	for _, year := range years {
		entry := &DividendYear{Year: year, BySymbol: make(map[string]float64, len(byYear[year]))}
		total := decimal.Zero
		for symbol, amount := range byYear[year] {
			entry.BySymbol[symbol], _ = amount.Round(2).Float64()
			total = total.Add(amount)
		}
		entry.Total, _ = total.Round(2).Float64()
		report = append(report, entry)
	}
	return report
}
