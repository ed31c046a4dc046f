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

package portfolio_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/pftrack/ledger"
	"github.com/penny-vault/pftrack/portfolio"
)

var _ = Describe("TransactionsView", func() {
	It("sorts rows by symbol then date and computes value and age", func() {
		trxs := []*ledger.Transaction{
			trxOn("01 Jan 2025", "TCS", 2, 3000),
			trxOn("01 Mar 2025", "INFY", 5, 110),
			trxOn("01 Jan 2025", "INFY", 10, 100),
		}
		asOf, _ := ledger.ParseDate("11 Jan 2025")

		rows := portfolio.TransactionsView(trxs, asOf)
		Expect(rows).To(HaveLen(3))
		Expect(rows[0].Symbol).To(Equal("INFY"))
		Expect(rows[0].Value).To(Equal(1000.0))
		Expect(rows[0].AgeDays).To(Equal(10))
		Expect(rows[1].Symbol).To(Equal("INFY"))
		Expect(rows[1].Date.After(rows[0].Date)).To(BeTrue())
		Expect(rows[2].Symbol).To(Equal("TCS"))
	})
})

var _ = Describe("MonthlyInvestments", func() {
	It("totals buys per month and skips sells", func() {
		trxs := []*ledger.Transaction{
			trxOn("05 Jan 2025", "INFY", 10, 100),
			trxOn("20 Jan 2025", "TCS", 1, 3000),
			trxOn("10 Feb 2025", "INFY", -5, 120),
			trxOn("15 Feb 2025", "WIPRO", 10, 400),
		}

		report := portfolio.MonthlyInvestments(trxs)
		Expect(report).To(HaveLen(2))
		Expect(report[0].Month.Format("Jan 2006")).To(Equal("Jan 2025"))
		Expect(report[0].Invested).To(Equal(4000.0))
		Expect(report[1].Invested).To(Equal(4000.0))
	})
})

var _ = Describe("DividendsByYear", func() {
	It("groups income by calendar year with per-symbol subtotals", func() {
		jan24, _ := ledger.ParseDate("15 Jan 2024")
		jun24, _ := ledger.ParseDate("15 Jun 2024")
		mar25, _ := ledger.ParseDate("15 Mar 2025")

		report := portfolio.DividendsByYear([]*ledger.Dividend{
			{Date: jan24, Symbol: "INFY", Amount: 100},
			{Date: jun24, Symbol: "INFY", Amount: 150},
			{Date: mar25, Symbol: "TCS", Amount: 75},
		})

		Expect(report).To(HaveLen(2))
		Expect(report[0].Year).To(Equal(2024))
		Expect(report[0].Total).To(Equal(250.0))
		Expect(report[0].BySymbol["INFY"]).To(Equal(250.0))
		Expect(report[1].Year).To(Equal(2025))
		Expect(report[1].Total).To(Equal(75.0))
	})
})
