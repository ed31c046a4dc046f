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
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/pftrack/ledger"
	"github.com/penny-vault/pftrack/portfolio"
)

func mustDate(dateStr string) time.Time {
	date, err := ledger.ParseDate(dateStr)
	Expect(err).To(BeNil())
	return date
}

func trxOn(dateStr, symbol string, qty int, price float64) *ledger.Transaction {
	date, err := ledger.ParseDate(dateStr)
	Expect(err).To(BeNil())
	trx := &ledger.Transaction{Date: date, Symbol: symbol, Qty: qty, Price: price}
	trx.Normalize()
	return trx
}

var _ = Describe("WeightedAverageCost", func() {
	Context("with two buys of equal size", func() {
		var trxs []*ledger.Transaction

		BeforeEach(func() {
			trxs = []*ledger.Transaction{
				trxOn("01 Jan 2025", "INFY", 10, 100),
				trxOn("01 Feb 2025", "INFY", 10, 200),
			}
		})

		It("averages to 150", func() {
			avg, qty, ok := portfolio.WeightedAverageCost(trxs, "INFY", time.Time{})
			Expect(ok).To(BeTrue())
			Expect(qty).To(Equal(20))
			Expect(avg).To(Equal(150.0))
		})

		It("excludes buys after the as-of date", func() {
			asOf, _ := ledger.ParseDate("15 Jan 2025")
			avg, qty, ok := portfolio.WeightedAverageCost(trxs, "INFY", asOf)
			Expect(ok).To(BeTrue())
			Expect(qty).To(Equal(10))
			Expect(avg).To(Equal(100.0))
		})

		It("includes buys on the as-of date itself", func() {
			asOf, _ := ledger.ParseDate("01 Feb 2025")
			_, qty, ok := portfolio.WeightedAverageCost(trxs, "INFY", asOf)
			Expect(ok).To(BeTrue())
			Expect(qty).To(Equal(20))
		})
	})

	Context("with only sells", func() {
		It("reports no cost basis rather than zero", func() {
			trxs := []*ledger.Transaction{trxOn("01 Jan 2025", "INFY", -10, 100)}
			_, _, ok := portfolio.WeightedAverageCost(trxs, "INFY", time.Time{})
			Expect(ok).To(BeFalse())
		})
	})

	Context("with a negative buy quantity sum", func() {
		It("reports no cost basis for a lone negative buy row", func() {
			trxs := []*ledger.Transaction{
				{Date: mustDate("01 Jan 2025"), Symbol: "INFY", Qty: -5, Price: 100, Kind: ledger.BuyTransaction},
			}
			avg, qty, ok := portfolio.WeightedAverageCost(trxs, "INFY", time.Time{})
			Expect(ok).To(BeFalse())
			Expect(avg).To(Equal(0.0))
			Expect(qty).To(Equal(0))
		})

		It("reports no cost basis when negative buys outweigh positive ones", func() {
			trxs := []*ledger.Transaction{
				trxOn("01 Jan 2025", "INFY", 10, 100),
				{Date: mustDate("01 Feb 2025"), Symbol: "INFY", Qty: -15, Price: 100, Kind: ledger.BuyTransaction},
			}
			_, _, ok := portfolio.WeightedAverageCost(trxs, "INFY", time.Time{})
			Expect(ok).To(BeFalse())
		})
	})

	Context("with uneven lots", func() {
		It("rounds the average to 4 decimal places", func() {
			trxs := []*ledger.Transaction{
				trxOn("01 Jan 2025", "INFY", 3, 100),
				trxOn("01 Feb 2025", "INFY", 4, 101),
			}
			avg, _, ok := portfolio.WeightedAverageCost(trxs, "INFY", time.Time{})
			Expect(ok).To(BeTrue())
			// 704 / 7 = 100.571428...
			Expect(avg).To(Equal(100.5714))
		})
	})
})

var _ = Describe("RealizeSale", func() {
	Context("with a single buy of 5 shares", func() {
		var trxs []*ledger.Transaction

		BeforeEach(func() {
			trxs = []*ledger.Transaction{trxOn("01 Jan 2025", "INFY", 5, 100)}
		})

		It("caps an oversell of 8 at the 5 recorded shares", func() {
			sale := trxOn("01 Mar 2025", "INFY", -8, 120)
			rec, ok := portfolio.RealizeSale(trxs, sale)
			Expect(ok).To(BeTrue())
			Expect(rec.QtySold).To(Equal(5))
			Expect(rec.Unmatched).To(Equal(3))
			Expect(rec.RealizedPnL).To(Equal(100.0))
		})

		It("realizes an exact-quantity sale in full", func() {
			sale := trxOn("01 Mar 2025", "INFY", -5, 90)
			rec, ok := portfolio.RealizeSale(trxs, sale)
			Expect(ok).To(BeTrue())
			Expect(rec.QtySold).To(Equal(5))
			Expect(rec.Unmatched).To(Equal(0))
			Expect(rec.RealizedPnL).To(Equal(-50.0))
		})
	})

	Context("with no buy history", func() {
		It("returns nothing to realize rather than a zero record", func() {
			sale := trxOn("01 Mar 2025", "INFY", -5, 120)
			rec, ok := portfolio.RealizeSale([]*ledger.Transaction{}, sale)
			Expect(ok).To(BeFalse())
			Expect(rec).To(BeNil())
		})
	})

	Context("with buys dated after the sale", func() {
		It("ignores them when computing cost basis", func() {
			trxs := []*ledger.Transaction{
				trxOn("01 Jan 2025", "INFY", 5, 100),
				trxOn("01 Jun 2025", "INFY", 5, 500),
			}
			sale := trxOn("01 Mar 2025", "INFY", -5, 120)
			rec, ok := portfolio.RealizeSale(trxs, sale)
			Expect(ok).To(BeTrue())
			Expect(rec.AvgCost).To(Equal(100.0))
			Expect(rec.RealizedPnL).To(Equal(100.0))
		})
	})
})
