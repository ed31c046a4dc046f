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
	"context"
	"sort"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/pftrack/data"
	"github.com/penny-vault/pftrack/portfolio"
)

type fixedQuoter struct {
	prices map[string]float64
}

func (q *fixedQuoter) LastPrice(_ context.Context, symbol string) (float64, error) {
	price, ok := q.prices[symbol]
	if !ok {
		return 0, data.ErrDataUnavailable
	}
	return price, nil
}

var _ = Describe("Value", func() {
	var (
		ctx      context.Context
		quoter   *fixedQuoter
		holdings []*portfolio.Holding
	)

	BeforeEach(func() {
		ctx = context.Background()
		quoter = &fixedQuoter{prices: map[string]float64{}}
		holdings = []*portfolio.Holding{
			{Symbol: "INFY", NetQty: 100, AvgCost: 150, Value: 15000},
			{Symbol: "TCS", NetQty: 0, AvgCost: 3000, Value: 0},
			{Symbol: "WIPRO", NetQty: 50, AvgCost: 400, Value: 20000},
		}
	})

	It("skips holdings with zero net quantity", func() {
		rows := portfolio.Value(ctx, quoter, holdings)
		Expect(rows).To(HaveLen(2))
		for _, row := range rows {
			Expect(row.Symbol).NotTo(Equal("TCS"))
		}
	})

	It("falls back to average cost when the quote is unavailable", func() {
		rows := portfolio.Value(ctx, quoter, holdings)
		Expect(rows[0].LTP).To(Equal(150.0))
		Expect(rows[0].Gain).To(Equal(0.0))
		Expect(rows[0].Percent).To(Equal(0.0))
	})

	It("computes gain and percent from the live quote", func() {
		quoter.prices["INFY"] = 159.0
		rows := portfolio.Value(ctx, quoter, holdings)
		Expect(rows[0].Gain).To(Equal(900.0))
		Expect(rows[0].Percent).To(Equal(6.0))
	})

	Context("when classifying remarks", func() {
		It("flags Book profit above 5 percent on a position over 10000", func() {
			quoter.prices["INFY"] = 159.0 // +6% on 15000 invested
			rows := portfolio.Value(ctx, quoter, holdings)
			Expect(rows[0].Remark).To(Equal(portfolio.RemarkBookProfit))
		})

		It("flags Buy more below -10 percent", func() {
			quoter.prices["INFY"] = 127.5 // -15%
			rows := portfolio.Value(ctx, quoter, holdings)
			Expect(rows[0].Remark).To(Equal(portfolio.RemarkBuyMore))
		})

		It("leaves small moves unremarked", func() {
			quoter.prices["INFY"] = 153.0 // +2%
			rows := portfolio.Value(ctx, quoter, holdings)
			Expect(rows[0].Remark).To(Equal(""))
		})

		It("requires the invested threshold for Book profit", func() {
			small := []*portfolio.Holding{{Symbol: "IDEA", NetQty: 10, AvgCost: 10, Value: 100}}
			quoter.prices["IDEA"] = 11 // +10% but only 100 invested
			rows := portfolio.Value(ctx, quoter, small)
			Expect(rows[0].Remark).To(Equal(""))
		})
	})
})

var _ = Describe("view sorting", func() {
	var rows []*portfolio.ValuationRow

	BeforeEach(func() {
		rows = []*portfolio.ValuationRow{
			{Symbol: "B", Percent: 5},
			{Symbol: "A", Percent: 5},
			{Symbol: "C", Percent: -12},
			{Symbol: "D", Percent: 20},
		}
	})

	It("puts losers first in the P&L view with symbol tiebreak", func() {
		portfolio.SortPnLView(rows)

		percents := make([]float64, 0, len(rows))
		for _, row := range rows {
			percents = append(percents, row.Percent)
		}
		Expect(sort.Float64sAreSorted(percents)).To(BeTrue())
		Expect(rows[0].Symbol).To(Equal("C"))
		Expect(rows[1].Symbol).To(Equal("A"))
		Expect(rows[2].Symbol).To(Equal("B"))
	})

	It("puts winners first in the holdings view with symbol tiebreak", func() {
		portfolio.SortHoldingsView(rows)
		Expect(rows[0].Symbol).To(Equal("D"))
		Expect(rows[1].Symbol).To(Equal("A"))
		Expect(rows[2].Symbol).To(Equal("B"))
		Expect(rows[3].Symbol).To(Equal("C"))
	})
})

var _ = Describe("Summarize", func() {
	It("totals invested, current and gain", func() {
		summary := portfolio.Summarize([]*portfolio.ValuationRow{
			{Invested: 10000, Current: 11000},
			{Invested: 5000, Current: 4500},
		})
		Expect(summary.Invested).To(Equal(15000.0))
		Expect(summary.Current).To(Equal(15500.0))
		Expect(summary.Gain).To(Equal(500.0))
		Expect(summary.Percent).To(Equal(3.33))
	})
})
