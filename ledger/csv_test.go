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

package ledger_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/pftrack/ledger"
	"github.com/spf13/viper"
)

var _ = Describe("CSVStore", func() {
	var (
		ctx   context.Context
		dir   string
		store *ledger.CSVStore
	)

	BeforeEach(func() {
		ctx = context.Background()
		dir = GinkgoT().TempDir()

		viper.Set("files.positions", filepath.Join(dir, "positions.csv"))
		viper.Set("files.dividends", filepath.Join(dir, "dividends.csv"))
		viper.Set("files.realized_pnl", filepath.Join(dir, "realized_pnl.csv"))
		viper.Set("files.consolidated", filepath.Join(dir, "consolidated.csv"))

		store = ledger.NewCSVStore()
	})

	Context("with no files on disk", func() {
		It("reads an empty transaction ledger", func() {
			trxs, err := store.Transactions(ctx)
			Expect(err).To(BeNil())
			Expect(trxs).To(HaveLen(0))
		})

		It("reads an empty dividend ledger", func() {
			divs, err := store.Dividends(ctx)
			Expect(err).To(BeNil())
			Expect(divs).To(HaveLen(0))
		})
	})

	Context("when appending transactions", func() {
		var trx *ledger.Transaction

		BeforeEach(func() {
			date, err := ledger.ParseDate("04 Sep 2025")
			Expect(err).To(BeNil())
			trx = &ledger.Transaction{
				Date:   date,
				Symbol: "infy",
				Qty:    10,
				Price:  1450.5,
				Kind:   ledger.BuyTransaction,
			}
		})

		It("persists and reads back the row", func() {
			Expect(store.AppendTransaction(ctx, trx)).To(Succeed())

			trxs, err := store.Transactions(ctx)
			Expect(err).To(BeNil())
			Expect(trxs).To(HaveLen(1))
			Expect(trxs[0].Symbol).To(Equal("INFY"))
			Expect(trxs[0].Qty).To(Equal(10))
			Expect(trxs[0].Price).To(Equal(1450.5))
			Expect(trxs[0].Kind).To(Equal(ledger.BuyTransaction))
			Expect(ledger.FormatDate(trxs[0].Date)).To(Equal("04 Sep 2025"))
		})

		It("stores sells with a negative quantity", func() {
			trx.Qty = 5
			trx.Kind = ledger.SellTransaction
			Expect(store.AppendTransaction(ctx, trx)).To(Succeed())

			trxs, err := store.Transactions(ctx)
			Expect(err).To(BeNil())
			Expect(trxs[0].Qty).To(Equal(-5))
		})

		It("infers the kind from the quantity sign when blank", func() {
			trx.Qty = -3
			trx.Kind = ""
			Expect(store.AppendTransaction(ctx, trx)).To(Succeed())

			trxs, err := store.Transactions(ctx)
			Expect(err).To(BeNil())
			Expect(trxs[0].Kind).To(Equal(ledger.SellTransaction))
		})

		It("rejects a zero quantity and leaves the ledger unchanged", func() {
			trx.Qty = 0
			err := store.AppendTransaction(ctx, trx)

			Expect(err).To(HaveOccurred())
			validationErr, ok := ledger.AsValidationError(err)
			Expect(ok).To(BeTrue())
			Expect(validationErr.Field).To(Equal("qty"))

			trxs, err := store.Transactions(ctx)
			Expect(err).To(BeNil())
			Expect(trxs).To(HaveLen(0))
		})

		It("rejects a negative price", func() {
			trx.Price = -1
			err := store.AppendTransaction(ctx, trx)

			validationErr, ok := ledger.AsValidationError(err)
			Expect(ok).To(BeTrue())
			Expect(validationErr.Field).To(Equal("price"))
		})

		It("leaves no temp files behind", func() {
			Expect(store.AppendTransaction(ctx, trx)).To(Succeed())

			entries, err := os.ReadDir(dir)
			Expect(err).To(BeNil())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Name()).To(Equal("positions.csv"))
		})
	})

	Context("with a malformed row on disk", func() {
		BeforeEach(func() {
			payload := "date,stock_name,qty,price,demat,notes,type\nnot-a-date,INFY,10,100,,,BUY\n"
			Expect(os.WriteFile(store.PositionsPath, []byte(payload), 0644)).To(Succeed())
		})

		It("surfaces a validation error naming the field", func() {
			_, err := store.Transactions(ctx)

			Expect(err).To(HaveOccurred())
			validationErr, ok := ledger.AsValidationError(err)
			Expect(ok).To(BeTrue())
			Expect(validationErr.Field).To(Equal("date"))
		})
	})

	Context("when appending dividends", func() {
		It("keeps the file sorted by date", func() {
			later, _ := ledger.ParseDate("10 Mar 2025")
			earlier, _ := ledger.ParseDate("05 Jan 2025")

			Expect(store.AppendDividend(ctx, &ledger.Dividend{Date: later, Symbol: "TCS", Amount: 120})).To(Succeed())
			Expect(store.AppendDividend(ctx, &ledger.Dividend{Date: earlier, Symbol: "INFY", Amount: 80})).To(Succeed())

			divs, err := store.Dividends(ctx)
			Expect(err).To(BeNil())
			Expect(divs).To(HaveLen(2))
			Expect(divs[0].Symbol).To(Equal("INFY"))
			Expect(divs[1].Symbol).To(Equal("TCS"))
		})

		It("rejects a non-positive amount", func() {
			date, _ := ledger.ParseDate("05 Jan 2025")
			err := store.AppendDividend(ctx, &ledger.Dividend{Date: date, Symbol: "INFY", Amount: 0})

			validationErr, ok := ledger.AsValidationError(err)
			Expect(ok).To(BeTrue())
			Expect(validationErr.Field).To(Equal("amount"))
		})
	})

	Context("when appending realized P&L", func() {
		It("appends records in order", func() {
			date, _ := ledger.ParseDate("04 Sep 2025")
			rec := &ledger.RealizedPnLRecord{
				Date: date, Symbol: "INFY", QtySold: 5,
				SellPrice: 1600, AvgCost: 1450.5, RealizedPnL: 747.5,
			}
			Expect(store.AppendRealizedPnL(ctx, rec)).To(Succeed())
			Expect(store.AppendRealizedPnL(ctx, rec)).To(Succeed())

			recs, err := store.RealizedPnL(ctx)
			Expect(err).To(BeNil())
			Expect(recs).To(HaveLen(2))
			Expect(recs[0].RealizedPnL).To(Equal(747.5))
		})
	})
})
