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
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/pftrack/ledger"
)

// journalStore records the order of mutating calls so tests can assert the
// ledger append happens before any realized P&L write.
type journalStore struct {
	trxs      []*ledger.Transaction
	realized  []*ledger.RealizedPnLRecord
	calls     []string
	appendErr error
}

func (store *journalStore) Transactions(_ context.Context) ([]*ledger.Transaction, error) {
	return store.trxs, nil
}

func (store *journalStore) AppendTransaction(_ context.Context, trx *ledger.Transaction) error {
	store.calls = append(store.calls, "AppendTransaction")
	if store.appendErr != nil {
		return store.appendErr
	}
	store.trxs = append(store.trxs, trx)
	return nil
}

func (store *journalStore) Dividends(_ context.Context) ([]*ledger.Dividend, error) {
	return nil, nil
}

func (store *journalStore) AppendDividend(_ context.Context, _ *ledger.Dividend) error {
	store.calls = append(store.calls, "AppendDividend")
	return nil
}

func (store *journalStore) RealizedPnL(_ context.Context) ([]*ledger.RealizedPnLRecord, error) {
	return store.realized, nil
}

func (store *journalStore) AppendRealizedPnL(_ context.Context, rec *ledger.RealizedPnLRecord) error {
	store.calls = append(store.calls, "AppendRealizedPnL")
	store.realized = append(store.realized, rec)
	return nil
}

func (store *journalStore) WriteSnapshot(_ context.Context, _ [][]string) error {
	store.calls = append(store.calls, "WriteSnapshot")
	return nil
}

var _ = Describe("recordTransaction", func() {
	var (
		ctx   context.Context
		store *journalStore
	)

	buyTrx := func(dateStr string, qty int, price float64) *ledger.Transaction {
		date, err := ledger.ParseDate(dateStr)
		Expect(err).To(BeNil())
		trx := &ledger.Transaction{Date: date, Symbol: "INFY", Qty: qty, Price: price}
		trx.Normalize()
		return trx
	}

	BeforeEach(func() {
		ctx = context.Background()
		store = &journalStore{
			trxs: []*ledger.Transaction{buyTrx("01 Jan 2025", 10, 100)},
		}
	})

	Context("when selling against recorded buys", func() {
		It("appends the sale before writing the realized record", func() {
			sale := buyTrx("01 Feb 2025", -5, 120)
			Expect(recordTransaction(ctx, store, sale)).To(Succeed())

			Expect(store.calls).To(Equal([]string{"AppendTransaction", "AppendRealizedPnL", "WriteSnapshot"}))
			Expect(store.realized).To(HaveLen(1))
			Expect(store.realized[0].QtySold).To(Equal(5))
			Expect(store.realized[0].RealizedPnL).To(Equal(100.0))
		})
	})

	Context("when the ledger append fails", func() {
		It("leaves no realized record behind", func() {
			store.appendErr = errors.New("disk full")

			sale := buyTrx("01 Feb 2025", -5, 120)
			err := recordTransaction(ctx, store, sale)
			Expect(err).To(MatchError("disk full"))

			Expect(store.realized).To(BeEmpty())
			Expect(store.calls).To(Equal([]string{"AppendTransaction"}))
		})
	})

	Context("when buying", func() {
		It("appends and rebuilds without touching realized P&L", func() {
			trx := buyTrx("01 Feb 2025", 5, 110)
			Expect(recordTransaction(ctx, store, trx)).To(Succeed())

			Expect(store.calls).To(Equal([]string{"AppendTransaction", "WriteSnapshot"}))
			Expect(store.realized).To(BeEmpty())
		})
	})
})
