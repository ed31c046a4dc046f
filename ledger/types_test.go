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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/pftrack/ledger"
)

var _ = Describe("Transaction", func() {
	var trx *ledger.Transaction

	BeforeEach(func() {
		date, err := ledger.ParseDate("04 Sep 2025")
		Expect(err).To(BeNil())
		trx = &ledger.Transaction{
			Date:   date,
			Symbol: " infy ",
			Qty:    10,
			Price:  1450.5,
			Kind:   "buy",
		}
	})

	Context("when normalizing", func() {
		It("uppercases and trims the symbol and kind", func() {
			trx.Normalize()
			Expect(trx.Symbol).To(Equal("INFY"))
			Expect(trx.Kind).To(Equal(ledger.BuyTransaction))
		})

		It("forces SELL quantities negative", func() {
			trx.Kind = "sell"
			trx.Qty = 10
			trx.Normalize()
			Expect(trx.Qty).To(Equal(-10))
		})
	})

	Context("when validating", func() {
		It("rejects a buy with a negative quantity", func() {
			trx.Normalize()
			trx.Qty = -5
			err := trx.Validate()
			Expect(err).ToNot(BeNil())
			ve, ok := ledger.AsValidationError(err)
			Expect(ok).To(BeTrue())
			Expect(ve.Field).To(Equal("qty"))
		})
	})

	Context("source ids", func() {
		It("is stable for identical rows", func() {
			trx.Normalize()
			other := *trx
			Expect(trx.SourceID()).To(Equal(other.SourceID()))
			Expect(trx.SourceID()).NotTo(BeEmpty())
		})

		It("differs when any field differs", func() {
			trx.Normalize()
			other := *trx
			other.Qty = 11
			Expect(trx.SourceID()).NotTo(Equal(other.SourceID()))
		})
	})

	It("renders the detail string as date:KIND:qty@price", func() {
		trx.Normalize()
		Expect(trx.DetailString()).To(Equal("04 Sep 2025:BUY:10@1450.5"))
	})
})
