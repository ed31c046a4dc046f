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

package indicators_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/pftrack/indicators"
)

// flatOHLC builds n bars oscillating between 99 and 101 around a 100 close
func flatOHLC(n int) (high, low, closes []float64) {
	high = make([]float64, n)
	low = make([]float64, n)
	closes = make([]float64, n)
	for idx := range closes {
		high[idx] = 101
		low[idx] = 99
		closes[idx] = 100
	}
	return high, low, closes
}

var _ = Describe("Supertrend", func() {
	It("holds while price stays inside the bands", func() {
		high, low, closes := flatOHLC(100)
		signal, reason := indicators.Supertrend(high, low, closes)
		Expect(signal).To(Equal(indicators.Hold))
		Expect(reason).To(HavePrefix("Supertrend unchanged"))
	})

	It("signals Sell when the close breaks the lower band at the last bar", func() {
		high, low, closes := flatOHLC(100)
		closes[99] = 90
		low[99] = 89
		signal, reason := indicators.Supertrend(high, low, closes)
		Expect(signal).To(Equal(indicators.Sell))
		Expect(reason).To(HavePrefix("Supertrend flip down"))
	})

	It("requires enough history for the ATR window", func() {
		high, low, closes := flatOHLC(30)
		signal, reason := indicators.Supertrend(high, low, closes)
		Expect(signal).To(Equal(indicators.Hold))
		Expect(reason).To(ContainSubstring("insufficient history"))
	})

	It("holds on mismatched series lengths", func() {
		high, low, closes := flatOHLC(100)
		signal, _ := indicators.Supertrend(high[:50], low, closes)
		Expect(signal).To(Equal(indicators.Hold))
	})
})
