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

package indicators

import (
	"fmt"
	"math"

	"github.com/penny-vault/pftrack/dataframe"
)

const (
	atrPeriod     = 21
	atrMultiplier = 2.0

	minSupertrendBars = atrPeriod * 2
)

// Supertrend classifies the final bar of an OHLC series with an ATR-band
// trend follower. The trend flips up when close breaks the upper band and
// down when it breaks the lower band; a flip at the final bar signals Buy
// or Sell, anything else is Hold.
func Supertrend(high, low, closes []float64) (Signal, string) {
	n := len(closes)
	if n < minSupertrendBars || len(high) != n || len(low) != n {
		return Hold, fmt.Sprintf("insufficient history: %d bars, need %d", n, minSupertrendBars)
	}

	atr := dataframe.ATR(high, low, closes, atrPeriod)

	upper := make([]float64, n)
	lower := make([]float64, n)
	uptrend := make([]bool, n)

	for idx := 0; idx < n; idx++ {
		if math.IsNaN(atr[idx]) {
			upper[idx] = math.NaN()
			lower[idx] = math.NaN()
			uptrend[idx] = true
			continue
		}

		mid := (high[idx] + low[idx]) / 2
		basicUpper := mid + atrMultiplier*atr[idx]
		basicLower := mid - atrMultiplier*atr[idx]

		// band carry: bands only tighten while the trend holds
		upper[idx] = basicUpper
		if idx > 0 && !math.IsNaN(upper[idx-1]) && (basicUpper > upper[idx-1] && closes[idx-1] <= upper[idx-1]) {
			upper[idx] = upper[idx-1]
		}
		lower[idx] = basicLower
		if idx > 0 && !math.IsNaN(lower[idx-1]) && (basicLower < lower[idx-1] && closes[idx-1] >= lower[idx-1]) {
			lower[idx] = lower[idx-1]
		}

		uptrend[idx] = uptrend[idx-1]
		switch {
		case closes[idx] > upper[idx-1] || math.IsNaN(upper[idx-1]):
			uptrend[idx] = true
		case closes[idx] < lower[idx-1]:
			uptrend[idx] = false
		}
	}

	last := n - 1
	switch {
	case uptrend[last] && !uptrend[last-1]:
		return Buy, fmt.Sprintf("Supertrend flip up: close (%.2f) above band (%.2f)", closes[last], upper[last-1])
	case !uptrend[last] && uptrend[last-1]:
		return Sell, fmt.Sprintf("Supertrend flip down: close (%.2f) below band (%.2f)", closes[last], lower[last-1])
	default:
		trend := "down"
		if uptrend[last] {
			trend = "up"
		}
		return Hold, fmt.Sprintf("Supertrend unchanged: trend %s, close (%.2f)", trend, closes[last])
	}
}
