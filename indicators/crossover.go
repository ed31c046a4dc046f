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

// Package indicators classifies bar series into trade signals. Every
// indicator is a pure function of its input series; no state is carried
// between invocations.
package indicators

import (
	"fmt"

	"github.com/penny-vault/pftrack/dataframe"
)

// Signal is a trade classification
type Signal string

const (
	Buy  Signal = "Buy"
	Sell Signal = "Sell"
	Hold Signal = "Hold"
)

const (
	fastPeriod = 50
	slowPeriod = 200

	// the slow EMA needs its seed window plus one prior bar to compare
	// the last two fast/slow relationships
	minBars = slowPeriod + 1
)

// EmaCrossover detects a fast/slow EMA crossover at the final bar of the
// close series. Fewer than 201 bars classifies as Hold with an
// insufficient-history reason. The reason string embeds both EMA values
// rounded to 2 decimals.
func EmaCrossover(closes []float64) (Signal, string) {
	if len(closes) < minBars {
		return Hold, fmt.Sprintf("insufficient history: %d bars, need %d", len(closes), minBars)
	}

	fast := dataframe.EMA(closes, fastPeriod)
	slow := dataframe.EMA(closes, slowPeriod)

	last := len(closes) - 1
	prevBelow := fast[last-1] < slow[last-1]
	currBelow := fast[last] < slow[last]

	switch {
	case prevBelow && !currBelow:
		return Buy, fmt.Sprintf("Golden Cross: EMA50 (%.2f) crossed above EMA200 (%.2f)", fast[last], slow[last])
	case !prevBelow && currBelow:
		return Sell, fmt.Sprintf("Death Cross: EMA50 (%.2f) crossed below EMA200 (%.2f)", fast[last], slow[last])
	default:
		return Hold, fmt.Sprintf("No crossover: EMA50 (%.2f), EMA200 (%.2f)", fast[last], slow[last])
	}
}
