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

package dataframe

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// SMA computes the n-period simple moving average of vals. Indexes before
// the window fills are NaN.
func SMA(vals []float64, n int) []float64 {
	res := make([]float64, len(vals))
	for idx := range res {
		if idx < n-1 {
			res[idx] = math.NaN()
			continue
		}
		res[idx] = floats.Sum(vals[idx-n+1:idx+1]) / float64(n)
	}
	return res
}

// EMA computes the n-period exponential moving average of vals with
// smoothing 2/(n+1). The series is seeded with the simple average of the
// first n values; indexes before the seed are NaN.
func EMA(vals []float64, n int) []float64 {
	res := make([]float64, len(vals))
	if len(vals) < n {
		for idx := range res {
			res[idx] = math.NaN()
		}
		return res
	}

	alpha := 2.0 / (float64(n) + 1.0)
	for idx := 0; idx < n-1; idx++ {
		res[idx] = math.NaN()
	}

	res[n-1] = floats.Sum(vals[:n]) / float64(n)
	for idx := n; idx < len(vals); idx++ {
		res[idx] = alpha*vals[idx] + (1-alpha)*res[idx-1]
	}

	return res
}

// TrueRange computes the true range series from high, low and close. The
// first value has no prior close and uses high-low alone.
func TrueRange(high, low, closes []float64) []float64 {
	res := make([]float64, len(closes))
	for idx := range res {
		hl := high[idx] - low[idx]
		if idx == 0 {
			res[idx] = hl
			continue
		}
		hc := math.Abs(high[idx] - closes[idx-1])
		lc := math.Abs(low[idx] - closes[idx-1])
		res[idx] = math.Max(hl, math.Max(hc, lc))
	}
	return res
}

// ATR computes the n-period average true range as an SMA of true range
func ATR(high, low, closes []float64, n int) []float64 {
	return SMA(TrueRange(high, low, closes), n)
}
