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

// Package data retrieves quotes and historical daily bars from external
// market data providers. Consumers take a *Manager which carries an
// explicit not-connected state rather than a nullable global session.
package data

import (
	"context"
	"time"

	"github.com/penny-vault/pftrack/dataframe"
)

// Bar is one daily price bar
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Provider supplies quotes and historical bars for a symbol
type Provider interface {
	LastPrice(ctx context.Context, symbol string) (float64, error)

	// DailyBars returns daily bars covering at least lookback calendar
	// days ending today, oldest first
	DailyBars(ctx context.Context, symbol string, lookback int) ([]*Bar, error)
}

// Manager fronts the configured provider. The zero value is usable and
// reports ErrNotConnected until Connect is called.
type Manager struct {
	provider Provider
}

func NewManager() *Manager {
	return &Manager{}
}

// Connect attaches a provider to the manager
func (manager *Manager) Connect(provider Provider) {
	manager.provider = provider
}

// Connected reports whether a provider is attached
func (manager *Manager) Connected() bool {
	return manager.provider != nil
}

func (manager *Manager) LastPrice(ctx context.Context, symbol string) (float64, error) {
	if manager.provider == nil {
		return 0, ErrNotConnected
	}
	return manager.provider.LastPrice(ctx, symbol)
}

func (manager *Manager) DailyBars(ctx context.Context, symbol string, lookback int) ([]*Bar, error) {
	if manager.provider == nil {
		return nil, ErrNotConnected
	}
	return manager.provider.DailyBars(ctx, symbol, lookback)
}

// BarsToDataFrame converts a bar series to a date-indexed dataframe with
// open, high, low, close and volume columns
func BarsToDataFrame(bars []*Bar) *dataframe.DataFrame {
	df := &dataframe.DataFrame{
		Dates:    make([]time.Time, 0, len(bars)),
		ColNames: []string{"open", "high", "low", "close", "volume"},
		Vals:     make([][]float64, 5),
	}
	for idx := range df.Vals {
		df.Vals[idx] = make([]float64, 0, len(bars))
	}

	for _, bar := range bars {
		df.Dates = append(df.Dates, bar.Date)
		df.Vals[0] = append(df.Vals[0], bar.Open)
		df.Vals[1] = append(df.Vals[1], bar.High)
		df.Vals[2] = append(df.Vals[2], bar.Low)
		df.Vals[3] = append(df.Vals[3], bar.Close)
		df.Vals[4] = append(df.Vals[4], float64(bar.Volume))
	}

	return df
}
