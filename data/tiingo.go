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

package data

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/penny-vault/pftrack/common"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var tiingoAPI = "https://api.tiingo.com"

// Tiingo retrieves end-of-day prices from the Tiingo REST API. Bar series
// are cached through the common cache to keep repeated scans from
// re-downloading two hundred days of history per instrument.
type Tiingo struct {
	apikey string
	client *http.Client
}

type tiingoEOD struct {
	Date     string  `json:"date"`
	Close    float64 `json:"close"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Open     float64 `json:"open"`
	Volume   int64   `json:"volume"`
	AdjClose float64 `json:"adjClose"`
}

// NewTiingo creates a Tiingo provider using the tiingo.token configuration
func NewTiingo() *Tiingo {
	return &Tiingo{
		apikey: viper.GetString("tiingo.token"),
		client: http.DefaultClient,
	}
}

// LastPrice returns the most recent daily close for symbol
func (t *Tiingo) LastPrice(ctx context.Context, symbol string) (float64, error) {
	bars, err := t.DailyBars(ctx, symbol, 7)
	if err != nil {
		return 0, err
	}
	if len(bars) == 0 {
		log.Warn().Str("Symbol", symbol).Msg("tiingo returned no recent bars")
		return 0, ErrDataUnavailable
	}
	return bars[len(bars)-1].Close, nil
}

// DailyBars returns daily bars for the lookback window ending today,
// oldest first
func (t *Tiingo) DailyBars(ctx context.Context, symbol string, lookback int) ([]*Bar, error) {
	endDate := time.Now().UTC()
	startDate := endDate.AddDate(0, 0, -lookback)

	cacheKey := fmt.Sprintf("tiingo:%s:%s:%s", symbol, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	if cached, err := common.CacheGet(cacheKey); err == nil {
		bars := []*Bar{}
		if err := json.Unmarshal(cached, &bars); err == nil {
			return bars, nil
		}
		log.Warn().Str("CacheKey", cacheKey).Msg("discarding unreadable cached bar series")
	}

	url := fmt.Sprintf("%s/tiingo/daily/%s/prices?startDate=%s&endDate=%s&resampleFreq=daily&token=%s",
		tiingoAPI, symbol, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"), t.apikey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		log.Warn().Stack().Err(err).Str("Symbol", symbol).Msg("tiingo request failed")
		return nil, ErrDataUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("StatusCode", resp.StatusCode).Str("Symbol", symbol).Msg("tiingo returned non-200 status")
		return nil, ErrDataUnavailable
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrDataUnavailable
	}

	eod := []*tiingoEOD{}
	if err := json.Unmarshal(body, &eod); err != nil {
		log.Warn().Stack().Err(err).Str("Symbol", symbol).Msg("could not parse tiingo response")
		return nil, ErrInvalidResponse
	}

	bars := make([]*Bar, 0, len(eod))
	for _, row := range eod {
		date, err := time.Parse(time.RFC3339, row.Date)
		if err != nil {
			log.Warn().Stack().Err(err).Str("Date", row.Date).Msg("could not parse tiingo bar date")
			return nil, ErrInvalidResponse
		}
		bars = append(bars, &Bar{
			Date:   date.UTC(),
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		})
	}

	if payload, err := json.Marshal(bars); err == nil {
		if err := common.CacheSet(cacheKey, payload); err != nil {
			log.Warn().Stack().Err(err).Str("CacheKey", cacheKey).Msg("could not cache bar series")
		}
	}

	return bars, nil
}
