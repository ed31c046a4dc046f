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

package ledger

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zeebo/blake3"
)

const (
	BuyTransaction  = "BUY"
	SellTransaction = "SELL"
)

// Transaction is a single buy or sell leg in the positions ledger.
// Qty is signed: positive for BUY, negative for SELL. Rows are immutable
// once appended.
type Transaction struct {
	Date   time.Time
	Symbol string
	Qty    int
	Price  float64
	Demat  string
	Notes  string
	Kind   string
}

// Dividend is an income record independent of the positions ledger
type Dividend struct {
	Date   time.Time
	Symbol string
	Amount float64
	Notes  string
}

// RealizedPnLRecord is written once per SELL event. It is never recomputed
// retroactively when later edits change ledger history. Unmatched carries
// any oversold quantity that had no recorded buy lots behind it.
type RealizedPnLRecord struct {
	Date        time.Time
	Symbol      string
	QtySold     int
	SellPrice   float64
	AvgCost     float64
	RealizedPnL float64
	Notes       string
	Unmatched   int
}

// Normalize trims and uppercases the symbol and demat tags and infers the
// kind from the quantity sign when absent. SELL quantities are stored
// negative regardless of the sign the caller supplied.
func (trx *Transaction) Normalize() {
	trx.Symbol = strings.ToUpper(strings.TrimSpace(trx.Symbol))
	trx.Demat = strings.ToUpper(strings.TrimSpace(trx.Demat))
	trx.Kind = strings.ToUpper(strings.TrimSpace(trx.Kind))

	if trx.Kind == "" {
		if trx.Qty < 0 {
			trx.Kind = SellTransaction
		} else {
			trx.Kind = BuyTransaction
		}
	}

	if trx.Kind == SellTransaction && trx.Qty > 0 {
		trx.Qty = -trx.Qty
	}
}

// Validate checks the append contract: parseable date, non-empty symbol,
// non-zero quantity whose sign agrees with the kind, non-negative price,
// known kind.
func (trx *Transaction) Validate() error {
	if trx.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: fmt.Sprintf("date is required in format %q", DateFormat)}
	}
	if trx.Symbol == "" {
		return &ValidationError{Field: "stock_name", Reason: "symbol must not be empty"}
	}
	if trx.Qty == 0 {
		return &ValidationError{Field: "qty", Reason: "quantity must not be zero"}
	}
	if trx.Kind == BuyTransaction && trx.Qty < 0 {
		return &ValidationError{Field: "qty", Reason: "buy quantity must be positive"}
	}
	if trx.Price < 0 {
		return &ValidationError{Field: "price", Reason: "price must not be negative"}
	}
	if trx.Kind != BuyTransaction && trx.Kind != SellTransaction {
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("kind must be %s or %s", BuyTransaction, SellTransaction)}
	}
	return nil
}

// Validate checks the dividend append contract
func (div *Dividend) Validate() error {
	if div.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: fmt.Sprintf("date is required in format %q", DateFormat)}
	}
	if strings.TrimSpace(div.Symbol) == "" {
		return &ValidationError{Field: "stock_name", Reason: "symbol must not be empty"}
	}
	if div.Amount <= 0 {
		return &ValidationError{Field: "amount", Reason: "amount must be positive"}
	}
	return nil
}

// SourceID computes a stable blake3 digest over the transaction's business
// key. Two appends of the same trade hash identically, which is how the
// store spots a probable duplicate from a retried append.
func (trx *Transaction) SourceID() string {
	h := blake3.New()

	d, err := trx.Date.UTC().MarshalText()
	if err != nil {
		log.Warn().Stack().Err(err).Msg("could not marshal transaction date for source id")
		return ""
	}

	for _, part := range [][]byte{
		d,
		[]byte(trx.Symbol),
		[]byte(strconv.Itoa(trx.Qty)),
		[]byte(strconv.FormatFloat(trx.Price, 'f', -1, 64)),
		[]byte(trx.Kind),
	} {
		if _, err := h.Write(part); err != nil {
			log.Warn().Stack().Err(err).Msg("could not write to blake3 hasher")
			return ""
		}
	}

	return hex.EncodeToString(h.Sum(nil))
}

// DetailString renders the row as it appears in the consolidated snapshot's
// transactions_detail column: date:TYPE:qty@price. Informational only; it
// has no accounting weight.
func (trx *Transaction) DetailString() string {
	return fmt.Sprintf("%s:%s:%d@%s", FormatDate(trx.Date), trx.Kind, trx.Qty,
		strconv.FormatFloat(trx.Price, 'f', -1, 64))
}

// Store is the durable ledger contract. Reads of a missing medium return an
// empty set, not an error. Row order from Transactions carries no meaning;
// downstream consumers re-sort by date.
type Store interface {
	Transactions(ctx context.Context) ([]*Transaction, error)
	AppendTransaction(ctx context.Context, trx *Transaction) error

	Dividends(ctx context.Context) ([]*Dividend, error)
	AppendDividend(ctx context.Context, div *Dividend) error

	RealizedPnL(ctx context.Context) ([]*RealizedPnLRecord, error)
	AppendRealizedPnL(ctx context.Context, rec *RealizedPnLRecord) error

	// WriteSnapshot replaces the consolidated snapshot in full; rows are
	// pre-formatted display strings
	WriteSnapshot(ctx context.Context, rows [][]string) error
}
