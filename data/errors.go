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

import "errors"

var (
	// ErrDataUnavailable indicates a quote or bar series could not be
	// obtained; consumers fall back rather than abort
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrNotConnected indicates the manager has no provider attached
	ErrNotConnected = errors.New("market data provider is not connected")

	// ErrInvalidResponse indicates the provider returned a payload that
	// could not be interpreted
	ErrInvalidResponse = errors.New("provider returned an invalid response")
)
