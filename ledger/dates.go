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

import "time"

// DateFormat is the ledger's fixed calendar-day format, e.g. "04 Sep 2025".
// All ledger files store dates in this format; there is no time component.
const DateFormat = "02 Jan 2006"

// ParseDate parses a ledger date string. The result is normalized to
// midnight UTC so date comparisons are exact day comparisons.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
}

// FormatDate renders t in the ledger date format
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// Today returns the current calendar day at midnight UTC
func Today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
