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

// Package dataframe provides a small date-indexed table of float64 columns
// used by the indicator calculations.
package dataframe

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
)

// DataFrame stores a table of values organized by date
// the vals array is column major - e.g.,
// Vals[colIdx][rowIdx]
type DataFrame struct {
	Dates    []time.Time
	ColNames []string
	Vals     [][]float64
}

// Len returns the number of rows in the dataframe
func (df *DataFrame) Len() int {
	return len(df.Dates)
}

// ColCount returns the number of columns in the dataframe
func (df *DataFrame) ColCount() int {
	return len(df.ColNames)
}

// ColIndex returns the index of the named column; -1 if it doesn't exist
func (df *DataFrame) ColIndex(colName string) int {
	for idx, val := range df.ColNames {
		if colName == val {
			return idx
		}
	}
	return -1
}

// Col returns the named column's values; nil if it doesn't exist
func (df *DataFrame) Col(colName string) []float64 {
	idx := df.ColIndex(colName)
	if idx == -1 {
		return nil
	}
	return df.Vals[idx]
}

// Copy creates a deep copy of the dataframe
func (df *DataFrame) Copy() *DataFrame {
	df2 := &DataFrame{
		Dates:    make([]time.Time, len(df.Dates)),
		ColNames: make([]string, len(df.ColNames)),
		Vals:     make([][]float64, len(df.Vals)),
	}
	copy(df2.Dates, df.Dates)
	copy(df2.ColNames, df.ColNames)
	for idx := range df.Vals {
		df2.Vals[idx] = make([]float64, len(df.Vals[idx]))
		copy(df2.Vals[idx], df.Vals[idx])
	}
	return df2
}

// AddCol appends a new column; panics if the length doesn't match the row
// count of a non-empty dataframe
func (df *DataFrame) AddCol(colName string, vals []float64) *DataFrame {
	if len(df.Dates) != 0 && len(vals) != len(df.Dates) {
		panic(fmt.Sprintf("cannot add column %s: %d values for %d rows", colName, len(vals), len(df.Dates)))
	}
	df.ColNames = append(df.ColNames, colName)
	df.Vals = append(df.Vals, vals)
	return df
}

// Last returns the final value of the named column and true, or 0 and
// false when the column is missing or the frame is empty
func (df *DataFrame) Last(colName string) (float64, bool) {
	col := df.Col(colName)
	if len(col) == 0 {
		return 0, false
	}
	return col[len(col)-1], true
}

// Table writes the dataframe to w as an ASCII table
func (df *DataFrame) Table(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(append([]string{"Date"}, df.ColNames...))
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")

	for rowIdx, date := range df.Dates {
		row := make([]string, 0, len(df.ColNames)+1)
		row = append(row, date.Format("2006-01-02"))
		for colIdx := range df.ColNames {
			row = append(row, fmt.Sprintf("%.4f", df.Vals[colIdx][rowIdx]))
		}
		table.Append(row)
	}

	table.Render()
}
