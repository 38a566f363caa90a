// Licensed to Apache Software Foundation (ASF) under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. Apache Software Foundation (ASF) licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package pointing retrieves the AIA master pointing table from JSOC and
// assembles it into a single CSV file. The table maps each 3-hour observation
// period to per-wavelength instrument alignment parameters.
package pointing

import (
	"fmt"
	"time"

	"github.com/LM-SAL/aiapoint/pkg/timestamp"
)

const (
	// Series is the JSOC series holding the master pointing records.
	Series = "aia.master_pointing3h"

	// FileName is the name of the output CSV inside the output directory.
	FileName = "aia_pointing_table.csv"

	// startTimeKey is the record start-time keyword rows are sorted by.
	startTimeKey = "T_START"

	// selectorTimeLayout renders window boundaries inside a record-set
	// selector; JSOC expects a trailing Z for UTC.
	selectorTimeLayout = "2006-01-02T15:04:05"
)

// DefaultStart is the first AIA light, the earliest record in the series.
var DefaultStart = time.Date(2010, time.May, 13, 0, 0, 0, 0, time.UTC)

// Wavelengths are the nine AIA bands the pointing table is keyed by.
var Wavelengths = []string{"094", "171", "193", "211", "304", "335", "1600", "1700", "4500"}

// Keys returns the keyword list of one chunked query: start and stop time,
// then X-offset, Y-offset, image scale and instrument rotation per band.
func Keys() []string {
	keys := []string{startTimeKey, "T_STOP"}
	for _, wl := range Wavelengths {
		for _, suffix := range []string{"X0", "Y0", "IMSCALE", "INSTROT"} {
			keys = append(keys, fmt.Sprintf("A_%s_%s", wl, suffix))
		}
	}
	return keys
}

// Selector builds the record-set selector restricting the series to one
// half-open time window.
func Selector(r timestamp.TimeRange) string {
	return fmt.Sprintf("%s[%sZ-%sZ]",
		Series,
		r.Start.UTC().Format(selectorTimeLayout),
		r.End.UTC().Format(selectorTimeLayout))
}

// SelectorAll builds the record-set selector matching the whole series.
func SelectorAll() string {
	return Series + "[]"
}
