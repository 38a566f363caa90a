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

// Package timestamp provides time range partitioning and clock facilities.
package timestamp

import (
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidChunkSize indicates a non-positive chunk size in months.
	ErrInvalidChunkSize = errors.New("chunk size in months must be positive")

	// ErrInvalidRange indicates the start time is not before the end time.
	ErrInvalidRange = errors.New("start time must be before end time")
)

// TimeRange is a half-open range [Start, End) of a single archive query.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Duration converts TimeRange to time.Duration.
func (t TimeRange) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

// Contains returns whether the given time is in the TimeRange.
func (t TimeRange) Contains(tp time.Time) bool {
	return !tp.Before(t.Start) && tp.Before(t.End)
}

// String shows the string representation.
func (t TimeRange) String() string {
	var buf []byte
	buf = append(buf, '[')
	buf = append(buf, t.Start.UTC().Format(time.RFC3339)...)
	buf = append(buf, ", "...)
	buf = append(buf, t.End.UTC().Format(time.RFC3339)...)
	buf = append(buf, ')')
	return string(buf)
}

// NewTimeRange returns a half-open TimeRange.
func NewTimeRange(start, end time.Time) TimeRange {
	return TimeRange{Start: start, End: end}
}

// Partition splits [start, end) into contiguous half-open windows of the
// given number of months each. Windows cover the span exactly with no gaps
// and no overlaps; the final window may be shorter than the nominal size.
// A span smaller than one chunk yields a single window equal to the span.
func Partition(start, end time.Time, months int) ([]TimeRange, error) {
	if months <= 0 {
		return nil, errors.WithMessagef(ErrInvalidChunkSize, "got %d", months)
	}
	if !start.Before(end) {
		return nil, errors.WithMessagef(ErrInvalidRange, "start %s, end %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	var ranges []TimeRange
	for cur := start; cur.Before(end); {
		next := cur.AddDate(0, months, 0)
		if next.After(end) {
			next = end
		}
		ranges = append(ranges, NewTimeRange(cur, next))
		cur = next
	}
	return ranges, nil
}
