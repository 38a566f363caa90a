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

package pointing

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/LM-SAL/aiapoint/pkg/jsoc"
	"github.com/LM-SAL/aiapoint/pkg/logger"
	"github.com/LM-SAL/aiapoint/pkg/timestamp"
)

const (
	// DefaultMonthsPerChunk is the nominal window size of one archive query.
	DefaultMonthsPerChunk = 12

	// DefaultWorkers bounds concurrent queries. Values above 4 are
	// discouraged to be kind to JSOC.
	DefaultWorkers = 4
)

// Querier is the narrow archive contract the fetcher depends on.
type Querier interface {
	Query(ctx context.Context, selector string, keys []string) (*jsoc.Table, error)
}

// Options tune a pointing-table fetch.
type Options struct {
	// Start of the requested span. Zero means DefaultStart.
	Start time.Time
	// End of the requested span. Zero means the clock's now in UTC.
	End time.Time
	// Clock supplies the end boundary when End is zero.
	Clock timestamp.Clock
	// MonthsPerChunk is the window size. Zero means DefaultMonthsPerChunk.
	MonthsPerChunk int
	// Workers selects the execution strategy: <= 1 sequential, > 1 a
	// bounded pool. Zero means DefaultWorkers.
	Workers int
}

func (o Options) normalize() Options {
	if o.Clock == nil {
		o.Clock = timestamp.NewClock()
	}
	if o.Start.IsZero() {
		o.Start = DefaultStart
	}
	if o.End.IsZero() {
		o.End = o.Clock.Now().UTC()
	}
	if o.MonthsPerChunk == 0 {
		o.MonthsPerChunk = DefaultMonthsPerChunk
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	return o
}

// FetchFile fetches the pointing table and writes it to path, creating parent
// directories first. Any failure is wrapped into a single error with the
// original cause preserved; a failed parallel run writes nothing, a failed
// sequential run may leave a partially written file behind the error.
func FetchFile(ctx context.Context, q Querier, path string, opts Options) (err error) {
	defer func() {
		err = wrapRunError(err)
	}()
	f, err := createOutput(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	return Fetch(ctx, q, f, opts)
}

// Fetch partitions the requested span into windows, queries each window, and
// writes the concatenated CSV to w. The header is written exactly once and
// row order is monotonic in window start time regardless of the strategy.
func Fetch(ctx context.Context, q Querier, w io.Writer, opts Options) error {
	opts = opts.normalize()
	windows, err := timestamp.Partition(opts.Start, opts.End, opts.MonthsPerChunk)
	if err != nil {
		return err
	}
	l := logger.GetLogger("pointing")
	l.Info().
		Int("windows", len(windows)).
		Int("workers", opts.Workers).
		Time("start", opts.Start).
		Time("end", opts.End).
		Msg("fetching pointing table")
	if opts.Workers <= 1 {
		return fetchSequential(ctx, q, w, windows)
	}
	return fetchParallel(ctx, q, w, windows, opts.Workers)
}

// fetchSequential queries one window at a time and appends each chunk as soon
// as it arrives, holding only one chunk in memory.
func fetchSequential(ctx context.Context, q Querier, w io.Writer, windows []timestamp.TimeRange) error {
	cw := csv.NewWriter(w)
	wroteHeader := false
	for _, win := range windows {
		table, err := fetchWindow(ctx, q, win)
		if err != nil {
			return err
		}
		if err := writeTable(cw, table, &wroteHeader); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// fetchParallel runs a fixed pool of workers over the windows. Each worker
// owns the result slot of the window it fetched, so the collection needs no
// locking; a single gather phase writes the slots in partition order once all
// workers finish. Any worker failure fails the run before anything is written.
func fetchParallel(ctx context.Context, q Querier, w io.Writer, windows []timestamp.TimeRange, workers int) error {
	results := make([]*jsoc.Table, len(windows))
	errs := make([]error, len(windows))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < min(workers, len(windows)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx], errs[idx] = fetchWindow(ctx, q, windows[idx])
			}
		}()
	}
	for i := range windows {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := multierr.Combine(errs...); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	wroteHeader := false
	for _, table := range results {
		if table == nil || table.Empty() {
			continue
		}
		if err := writeTable(cw, table, &wroteHeader); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// fetchWindow issues one archive query restricted to the window and sorts the
// rows ascending by record start time. Failures carry the offending window.
func fetchWindow(ctx context.Context, q Querier, win timestamp.TimeRange) (*jsoc.Table, error) {
	table, err := q.Query(ctx, Selector(win), Keys())
	if err != nil {
		return nil, errors.WithMessagef(err, "window %s", win)
	}
	if err := table.SortBy(startTimeKey); err != nil {
		return nil, errors.WithMessagef(err, "window %s", win)
	}
	logger.GetLogger("pointing").Debug().
		Stringer("window", win).
		Int("rows", table.Len()).
		Msg("fetched window")
	return table, nil
}

func writeTable(cw *csv.Writer, table *jsoc.Table, wroteHeader *bool) error {
	if !*wroteHeader {
		if err := cw.Write(table.Keys); err != nil {
			return err
		}
		*wroteHeader = true
	}
	for _, row := range table.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func createOutput(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating output directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "creating output file")
	}
	return f, nil
}

func wrapRunError(err error) error {
	if err == nil {
		return nil
	}
	return errors.WithMessage(err, "unable to create the JSOC pointing table")
}
