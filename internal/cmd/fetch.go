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

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/LM-SAL/aiapoint/pkg/logger"
	"github.com/LM-SAL/aiapoint/pkg/pointing"
	"github.com/LM-SAL/aiapoint/pkg/timestamp"
)

type fetchOptions struct {
	commonOptions
	start    string
	end      string
	schedule string
	months   int
	workers  int
}

func newFetchCmd() *cobra.Command {
	var opts fetchOptions
	cmd := &cobra.Command{
		Use:           "fetch",
		Short:         "Fetch the pointing table in time-bounded chunks",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.setup(cmd); err != nil {
				return err
			}
			fetchOpts, err := opts.pointingOptions()
			if err != nil {
				return err
			}
			client := opts.client()
			path := opts.outputPath()
			action := func(ctx context.Context) error {
				if err := pointing.FetchFile(ctx, client, path, fetchOpts); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", path)
				return nil
			}
			if opts.schedule == "" {
				return action(cmd.Context())
			}
			return runScheduled(cmd.Context(), fetchOpts.Clock, opts.schedule, action)
		},
	}
	opts.bindFlags(cmd)
	cmd.Flags().StringVar(&opts.start, "start", pointing.DefaultStart.Format(time.RFC3339),
		"start of the requested span, RFC 3339")
	cmd.Flags().StringVar(&opts.end, "end", "",
		"end of the requested span, RFC 3339 (default: now)")
	cmd.Flags().IntVar(&opts.months, "months-per-chunk", pointing.DefaultMonthsPerChunk,
		"size of each query window in months")
	cmd.Flags().IntVar(&opts.workers, "workers", pointing.DefaultWorkers,
		"number of parallel workers, 1 is sequential; keep small (<= 4) to be kind to JSOC")
	cmd.Flags().StringVar(&opts.schedule, "schedule", "",
		"refresh schedule expression, e.g. @daily or @every 12h; empty runs once")
	return cmd
}

func (o *fetchOptions) pointingOptions() (pointing.Options, error) {
	opts := pointing.Options{
		Clock:          timestamp.NewClock(),
		MonthsPerChunk: o.months,
		Workers:        o.workers,
	}
	start, err := time.Parse(time.RFC3339, o.start)
	if err != nil {
		return opts, errors.Wrap(err, "parsing --start")
	}
	opts.Start = start
	if o.end != "" {
		end, err := time.Parse(time.RFC3339, o.end)
		if err != nil {
			return opts, errors.Wrap(err, "parsing --end")
		}
		opts.End = end
	}
	return opts, nil
}

// runScheduled runs the action once, then re-runs it on the given schedule
// until SIGINT or SIGTERM. A failing run is logged and does not stop the
// schedule.
func runScheduled(ctx context.Context, clk timestamp.Clock, expr string, action func(context.Context) error) error {
	schedule, err := cron.NewParser(cron.Descriptor).Parse(expr)
	if err != nil {
		return errors.Wrap(err, "parsing --schedule")
	}
	l := logger.GetLogger("scheduler")
	runOnce := func() {
		if err := action(ctx); err != nil {
			l.Error().Err(err).Msg("refresh failed")
		} else {
			l.Info().Msg("refresh succeeded")
		}
	}
	runOnce()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	now := clk.Now()
	for {
		next := schedule.Next(now)
		timer := clk.Timer(next.Sub(now))
		l.Info().Time("next", next).Msg("waiting for next refresh")
		select {
		case now = <-timer.C:
			runOnce()
		case <-sigCh:
			timer.Stop()
			l.Info().Msg("shutting down")
			return nil
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}
