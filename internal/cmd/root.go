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

// Package cmd implements the aiapoint command line tool.
package cmd

import (
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/LM-SAL/aiapoint/pkg/config"
	"github.com/LM-SAL/aiapoint/pkg/jsoc"
	"github.com/LM-SAL/aiapoint/pkg/logger"
	"github.com/LM-SAL/aiapoint/pkg/pointing"
	"github.com/LM-SAL/aiapoint/pkg/version"
)

// configName is the base name of the optional config file read from the
// working directory.
const configName = "aiapoint"

// NewRoot returns the root command.
func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "aiapoint",
		Short:             "aiapoint retrieves the AIA master pointing table from JSOC",
		Version:           version.Build(),
		DisableAutoGenTag: true,
	}
	cmd.AddCommand(newFetchCmd(), newDumpCmd())
	return cmd
}

// commonOptions are shared by the fetch and dump commands.
type commonOptions struct {
	logging   logger.Logging
	outputDir string
	jsocURL   string
	timeout   time.Duration
}

func (o *commonOptions) bindFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.outputDir, "output-dir", "",
		"directory the pointing table CSV is written to (env AIAPOINT_OUTPUT_DIR)")
	cmd.Flags().StringVar(&o.jsocURL, "jsoc-url", jsoc.DefaultEndpoint, "jsoc_info endpoint URL")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 0, "per-request timeout, 0 disables")
	cmd.Flags().StringVar(&o.logging.Env, "logging-env", "prod", "the logging environment")
	cmd.Flags().StringVar(&o.logging.Level, "logging-level", "info", "the root level of logging")
}

// setup loads config and env bindings, initializes logging, and validates the
// output location before any remote call is made.
func (o *commonOptions) setup(cmd *cobra.Command) error {
	if err := config.Load(configName, cmd.Flags()); err != nil {
		return err
	}
	if err := logger.Init(o.logging); err != nil {
		return err
	}
	if o.outputDir == "" {
		return errors.New("an output directory is required: set --output-dir or AIAPOINT_OUTPUT_DIR")
	}
	return nil
}

func (o *commonOptions) client() *jsoc.Client {
	return jsoc.NewClient(jsoc.WithEndpoint(o.jsocURL), jsoc.WithTimeout(o.timeout))
}

func (o *commonOptions) outputPath() string {
	return filepath.Join(o.outputDir, pointing.FileName)
}
