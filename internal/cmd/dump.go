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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LM-SAL/aiapoint/pkg/pointing"
)

func newDumpCmd() *cobra.Command {
	var opts commonOptions
	cmd := &cobra.Command{
		Use:           "dump",
		Short:         "Fetch the whole pointing table with a single unrestricted query",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.setup(cmd); err != nil {
				return err
			}
			path := opts.outputPath()
			if err := pointing.DumpFile(cmd.Context(), opts.client(), path); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
	opts.bindFlags(cmd)
	return cmd
}
