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

	"go.uber.org/multierr"

	"github.com/LM-SAL/aiapoint/pkg/logger"
)

// Dump issues a single unrestricted query for the whole series requesting
// every keyword and writes the full result to w with a header. No chunking,
// no reordering; large series may be rejected or time out on the service
// side, which surfaces as a retrieval error.
func Dump(ctx context.Context, q Querier, w io.Writer) error {
	table, err := q.Query(ctx, SelectorAll(), nil)
	if err != nil {
		return err
	}
	logger.GetLogger("pointing").Info().
		Int("rows", table.Len()).
		Msg("dumping full pointing table")
	cw := csv.NewWriter(w)
	wroteHeader := false
	if err := writeTable(cw, table, &wroteHeader); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// DumpFile runs Dump against a freshly created file at path, creating parent
// directories first.
func DumpFile(ctx context.Context, q Querier, path string) (err error) {
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
	return Dump(ctx, q, f)
}
