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

package pointing_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LM-SAL/aiapoint/pkg/jsoc"
	"github.com/LM-SAL/aiapoint/pkg/pointing"
)

func TestDumpWritesFullTable(t *testing.T) {
	q := &stubQuerier{respond: func(selector string) (*jsoc.Table, error) {
		require.Equal(t, "aia.master_pointing3h[]", selector)
		return &jsoc.Table{
			Keys: []string{"T_START", "T_STOP", "A_094_X0"},
			Rows: [][]string{
				{"2010-05-13T00:00:00Z", "2010-05-13T03:00:00Z", "2039.72"},
				{"2010-05-13T03:00:00Z", "2010-05-13T06:00:00Z", "2039.75"},
			},
		}, nil
	}}
	var out strings.Builder
	require.NoError(t, pointing.Dump(context.Background(), q, &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "T_START,T_STOP,A_094_X0", lines[0])
	assert.Equal(t, "2010-05-13T00:00:00Z,2010-05-13T03:00:00Z,2039.72", lines[1])
}

func TestDumpEmptyResult(t *testing.T) {
	q := &stubQuerier{respond: func(string) (*jsoc.Table, error) {
		return nil, errors.WithMessage(jsoc.ErrEmptyResult, "querying")
	}}
	var out strings.Builder
	err := pointing.Dump(context.Background(), q, &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, jsoc.ErrEmptyResult))
	assert.Empty(t, out.String())
}

func TestDumpFileWrapsFailure(t *testing.T) {
	cause := errors.New("timeout")
	q := &stubQuerier{respond: func(string) (*jsoc.Table, error) { return nil, cause }}
	err := pointing.DumpFile(context.Background(), q, filepath.Join(t.TempDir(), pointing.FileName))
	require.Error(t, err)
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "unable to create the JSOC pointing table")
}

func TestDumpFileWritesFile(t *testing.T) {
	q := &stubQuerier{respond: func(string) (*jsoc.Table, error) {
		return &jsoc.Table{
			Keys: []string{"T_START"},
			Rows: [][]string{{"2010-05-13T00:00:00Z"}},
		}, nil
	}}
	path := filepath.Join(t.TempDir(), pointing.FileName)
	require.NoError(t, pointing.DumpFile(context.Background(), q, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "T_START\n2010-05-13T00:00:00Z\n", string(data))
}
