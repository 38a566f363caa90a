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

package cmd_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zenizh/go-capturer"

	"github.com/LM-SAL/aiapoint/internal/cmd"
	"github.com/LM-SAL/aiapoint/pkg/pointing"
)

// jsocStub answers every rs_list query with a fixed two-record reply.
func jsocStub(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "rs_list", r.URL.Query().Get("op"))
		require.NotEmpty(t, r.URL.Query().Get("ds"))
		fmt.Fprint(w, `{
			"keywords": [
				{"name": "T_START", "values": ["2010-05-13T00:00:00Z", "2010-05-13T03:00:00Z"]},
				{"name": "T_STOP", "values": ["2010-05-13T03:00:00Z", "2010-05-13T06:00:00Z"]}
			],
			"count": 2,
			"status": 0
		}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchCommandWritesTable(t *testing.T) {
	srv := jsocStub(t)
	dir := t.TempDir()
	root := cmd.NewRoot()
	root.SetArgs([]string{
		"fetch",
		"--output-dir", dir,
		"--jsoc-url", srv.URL,
		"--start", "2010-05-13T00:00:00Z",
		"--end", "2010-07-13T00:00:00Z",
		"--workers", "1",
	})
	out := capturer.CaptureStdout(func() {
		require.NoError(t, root.Execute())
	})
	path := filepath.Join(dir, pointing.FileName)
	assert.Contains(t, out, "wrote "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "T_START,T_STOP", lines[0])
}

func TestFetchCommandOutputDirFromEnv(t *testing.T) {
	srv := jsocStub(t)
	dir := t.TempDir()
	t.Setenv("AIAPOINT_OUTPUT_DIR", dir)
	root := cmd.NewRoot()
	root.SetArgs([]string{
		"fetch",
		"--jsoc-url", srv.URL,
		"--start", "2010-05-13T00:00:00Z",
		"--end", "2010-07-13T00:00:00Z",
		"--workers", "1",
	})
	capturer.CaptureStdout(func() {
		require.NoError(t, root.Execute())
	})
	_, err := os.Stat(filepath.Join(dir, pointing.FileName))
	assert.NoError(t, err)
}

func TestFetchCommandRequiresOutputDir(t *testing.T) {
	t.Setenv("AIAPOINT_OUTPUT_DIR", "")
	root := cmd.NewRoot()
	root.SetArgs([]string{"fetch"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output directory")
}

func TestFetchCommandRejectsBadStart(t *testing.T) {
	root := cmd.NewRoot()
	root.SetArgs([]string{
		"fetch",
		"--output-dir", t.TempDir(),
		"--start", "13/05/2010",
	})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--start")
}

func TestFetchCommandWrapsRemoteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	root := cmd.NewRoot()
	root.SetArgs([]string{
		"fetch",
		"--output-dir", t.TempDir(),
		"--jsoc-url", srv.URL,
		"--start", "2010-05-13T00:00:00Z",
		"--end", "2010-07-13T00:00:00Z",
		"--workers", "1",
	})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to create the JSOC pointing table")
	assert.Contains(t, err.Error(), "2010-05-13T00:00:00Z")
}

func TestDumpCommandWritesTable(t *testing.T) {
	srv := jsocStub(t)
	dir := t.TempDir()
	root := cmd.NewRoot()
	root.SetArgs([]string{
		"dump",
		"--output-dir", dir,
		"--jsoc-url", srv.URL,
	})
	out := capturer.CaptureStdout(func() {
		require.NoError(t, root.Execute())
	})
	path := filepath.Join(dir, pointing.FileName)
	assert.Contains(t, out, "wrote "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "T_START,T_STOP\n"))
}

func TestFetchCommandRejectsBadSchedule(t *testing.T) {
	srv := jsocStub(t)
	root := cmd.NewRoot()
	root.SetArgs([]string{
		"fetch",
		"--output-dir", t.TempDir(),
		"--jsoc-url", srv.URL,
		"--schedule", "not-a-schedule",
	})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--schedule")
}
