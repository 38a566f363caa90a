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

// Package jsoc implements a client of the JSOC jsoc_info service. A query is
// a textual record-set selector (series name plus an optional time range or
// record filter) and a list of keywords; the result is a table with one row
// per record.
package jsoc

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const (
	// DefaultEndpoint is the public jsoc_info CGI endpoint.
	DefaultEndpoint = "http://jsoc.stanford.edu/cgi-bin/ajax/jsoc_info"

	// KeyWildcard requests every keyword the series defines.
	KeyWildcard = "**ALL**"
)

var (
	// ErrEmptyResult indicates the query succeeded but matched no records.
	ErrEmptyResult = errors.New("no records returned")

	// ErrQueryFailed indicates the service reported a non-zero status.
	ErrQueryFailed = errors.New("query failed")
)

// Client issues record-set list queries against a jsoc_info endpoint.
type Client struct {
	resty    *resty.Client
	endpoint string
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the jsoc_info endpoint URL.
func WithEndpoint(url string) Option {
	return func(c *Client) {
		c.endpoint = url
	}
}

// WithTimeout sets the per-request timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.resty.SetTimeout(d)
	}
}

// NewClient returns a Client against the public JSOC endpoint unless
// overridden by options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		resty:    resty.New(),
		endpoint: DefaultEndpoint,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// rsListResponse is the wire shape of an op=rs_list reply.
type rsListResponse struct {
	Error    string `json:"error"`
	Keywords []struct {
		Name   string        `json:"name"`
		Values []interface{} `json:"values"`
	} `json:"keywords"`
	Count  int `json:"count"`
	Status int `json:"status"`
}

// Query runs an rs_list query for the given record-set selector and keyword
// list, returning the matched records as a table. A syntactically successful
// query with zero matching records fails with ErrEmptyResult.
func (c *Client) Query(ctx context.Context, selector string, keys []string) (*Table, error) {
	key := KeyWildcard
	if len(keys) > 0 {
		key = strings.Join(keys, ",")
	}
	resp, err := c.resty.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"op":  "rs_list",
			"ds":  selector,
			"key": key,
		}).
		Get(c.endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "querying %q", selector)
	}
	if resp.IsError() {
		return nil, errors.WithMessagef(ErrQueryFailed, "querying %q: HTTP %s", selector, resp.Status())
	}
	var body rsListResponse
	if err := unmarshalNumber(resp.Body(), &body); err != nil {
		return nil, errors.Wrapf(err, "decoding response for %q", selector)
	}
	if body.Status != 0 {
		if body.Error != "" {
			return nil, errors.WithMessagef(ErrQueryFailed, "querying %q: status %d: %s", selector, body.Status, body.Error)
		}
		return nil, errors.WithMessagef(ErrQueryFailed, "querying %q: status %d", selector, body.Status)
	}
	table, err := transpose(&body)
	if err != nil {
		return nil, errors.WithMessagef(err, "querying %q", selector)
	}
	if table.Empty() {
		return nil, errors.WithMessagef(ErrEmptyResult, "querying %q", selector)
	}
	return table, nil
}

// unmarshalNumber decodes JSON keeping numeric values verbatim, so keyword
// values survive the round trip to CSV without float formatting drift.
func unmarshalNumber(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// transpose converts the per-keyword value arrays of an rs_list reply into
// per-record rows.
func transpose(body *rsListResponse) (*Table, error) {
	t := &Table{}
	if len(body.Keywords) == 0 {
		return t, nil
	}
	rows := len(body.Keywords[0].Values)
	for _, kw := range body.Keywords {
		t.Keys = append(t.Keys, kw.Name)
		if len(kw.Values) != rows {
			return nil, errors.Errorf("keyword %s has %d values, expected %d", kw.Name, len(kw.Values), rows)
		}
	}
	for i := 0; i < rows; i++ {
		row := make([]string, len(body.Keywords))
		for j, kw := range body.Keywords {
			row[j] = formatValue(kw.Values[i])
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
