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

package jsoc

import (
	"sort"

	"github.com/pkg/errors"
)

// ErrUnknownColumn indicates the requested column is not in the table.
var ErrUnknownColumn = errors.New("unknown column")

// Table is a column-ordered tabular query result. Keys holds the column
// names in response order, Rows holds one string slice per record with the
// same width as Keys.
type Table struct {
	Keys []string
	Rows [][]string
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Empty returns whether the table has no rows.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// Column returns the index of the named column.
func (t *Table) Column(name string) (int, error) {
	for i, k := range t.Keys {
		if k == name {
			return i, nil
		}
	}
	return -1, errors.WithMessage(ErrUnknownColumn, name)
}

// SortBy sorts rows ascending by the named column. The sort is stable so
// records sharing a key keep their response order.
func (t *Table) SortBy(name string) error {
	col, err := t.Column(name)
	if err != nil {
		return err
	}
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return t.Rows[i][col] < t.Rows[j][col]
	})
	return nil
}
