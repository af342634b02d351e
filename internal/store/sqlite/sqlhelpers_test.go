// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package sqlite

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tripled-dev/tripled/internal/store"
)

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{n: 0, want: "NULL"},
		{n: 1, want: "?"},
		{n: 3, want: "?, ?, ?"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, placeholders(tt.n), "n=%d", tt.n)
	}
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		orderBy store.OrderBy
		want    string
	}{
		{orderBy: store.OrderNone, want: ""},
		{orderBy: store.OrderSubject, want: " ORDER BY subject, rowid"},
		{orderBy: store.OrderObject, want: " ORDER BY object, rowid"},
		{orderBy: store.OrderSubjectObject, want: " ORDER BY subject, object, rowid"},
		{orderBy: store.OrderBy("sideways"), want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, orderClause(tt.orderBy), "order %q", tt.orderBy)
	}
}

func TestIsColumnMismatch(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "wrong value count",
			err:  errors.New("table triples has 3 columns but 4 values were supplied"),
			want: true,
		},
		{
			name: "unknown column",
			err:  errors.New("table triples has no column named partition"),
			want: true,
		},
		{
			name: "missing table is a different failure",
			err:  errors.New("no such table: triples"),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isColumnMismatch(tt.err))
		})
	}
}

func TestIsMissingTable(t *testing.T) {
	assert.True(t, isMissingTable(errors.New("no such table: triples")))
	assert.False(t, isMissingTable(errors.New(`near "banana": syntax error`)))
}
