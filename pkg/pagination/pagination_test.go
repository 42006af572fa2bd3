// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vidora/vidora/pkg/pagination"
)

/*
TestParams_Offset verifies SQL offset derivation from page and limit.
*/
func TestParams_Offset(t *testing.T) {
	tests := []struct {
		name   string
		page   int
		limit  int
		offset int
	}{
		{"first_page", 1, 20, 0},
		{"second_page", 2, 20, 20},
		{"fifth_page_small_limit", 5, 10, 40},
		{"zero_page_clamps", 0, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := pagination.Params{Page: tt.page, Limit: tt.limit}
			assert.Equal(t, tt.offset, params.Offset())
		})
	}
}

/*
TestNewMeta verifies total page calculation, including partial last pages.
*/
func TestNewMeta(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		total      int
		totalPages int
	}{
		{"exact_division", 1, 20, 100, 5},
		{"partial_last_page", 1, 20, 101, 6},
		{"empty_result", 1, 20, 0, 0},
		{"single_item", 1, 20, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := pagination.NewMeta(tt.page, tt.limit, tt.total)

			assert.Equal(t, tt.page, meta.Page)
			assert.Equal(t, tt.limit, meta.Limit)
			assert.Equal(t, tt.total, meta.Total)
			assert.Equal(t, tt.totalPages, meta.TotalPages)
		})
	}
}

/*
TestFromRequest verifies query parsing with clamping of invalid values.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		page  int
		limit int
	}{
		{"defaults", "", pagination.DefaultPage, pagination.DefaultLimit},
		{"explicit", "?page=3&limit=50", 3, 50},
		{"negative_page", "?page=-1", pagination.DefaultPage, pagination.DefaultLimit},
		{"excessive_limit", "?limit=5000", pagination.DefaultPage, pagination.DefaultLimit},
		{"garbage_values", "?page=abc&limit=xyz", pagination.DefaultPage, pagination.DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/api/v1/videos"+tt.query, nil)
			params := pagination.FromRequest(request)

			assert.Equal(t, tt.page, params.Page)
			assert.Equal(t, tt.limit, params.Limit)
		})
	}
}
