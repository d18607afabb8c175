// Package paging validates list parameters and applies whitelisted in-memory
// sorting followed by 1-based page slicing.
package paging

import (
	"maps"
	"math"
	"slices"
	"strings"

	"carwash/internal/domain"
)

const (
	DefaultLimit = 10
	Asc          = "asc"
	Desc         = "desc"
)

type Params struct {
	Limit   int    `form:"limit"`
	Page    int    `form:"page"`
	SortBy  string `form:"sort_by"`
	SortDir string `form:"order"`
}

// Comparators maps an accepted sort field to a typed three-way comparison.
type Comparators[T any] map[string]func(a, b T) int

// Normalize fills blanks with defaults and rejects anything outside the whitelist.
func (p *Params) Normalize(fields []string) error {
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Page == 0 {
		p.Page = 1
	}
	if p.SortBy == "" {
		p.SortBy = "id"
	}
	if p.SortDir == "" {
		p.SortDir = Asc
	}
	p.SortDir = strings.ToLower(p.SortDir)

	if p.Limit < 1 {
		return domain.Invalid("limit", p.Limit)
	}
	if p.Page < 1 {
		return domain.Invalid("page", p.Page)
	}
	if !slices.Contains(fields, p.SortBy) {
		return domain.Invalid("sort_by", p.SortBy)
	}
	if p.SortDir != Asc && p.SortDir != Desc {
		return domain.Invalid("order", p.SortDir)
	}
	return nil
}

// Fields lists the keys of cmp for Normalize.
func (c Comparators[T]) Fields() []string {
	return slices.Collect(maps.Keys(c))
}

// Columns maps an accepted sort field to the column it orders by in SQL.
type Columns map[string]string

func (c Columns) Fields() []string {
	return slices.Collect(maps.Keys(c))
}

// Offset returns the index of the first item on the page. ok is false when that
// index does not fit in an int, so the page is necessarily empty.
func (p Params) Offset() (offset int, ok bool) {
	if p.Page-1 > math.MaxInt/p.Limit {
		return 0, false
	}
	return (p.Page - 1) * p.Limit, true
}

// Apply sorts items by p.SortBy/p.SortDir and returns page p.Page of size p.Limit.
// Params must have passed Normalize against the same comparators.
func Apply[T any](items []T, cmp Comparators[T], p Params) []T {
	compare, ok := cmp[p.SortBy]
	if !ok {
		return []T{}
	}
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		if p.SortDir == Desc {
			return compare(b, a)
		}
		return compare(a, b)
	})

	offset, ok := p.Offset()
	if !ok || offset >= len(sorted) {
		return []T{}
	}
	end := offset + min(p.Limit, len(sorted)-offset)
	return sorted[offset:end]
}
