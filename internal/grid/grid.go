// Package grid describes admin listings: which columns exist, which can be
// filtered or sorted, the filter state a search submits, and the rows a
// factory returns for it.
package grid

import (
	"context"
	"slices"
	"strings"
)

// FilterType controls how a column's filter value becomes a predicate.
type FilterType int

const (
	FilterNone  FilterType = iota
	FilterText             // case-insensitive substring
	FilterExact            // equality on an integer column
	FilterBool             // "0"/"1"
)

// Column is one grid column. ID doubles as the SQL column name of the
// factory's base query.
type Column struct {
	ID       string
	Label    string
	Filter   FilterType
	Sortable bool
}

// Definition is the static shape of a grid.
type Definition struct {
	ID               string
	Name             string
	Columns          []Column
	DefaultOrderBy   string
	DefaultSortOrder string
	DefaultLimit     int

	// ExtraFilters are filter keys accepted without a column of their own.
	ExtraFilters []string
}

// Column looks up a column by id.
func (d Definition) Column(id string) (Column, bool) {
	for _, c := range d.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

func (d Definition) acceptsExtra(key string) bool {
	for _, k := range d.ExtraFilters {
		if k == key {
			return true
		}
	}
	return false
}

// PageSizes are the page lengths a listing accepts besides its default.
var PageSizes = []int{10, 20, 50, 100, 300, 1000}

// Filters is the search state of one grid. Only WithoutLimit makes it
// unbounded; a listing page always has a Limit.
type Filters struct {
	GridID    string            `json:"grid_id"`
	Filters   map[string]string `json:"filters"`
	OrderBy   string            `json:"order_by"`
	SortOrder string            `json:"sort_order"`
	Offset    int               `json:"offset"`
	Limit     int               `json:"limit"`
	Unbounded bool              `json:"-"`
}

// DefaultFilters returns the initial search state for d.
func (d Definition) DefaultFilters() Filters {
	return Filters{
		GridID:    d.ID,
		Filters:   map[string]string{},
		OrderBy:   d.DefaultOrderBy,
		SortOrder: d.DefaultSortOrder,
		Limit:     d.DefaultLimit,
	}
}

// Clean drops blank values and values for columns that are not filterable,
// and replaces an unknown sort or page size with the definition's default.
func (f Filters) Clean(d Definition) Filters {
	out := f
	out.GridID = d.ID
	out.Filters = make(map[string]string, len(f.Filters))
	for k, v := range f.Filters {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		col, ok := d.Column(k)
		if (!ok || col.Filter == FilterNone) && !d.acceptsExtra(k) {
			continue
		}
		out.Filters[k] = v
	}

	if col, ok := d.Column(f.OrderBy); !ok || !col.Sortable {
		out.OrderBy = d.DefaultOrderBy
	}
	switch strings.ToLower(f.SortOrder) {
	case "asc", "desc":
		out.SortOrder = strings.ToLower(f.SortOrder)
	default:
		out.SortOrder = d.DefaultSortOrder
	}
	if out.Unbounded {
		out.Offset, out.Limit = 0, 0
		return out
	}
	if out.Offset < 0 {
		out.Offset = 0
	}
	if !d.acceptsLimit(out.Limit) {
		out.Limit = d.DefaultLimit
	}
	return out
}

func (d Definition) acceptsLimit(n int) bool {
	if n <= 0 {
		return false
	}
	return n == d.DefaultLimit || slices.Contains(PageSizes, n)
}

// WithoutLimit returns a copy that fetches every matching row. Clean keeps
// it unbounded.
func (f Filters) WithoutLimit() Filters {
	out := f
	out.Offset = 0
	out.Limit = 0
	out.Unbounded = true
	return out
}

// Record is one grid row keyed by column id.
type Record map[string]any

// Grid is a rendered listing.
type Grid struct {
	Definition Definition
	Filters    Filters
	Records    []Record
	TotalCount int
}

// Factory builds a grid for a search.
type Factory interface {
	GetGrid(ctx context.Context, filters Filters) (*Grid, error)
	Definition() Definition
}
