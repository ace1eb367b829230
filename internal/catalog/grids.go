package catalog

import (
	"context"
	"fmt"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/JonMunkholm/brandadmin/internal/core"
	"github.com/JonMunkholm/brandadmin/internal/grid"
)

// gridFactory lists the rows of a base select. Filters and ordering address
// the base select's output columns by grid column id, so only ids from the
// definition ever reach the SQL text.
type gridFactory struct {
	db   core.DBTX
	def  grid.Definition
	base func(ctx context.Context) sq.SelectBuilder
	// decorate adjusts each record after scanning.
	decorate func(grid.Record)
}

func (f *gridFactory) Definition() grid.Definition { return f.def }

func (f *gridFactory) filtered(ctx context.Context, filters grid.Filters) sq.SelectBuilder {
	q := psql.Select().FromSelect(f.base(ctx), "g")
	for _, col := range f.def.Columns {
		v, ok := filters.Filters[col.ID]
		if !ok {
			continue
		}
		ident := "g." + col.ID
		switch col.Filter {
		case grid.FilterText:
			q = q.Where(sq.ILike{ident + "::text": "%" + v + "%"})
		case grid.FilterExact:
			n, _ := strconv.Atoi(v)
			q = q.Where(sq.Eq{ident: n})
		case grid.FilterBool:
			q = q.Where(sq.Eq{ident: v == "1" || v == "true"})
		}
	}
	return q
}

// GetGrid returns one page of rows and the total number of matches.
// Unbounded filters return every match.
func (f *gridFactory) GetGrid(ctx context.Context, filters grid.Filters) (*grid.Grid, error) {
	filters = filters.Clean(f.def)

	countQuery, countArgs, err := f.filtered(ctx, filters).Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s count: %w", f.def.ID, err)
	}
	var total int
	if err := f.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count %s rows: %w", f.def.ID, err)
	}

	q := f.filtered(ctx, filters).
		Columns("g.*").
		OrderBy(fmt.Sprintf("g.%s %s", filters.OrderBy, filters.SortOrder))
	if !filters.Unbounded {
		q = q.Limit(uint64(filters.Limit)).Offset(uint64(filters.Offset))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", f.def.ID, err)
	}

	var rows []map[string]any
	if err := pgxscan.Select(ctx, f.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list %s rows: %w", f.def.ID, err)
	}

	records := make([]grid.Record, 0, len(rows))
	for _, r := range rows {
		rec := grid.Record(r)
		if f.decorate != nil {
			f.decorate(rec)
		}
		records = append(records, rec)
	}
	return &grid.Grid{
		Definition: f.def,
		Filters:    filters,
		Records:    records,
		TotalCount: total,
	}, nil
}

// ManufacturerGrid lists brands with their address and product counts.
func (s *Store) ManufacturerGrid(pageSize int) grid.Factory {
	return &gridFactory{
		db:  s.db,
		def: grid.ManufacturerDefinition(pageSize),
		base: func(context.Context) sq.SelectBuilder {
			return psql.Select(
				"m.id_manufacturer",
				"'' AS logo",
				"m.name",
				fmt.Sprintf("(SELECT COUNT(*) FROM %s a WHERE a.id_manufacturer = m.id_manufacturer AND a.deleted = false) AS addresses_count", s.t.address),
				fmt.Sprintf("(SELECT COUNT(*) FROM %s p WHERE p.id_manufacturer = m.id_manufacturer) AS products_count", s.t.product),
				"m.active",
			).From(s.t.manufacturer + " m")
		},
		decorate: func(r grid.Record) {
			if s.logos == nil {
				return
			}
			id, ok := toInt(r["id_manufacturer"])
			if !ok {
				return
			}
			if logo := s.logos.Info(id); logo != nil {
				r["logo"] = logo.Path
			}
		},
	}
}

// AddressGrid lists live brand addresses with the brand and country names.
func (s *Store) AddressGrid(pageSize int) grid.Factory {
	return &gridFactory{
		db:  s.db,
		def: grid.ManufacturerAddressDefinition(pageSize),
		base: func(ctx context.Context) sq.SelectBuilder {
			return psql.Select(
				"a.id_address",
				"m.name",
				"a.firstname",
				"a.lastname",
				"COALESCE(a.postcode, '') AS postcode",
				"a.city",
				"COALESCE(cl.name, '') AS country",
			).
				From(s.t.address+" a").
				Join(s.t.manufacturer+" m ON m.id_manufacturer = a.id_manufacturer").
				LeftJoin(s.t.countryLang+" cl ON cl.id_country = a.id_country AND cl.id_lang = ?", core.GetLanguageIDFromContext(ctx)).
				Where(sq.Eq{"a.deleted": false})
		},
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	}
	return 0, false
}
