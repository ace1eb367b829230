package templates

import (
	"context"
	"net/url"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/brandadmin/internal/export"
	"github.com/JonMunkholm/brandadmin/internal/grid"
)

// GridView is a grid with the links and buttons around it.
type GridView struct {
	Grid        *grid.Grid
	IndexURL    string
	SearchURL   string
	IDColumn    string
	BulkField   string
	BulkActions []Action
	RowActions  func(rec grid.Record) []Action
	Cell        func(col grid.Column, rec grid.Record) templ.Component
	Extra       templ.Component
}

func (v GridView) id() string { return v.Grid.Definition.ID }

func (v GridView) pageURL(f grid.Filters) string {
	id := v.id()
	q := url.Values{}
	q.Set(id+"[orderBy]", f.OrderBy)
	q.Set(id+"[sortOrder]", f.SortOrder)
	q.Set(id+"[offset]", itoa(f.Offset))
	q.Set(id+"[limit]", itoa(f.Limit))
	return v.IndexURL + "?" + q.Encode()
}

// Grid renders a filterable, sortable listing.
func Grid(v GridView) templ.Component {
	return component(func(ctx context.Context, h *html) {
		g := v.Grid
		id := v.id()
		filterForm := id + "_filter_form"
		bulkForm := id + "_bulk_form"
		rowForm := RowFormID(id)

		h.raw(`<section class="card grid"`)
		h.attr("id", id+"_grid_panel")
		h.raw(`><h2>`)
		h.text(g.Definition.Name)
		h.raw(` <span class="badge">`)
		h.text(itoa(g.TotalCount))
		h.raw(`</span></h2>`)
		h.render(ctx, v.Extra)

		h.raw(`<form method="post"`)
		h.attr("id", filterForm)
		h.href("action", v.SearchURL)
		h.raw(`></form><form method="post"`)
		h.attr("id", bulkForm)
		h.raw(`></form><form method="post"`)
		h.attr("id", rowForm)
		h.raw(`></form>`)

		h.raw(`<table class="table"><thead><tr>`)
		if v.BulkField != "" {
			h.raw(`<th></th>`)
		}
		for _, col := range g.Definition.Columns {
			h.raw(`<th>`)
			if col.Sortable {
				f := g.Filters
				f.OrderBy = col.ID
				f.SortOrder = "asc"
				if g.Filters.OrderBy == col.ID && g.Filters.SortOrder == "asc" {
					f.SortOrder = "desc"
				}
				h.raw(`<a`)
				h.href("href", v.pageURL(f))
				h.raw(`>`)
				h.text(col.Label)
				h.raw(`</a>`)
			} else {
				h.text(col.Label)
			}
			h.raw(`</th>`)
		}
		h.raw(`<th></th></tr><tr class="column-filters">`)
		if v.BulkField != "" {
			h.raw(`<td></td>`)
		}
		for _, col := range g.Definition.Columns {
			h.raw(`<td>`)
			if col.Filter != grid.FilterNone {
				h.render(ctx, filterInput(id, filterForm, col, g.Filters.Filters[col.ID]))
			}
			h.raw(`</td>`)
		}
		h.raw(`<td><button type="submit" class="btn"`)
		h.attr("form", filterForm)
		h.attr("name", id+"[submit]")
		h.raw(`>Search</button></td></tr></thead><tbody>`)

		if len(g.Records) == 0 {
			h.raw(`<tr><td class="empty"`)
			h.attr("colspan", itoa(len(g.Definition.Columns)+2))
			h.raw(`>No records found</td></tr>`)
		}
		for _, rec := range g.Records {
			h.raw(`<tr>`)
			if v.BulkField != "" {
				h.raw(`<td><input type="checkbox"`)
				h.attr("form", bulkForm)
				h.attr("name", v.BulkField+"[]")
				h.attr("value", export.FormatCell(rec[v.IDColumn]))
				h.raw(`></td>`)
			}
			for _, col := range g.Definition.Columns {
				h.raw(`<td>`)
				if v.Cell != nil {
					if c := v.Cell(col, rec); c != nil {
						h.render(ctx, c)
						h.raw(`</td>`)
						continue
					}
				}
				h.text(export.FormatCell(rec[col.ID]))
				h.raw(`</td>`)
			}
			h.raw(`<td class="row-actions">`)
			if v.RowActions != nil {
				for _, a := range v.RowActions(rec) {
					h.render(ctx, button(a, rowForm))
				}
			}
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)

		if len(v.BulkActions) > 0 {
			h.raw(`<div class="bulk-actions">`)
			for _, a := range v.BulkActions {
				h.render(ctx, button(a, bulkForm))
			}
			h.raw(`</div>`)
		}
		h.render(ctx, pagination(v))
		h.raw(`</section>`)
	})
}

// RowFormID is the id of the empty form row buttons submit through.
func RowFormID(gridID string) string { return gridID + "_row_form" }

// Image renders a thumbnail cell. An empty src renders nothing.
func Image(src string) templ.Component {
	return component(func(_ context.Context, h *html) {
		if src == "" {
			return
		}
		h.raw(`<img class="thumbnail" alt=""`)
		h.href("src", src)
		h.raw(`>`)
	})
}

// StatusToggle renders a status cell that posts to url when clicked.
func StatusToggle(enabled bool, url, formID string) templ.Component {
	return component(func(_ context.Context, h *html) {
		class, label := "status disabled", "clear"
		if enabled {
			class, label = "status enabled", "check"
		}
		h.raw(`<button type="submit" formmethod="post"`)
		h.attr("class", "btn btn-link "+class)
		h.attr("form", formID)
		h.href("formaction", url)
		h.raw(`><i class="material-icons">`)
		h.text(label)
		h.raw(`</i></button>`)
	})
}

func filterInput(gridID, formID string, col grid.Column, value string) templ.Component {
	return component(func(_ context.Context, h *html) {
		name := gridID + "[" + col.ID + "]"
		if col.Filter == grid.FilterBool {
			h.raw(`<select`)
			h.attr("form", formID)
			h.attr("name", name)
			h.raw(`>`)
			for _, o := range []struct{ value, label string }{{"", "-"}, {"1", "Yes"}, {"0", "No"}} {
				h.raw(`<option`)
				h.attr("value", o.value)
				if o.value == value {
					h.raw(` selected`)
				}
				h.raw(`>`)
				h.text(o.label)
				h.raw(`</option>`)
			}
			h.raw(`</select>`)
			return
		}
		h.raw(`<input type="text"`)
		h.attr("form", formID)
		h.attr("name", name)
		h.attr("value", value)
		h.raw(`>`)
	})
}

func button(a Action, formID string) templ.Component {
	return component(func(_ context.Context, h *html) {
		if !a.Post {
			h.raw(`<a class="btn btn-link"`)
			h.href("href", a.URL)
			h.raw(`>`)
			h.text(a.Label)
			h.raw(`</a>`)
			return
		}
		h.raw(`<button type="submit" class="btn btn-link" formmethod="post"`)
		h.attr("form", formID)
		h.href("formaction", a.URL)
		if a.Confirm != "" {
			h.attr("data-confirm", a.Confirm)
		}
		h.raw(`>`)
		h.text(a.Label)
		h.raw(`</button>`)
	})
}

func pagination(v GridView) templ.Component {
	return component(func(_ context.Context, h *html) {
		f := v.Grid.Filters
		if f.Limit <= 0 || v.Grid.TotalCount <= f.Limit {
			return
		}
		h.raw(`<nav class="pagination">`)
		if f.Offset > 0 {
			prev := f
			prev.Offset = max(0, f.Offset-f.Limit)
			h.raw(`<a rel="prev"`)
			h.href("href", v.pageURL(prev))
			h.raw(`>Previous</a>`)
		}
		if f.Offset+f.Limit < v.Grid.TotalCount {
			next := f
			next.Offset = f.Offset + f.Limit
			h.raw(`<a rel="next"`)
			h.href("href", v.pageURL(next))
			h.raw(`>Next</a>`)
		}
		h.raw(`</nav>`)
	})
}
