package templates

import (
	"context"

	"github.com/a-h/templ"
)

// LogsPage is the activity log listing.
type LogsPage struct {
	Page
	Grid     GridView
	DateFrom string
	DateTo   string
}

// Logs renders the log grid with its date range filter.
func Logs(p LogsPage) templ.Component {
	v := p.Grid
	v.Extra = component(func(_ context.Context, h *html) {
		form := v.Grid.Definition.ID + "_filter_form"
		h.raw(`<div class="date-range"><label>From <input type="date"`)
		h.attr("form", form)
		h.attr("name", v.Grid.Definition.ID+"[date_from]")
		h.attr("value", p.DateFrom)
		h.raw(`></label><label>To <input type="date"`)
		h.attr("form", form)
		h.attr("name", v.Grid.Definition.ID+"[date_to]")
		h.attr("value", p.DateTo)
		h.raw(`></label></div>`)
	})
	return Layout(p.Page, Grid(v))
}

// LogsSQLPage shows the SQL behind the current log search.
type LogsSQLPage struct {
	Page
	SQL     string
	BackURL string
}

// LogsSQL renders the query for display only.
func LogsSQL(p LogsSQLPage) templ.Component {
	body := component(func(_ context.Context, h *html) {
		h.raw(`<section class="card sql"><pre><code>`)
		h.text(p.SQL)
		h.raw(`</code></pre><a class="btn"`)
		h.href("href", p.BackURL)
		h.raw(`>Back</a></section>`)
	})
	return Layout(p.Page, body)
}
