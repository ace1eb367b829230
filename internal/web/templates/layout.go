package templates

import (
	"context"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/brandadmin/internal/session"
)

// Page is the data every back office page shares.
type Page struct {
	Title         string
	HelpURL       string
	EnableSidebar bool
	Flashes       []session.Flash
	Toolbar       []Link
}

// Layout wraps body in the admin shell.
func Layout(p Page, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		h.text(p.Title)
		h.raw(`</title><link rel="stylesheet" href="/static/admin.css"></head><body`)
		if p.EnableSidebar {
			h.attr("class", "with-sidebar")
		}
		h.raw(`><header class="page-head"><h1>`)
		h.text(p.Title)
		h.raw(`</h1>`)
		h.render(ctx, Toolbar(p.Toolbar))
		if p.HelpURL != "" {
			h.raw(`<a class="help" target="_blank" rel="noopener"`)
			h.href("href", p.HelpURL)
			h.raw(`>Help</a>`)
		}
		h.raw(`</header><main>`)
		h.render(ctx, Flashes(p.Flashes))
		h.render(ctx, body)
		h.raw(`</main></body></html>`)
	})
}

// Toolbar renders the page header buttons.
func Toolbar(links []Link) templ.Component {
	return component(func(_ context.Context, h *html) {
		if len(links) == 0 {
			return
		}
		h.raw(`<nav class="toolbar">`)
		for _, l := range links {
			h.raw(`<a class="btn btn-primary"`)
			h.attr("id", "page-header-desc-configuration-"+l.Name)
			h.href("href", l.URL)
			h.raw(`>`)
			if l.Icon != "" {
				h.raw(`<i class="material-icons">`)
				h.text(l.Icon)
				h.raw(`</i>`)
			}
			h.text(l.Label)
			h.raw(`</a>`)
		}
		h.raw(`</nav>`)
	})
}

// Flashes renders one-shot messages.
func Flashes(flashes []session.Flash) templ.Component {
	return component(func(_ context.Context, h *html) {
		for _, f := range flashes {
			class := "alert alert-info"
			switch f.Type {
			case session.FlashSuccess:
				class = "alert alert-success"
			case session.FlashError:
				class = "alert alert-danger"
			case session.FlashWarning:
				class = "alert alert-warning"
			}
			h.raw(`<div role="alert"`)
			h.attr("class", class)
			h.raw(`>`)
			h.text(f.Message)
			h.raw(`</div>`)
		}
	})
}

// ErrorAlert is the fragment returned to HTMX requests that failed.
func ErrorAlert(message, action, code string) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<div class="alert alert-danger" role="alert"><p class="message">`)
		h.text(message)
		h.raw(`</p>`)
		if action != "" {
			h.raw(`<p class="action">`)
			h.text(action)
			h.raw(`</p>`)
		}
		if code != "" {
			h.raw(`<p class="code">`)
			h.text(code)
			h.raw(`</p>`)
		}
		h.raw(`</div>`)
	})
}
