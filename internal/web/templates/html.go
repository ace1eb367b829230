// Package templates holds the back office views as templ components.
package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// html writes markup and keeps the first write error.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (h *html) href(name, u string) {
	h.attr(name, string(templ.URL(u)))
}

func (h *html) render(ctx context.Context, c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(ctx, h.w)
	}
}

func component(fn func(ctx context.Context, h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		fn(ctx, h)
		return h.err
	})
}

// Link is a toolbar or navigation link.
type Link struct {
	Name  string
	Label string
	URL   string
	Icon  string
}

// Action is a button. Post actions submit a form to URL.
type Action struct {
	Label   string
	URL     string
	Post    bool
	Confirm string
}

func itoa(n int) string { return strconv.Itoa(n) }
