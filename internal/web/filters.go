package web

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/brandadmin/internal/grid"
	"github.com/JonMunkholm/brandadmin/internal/logging"
	"github.com/JonMunkholm/brandadmin/internal/session"
)

// gridFilters returns the search state of def for this request: the saved
// search (or the defaults) with the sort and page from the query string
// applied. A changed state is saved back.
func (s *Server) gridFilters(r *http.Request, def grid.Definition) grid.Filters {
	ctx := r.Context()
	f := def.DefaultFilters()
	if saved, ok := s.loadFilters(ctx, def.ID); ok {
		f = saved
	}

	q := r.URL.Query()
	changed := false
	if v := q.Get(def.ID + "[orderBy]"); v != "" {
		f.OrderBy, changed = v, true
	}
	if v := q.Get(def.ID + "[sortOrder]"); v != "" {
		f.SortOrder, changed = v, true
	}
	if n, err := strconv.Atoi(q.Get(def.ID + "[offset]")); err == nil {
		f.Offset, changed = n, true
	}
	if n, err := strconv.Atoi(q.Get(def.ID + "[limit]")); err == nil {
		f.Limit, changed = n, true
	}

	f = f.Clean(def)
	if changed {
		s.saveFilters(ctx, f)
	}
	return f
}

// searchFilters replaces the filter values of current with the posted
// <grid>[<column>] fields and goes back to the first page.
func searchFilters(r *http.Request, def grid.Definition, current grid.Filters) grid.Filters {
	f := current
	f.Filters = map[string]string{}
	f.Offset = 0

	keys := make([]string, 0, len(def.Columns)+len(def.ExtraFilters))
	for _, col := range def.Columns {
		if col.Filter != grid.FilterNone {
			keys = append(keys, col.ID)
		}
	}
	keys = append(keys, def.ExtraFilters...)

	for _, key := range keys {
		if v := r.PostForm.Get(def.ID + "[" + key + "]"); v != "" {
			f.Filters[key] = v
		}
	}
	return f.Clean(def)
}

func (s *Server) loadFilters(ctx context.Context, gridID string) (grid.Filters, bool) {
	sid := session.IDFromContext(ctx)
	if s.sessions == nil || sid == "" {
		return grid.Filters{}, false
	}
	f, ok, err := s.sessions.LoadFilters(ctx, sid, gridID)
	if err != nil {
		logging.FromContext(ctx).Warn("saved filters unavailable", "grid", gridID, "error", err)
		return grid.Filters{}, false
	}
	return f, ok
}

func (s *Server) saveFilters(ctx context.Context, f grid.Filters) {
	sid := session.IDFromContext(ctx)
	if s.sessions == nil || sid == "" {
		return
	}
	if err := s.sessions.SaveFilters(ctx, sid, f); err != nil {
		logging.FromContext(ctx).Warn("filters not saved", "grid", f.GridID, "error", err)
	}
}

// bulkIDs reads the checked row ids posted as field[]. Values that are not
// numbers become 0 and are left for the command to reject.
func bulkIDs(r *http.Request, field string) []int {
	values := r.PostForm[field+"[]"]
	ids := make([]int, 0, len(values))
	for _, v := range values {
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		ids = append(ids, n)
	}
	return ids
}

func urlID(r *http.Request, key string) int {
	n, _ := strconv.Atoi(chi.URLParam(r, key))
	return n
}
