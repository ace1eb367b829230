package web

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/brandadmin/internal/export"
	"github.com/JonMunkholm/brandadmin/internal/grid"
	"github.com/JonMunkholm/brandadmin/internal/logs"
	"github.com/JonMunkholm/brandadmin/internal/web/templates"
)

// handleLogsIndex shows one page of the activity log.
func (s *Server) handleLogsIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f := s.gridFilters(r, s.logDef)
	lf := logs.FiltersFromGrid(f)

	var (
		entries []logs.EmployeeEntry
		total   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = s.logs.FindAllWithEmployeeInformation(gctx, lf)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.logs.Count(gctx, lf)
		return err
	})
	if err := g.Wait(); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	p := s.page(r, s.trans(ctx, "Logs", domainMenu, nil))
	p.Toolbar = []templates.Link{
		{Name: "show_sql", Label: s.trans(ctx, "Show SQL query", domainGlobal, nil), URL: routeURL(routeLogsSQL), Icon: "code"},
		{Name: "export", Label: s.trans(ctx, "Export", domainGlobal, nil), URL: routeURL(routeLogsExport), Icon: "cloud_download"},
	}

	s.render(w, r, templates.Logs(templates.LogsPage{
		Page: p,
		Grid: templates.GridView{
			Grid: &grid.Grid{
				Definition: s.logDef,
				Filters:    f,
				Records:    logRecords(entries),
				TotalCount: total,
			},
			IndexURL:  routeURL(routeLogsIndex),
			SearchURL: routeURL(routeLogsSearch),
			IDColumn:  "id_log",
			BulkActions: []templates.Action{{
				Label:   s.trans(ctx, "Erase all", domainGlobal, nil),
				URL:     routeURL(routeLogsDeleteAll),
				Post:    true,
				Confirm: s.trans(ctx, "Are you sure?", domainGlobal, nil),
			}},
		},
		DateFrom: f.Filters[logs.KeyDateFrom],
		DateTo:   f.Filters[logs.KeyDateTo],
	}))
}

func (s *Server) handleLogsSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	s.saveFilters(r.Context(), searchFilters(r, s.logDef, s.gridFilters(r, s.logDef)))
	s.redirect(w, r, routeLogsIndex)
}

// handleLogsSQL shows the current log search as literal SQL.
func (s *Server) handleLogsSQL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := s.logs.FindAllWithEmployeeInformationQuery(logs.FiltersFromGrid(s.gridFilters(r, s.logDef)))

	s.render(w, r, templates.LogsSQL(templates.LogsSQLPage{
		Page:    s.page(r, s.trans(ctx, "SQL query", domainGlobal, nil)),
		SQL:     query,
		BackURL: routeURL(routeLogsIndex),
	}))
}

func (s *Server) handleLogsDeleteAll(w http.ResponseWriter, r *http.Request) {
	_, err := s.logs.DeleteAll(r.Context())
	s.finish(w, r, err, msgDeleted, routeLogsIndex)
}

// handleLogsExport downloads every entry matching the saved search.
func (s *Server) handleLogsExport(w http.ResponseWriter, r *http.Request) {
	f := s.gridFilters(r, s.logDef).WithoutLimit()
	entries, err := s.logs.FindAllWithEmployeeInformation(r.Context(), logs.FiltersFromGrid(f))
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	s.writeCSV(w, r, export.LogSchema, export.Project(logRecords(entries), export.LogSchema), export.LogPrefix)
}

func logRecords(entries []logs.EmployeeEntry) []grid.Record {
	out := make([]grid.Record, 0, len(entries))
	for _, e := range entries {
		out = append(out, grid.Record{
			"id_log":      e.ID,
			"employee":    e.Employee,
			"email":       e.Email,
			"severity":    e.Severity,
			"message":     e.Message,
			"object_type": e.ObjectType,
			"object_id":   e.ObjectID,
			"error_code":  e.ErrorCode,
			"date_add":    e.DateAdd,
		})
	}
	return out
}
