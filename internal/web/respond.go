package web

import (
	"context"
	"net/http"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/brandadmin/internal/core"
	"github.com/JonMunkholm/brandadmin/internal/logging"
	"github.com/JonMunkholm/brandadmin/internal/session"
	"github.com/JonMunkholm/brandadmin/internal/web/templates"
)

// Translation domains.
const (
	domainSuccess             = "Admin.Notifications.Success"
	domainError               = "Admin.Notifications.Error"
	domainMenu                = "Admin.Navigation.Menu"
	domainFeature             = "Admin.Catalog.Feature"
	domainCatalogNotification = "Admin.Catalog.Notification"
	domainGlobal              = "Admin.Global"
)

// Success flashes.
const (
	msgCreated       = "Successful creation"
	msgUpdated       = "Successful update"
	msgDeleted       = "Successful deletion"
	msgStatusUpdated = "The status has been successfully updated."
	msgImageDeleted  = "Image successfully deleted."
)

func (s *Server) translator(ctx context.Context) core.Translator {
	return s.i18n.Translator(s.i18n.ByID(core.GetLanguageIDFromContext(ctx)))
}

func (s *Server) trans(ctx context.Context, key, domain string, params map[string]string, args ...any) string {
	return s.translator(ctx).Trans(key, params, domain, args...)
}

// flash queues text for the next page of the current session.
func (s *Server) flash(ctx context.Context, typ session.FlashType, text string) {
	sid := session.IDFromContext(ctx)
	if s.sessions == nil || sid == "" {
		return
	}
	if err := s.sessions.AddFlash(ctx, sid, typ, text); err != nil {
		logging.FromContext(ctx).Warn("flash dropped", "type", typ, "error", err)
	}
}

func (s *Server) flashSuccess(ctx context.Context, key string) {
	s.flash(ctx, session.FlashSuccess, s.trans(ctx, key, domainSuccess, nil))
}

// flashFailure logs err and flashes its user message.
func (s *Server) flashFailure(ctx context.Context, err error) {
	attrs := []any{"error", err}
	if de, ok := core.AsDomain(err); ok {
		attrs = append(attrs, "kind", de.Kind.String(), "code", de.Code)
	}
	logging.FromContext(ctx).Warn("action failed", attrs...)
	s.flash(ctx, session.FlashError, s.brandErrors.Resolve(err, s.translator(ctx)))
}

// finish flashes the outcome of a command and redirects to target.
func (s *Server) finish(w http.ResponseWriter, r *http.Request, err error, successKey, target string, params ...string) {
	if err != nil {
		s.flashFailure(r.Context(), err)
	} else {
		s.flashSuccess(r.Context(), successKey)
	}
	s.redirect(w, r, target, params...)
}

func (s *Server) redirect(w http.ResponseWriter, r *http.Request, name string, params ...string) {
	http.Redirect(w, r, routeURL(name, params...), http.StatusFound)
}

// render writes c, reporting render failures through respondError.
func (s *Server) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	templ.Handler(c, templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.respondError(w, r, err, http.StatusInternalServerError)
		})
	})).ServeHTTP(w, r)
}

// page returns the shared page data and consumes the pending flashes.
func (s *Server) page(r *http.Request, title string) templates.Page {
	ctx := r.Context()
	p := templates.Page{Title: title}

	sid := session.IDFromContext(ctx)
	if s.sessions == nil || sid == "" {
		return p
	}
	flashes, err := s.sessions.PopFlashes(ctx, sid)
	if err != nil {
		logging.FromContext(ctx).Warn("flashes unavailable", "error", err)
		return p
	}
	p.Flashes = flashes
	return p
}

// catalogPage is a page of the brand section, with the sidebar and help
// link.
func (s *Server) catalogPage(r *http.Request, title string) templates.Page {
	p := s.page(r, title)
	p.EnableSidebar = true
	p.HelpURL = s.cfg.Server.HelpURL
	return p
}
