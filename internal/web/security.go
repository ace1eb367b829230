package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/brandadmin/internal/config"
	"github.com/JonMunkholm/brandadmin/internal/logging"
	"github.com/JonMunkholm/brandadmin/internal/session"
)

// Permission attributes checked per route.
const (
	permRead   = "read"
	permCreate = "create"
	permUpdate = "update"
	permDelete = "delete"
)

var allPermissions = []string{permRead, permUpdate, permCreate, permDelete}

// Authorizer decides whether the acting employee holds an attribute.
type Authorizer interface {
	IsGranted(ctx context.Context, attribute string) bool
}

// configAuthorizer grants the permissions listed in the security config.
type configAuthorizer struct {
	cfg *config.SecurityConfig
}

func (a configAuthorizer) IsGranted(_ context.Context, attribute string) bool {
	return a.cfg.HasPermission(attribute)
}

const (
	msgAccessDenied = "Access denied."
	msgDemoDisabled = "This functionality has been disabled."
)

// guard enforces rt's permissions and demo restriction before its handler.
func (s *Server) guard(rt route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		for _, perm := range rt.permissions {
			if !s.auth.IsGranted(ctx, perm) {
				logging.FromContext(ctx).Warn("access denied", "route", rt.name, "permission", perm)
				msg := rt.message
				if msg == "" {
					msg = msgAccessDenied
				}
				s.refuse(w, r, rt, msg, http.StatusForbidden)
				return
			}
		}
		if rt.demo && s.cfg.Security.DemoMode {
			s.refuse(w, r, rt, msgDemoDisabled, http.StatusForbidden)
			return
		}
		rt.handle(w, r)
	}
}

// refuse flashes msg and redirects to rt's redirect route, or answers
// status when the route has none.
func (s *Server) refuse(w http.ResponseWriter, r *http.Request, rt route, msg string, status int) {
	text := s.trans(r.Context(), msg, domainError, nil)
	if rt.redirect == "" {
		http.Error(w, text, status)
		return
	}
	s.flash(r.Context(), session.FlashError, text)

	params := make([]string, 0, len(rt.keep)*2)
	for _, key := range rt.keep {
		params = append(params, key, chi.URLParam(r, key))
	}
	s.redirect(w, r, rt.redirect, params...)
}
