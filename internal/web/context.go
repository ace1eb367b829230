package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/brandadmin/internal/core"
)

// WithRequestMetadata adds IP and User-Agent to context for the activity log.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ctx = core.ContextWithIPAddress(ctx, r.RemoteAddr) // already resolved by TrustedRealIP
	ctx = core.ContextWithUserAgent(ctx, r.Header.Get("User-Agent"))
	return ctx
}

// requestContext records the acting employee, the interface language
// matched from Accept-Language, and the request metadata.
func (s *Server) requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithRequestMetadata(r.Context(), r)
		ctx = core.ContextWithEmployeeID(ctx, s.cfg.Security.EmployeeID)
		ctx = core.ContextWithLanguageID(ctx, s.i18n.FromRequest(r).ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
