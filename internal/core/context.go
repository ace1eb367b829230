package core

import "context"

type contextKey string

const (
	ctxKeyIPAddress  contextKey = "activity_ip"
	ctxKeyUserAgent  contextKey = "activity_ua"
	ctxKeyEmployeeID contextKey = "activity_employee"
	ctxKeyLanguageID contextKey = "activity_lang"
)

// ContextWithIPAddress adds IP address to context for activity logging.
func ContextWithIPAddress(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKeyIPAddress, ip)
}

// ContextWithUserAgent adds User-Agent to context for activity logging.
func ContextWithUserAgent(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, ctxKeyUserAgent, ua)
}

// ContextWithEmployeeID records the acting employee.
func ContextWithEmployeeID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, ctxKeyEmployeeID, id)
}

// ContextWithLanguageID records the employee's interface language.
func ContextWithLanguageID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, ctxKeyLanguageID, id)
}

// GetIPAddressFromContext extracts IP address from context.
func GetIPAddressFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyIPAddress).(string); ok {
		return v
	}
	return ""
}

// GetUserAgentFromContext extracts User-Agent from context.
func GetUserAgentFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyUserAgent).(string); ok {
		return v
	}
	return ""
}

// GetEmployeeIDFromContext returns the acting employee, or 0.
func GetEmployeeIDFromContext(ctx context.Context) int {
	if v, ok := ctx.Value(ctxKeyEmployeeID).(int); ok {
		return v
	}
	return 0
}

// GetLanguageIDFromContext returns the interface language, defaulting to 1.
func GetLanguageIDFromContext(ctx context.Context) int {
	if v, ok := ctx.Value(ctxKeyLanguageID).(int); ok && v > 0 {
		return v
	}
	return 1
}
