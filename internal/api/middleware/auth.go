package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hszk-dev/govlog/internal/domain/model"
)

// CallerResolver turns an access token into the caller it belongs to.
type CallerResolver interface {
	ResolveCaller(ctx context.Context, token string) (model.Caller, error)
}

// Authenticate resolves the Bearer token, if any, into a model.Caller stored in
// the request context. Requests without a token continue as anonymous; requests
// with a bad token are rejected.
func Authenticate(resolver CallerResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				writeUnauthorized(w, "invalid_token", "Authorization header must be 'Bearer <token>'")
				return
			}

			caller, err := resolver.ResolveCaller(r.Context(), strings.TrimSpace(token))
			if err != nil {
				slog.DebugContext(r.Context(), "caller resolution failed",
					"request_id", GetRequestID(r.Context()),
					"error", err,
				)
				writeUnauthorized(w, "invalid_token", "Access token is invalid or expired")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// RequireAuth rejects anonymous requests. It must run after Authenticate.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetCaller(r.Context()).IsAuthenticated() {
			writeUnauthorized(w, "unauthenticated", "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetCaller returns the caller stored by Authenticate, or the anonymous caller.
func GetCaller(ctx context.Context) model.Caller {
	if caller, ok := ctx.Value(CallerKey).(model.Caller); ok {
		return caller
	}
	return model.Caller{}
}

// WithCaller stores caller in ctx.
func WithCaller(ctx context.Context, caller model.Caller) context.Context {
	return context.WithValue(ctx, CallerKey, caller)
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="govlog"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code, "message": message})
}
