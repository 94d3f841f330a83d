package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"hrperf/internal/domain/apperr"
	"hrperf/internal/domain/auth"
	"hrperf/internal/domain/employee"
	"hrperf/internal/platform/metrics"
	"hrperf/internal/requestctx"
	"hrperf/internal/transport/http/api"
)

// Gate authenticates bearer tokens. With recheck enabled the employee is re-read on every
// request and the stored record replaces the token claims.
type Gate struct {
	tokens  *auth.TokenService
	finder  employee.Finder
	recheck bool
}

func NewGate(tokens *auth.TokenService, finder employee.Finder, recheck bool) *Gate {
	return &Gate{tokens: tokens, finder: finder, recheck: recheck}
}

// RequireAuth answers 401 when no bearer token is presented and 403 when the token is
// invalid, expired or names an employee that no longer exists.
func (g *Gate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := GetRequestID(r.Context())
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			metrics.AuthFailure("missing_token")
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "access token required", reqID)
			return
		}

		identity, err := g.tokens.Verify(token)
		if err != nil {
			metrics.AuthFailure("invalid_token")
			api.Fail(w, http.StatusForbidden, "forbidden", "invalid or expired token", reqID)
			return
		}

		if g.recheck {
			emp, err := g.finder.FindByID(r.Context(), identity.EmployeeID)
			if errors.Is(err, apperr.ErrNotFound) {
				metrics.AuthFailure("unknown_identity")
				api.Fail(w, http.StatusForbidden, "forbidden", "invalid or expired token", reqID)
				return
			}
			if err != nil {
				api.WriteError(w, err, reqID)
				return
			}
			identity = employee.IdentityOf(emp)
		}

		ctx := requestctx.WithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetIdentity(ctx context.Context) (auth.Identity, bool) {
	return requestctx.GetIdentity(ctx)
}

// RequireRole must run after the gate.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := GetIdentity(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "access token required", GetRequestID(r.Context()))
				return
			}
			if err := auth.RequireRole(identity, roles...); err != nil {
				metrics.AuthFailure("forbidden_role")
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
