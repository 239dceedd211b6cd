package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/auth/token"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/internal/interfaces/http/response"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

// TokenValidator is satisfied by *token.Manager.
type TokenValidator interface {
	Validate(ctx context.Context, raw string) (*token.Claims, error)
}

// Authenticate requires a valid, unrevoked bearer token and stores its claims
// on the request context.
func Authenticate(v TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := BearerToken(r)
			if raw == "" {
				unauthorized(w, r, errors.Unauthorized("missing bearer token"))
				return
			}
			claims, err := v.Validate(r.Context(), raw)
			if err != nil {
				unauthorized(w, r, err)
				return
			}

			ctx := token.NewContext(r.Context(), claims)
			ctx = logging.WithContext(ctx, logging.FromContext(ctx, nil).With(logging.String("user_id", claims.Subject)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from "Authorization: Bearer <token>". The
// scheme is case-insensitive.
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, rest, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(rest)
}

func unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	if errors.HTTPStatusForCode(errors.GetCode(err)) == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="patent-litigation-graph"`)
	}
	response.Error(w, r, err)
}

//Personal.AI order the ending
