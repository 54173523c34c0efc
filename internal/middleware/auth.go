package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/spendlog/spendlog-be/internal/auth"
	"github.com/spendlog/spendlog-be/internal/http/respond"
)

type contextKey string

const subjectKey contextKey = "subject"

// Authenticate rejects requests without a valid Bearer token and stores the
// token subject in the request context.
func Authenticate(tokens *auth.TokenManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respond.Error(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			respond.Error(w, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		subject, err := tokens.Validate(parts[1])
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), subjectKey, subject)))
	})
}

// Subject returns the authenticated identity stored by Authenticate, or ""
// when the request was not authenticated.
func Subject(ctx context.Context) string {
	subject, _ := ctx.Value(subjectKey).(string)
	return subject
}
