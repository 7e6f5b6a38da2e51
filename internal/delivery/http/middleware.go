package http

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/stackdeals/deals-api/internal/domain"
	"github.com/stackdeals/deals-api/internal/usecase"
)

type ctxKey string

const ctxUser ctxKey = "user"

func withUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, ctxUser, u)
}

func userFrom(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(ctxUser).(*domain.User)
	return u, ok
}

// Authn resolves the bearer token and loads the caller onto the context.
func (h *Handler) Authn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{Message: "Authentication required"})
			return
		}
		user, err := h.users.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

func (h *Handler) AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := userFrom(r.Context())
		if !ok || u.Role != domain.RoleAdmin {
			writeJSON(w, http.StatusForbidden, errorBody{Message: "Admin role required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func actorFrom(r *http.Request) usecase.Actor {
	actor := usecase.Actor{
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	}
	if u, ok := userFrom(r.Context()); ok {
		actor.UserID = u.ID
		actor.Role = string(u.Role)
	}
	return actor
}
