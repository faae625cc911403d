package middleware

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/saecki/minesweeper/internal/config"
)

type ctxKey int

const ctxPlayerClaims ctxKey = iota

// PlayerClaims extracts the claims the Auth middleware attached to the
// request context. ok is false for anonymous requests.
func PlayerClaims(ctx context.Context) (*config.PlayerClaims, bool) {
	claims, ok := ctx.Value(ctxPlayerClaims).(*config.PlayerClaims)
	return claims, ok
}

// Auth parses the auth cookie pair. Requests with a valid token carry
// the player claims in their context; requests with a broken or expired
// token get their cookies cleared and proceed anonymously.
func Auth(log *logrus.Logger, cookies *config.Cookies) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cookies.ParsePlayerClaims(r)
			if err != nil {
				if _, hasAuth := r.Cookie("auth"); hasAuth == nil {
					log.Debug("clearing unparseable auth cookies: ", err)
					cookies.Clear(w)
				}
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), ctxPlayerClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
