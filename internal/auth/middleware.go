package auth

import (
	"context"
	"net/http"
	"time"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// AuthMiddleware validates the session cookie and puts the user id on the
// request context. Tokens past half their lifetime are reissued (sliding
// session).
func (h *AuthHandler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(cookieName)
		if err != nil {
			if err == http.ErrNoCookie {
				http.Error(w, "Unauthorized: No token found", http.StatusUnauthorized)
				return
			}
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		userID, expiresAt, err := h.parseToken(cookie.Value)
		if err != nil {
			http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
			return
		}

		if remaining := time.Until(expiresAt); remaining < TokenDuration/2 {
			if newToken, err := h.GenerateToken(userID); err == nil {
				http.SetCookie(w, SessionCookie(newToken))
			}
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
