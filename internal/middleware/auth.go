package middleware

import (
	"net/http"
	"strings"

	"facescope/internal/handler"
)

// TokenAuth wymaga cookie z tokenem podglądu. Pusty token = brak uwierzytelniania.
func TokenAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Strona główna i logowanie są dostępne bez tokenu
			if r.URL.Path == "/" || strings.HasPrefix(r.URL.Path, "/auth/") {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(handler.TokenCookie)
			if err != nil || !handler.ValidToken(token, cookie.Value) {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
