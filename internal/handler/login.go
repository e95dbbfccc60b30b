package handler

import (
	"crypto/subtle"
	"net/http"

	"facescope/internal/logger"
)

// TokenCookie carries the viewer access token.
const TokenCookie = "facescope_token"

// LoginHandler handles POST /auth/login by validating the token and issuing an auth cookie.
func LoginHandler(viewerToken string, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		token := r.FormValue("token")
		if !ValidToken(viewerToken, token) {
			logger.Warning("Rejected viewer login from %s", r.RemoteAddr)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     TokenCookie,
			Value:    token,
			Path:     "/",
			MaxAge:   2592000, // 30 dni
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// LogoutHandler clears the auth cookie and redirects to the viewer page.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ValidToken reports whether got matches the configured token. An empty
// configured token disables the check.
func ValidToken(want, got string) bool {
	if want == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}
