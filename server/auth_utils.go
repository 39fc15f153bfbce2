package server

import (
	"fmt"
	"net/http"

	"github.com/jrsteele09/ironrent/token"
)

// SessionCookieName is the name of the cookie carrying the admin session token
const SessionCookieName = "session"

// startSession issues a full-lifetime token and stores it in the session cookie
func (s *Server) startSession(w http.ResponseWriter) (token.SessionClaims, error) {
	signed, err := s.sessions.Issue(s.sessions.Duration())
	if err != nil {
		return token.SessionClaims{}, err
	}
	claims, ok := s.sessions.Verify(signed)
	if !ok {
		return token.SessionClaims{}, fmt.Errorf("freshly issued session token failed verification")
	}
	s.setSessionCookie(w, signed, int(s.sessions.Duration().Seconds()))
	return claims, nil
}

func (s *Server) setSessionCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// clearSessionCookie tells the browser to drop the session cookie now
func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	s.setSessionCookie(w, "", -1)
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
