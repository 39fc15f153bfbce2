package server

import (
	"net/http"

	"github.com/jrsteele09/ironrent/internal/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgInvalidPassword = "Invalid password"
	msgTooManyAttempts = "Too many attempts, try again later"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	basePage
	Error string
}

// LoginPageUIHandler displays the login page (GET /login). It renders even
// when the visitor already holds a valid session.
func (s *Server) LoginPageUIHandler() http.HandlerFunc {
	loginTmpl := mustParseTemplate("login.html")

	return func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, loginTmpl, http.StatusOK, LoginPageData{basePage: s.basePage(false)})
	}
}

// LoginSubmissionHandler checks the admin password and starts a session
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	loginTmpl := mustParseTemplate("login.html")

	renderError := func(w http.ResponseWriter, status int, msg string) {
		renderPage(w, loginTmpl, status, LoginPageData{basePage: s.basePage(false), Error: msg})
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r, s.trustProxy)
		if !s.loginLimiter.allow(ip) {
			log.Warn().Err(errors.ErrTooManyAttempts).Str("ip", ip).Msg("Login throttled")
			renderError(w, http.StatusTooManyRequests, msgTooManyAttempts)
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		password := r.FormValue("password")
		if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
			log.Info().Err(errors.ErrInvalidCredentials).Str("ip", ip).Msg("Failed admin login")
			renderError(w, http.StatusUnauthorized, msgInvalidPassword)
			return
		}

		claims, err := s.startSession(w)
		if err != nil {
			log.Err(err).Msg("Failed to start session")
			http.Error(w, "Failed to start session", http.StatusInternalServerError)
			return
		}

		log.Info().Str("ip", ip).Str("jti", claims.ID).Msg("Admin logged in")
		redirectSuccess(w, r, RouteAdmin)
	}
}

// LogoutHandler drops the session cookie. The token itself stays valid until
// it expires; there is no server-side revocation.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.clearSessionCookie(w)
		redirectSuccess(w, r, RouteLogin)
	}
}
