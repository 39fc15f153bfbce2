package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/ironrent/token"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeySession stores the verified session claims
	ContextKeySession ContextKey = "session"
)

// SessionState is the authentication status of a single request
type SessionState int

const (
	// Unauthenticated covers a missing cookie and every kind of invalid token
	Unauthenticated SessionState = iota
	// AuthenticatedFresh is a valid session with at least the renewal threshold remaining
	AuthenticatedFresh
	// AuthenticatedStale is a valid session close enough to expiry to be reissued
	AuthenticatedStale
)

func (s SessionState) String() string {
	switch s {
	case AuthenticatedFresh:
		return "fresh"
	case AuthenticatedStale:
		return "stale"
	default:
		return "unauthenticated"
	}
}

// ClassifySession maps a verification verdict onto a SessionState.
func ClassifySession(claims token.SessionClaims, valid bool, now time.Time, renewThreshold time.Duration) SessionState {
	if !valid {
		return Unauthenticated
	}
	if claims.Remaining(now) < renewThreshold {
		return AuthenticatedStale
	}
	return AuthenticatedFresh
}

// SessionFromContext returns the claims of the verified session, if any
func SessionFromContext(ctx context.Context) (token.SessionClaims, bool) {
	claims, ok := ctx.Value(ContextKeySession).(token.SessionClaims)
	return claims, ok
}

// AccessGate runs before every handler. The login page is always reachable;
// other paths under a protected prefix need a valid session cookie. Invalid
// cookies are deleted and the client is sent to the login page. Sessions
// close to expiry are reissued with a full lifetime.
//
// On public paths a valid cookie still puts its claims in the context, but
// nothing is enforced, cleared or renewed.
func (s *Server) AccessGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == RouteLogin || !s.isProtectedPath(r.URL.Path) {
			next.ServeHTTP(w, s.withOptionalSession(r))
			return
		}

		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			redirectSuccess(w, r, RouteLogin)
			return
		}

		claims, valid := s.sessions.Verify(cookie.Value)
		switch ClassifySession(claims, valid, s.sessions.Now(), s.renewThreshold) {
		case Unauthenticated:
			log.Debug().Str("path", r.URL.Path).Msg("Rejected session cookie")
			s.clearSessionCookie(w)
			redirectSuccess(w, r, RouteLogin)
			return

		case AuthenticatedStale:
			renewed, err := s.startSession(w)
			if err != nil {
				// The current token is still valid, so serve the request with it.
				log.Err(err).Msg("Failed to renew session")
				break
			}
			claims = renewed
			log.Debug().Str("jti", claims.ID).Msg("Renewed session")
		}

		ctx := context.WithValue(r.Context(), ContextKeySession, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) withOptionalSession(r *http.Request) *http.Request {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return r
	}
	claims, valid := s.sessions.Verify(cookie.Value)
	if !valid {
		return r
	}
	return r.WithContext(context.WithValue(r.Context(), ContextKeySession, claims))
}

// isProtectedPath matches whole path segments, so "/admin" protects
// "/admin" and "/admin/leads" but not "/administrator".
func (s *Server) isProtectedPath(path string) bool {
	for _, prefix := range s.protectedPaths {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
