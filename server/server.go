package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/ironrent/catalog"
	"github.com/jrsteele09/ironrent/company"
	"github.com/jrsteele09/ironrent/internal/config"
	"github.com/jrsteele09/ironrent/leads"
	"github.com/jrsteele09/ironrent/token"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type Server struct {
	env            string // Environment (e.g., "DEV", "PRODUCTION")
	appName        string
	mux            *http.ServeMux
	handler        http.Handler
	routes         []string
	sessions       *token.SessionService
	renewThreshold time.Duration
	protectedPaths []string
	secureCookies  bool
	passwordHash   []byte
	loginLimiter   *multiLimiter
	trustProxy     bool
	leads          leads.Repo
	catalog        catalog.Repo
	company        company.Repo
	notifier       leads.Notifier
	nowFunc        func() time.Time
}

// Repos are the stores behind the public site and the back office
type Repos struct {
	Leads   leads.Repo
	Catalog catalog.Repo
	Company company.Repo
}

type Option func(*Server)

// WithNowFunc overrides the clock used for sessions and new records.
func WithNowFunc(now func() time.Time) Option {
	return func(s *Server) {
		s.nowFunc = now
	}
}

// WithNotifier announces new leads. Without it leads are only stored.
func WithNotifier(n leads.Notifier) Option {
	return func(s *Server) {
		s.notifier = n
	}
}

func New(cfg config.Config, secrets config.Secrets, repos Repos, opts ...Option) (*Server, error) {
	if len(secrets.AdminPasswordHash) == 0 {
		return nil, fmt.Errorf("[Server New] admin password hash is required")
	}
	if repos.Leads == nil || repos.Catalog == nil || repos.Company == nil {
		return nil, fmt.Errorf("[Server New] lead, catalog and company repositories are required")
	}

	s := &Server{
		env:            cfg.GetEnv(),
		appName:        cfg.GetAppName(),
		mux:            http.NewServeMux(),
		renewThreshold: cfg.GetRenewThreshold(),
		protectedPaths: cfg.GetProtectedPaths(),
		secureCookies:  cfg.IsProduction(),
		passwordHash:   secrets.AdminPasswordHash,
		trustProxy:     cfg.GetTrustProxyHeaders(),
		leads:          repos.Leads,
		catalog:        repos.Catalog,
		company:        repos.Company,
		notifier:       leads.NopNotifier{},
		nowFunc:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	sessions, err := token.NewSessionService(token.SessionConfig{
		Secret:   secrets.SessionSecret,
		Duration: cfg.GetSessionDuration(),
	}, token.WithNowFunc(s.nowFunc))
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create session service: %w", err)
	}
	s.sessions = sessions

	perMinute := cfg.GetLoginRatePerMinute()
	s.loginLimiter = newMultiLimiter(rate.Limit(float64(perMinute)/60), cfg.GetLoginBurst(), 10*time.Minute)

	s.initRoutes()
	s.logRoutes()

	// Every request passes the access gate before reaching the mux.
	s.handler = s.AccessGate(s.mux)

	return s, nil
}

// Sessions exposes the token service so callers share the server's secret and clock.
func (s *Server) Sessions() *token.SessionService {
	return s.sessions
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != config.EnvDev {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1], s.isProtectedPath(parts[1]))
		} else {
			logRoute("", parts[0], s.isProtectedPath(parts[0]))
		}
	}
}

func logRoute(method, path string, protected bool) {
	displayMethod := colourize(method)
	if protected {
		path += Yellow + " (admin)" + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}
