package server_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/ironrent/catalog"
	"github.com/jrsteele09/ironrent/company"
	"github.com/jrsteele09/ironrent/internal/config"
	"github.com/jrsteele09/ironrent/leads"
	"github.com/jrsteele09/ironrent/server"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "correct-horse"

type testConfig struct {
	config.Config
	production bool
	trustProxy bool
	duration   time.Duration
	threshold  time.Duration
	perMinute  int
	burst      int
}

func (c testConfig) GetEnv() string {
	if c.production {
		return config.EnvProduction
	}
	return "TEST"
}

func (c testConfig) IsProduction() bool                { return c.production }
func (c testConfig) GetAppName() string                { return "IronRent" }
func (c testConfig) GetSessionDuration() time.Duration { return c.duration }
func (c testConfig) GetRenewThreshold() time.Duration  { return c.threshold }
func (c testConfig) GetProtectedPaths() []string       { return []string{"/admin"} }
func (c testConfig) GetLoginRatePerMinute() int        { return c.perMinute }
func (c testConfig) GetLoginBurst() int                { return c.burst }
func (c testConfig) GetTrustProxyHeaders() bool        { return c.trustProxy }

func defaultTestConfig() testConfig {
	return testConfig{
		Config:    config.New(),
		duration:  time.Hour,
		threshold: 15 * time.Minute,
		perMinute: 60,
		burst:     100,
	}
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type testEnv struct {
	srv     *server.Server
	clock   *fakeClock
	repo    *leads.InMemoryRepo
	catalog *catalog.InMemoryRepo
	company *company.InMemoryRepo
}

func newTestEnv(t *testing.T, cfg testConfig, opts ...server.Option) *testEnv {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	env := &testEnv{
		clock:   &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		repo:    leads.NewInMemoryRepo(),
		catalog: catalog.NewInMemoryRepo(),
		company: company.NewInMemoryRepo(),
	}
	opts = append([]server.Option{server.WithNowFunc(env.clock.Now)}, opts...)
	env.srv, err = server.New(cfg, config.Secrets{
		SessionSecret:     []byte("0123456789abcdef0123456789abcdef"),
		AdminPasswordHash: hash,
	}, server.Repos{Leads: env.repo, Catalog: env.catalog, Company: env.company}, opts...)
	require.NoError(t, err)
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return e.do(req)
}

func (e *testEnv) postForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return e.do(req)
}

func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()
	rec := e.postForm("/login", url.Values{"password": {testPassword}}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	return cookie
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == server.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestLogin(t *testing.T) {
	t.Run("correct password starts a session", func(t *testing.T) {
		env := newTestEnv(t, defaultTestConfig())

		rec := env.postForm("/login", url.Values{"password": {testPassword}}, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/admin", rec.Header().Get("Location"))

		cookie := sessionCookie(rec)
		require.NotNil(t, cookie)
		require.True(t, cookie.HttpOnly)
		require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		require.Equal(t, "/", cookie.Path)
		require.Equal(t, 3600, cookie.MaxAge)
		require.False(t, cookie.Secure)

		claims, ok := env.srv.Sessions().Verify(cookie.Value)
		require.True(t, ok)
		require.True(t, claims.IsAdmin)

		rec = env.get("/admin", cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Nil(t, sessionCookie(rec))
	})

	t.Run("wrong password", func(t *testing.T) {
		env := newTestEnv(t, defaultTestConfig())

		rec := env.postForm("/login", url.Values{"password": {"nope"}}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "Invalid password")
		require.Nil(t, sessionCookie(rec))
	})

	t.Run("empty password", func(t *testing.T) {
		env := newTestEnv(t, defaultTestConfig())

		rec := env.postForm("/login", url.Values{}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Nil(t, sessionCookie(rec))
	})

	t.Run("secure cookie in production", func(t *testing.T) {
		cfg := defaultTestConfig()
		cfg.production = true
		env := newTestEnv(t, cfg)

		cookie := env.login(t)
		require.True(t, cookie.Secure)
	})

	t.Run("login page reachable with a valid session", func(t *testing.T) {
		env := newTestEnv(t, defaultTestConfig())
		cookie := env.login(t)

		rec := env.get("/login", cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `name="password"`)
		require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	})

	t.Run("htmx login redirects with header", func(t *testing.T) {
		env := newTestEnv(t, defaultTestConfig())
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("password="+testPassword))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("HX-Request", "true")

		rec := env.do(req)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "/admin", rec.Header().Get("HX-Redirect"))
		require.NotNil(t, sessionCookie(rec))
	})
}

func TestLoginThrottle(t *testing.T) {
	t.Run("attempts beyond the burst are refused", func(t *testing.T) {
		cfg := defaultTestConfig()
		cfg.perMinute = 1
		cfg.burst = 2
		env := newTestEnv(t, cfg)

		for i := 0; i < 2; i++ {
			rec := env.postForm("/login", url.Values{"password": {"wrong"}}, nil)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
		}

		rec := env.postForm("/login", url.Values{"password": {testPassword}}, nil)
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.Nil(t, sessionCookie(rec))
	})

	t.Run("forwarded address ignored unless proxy trusted", func(t *testing.T) {
		cfg := defaultTestConfig()
		cfg.perMinute = 1
		cfg.burst = 1
		env := newTestEnv(t, cfg)

		attempt := func(xff string) int {
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("password=wrong"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.Header.Set("X-Forwarded-For", xff)
			return env.do(req).Code
		}
		require.Equal(t, http.StatusUnauthorized, attempt("203.0.113.1"))
		require.Equal(t, http.StatusTooManyRequests, attempt("203.0.113.2"))
	})

	t.Run("trusted proxy separates clients", func(t *testing.T) {
		cfg := defaultTestConfig()
		cfg.perMinute = 1
		cfg.burst = 1
		cfg.trustProxy = true
		env := newTestEnv(t, cfg)

		attempt := func(xff string) int {
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("password=wrong"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.Header.Set("X-Forwarded-For", xff)
			return env.do(req).Code
		}
		require.Equal(t, http.StatusUnauthorized, attempt("203.0.113.1"))
		require.Equal(t, http.StatusTooManyRequests, attempt("198.51.100.7, 203.0.113.1"))
		require.Equal(t, http.StatusUnauthorized, attempt("203.0.113.2"))
	})
}

func TestLogout(t *testing.T) {
	t.Run("clears the session", func(t *testing.T) {
		env := newTestEnv(t, defaultTestConfig())
		cookie := env.login(t)

		rec := env.postForm("/logout", nil, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))

		cleared := sessionCookie(rec)
		require.NotNil(t, cleared)
		require.Equal(t, -1, cleared.MaxAge)
		require.Empty(t, cleared.Value)

		// A browser sends back whatever the logout response left it with.
		rec = env.get("/admin", &http.Cookie{Name: server.SessionCookieName, Value: cleared.Value})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))

		rec = env.get("/admin", nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("GET is not a logout", func(t *testing.T) {
		env := newTestEnv(t, defaultTestConfig())
		cookie := env.login(t)

		rec := env.get("/logout", cookie)
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		require.Nil(t, sessionCookie(rec))

		require.Equal(t, http.StatusOK, env.get("/admin", cookie).Code)
	})
}

func TestAccessGate(t *testing.T) {
	t.Run("missing cookie redirects to login", func(t *testing.T) {
		env := newTestEnv(t, defaultTestConfig())
		for _, path := range []string{"/admin", "/admin/leads"} {
			rec := env.get(path, nil)
			require.Equal(t, http.StatusSeeOther, rec.Code, path)
			require.Equal(t, "/login", rec.Header().Get("Location"), path)
			require.Nil(t, sessionCookie(rec), path)
		}
	})

	t.Run("expired session is cleared", func(t *testing.T) {
		env := newTestEnv(t, defaultTestConfig())
		tok, err := env.srv.Sessions().Issue(time.Second)
		require.NoError(t, err)

		env.clock.Advance(2 * time.Second)
		rec := env.get("/admin", &http.Cookie{Name: server.SessionCookieName, Value: tok})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))

		cleared := sessionCookie(rec)
		require.NotNil(t, cleared)
		require.Equal(t, -1, cleared.MaxAge)
	})

	t.Run("forged cookie is cleared", func(t *testing.T) {
		env := newTestEnv(t, defaultTestConfig())
		rec := env.get("/admin/leads", &http.Cookie{Name: server.SessionCookieName, Value: "eyJhbGciOiJub25lIn0.eyJpc0FkbWluIjp0cnVlfQ."})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		cleared := sessionCookie(rec)
		require.NotNil(t, cleared)
		require.Equal(t, -1, cleared.MaxAge)
	})

	t.Run("htmx requests get a redirect header", func(t *testing.T) {
		env := newTestEnv(t, defaultTestConfig())
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("HX-Request", "true")
		rec := env.do(req)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("HX-Redirect"))
	})

	t.Run("public paths pass without a cookie", func(t *testing.T) {
		env := newTestEnv(t, defaultTestConfig())

		rec := env.get("/", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.get("/css/site.css", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Header().Get("Content-Type"), "text/css")

		rec = env.get("/css/missing.css", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)

		// Shares a prefix with /admin but not a path segment.
		rec = env.get("/administrator", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("public pages show admin links only to a valid session", func(t *testing.T) {
		env := newTestEnv(t, defaultTestConfig())
		cookie := env.login(t)

		for _, path := range []string{"/", "/about"} {
			rec := env.get(path, nil)
			require.Equal(t, http.StatusOK, rec.Code, path)
			require.NotContains(t, rec.Body.String(), `href="/admin/leads"`, path)

			rec = env.get(path, cookie)
			require.Equal(t, http.StatusOK, rec.Code, path)
			require.Contains(t, rec.Body.String(), `href="/admin/leads"`, path)
			require.Nil(t, sessionCookie(rec), path)

			rec = env.get(path, &http.Cookie{Name: server.SessionCookieName, Value: "forged"})
			require.Equal(t, http.StatusOK, rec.Code, path)
			require.NotContains(t, rec.Body.String(), `href="/admin/leads"`, path)
			require.Nil(t, sessionCookie(rec), path)
		}

		// An expired session is not shown as logged in, and is left alone.
		env.clock.Advance(2 * time.Hour)
		rec := env.get("/", cookie)
		require.NotContains(t, rec.Body.String(), `href="/admin/leads"`)
		require.Nil(t, sessionCookie(rec))
	})

	t.Run("renewal threshold", func(t *testing.T) {
		env := newTestEnv(t, defaultTestConfig())
		cookie := env.login(t)

		env.clock.Advance(2600 * time.Second) // 1000s left
		rec := env.get("/admin", cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Nil(t, sessionCookie(rec))

		env.clock.Advance(200 * time.Second) // 800s left
		rec = env.get("/admin", cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		renewed := sessionCookie(rec)
		require.NotNil(t, renewed)
		require.Equal(t, 3600, renewed.MaxAge)

		claims, ok := env.srv.Sessions().Verify(renewed.Value)
		require.True(t, ok)
		require.Equal(t, time.Hour, claims.Remaining(env.clock.Now()))

		// The old cookie would have expired; the renewed one carries on.
		env.clock.Advance(time.Hour - time.Minute)
		require.Equal(t, http.StatusSeeOther, env.get("/admin", cookie).Code)
		require.Equal(t, http.StatusOK, env.get("/admin", renewed).Code)
	})
}

func TestClassifySession(t *testing.T) {
	env := newTestEnv(t, defaultTestConfig())
	tok, err := env.srv.Sessions().Issue(time.Hour)
	require.NoError(t, err)
	claims, ok := env.srv.Sessions().Verify(tok)
	require.True(t, ok)
	now := env.clock.Now()

	tests := []struct {
		name  string
		valid bool
		at    time.Time
		want  server.SessionState
	}{
		{name: "invalid", valid: false, at: now, want: server.Unauthenticated},
		{name: "fresh", valid: true, at: now, want: server.AuthenticatedFresh},
		{name: "exactly at threshold", valid: true, at: now.Add(45 * time.Minute), want: server.AuthenticatedFresh},
		{name: "inside threshold", valid: true, at: now.Add(45*time.Minute + time.Second), want: server.AuthenticatedStale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, server.ClassifySession(claims, tt.valid, tt.at, 15*time.Minute))
		})
	}
}

func TestLeads(t *testing.T) {
	validForm := url.Values{
		"name":    {"Ivan Petrov"},
		"phone":   {"+7 (900) 123-45-67"},
		"machine": {"Excavator JCB 3CX"},
	}

	t.Run("public submission", func(t *testing.T) {
		env := newTestEnv(t, defaultTestConfig())

		rec := env.postForm("/leads", validForm, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/?lead=sent", rec.Header().Get("Location"))

		list, err := env.repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "+79001234567", list[0].Phone)
		require.Equal(t, leads.StatusNew, list[0].Status)
		require.Equal(t, leads.DefaultSource, list[0].Source)

		rec = env.get("/?lead=sent", nil)
		require.Contains(t, rec.Body.String(), "your request has been sent")
	})

	t.Run("invalid submission re-renders the form", func(t *testing.T) {
		env := newTestEnv(t, defaultTestConfig())

		rec := env.postForm("/leads", url.Values{"name": {"Ivan"}, "phone": {"123"}}, nil)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.Contains(t, rec.Body.String(), "Please enter a valid phone number")
		require.Contains(t, rec.Body.String(), `value="Ivan"`)

		list, err := env.repo.List(context.Background())
		require.NoError(t, err)
		require.Empty(t, list)
	})

	t.Run("admin manages leads", func(t *testing.T) {
		env := newTestEnv(t, defaultTestConfig())
		require.Equal(t, http.StatusSeeOther, env.postForm("/leads", validForm, nil).Code)
		list, err := env.repo.List(context.Background())
		require.NoError(t, err)
		id := list[0].ID.String()

		cookie := env.login(t)

		rec := env.get("/admin/leads", cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Ivan Petrov")

		rec = env.postForm("/admin/leads/"+id+"/status", url.Values{"status": {"processing"}}, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/admin/leads", rec.Header().Get("Location"))
		lead, err := env.repo.Get(context.Background(), list[0].ID)
		require.NoError(t, err)
		require.Equal(t, leads.StatusProcessing, lead.Status)

		rec = env.get("/admin", cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "1 leads in total")

		rec = env.postForm("/admin/leads/"+id+"/status", url.Values{"status": {"ARCHIVED"}}, cookie)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		rec = env.postForm("/admin/leads/not-a-uuid/status", url.Values{"status": {"NEW"}}, cookie)
		require.Equal(t, http.StatusNotFound, rec.Code)

		rec = env.postForm("/admin/leads/"+id+"/delete", nil, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		_, err = env.repo.Get(context.Background(), list[0].ID)
		require.Error(t, err)

		rec = env.postForm("/admin/leads/"+id+"/delete", nil, cookie)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("admin actions need a session", func(t *testing.T) {
		env := newTestEnv(t, defaultTestConfig())
		require.Equal(t, http.StatusSeeOther, env.postForm("/leads", validForm, nil).Code)
		list, err := env.repo.List(context.Background())
		require.NoError(t, err)

		rec := env.postForm("/admin/leads/"+list[0].ID.String()+"/delete", nil, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))

		_, err = env.repo.Get(context.Background(), list[0].ID)
		require.NoError(t, err)
	})
}

type recordingNotifier struct {
	leads []*leads.Lead
	err   error
}

func (n *recordingNotifier) NotifyLead(_ context.Context, lead *leads.Lead) error {
	n.leads = append(n.leads, lead)
	return n.err
}

func TestLeadNotifications(t *testing.T) {
	form := url.Values{"name": {"Ivan Petrov"}, "phone": {"89001234567"}}

	t.Run("stored leads are announced", func(t *testing.T) {
		notifier := &recordingNotifier{}
		env := newTestEnv(t, defaultTestConfig(), server.WithNotifier(notifier))

		rec := env.postForm("/leads", form, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Len(t, notifier.leads, 1)
		require.Equal(t, "+79001234567", notifier.leads[0].Phone)
	})

	t.Run("rejected submissions are not announced", func(t *testing.T) {
		notifier := &recordingNotifier{}
		env := newTestEnv(t, defaultTestConfig(), server.WithNotifier(notifier))

		rec := env.postForm("/leads", url.Values{"name": {"Ivan"}}, nil)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.Empty(t, notifier.leads)
	})

	t.Run("a failed notification does not lose the lead", func(t *testing.T) {
		notifier := &recordingNotifier{err: fmt.Errorf("telegram down")}
		env := newTestEnv(t, defaultTestConfig(), server.WithNotifier(notifier))

		rec := env.postForm("/leads", form, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/?lead=sent", rec.Header().Get("Location"))

		list, err := env.repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, list, 1)
	})
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("needs a session", func(t *testing.T) {
		env := newTestEnv(t, defaultTestConfig())

		for _, path := range []string{"/admin/catalog", "/admin/catalog/categories/new", "/admin/catalog/machines/new"} {
			rec := env.get(path, nil)
			require.Equal(t, http.StatusSeeOther, rec.Code, path)
			require.Equal(t, "/login", rec.Header().Get("Location"), path)
		}

		rec := env.postForm("/admin/catalog/categories", url.Values{"name": {"Excavators"}}, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))

		list, err := env.catalog.ListCategories(ctx)
		require.NoError(t, err)
		require.Empty(t, list)
	})

	t.Run("categories", func(t *testing.T) {
		env := newTestEnv(t, defaultTestConfig())
		cookie := env.login(t)

		rec := env.get("/admin/catalog/categories/new", cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

		rec = env.postForm("/admin/catalog/categories", url.Values{"name": {"Excavators"}, "description": {"Tracked and wheeled"}}, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/admin/catalog", rec.Header().Get("Location"))

		list, err := env.catalog.ListCategories(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "excavators", list[0].Slug)
		id := list[0].ID.String()

		rec = env.postForm("/admin/catalog/categories", url.Values{"name": {"Excavators"}}, cookie)
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Contains(t, rec.Body.String(), "A category with this URL already exists")

		rec = env.postForm("/admin/catalog/categories", url.Values{"name": {"  "}}, cookie)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.Contains(t, rec.Body.String(), "Category name is required")

		rec = env.get("/admin/catalog/categories/"+id, cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Tracked and wheeled")

		rec = env.postForm("/admin/catalog/categories/"+id, url.Values{"name": {"Diggers"}, "slug": {"diggers"}}, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		c, err := env.catalog.GetCategory(ctx, list[0].ID)
		require.NoError(t, err)
		require.Equal(t, "Diggers", c.Name)
		require.Equal(t, "excavators", c.Slug)

		rec = env.get("/admin/catalog", cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Diggers")

		rec = env.get("/admin/catalog/categories/"+uuid.NewString(), cookie)
		require.Equal(t, http.StatusNotFound, rec.Code)

		rec = env.postForm("/admin/catalog/categories/"+id+"/delete", nil, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		list, err = env.catalog.ListCategories(ctx)
		require.NoError(t, err)
		require.Empty(t, list)

		rec = env.postForm("/admin/catalog/categories/"+id+"/delete", nil, cookie)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("machines", func(t *testing.T) {
		env := newTestEnv(t, defaultTestConfig())
		cookie := env.login(t)

		category, err := catalog.NewCategory(catalog.CategoryInput{Name: "Excavators"}, env.clock.Now())
		require.NoError(t, err)
		require.NoError(t, env.catalog.CreateCategory(ctx, category))

		form := url.Values{
			"title":       {"JCB 3CX"},
			"categoryId":  {category.ID.String()},
			"shiftPrice":  {"12000"},
			"hourlyPrice": {"1800.50"},
			"specs":       {"Weight: 8 t\nno colon here\nDepth: 5.9 m"},
			"images":      {"/img/a.jpg\n\n/img/b.jpg"},
			"isAvailable": {"on"},
		}

		rec := env.get("/admin/catalog/machines/new", cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Excavators")

		rec = env.postForm("/admin/catalog/machines", form, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/admin/catalog", rec.Header().Get("Location"))

		m, err := env.catalog.MachineBySlug(ctx, "jcb-3cx")
		require.NoError(t, err)
		require.Equal(t, 12000.0, m.ShiftPrice)
		require.NotNil(t, m.HourlyPrice)
		require.Equal(t, 1800.5, *m.HourlyPrice)
		require.Equal(t, map[string]string{"Weight": "8 t", "Depth": "5.9 m"}, m.Specs)
		require.Equal(t, []string{"/img/a.jpg", "/img/b.jpg"}, m.Images)
		require.True(t, m.IsAvailable)
		require.False(t, m.IsFeatured)

		// A derived slug that is taken gets a suffix.
		rec = env.postForm("/admin/catalog/machines", form, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		_, err = env.catalog.MachineBySlug(ctx, fmt.Sprintf("jcb-3cx-%d", env.clock.Now().Unix()))
		require.NoError(t, err)

		// A typed one is rejected.
		form.Set("slug", "jcb-3cx")
		rec = env.postForm("/admin/catalog/machines", form, cookie)
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Contains(t, rec.Body.String(), "A machine with this URL already exists")
		require.Contains(t, rec.Body.String(), `value="JCB 3CX"`)
		form.Del("slug")

		invalid := []struct {
			name  string
			field string
			value string
			want  string
		}{
			{name: "price not a number", field: "shiftPrice", value: "abc", want: "Shift price must be a number"},
			{name: "zero price", field: "shiftPrice", value: "0", want: "Shift price must be greater than zero"},
			{name: "bad hourly price", field: "hourlyPrice", value: "-5", want: "Hourly price must be greater than zero"},
			{name: "unknown category", field: "categoryId", value: uuid.NewString(), want: "Choose a category"},
			{name: "no category", field: "categoryId", value: "", want: "Choose a category"},
			{name: "short title", field: "title", value: "J", want: "Machine title is required"},
		}
		for _, tt := range invalid {
			t.Run(tt.name, func(t *testing.T) {
				bad := url.Values{}
				for k, v := range form {
					bad[k] = v
				}
				bad.Set(tt.field, tt.value)
				rec := env.postForm("/admin/catalog/machines", bad, cookie)
				require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
				require.Contains(t, rec.Body.String(), tt.want)
			})
		}

		machines, err := env.catalog.ListMachines(ctx)
		require.NoError(t, err)
		require.Len(t, machines, 2)

		rec = env.get("/admin/catalog/machines/"+m.ID.String(), cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Depth: 5.9 m")

		env.clock.Advance(time.Hour)
		rec = env.postForm("/admin/catalog/machines/"+m.ID.String(), url.Values{
			"title":      {"JCB 3CX Super"},
			"categoryId": {category.ID.String()},
			"shiftPrice": {"15000"},
			"isFeatured": {"on"},
		}, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		updated, err := env.catalog.GetMachine(ctx, m.ID)
		require.NoError(t, err)
		require.Equal(t, "JCB 3CX Super", updated.Title)
		require.Equal(t, "jcb-3cx", updated.Slug)
		require.Nil(t, updated.HourlyPrice)
		require.True(t, updated.IsFeatured)
		require.False(t, updated.IsAvailable)
		require.True(t, updated.UpdatedAt.Equal(env.clock.Now()))

		rec = env.get("/admin/catalog", cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "JCB 3CX Super")

		rec = env.postForm("/admin/catalog/categories/"+category.ID.String()+"/delete", nil, cookie)
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Contains(t, rec.Body.String(), "still has machinery")

		for _, machine := range machines {
			rec = env.postForm("/admin/catalog/machines/"+machine.ID.String()+"/delete", nil, cookie)
			require.Equal(t, http.StatusSeeOther, rec.Code)
		}
		rec = env.postForm("/admin/catalog/machines/"+m.ID.String()+"/delete", nil, cookie)
		require.Equal(t, http.StatusNotFound, rec.Code)

		rec = env.postForm("/admin/catalog/categories/"+category.ID.String()+"/delete", nil, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
	})
}

func TestCompanyDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("needs a session", func(t *testing.T) {
		env := newTestEnv(t, defaultTestConfig())

		rec := env.get("/admin/company", nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)

		rec = env.postForm("/admin/company/documents", url.Values{"title": {"Licence"}}, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))

		docs, err := env.company.ListDocuments(ctx, false)
		require.NoError(t, err)
		require.Empty(t, docs)
	})

	t.Run("admin manages documents shown on the about page", func(t *testing.T) {
		env := newTestEnv(t, defaultTestConfig())
		cookie := env.login(t)

		rec := env.get("/admin/company/documents/new", cookie)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.postForm("/admin/company/documents", url.Values{
			"title":     {"Operating licence"},
			"number":    {"77-001"},
			"imageUrl":  {"/img/licence.jpg"},
			"sortOrder": {"2"},
			"isActive":  {"on"},
		}, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/admin/company", rec.Header().Get("Location"))

		rec = env.postForm("/admin/company/documents", url.Values{
			"title":     {"Draft certificate"},
			"sortOrder": {"1"},
		}, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)

		rec = env.postForm("/admin/company/documents", url.Values{"title": {""}}, cookie)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.Contains(t, rec.Body.String(), "Document title is required")

		rec = env.postForm("/admin/company/documents", url.Values{"title": {"ISO"}, "sortOrder": {"first"}}, cookie)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.Contains(t, rec.Body.String(), "Sort order must be a whole number")
		require.Contains(t, rec.Body.String(), `value="first"`)

		docs, err := env.company.ListDocuments(ctx, false)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		require.Equal(t, "Draft certificate", docs[0].Title)

		rec = env.get("/admin/company", cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Draft certificate")

		rec = env.get("/about", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Operating licence")
		require.Contains(t, rec.Body.String(), "77-001")
		require.NotContains(t, rec.Body.String(), "Draft certificate")

		licence := docs[1]
		rec = env.get("/admin/company/documents/"+licence.ID.String(), cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Operating licence")

		rec = env.postForm("/admin/company/documents/"+licence.ID.String(), url.Values{
			"title":     {"Operating licence"},
			"sortOrder": {"0"},
		}, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		d, err := env.company.GetDocument(ctx, licence.ID)
		require.NoError(t, err)
		require.False(t, d.IsActive)
		require.Empty(t, d.Number)
		require.Equal(t, "/img/licence.jpg", d.ImageURL)

		rec = env.get("/about", nil)
		require.NotContains(t, rec.Body.String(), "Operating licence")

		rec = env.postForm("/admin/company/documents/"+licence.ID.String()+"/delete", nil, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		rec = env.get("/admin/company/documents/"+licence.ID.String(), cookie)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}
