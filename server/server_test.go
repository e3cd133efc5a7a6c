package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/maxence-charriere/go-app/v9/pkg/app"
	"go.uber.org/zap"

	"agenteur.ai/web/config"
	"agenteur.ai/web/middleware"
	"agenteur.ai/web/pages"
	"agenteur.ai/web/routes"
	"agenteur.ai/web/ui"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.RateLimit.RPS = 0
	cfg.CORSAllowedOrigins = []string{"http://localhost:5173"}
	cfg.Version = "test"
	cfg.WebDir = t.TempDir()
	if mutate != nil {
		mutate(cfg)
	}

	static := fstest.MapFS{
		"app.css": &fstest.MapFile{Data: []byte(".page{display:flex}")},
	}

	srv, err := NewServer(cfg, zap.NewNop(), routes.Default(), static)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	return srv
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	res := httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodGet, path, nil))
	return res
}

func TestHealthIncludesRequestID(t *testing.T) {
	srv := newTestServer(t, nil)

	res := get(t, srv.Handler(), "/health")
	if res.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.Code)
	}
	if got := res.Header().Get(middleware.RequestIDHeader); got == "" {
		t.Fatal("expected X-Request-ID header")
	}

	var body struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Data["status"] != "healthy" || body.Data["service"] != "agenteur-web" {
		t.Fatalf("unexpected health body: %v", body.Data)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	res := httptest.NewRecorder()
	srv.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", res.Code)
	}
}

func TestRouteManifest(t *testing.T) {
	srv := newTestServer(t, nil)

	res := get(t, srv.Handler(), "/api/routes")
	if res.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.Code)
	}

	var body struct {
		Data []routes.Entry `json:"data"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	targets := map[string][]string{}
	for _, e := range body.Data {
		for _, l := range e.Links {
			targets[e.Path] = append(targets[e.Path], l.To)
		}
	}

	want := map[string][]string{
		"/":       {"/login", "/signup"},
		"/login":  {"/signup"},
		"/signup": {"/login"},
	}
	for path, to := range want {
		if strings.Join(targets[path], ",") != strings.Join(to, ",") {
			t.Errorf("%s: expected links %v, got %v", path, to, targets[path])
		}
	}
}

func TestPagesArePrerendered(t *testing.T) {
	srv := newTestServer(t, nil)

	testCases := []struct {
		path     string
		contains []string
	}{
		{
			path:     "/",
			contains: []string{"Agenteur", "Deploy AI agents at scale.", `href="/login"`, `href="/signup"`, "Log in", "Sign up"},
		},
		{
			path:     "/login",
			contains: []string{"Log in", "Login form coming soon.", `href="/signup"`},
		},
		{
			path:     "/signup",
			contains: []string{"Sign up", "Signup form coming soon.", `href="/login"`},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			res := get(t, srv.Handler(), tc.path)
			if res.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", res.Code)
			}

			body := res.Body.String()
			for _, s := range tc.contains {
				if !strings.Contains(body, s) {
					t.Errorf("expected page %s to contain %q", tc.path, s)
				}
			}
		})
	}
}

func TestStaticStylesheet(t *testing.T) {
	srv := newTestServer(t, nil)

	res := get(t, srv.Handler(), "/static/app.css")
	if res.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.Code)
	}
	body, _ := io.ReadAll(res.Body)
	if string(body) != ".page{display:flex}" {
		t.Fatalf("unexpected stylesheet: %q", body)
	}
}

func TestRateLimitApplies(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.RateLimit.RPS = 1
		cfg.RateLimit.Burst = 1
	})

	if res := get(t, srv.Handler(), "/health"); res.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", res.Code)
	}
	if res := get(t, srv.Handler(), "/health"); res.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be limited, got %d", res.Code)
	}
}

// brokenPage links to a route that does not exist
type brokenPage struct {
	pages.Home
}

func (p *brokenPage) Content() pages.Content {
	c := p.Home.Content()
	c.Links = append(c.Links, ui.Link{Label: "Pricing", To: "/pricing"})
	return c
}

func TestNewServerRejectsBrokenRouteTable(t *testing.T) {
	table := routes.NewTable(
		routes.Route{Path: "/", Name: "home", New: func() pages.Page { return &brokenPage{} }},
	)

	_, err := NewServer(config.DefaultConfig(), zap.NewNop(), table, nil)
	if err == nil {
		t.Fatal("expected error for a link to an unknown route")
	}
	if !strings.Contains(err.Error(), "/pricing") {
		t.Fatalf("expected error to name the broken target, got: %v", err)
	}
}

func TestStartStopsOnContextCancel(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.Port = "127.0.0.1:0"
		cfg.Server.ShutdownTimeout = time.Second
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop after context cancel")
	}
}

func TestStartReportsListenErrors(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.Port = "127.0.0.1:99999"
	})

	err := srv.Start(context.Background())
	if err == nil {
		t.Fatal("expected listen error")
	}
}

// invitePage is mounted under a parameterized path
type invitePage struct {
	app.Compo
}

func (p *invitePage) Content() pages.Content {
	return pages.Content{Title: "Join the team", Message: "Accept your invitation."}
}

func (p *invitePage) Render() app.UI {
	return app.Main().Body(app.H1().Text("Join the team"))
}

// inviteLinkPage is the landing page with an extra link to an invitation
type inviteLinkPage struct {
	pages.Home
}

func (p *inviteLinkPage) Content() pages.Content {
	c := p.Home.Content()
	c.Links = append(c.Links, ui.Link{Label: "Join", To: "/invite/abc"})
	return c
}

func TestParameterizedRoutesArePrerendered(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RateLimit.RPS = 0
	cfg.Version = "test"
	cfg.WebDir = t.TempDir()

	table := routes.NewTable(
		routes.Route{Path: "/", Name: "home", New: func() pages.Page { return &inviteLinkPage{} }},
		routes.Route{Path: "/login", Name: "login", New: func() pages.Page { return &pages.Login{} }},
		routes.Route{Path: "/signup", Name: "signup", New: func() pages.Page { return &pages.Signup{} }},
		routes.Route{Path: "/invite/{token}", Name: "invite", New: func() pages.Page { return &invitePage{} }},
	)

	srv, err := NewServer(cfg, zap.NewNop(), table, nil)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	testCases := []struct {
		path     string
		contains string
	}{
		{path: "/invite/abc", contains: "Join the team"},
		{path: "/invite/abc/", contains: "Join the team"},
		{path: "/login/", contains: "Login form coming soon."},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			res := get(t, srv.Handler(), tc.path)
			if res.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", res.Code)
			}
			if !strings.Contains(res.Body.String(), tc.contains) {
				t.Errorf("expected page %s to contain %q", tc.path, tc.contains)
			}
		})
	}
}
