package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/picosparking/zonaazul-admin/internal/logger"
)

func testLogger() *logger.Logger {
	return logger.NewWithOutput(logger.LevelError, io.Discard)
}

func TestBearerAndRequestIDHeaders(t *testing.T) {
	var gotAuth, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(Config{
		BaseURL: srv.URL,
		Logger:  testLogger(),
		Tokens:  TokenSourceFunc(func() string { return "tok-123" }),
	})
	if err := c.Get(context.Background(), "/zones", nil, nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok-123")
	}
	if gotReqID == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Logger: testLogger(), Tokens: TokenSourceFunc(func() string { return "" })})
	if err := c.Get(context.Background(), "/notifications/public/00000007", nil, nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestErrorNormalization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":"NOTIFICATION_NOT_FOUND","message":"Notificação não encontrada"}}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Logger: testLogger()})
	err := c.Get(context.Background(), "/notifications/public/404", nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiErr.Message != "Notificação não encontrada" || apiErr.Code != "NOTIFICATION_NOT_FOUND" || apiErr.Status != 404 {
		t.Errorf("unexpected error: %+v", apiErr)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound = false, want true")
	}
}

func TestNetworkErrorNormalization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(Config{BaseURL: srv.URL, Logger: testLogger()})
	err := c.Post(context.Background(), "/auth/login", map[string]string{"email": "a@b.c"}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr := err.(*Error)
	if apiErr.Code != CodeNetworkError || apiErr.Status != 0 {
		t.Errorf("unexpected error: %+v", apiErr)
	}
	if !IsNetworkError(err) {
		t.Error("IsNetworkError = false, want true")
	}
}

func TestGetRetriesTransientFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"data":[],"pagination":{"page":1,"limit":20,"total":0,"totalPages":0}}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Logger: testLogger()})
	var page Page[struct{}]
	if err := c.Get(context.Background(), "/zones", nil, &page); err != nil {
		t.Fatalf("Get after retries: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("server calls = %d, want 3", got)
	}
}

func TestGetRetryLimit(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Logger: testLogger()})
	err := c.Get(context.Background(), "/zones", nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("server calls = %d, want 3 (1 + %d retries)", got, listRetryLimit)
	}
}

func TestNeverRetriesUnauthorized(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"TOKEN_EXPIRED","message":"Token expirado"}}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Logger: testLogger()})
	err := c.Get(context.Background(), "/zones", nil, nil)
	if !IsUnauthorized(err) {
		t.Fatalf("expected 401 error, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("server calls = %d, want 1", got)
	}
}

func TestMutationsDoNotRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Logger: testLogger()})
	if err := c.Post(context.Background(), "/zones", map[string]string{}, nil); err == nil {
		t.Fatal("expected error")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("server calls = %d, want 1", got)
	}
}

func unauthorizedServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"TOKEN_EXPIRED","message":"Token expirado"}}`))
	}))
}

func TestUnauthorizedClearsSessionAndRedirects(t *testing.T) {
	srv := unauthorizedServer()
	defer srv.Close()

	var cleared, redirected atomic.Bool
	policy := &UnauthorizedPolicy{
		CurrentView:     func() View { return ViewDashboard },
		ClearSession:    func() { cleared.Store(true) },
		RedirectToLogin: func() { redirected.Store(true) },
		Delay:           5 * time.Millisecond,
	}
	c := New(Config{BaseURL: srv.URL, Logger: testLogger(), Unauthorized: policy})

	if err := c.Get(context.Background(), "/zones", nil, nil); !IsUnauthorized(err) {
		t.Fatalf("expected 401 error, got %v", err)
	}
	if !cleared.Load() {
		t.Error("session was not cleared")
	}
	waitFor(t, 500*time.Millisecond, redirected.Load)
}

func TestUnauthorizedGuards(t *testing.T) {
	tests := []struct {
		name string
		view View
		path string
	}{
		{name: "login view", view: ViewLogin, path: "/zones"},
		{name: "public notification view", view: ViewPublicNotification, path: "/notifications/public/00000007"},
		{name: "login request", view: ViewDashboard, path: "/auth/login"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := unauthorizedServer()
			defer srv.Close()

			var cleared, redirected atomic.Bool
			policy := &UnauthorizedPolicy{
				CurrentView:     func() View { return tt.view },
				ClearSession:    func() { cleared.Store(true) },
				RedirectToLogin: func() { redirected.Store(true) },
				Delay:           time.Millisecond,
			}
			c := New(Config{BaseURL: srv.URL, Logger: testLogger(), Unauthorized: policy})

			if err := c.Get(context.Background(), tt.path, nil, nil); !IsUnauthorized(err) {
				t.Fatalf("expected 401 error, got %v", err)
			}
			time.Sleep(30 * time.Millisecond)
			if cleared.Load() {
				t.Error("session cleared despite guard")
			}
			if redirected.Load() {
				t.Error("redirected despite guard")
			}
		})
	}
}

// Redirect must be skipped when the view already changed to login during the
// delay window.
func TestUnauthorizedRedirectRaceCheck(t *testing.T) {
	srv := unauthorizedServer()
	defer srv.Close()

	var view atomic.Value
	view.Store(ViewDashboard)
	var redirected atomic.Bool
	policy := &UnauthorizedPolicy{
		CurrentView:     func() View { return view.Load().(View) },
		ClearSession:    func() {},
		RedirectToLogin: func() { redirected.Store(true) },
		Delay:           20 * time.Millisecond,
	}
	c := New(Config{BaseURL: srv.URL, Logger: testLogger(), Unauthorized: policy})

	if err := c.Get(context.Background(), "/zones", nil, nil); !IsUnauthorized(err) {
		t.Fatalf("expected 401 error, got %v", err)
	}
	view.Store(ViewLogin) // concurrent navigation beat the redirect
	time.Sleep(60 * time.Millisecond)
	if redirected.Load() {
		t.Error("redirect fired even though the user already navigated to login")
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}
