package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tradedeck/tradedeck/internal/ratelimit"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func limitedHandler(store ratelimit.Store) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return RateLimit(store, quietLogger())(next)
}

func doRequest(t *testing.T, handler http.Handler, ip string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest("POST", "/api/mexc/account", nil)
	r.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w
}

func TestRateLimitRejectsOverCap(t *testing.T) {
	store := ratelimit.NewMemoryStore(60, time.Minute)
	defer store.Close()
	handler := limitedHandler(store)

	for i := 1; i <= 60; i++ {
		if w := doRequest(t, handler, "203.0.113.5"); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Code)
		}
	}

	w := doRequest(t, handler, "203.0.113.5")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("61st request: status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("429 response missing Retry-After header")
	}

	// Another IP is counted separately.
	if w := doRequest(t, handler, "203.0.113.6"); w.Code != http.StatusOK {
		t.Errorf("second IP: status = %d, want 200", w.Code)
	}
}

type failingStore struct{}

func (failingStore) Allow(context.Context, string) (ratelimit.Result, error) {
	return ratelimit.Result{}, errors.New("backend down")
}

func TestRateLimitFailsOpenOnStoreError(t *testing.T) {
	handler := limitedHandler(failingStore{})

	if w := doRequest(t, handler, "203.0.113.5"); w.Code != http.StatusOK {
		t.Fatalf("status = %d with broken store, want 200 (fail open)", w.Code)
	}
}
