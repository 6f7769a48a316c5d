package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradedeck/tradedeck/internal/mexc"
	"github.com/tradedeck/tradedeck/internal/models"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newMexcRouter(spotURL, futuresURL string) *mux.Router {
	handler := NewMexcHandler(quietLogger(),
		mexc.WithSpotBaseURL(spotURL),
		mexc.WithFuturesBaseURL(futuresURL),
	)
	router := mux.NewRouter()
	handler.RegisterRoutes(router.PathPrefix("/api/mexc").Subrouter())
	return router
}

func postJSON(t *testing.T, router *mux.Router, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest("POST", path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

const validCreds = `"apiKey":"test-api-key-0000","secretKey":"test-secret-0000"`

func TestGetAccountRejectsShortCredentials(t *testing.T) {
	called := false
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer upstream.Close()

	router := newMexcRouter(upstream.URL, upstream.URL)
	w := postJSON(t, router, "/api/mexc/account", `{"apiKey":"short","secretKey":"short","symbol":"BTC_USDT"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, called, "invalid credentials must not reach the exchange")

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "credentials")
}

func TestGetAccountReturnsSnapshotShape(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v3/account" {
			io.WriteString(w, `{"balances":[{"asset":"USDT","free":"50","locked":"0"}]}`)
			return
		}
		io.WriteString(w, `{"code":0,"data":[]}`)
	}))
	defer upstream.Close()

	router := newMexcRouter(upstream.URL, upstream.URL)
	w := postJSON(t, router, "/api/mexc/account", `{`+validCreds+`,"symbol":"BTC_USDT"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var snap models.AccountSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.Len(t, snap.SpotBalances, 1)
	assert.Equal(t, "USDT", snap.SpotBalances[0].Asset)
	assert.NotNil(t, snap.Positions, "empty categories must serialize as [], not null")
}

func TestPlaceTradeInvalidAction(t *testing.T) {
	called := false
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer upstream.Close()

	router := newMexcRouter(upstream.URL, upstream.URL)
	w := postJSON(t, router, "/api/mexc/trade", `{`+validCreds+`,"action":"INVALID","symbol":"BTC_USDT","leverage":5}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, called, "invalid action must not reach the exchange")
}

func TestPlaceTradeRelaysUpstreamResponse(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/private/order/submit", r.URL.Path)
		io.WriteString(w, `{"code":0,"data":{"orderId":"42"}}`)
	}))
	defer upstream.Close()

	router := newMexcRouter(upstream.URL, upstream.URL)
	w := postJSON(t, router, "/api/mexc/trade", `{`+validCreds+`,"action":"LONG","symbol":"BTC_USDT","leverage":5,"price":42000}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"data":{"orderId":"42"}}`, w.Body.String())
}

func TestPlaceTradeUpstreamFailureIs500(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"code":2005,"msg":"insufficient balance"}`)
	}))
	defer upstream.Close()

	router := newMexcRouter(upstream.URL, upstream.URL)
	w := postJSON(t, router, "/api/mexc/trade", `{`+validCreds+`,"action":"SHORT","symbol":"BTC_USDT","leverage":5}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient balance")
}
