package mexc

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradedeck/tradedeck/internal/models"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testClient(spotURL, futuresURL string) *Client {
	return NewClient("test-api-key-0000", "test-secret-key-0000",
		WithSpotBaseURL(spotURL),
		WithFuturesBaseURL(futuresURL),
		WithLogger(quietLogger()),
	)
}

// futuresFixture answers the four futures endpoints with canned payloads
func futuresFixture() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/private/account/assets", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"code":0,"data":[
			{"currency":"USDT","availableBalance":150.5,"frozenBalance":49.5}
		]}`)
	})
	mux.HandleFunc("/api/v1/private/position/open_positions", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"code":0,"data":[
			{"symbol":"BTC_USDT","positionType":1,"openAvgPrice":42000,"fairPrice":43000,
			 "leverage":10,"unrealised":25,"im":100,"liquidatePrice":38000},
			{"symbol":"ETH_USDT","positionType":2,"openAvgPrice":2500,"fairPrice":2400,
			 "leverage":5,"unrealised":10,"im":0,"liquidatePrice":2900}
		]}`)
	})
	mux.HandleFunc("/api/v1/private/order/list/open_orders", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"code":0,"data":[
			{"symbol":"BTC_USDT","price":41000,"vol":1,"side":1,"orderType":1,"state":2,"createTime":1700000000000}
		]}`)
	})
	mux.HandleFunc("/api/v1/private/order/list/history_orders", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"code":0,"data":[
			{"symbol":"BTC_USDT","price":40000,"vol":2,"side":3,"orderType":5,"state":3,"createTime":1699990000000}
		]}`)
	})
	return mux
}

func TestAccountSnapshotMapsAllCategories(t *testing.T) {
	spot := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/account", r.URL.Path)
		require.NotEmpty(t, r.URL.Query().Get("signature"))
		require.NotEmpty(t, r.URL.Query().Get("timestamp"))
		io.WriteString(w, `{"balances":[
			{"asset":"USDT","free":"100.5","locked":"10.5"},
			{"asset":"DUST","free":"0.00001","locked":"0"},
			{"asset":"ALMOST","free":"0.00002","locked":"0"}
		]}`)
	}))
	defer spot.Close()

	futures := httptest.NewServer(futuresFixture())
	defer futures.Close()

	snap := testClient(spot.URL, futures.URL).AccountSnapshot(context.Background(), "BTC_USDT")

	// Spot: dust at exactly the threshold excluded, just above included.
	require.Len(t, snap.SpotBalances, 2)
	assert.Equal(t, models.Balance{Asset: "USDT", Available: 100.5, Frozen: 10.5, Total: 111.0}, snap.SpotBalances[0])
	assert.Equal(t, "ALMOST", snap.SpotBalances[1].Asset)

	require.Len(t, snap.FuturesBalances, 1)
	assert.Equal(t, models.Balance{Asset: "USDT", Available: 150.5, Frozen: 49.5, Total: 200.0}, snap.FuturesBalances[0])

	require.Len(t, snap.Positions, 2)
	long := snap.Positions[0]
	assert.Equal(t, models.SideLong, long.Side)
	assert.Equal(t, 42000.0, long.EntryPrice)
	assert.Equal(t, 43000.0, long.CurrentPrice)
	assert.Equal(t, 25.0, long.UnrealizedPnl)
	assert.Equal(t, 25.0, long.PnlPercent)
	assert.Equal(t, 38000.0, long.LiquidationPrice)

	short := snap.Positions[1]
	assert.Equal(t, models.SideShort, short.Side)
	assert.Equal(t, 0.0, short.PnlPercent, "zero margin must not divide out to Inf")

	require.Len(t, snap.Orders, 1)
	assert.Equal(t, models.OrderSideBuy, snap.Orders[0].Side)
	assert.Equal(t, models.OrderTypeLimit, snap.Orders[0].Type)
	assert.Equal(t, "OPEN", snap.Orders[0].Status)

	require.Len(t, snap.Trades, 1)
	assert.Equal(t, models.OrderSideSell, snap.Trades[0].Side)
	assert.Equal(t, models.OrderTypeMarket, snap.Trades[0].Type)
	assert.Equal(t, "FILLED", snap.Trades[0].Status)
}

func TestAccountSnapshotToleratesCategoryFailure(t *testing.T) {
	spot := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":700002,"msg":"signature for this request is not valid"}`, http.StatusUnauthorized)
	}))
	defer spot.Close()

	futures := httptest.NewServer(futuresFixture())
	defer futures.Close()

	snap := testClient(spot.URL, futures.URL).AccountSnapshot(context.Background(), "BTC_USDT")

	assert.Empty(t, snap.SpotBalances)
	assert.NotNil(t, snap.SpotBalances, "failed category must be an empty list, not null")
	assert.Len(t, snap.FuturesBalances, 1)
	assert.Len(t, snap.Positions, 2)
}

func TestAccountSnapshotAllUpstreamsDown(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
	}))
	defer down.Close()

	snap := testClient(down.URL, down.URL).AccountSnapshot(context.Background(), "BTC_USDT")

	assert.Empty(t, snap.SpotBalances)
	assert.Empty(t, snap.FuturesBalances)
	assert.Empty(t, snap.Positions)
	assert.Empty(t, snap.Orders)
	assert.Empty(t, snap.Trades)
}

func TestEnvelopeErrorCarriesUpstreamMessage(t *testing.T) {
	futures := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"code":1002,"msg":"contract not activated"}`)
	}))
	defer futures.Close()

	client := testClient(futures.URL, futures.URL)
	_, err := client.futuresBalances(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contract not activated")
}
