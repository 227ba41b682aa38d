package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local/toolbench/internal/config"
)

// The calculator endpoints are pure, so the server can be built without its
// redis and storage collaborators.
func newCalcServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := New(config.Config{}, nil, nil, nil, nil)
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestCalcFeesEndpoint(t *testing.T) {
	ts := newCalcServer(t)

	resp, out := postJSON(t, ts, "/api/calc/fees",
		`{"plan":"basic","processor":"third_party","order_value":100}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.InDelta(t, 3.20, out["processing_fee"], 1e-9)
	assert.InDelta(t, 2.00, out["transaction_fee"], 1e-9)
	assert.InDelta(t, 5.20, out["total_fees"], 1e-9)
	assert.InDelta(t, 94.80, out["net_amount"], 1e-9)
}

func TestCalcProfitEndpoint(t *testing.T) {
	ts := newCalcServer(t)

	resp, out := postJSON(t, ts, "/api/calc/profit",
		`{"revenue":100,"cogs":20,"shipping":5,"payment_fees":3,"cac":10}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.InDelta(t, 100.0, out["net_revenue"], 1e-9)
	assert.InDelta(t, 62.0, out["net_profit"], 1e-9)
	assert.InDelta(t, 38.0, out["total_costs"], 1e-9)
}

func TestCalcLTVEndpoint(t *testing.T) {
	ts := newCalcServer(t)

	resp, out := postJSON(t, ts, "/api/calc/ltv",
		`{"aov":50,"purchase_frequency":4,"lifespan":3,"gross_margin":40,"cac":60}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.InDelta(t, 4.0, out["ratio"], 1e-9)
	assert.Equal(t, true, out["is_healthy"])
}

func TestCalcRejectsMalformedBody(t *testing.T) {
	ts := newCalcServer(t)

	resp, out := postJSON(t, ts, "/api/calc/roas", `{"aov":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, out["error"], "invalid request body")
}

func TestCalcRejectsUnknownFields(t *testing.T) {
	ts := newCalcServer(t)

	resp, _ := postJSON(t, ts, "/api/calc/bundle", `{"unit_price":20,"bogus":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCalcMethodNotAllowed(t *testing.T) {
	ts := newCalcServer(t)

	resp, err := http.Get(ts.URL + "/api/calc/profit")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
