package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/lucro/internal/config"
	"github.com/agentstation/lucro/pkg/errors"
	"github.com/agentstation/lucro/pkg/logging"
)

const catalogBody = `[
	{"UniqueName": "T4_SWORD", "LocalizedNames": {"PT-BR": "Espada", "EN-US": "Sword"}, "Tier": 4, "ItemType": "weapon"},
	{"UniqueName": "T4_BAG", "LocalizedNames": {"PT-BR": "Bolsa", "EN-US": "Bag"}, "Tier": 4, "ItemType": "accessory"}
]`

type upstream struct {
	server          *httptest.Server
	catalogRequests atomic.Int32
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{}

	mux := http.NewServeMux()
	mux.HandleFunc("/items.json", func(w http.ResponseWriter, _ *http.Request) {
		u.catalogRequests.Add(1)
		_, _ = w.Write([]byte(catalogBody))
	})
	mux.HandleFunc("/stats/prices/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/T4_SWORD") {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`[{"item_id": "T4_BAG", "city": "Caerleon", "quality": 1, "sell_price_min": 2150, "buy_price_max": 1890}]`))
	})
	mux.HandleFunc("/stats/history/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "6", r.URL.Query().Get("time-scale"))
		_, _ = w.Write([]byte(`[{"location": "Caerleon", "item_id": "T4_BAG", "quality": 1, "data": [{"item_count": 3, "avg_price": 2000, "timestamp": "2025-06-01T00:00:00"}]}]`))
	})

	u.server = httptest.NewServer(mux)
	t.Cleanup(u.server.Close)
	return u
}

func testConfig(t *testing.T, u *upstream) *config.Config {
	t.Helper()
	return &config.Config{
		DataDir:         filepath.Join(t.TempDir(), "data"),
		CatalogURL:      u.server.URL + "/items.json",
		PricesURL:       u.server.URL + "/stats",
		Locale:          "PT-BR",
		Timeout:         2 * time.Second,
		RefreshInterval: 24 * time.Hour,
		Threshold:       70,
		Limit:           10,
	}
}

// run executes the CLI against u and returns what it printed.
func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	a := New("1.2.3", "abc123", "2025-06-01", "test",
		WithConfig(cfg),
		WithLogger(&logging.Nop),
		WithOutput(&buf),
	)
	err := a.Execute(context.Background(), args)
	return buf.String(), err
}

func TestSearchCommand(t *testing.T) {
	u := newUpstream(t)
	out, err := run(t, testConfig(t, u), "search", "espada", "-o", "json")
	require.NoError(t, err)

	var matches []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &matches))
	require.NotEmpty(t, matches)
	assert.Equal(t, "T4_SWORD", matches[0]["id"])
	assert.EqualValues(t, 100, matches[0]["similarity"])
	assert.Equal(t, int32(1), u.catalogRequests.Load())
}

func TestSearchCommandNoMatches(t *testing.T) {
	u := newUpstream(t)
	out, err := run(t, testConfig(t, u), "search", "xyzzyq", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `No items match "xyzzyq"`)
	assert.Contains(t, out, "[]")
}

func TestSearchCommandFilters(t *testing.T) {
	u := newUpstream(t)
	out, err := run(t, testConfig(t, u), "search", "bolsa", "--threshold", "0", "--id", "T4_BAG", "-o", "json")
	require.NoError(t, err)

	var matches []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "T4_BAG", matches[0]["id"])
}

func TestSearchCommandRequiresQuery(t *testing.T) {
	u := newUpstream(t)
	_, err := run(t, testConfig(t, u), "search")
	assert.Error(t, err)
}

func TestPricesCommandJSON(t *testing.T) {
	u := newUpstream(t)
	out, err := run(t, testConfig(t, u), "prices", "bolsa", "--limit", "1", "-o", "json")
	require.NoError(t, err)

	var results []struct {
		Item struct {
			ID string `json:"id"`
		} `json:"item"`
		Prices []struct {
			City         string `json:"city"`
			SellPriceMin int64  `json:"sell_price_min"`
		} `json:"prices"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "T4_BAG", results[0].Item.ID)
	require.Len(t, results[0].Prices, 1)
	assert.Equal(t, "Caerleon", results[0].Prices[0].City)
	assert.Equal(t, int64(2150), results[0].Prices[0].SellPriceMin)
	assert.Empty(t, results[0].Error)
}

func TestPricesCommandReportsItemErrors(t *testing.T) {
	u := newUpstream(t)
	out, err := run(t, testConfig(t, u), "prices", "espada", "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "T4_SWORD  Espada (100%)")
	assert.Contains(t, out, "error:")
}

func TestHistoryCommand(t *testing.T) {
	u := newUpstream(t)
	out, err := run(t, testConfig(t, u), "history", "t4_bag", "--time-scale", "6", "-o", "json")
	require.NoError(t, err)

	var history []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &history))
	require.Len(t, history, 1)
	assert.Equal(t, "Caerleon", history[0]["location"])
}

func TestHistoryCommandUnknownItem(t *testing.T) {
	u := newUpstream(t)
	_, err := run(t, testConfig(t, u), "history", "xyzzyq", "--time-scale", "6")
	assert.True(t, errors.IsNotFound(err))
}

func TestUpdateCommand(t *testing.T) {
	u := newUpstream(t)
	cfg := testConfig(t, u)

	out, err := run(t, cfg, "update", "-o", "json")
	require.NoError(t, err)
	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, false, result["refreshed"])
	assert.EqualValues(t, 2, result["items"])

	out, err = run(t, cfg, "update", "--force", "-o", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, true, result["refreshed"])
	assert.EqualValues(t, 0, result["added"])
	assert.Equal(t, int32(2), u.catalogRequests.Load())
}

func TestStatusCommand(t *testing.T) {
	u := newUpstream(t)
	out, err := run(t, testConfig(t, u), "status", "-o", "json")
	require.NoError(t, err)

	var status map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.EqualValues(t, 2, status["items"])
	assert.Equal(t, "PT-BR", status["locale"])
	assert.Equal(t, "loaded", status["items_file"])
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, nil, "version", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "lucro 1.2.3")
	assert.Contains(t, out, "abc123")
}

func TestRootFlags(t *testing.T) {
	u := newUpstream(t)

	_, err := run(t, testConfig(t, u), "status", "-o", "xml")
	assert.True(t, errors.IsValidationError(err))

	_, err = run(t, testConfig(t, u), "status", "--locale", "nowhere-land")
	assert.Error(t, err)

	cfg := testConfig(t, u)
	dir := filepath.Join(t.TempDir(), "other")
	out, err := run(t, cfg, "status", "--data-dir", dir, "--locale", "en_us", "-o", "json")
	require.NoError(t, err)

	var status map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, dir, status["data_dir"])
	assert.Equal(t, "EN-US", status["locale"])
}
