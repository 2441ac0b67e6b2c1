package refresh

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/lucro/internal/sources/aodata"
	"github.com/agentstation/lucro/internal/store"
	"github.com/agentstation/lucro/pkg/catalogs"
	"github.com/agentstation/lucro/pkg/errors"
	"github.com/agentstation/lucro/pkg/logging"
)

const threeRecords = `[
	{"UniqueName": "T4_MAIN_SWORD", "LocalizedNames": {"PT-BR": "Espada Larga"}, "Tier": 4, "ItemType": "weapon", "ItemGroup": "sword"},
	{"UniqueName": "T4_BAG", "LocalizedNames": {"PT-BR": "Bolsa"}, "Tier": 4, "ItemType": null},
	{"LocalizedNames": {"PT-BR": "Sem nome"}, "Tier": 2}
]`

var now = utc.New(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

type upstream struct {
	server   *httptest.Server
	requests atomic.Int32
	status   atomic.Int32
}

func newUpstream(t *testing.T, body string) *upstream {
	t.Helper()
	u := &upstream{}
	u.status.Store(http.StatusOK)
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		u.requests.Add(1)
		if status := int(u.status.Load()); status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(u.server.Close)
	return u
}

func newStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(t.TempDir(), store.WithLogger(&logging.Nop))
	require.NoError(t, err)
	return st
}

func testContext() context.Context {
	return logging.WithLogger(context.Background(), &logging.Nop)
}

func TestRefreshIfNeeded_EmptyStore(t *testing.T) {
	up := newUpstream(t, threeRecords)
	st := newStore(t)
	r := New(aodata.NewClient(aodata.WithURL(up.server.URL)), st)

	refreshed, err := r.RefreshIfNeeded(testContext(), now)
	require.NoError(t, err)
	assert.True(t, refreshed)
	assert.Equal(t, int32(1), up.requests.Load())

	snapshot, report := st.Load()
	assert.True(t, report.Complete())
	assert.Equal(t, []string{"T4_MAIN_SWORD", "T4_BAG"}, snapshot.Items.IDs())
	assert.Equal(t, catalogs.CategoryIndex{"T4_MAIN_SWORD": "weapon"}, snapshot.Categories)

	marker, ok := st.LastRefresh()
	require.True(t, ok)
	assert.True(t, marker.Time.Equal(now.Time))

	sword, _ := snapshot.Items.Get("T4_MAIN_SWORD")
	assert.Equal(t, "Espada Larga", sword.Name)
}

func TestRefreshIfNeeded_FreshStoreMakesNoRequest(t *testing.T) {
	up := newUpstream(t, threeRecords)
	st := newStore(t)
	r := New(aodata.NewClient(aodata.WithURL(up.server.URL)), st)

	_, err := r.RefreshIfNeeded(testContext(), now)
	require.NoError(t, err)
	require.Equal(t, int32(1), up.requests.Load())

	refreshed, err := r.RefreshIfNeeded(testContext(), utc.New(now.Time.Add(time.Hour)))
	require.NoError(t, err)
	assert.False(t, refreshed)
	assert.Equal(t, int32(1), up.requests.Load())

	refreshed, err = r.RefreshIfNeeded(testContext(), utc.New(now.Time.Add(25*time.Hour)))
	require.NoError(t, err)
	assert.True(t, refreshed)
	assert.Equal(t, int32(2), up.requests.Load())
}

func TestRefreshIfNeeded_FetchFailureKeepsSnapshot(t *testing.T) {
	up := newUpstream(t, threeRecords)
	st := newStore(t)
	r := New(aodata.NewClient(aodata.WithURL(up.server.URL)), st, WithInterval(time.Hour))

	_, err := r.RefreshIfNeeded(testContext(), now)
	require.NoError(t, err)

	itemsBefore, err := os.ReadFile(st.ItemsPath())
	require.NoError(t, err)
	categoriesBefore, err := os.ReadFile(st.CategoriesPath())
	require.NoError(t, err)
	markerBefore, err := os.ReadFile(st.MarkerPath())
	require.NoError(t, err)

	up.status.Store(http.StatusInternalServerError)
	later := utc.New(now.Time.Add(2 * time.Hour))

	refreshed, err := r.RefreshIfNeeded(testContext(), later)
	require.Error(t, err)
	assert.False(t, refreshed)
	assert.True(t, errors.IsFetchError(err))

	for path, before := range map[string][]byte{
		st.ItemsPath():      itemsBefore,
		st.CategoriesPath(): categoriesBefore,
		st.MarkerPath():     markerBefore,
	} {
		after, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, before, after, filepath.Base(path))
	}

	assert.True(t, st.IsStale(later, time.Hour), "a failed refresh is retried next time")
}

type stubSource struct {
	raw []aodata.RawItem
	err error
}

func (s *stubSource) FetchFullCatalog(context.Context) ([]aodata.RawItem, error) {
	return s.raw, s.err
}

func TestRefresh_Forced(t *testing.T) {
	st := newStore(t)
	require.NoError(t, st.RecordRefreshTime(now))

	src := &stubSource{raw: []aodata.RawItem{
		{UniqueName: "T8_BAG", LocalizedNames: map[string]string{"EN-US": "Elder's Bag"}, Tier: aodata.IntOf(8)},
	}}
	r := New(src, st, WithLocale("EN-US"))

	snapshot, err := r.Refresh(testContext(), now)
	require.NoError(t, err)
	assert.Equal(t, []string{"T8_BAG"}, snapshot.Items.IDs())
	assert.True(t, snapshot.RefreshedAt.Time.Equal(now.Time))

	item, _ := snapshot.Items.Get("T8_BAG")
	assert.Equal(t, "Elder's Bag", item.Name)
	assert.Equal(t, "T8", item.Tier)
}

func TestRefresh_LogsFailure(t *testing.T) {
	logger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), logger.Logger)

	src := &stubSource{err: errors.NewFetchError("catalog", "http://example.invalid", 502, "bad gateway")}
	r := New(src, newStore(t))

	refreshed, err := r.RefreshIfNeeded(ctx, now)
	assert.False(t, refreshed)
	assert.Error(t, err)
	logger.AssertContains(t, "Catalog fetch failed")
}

func TestNew_Defaults(t *testing.T) {
	r := New(&stubSource{}, newStore(t), WithInterval(0), WithLocale(""))
	assert.Equal(t, 24*time.Hour, r.Interval())
	assert.Equal(t, "PT-BR", r.locale)
}
