package router

import (
	"path/filepath"
	"testing"

	"novadash/pkg/cache"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"

func loggedIn(t *testing.T) *cache.Store {
	t.Helper()
	s := cache.NewMemory()
	require.NoError(t, s.SetWallet(testAddress))
	return s
}

func TestStart_Guard(t *testing.T) {
	store := cache.NewMemory()
	require.NoError(t, store.SetActiveView(string(ViewPortfolio)))

	m := New(store, nil).Start()
	assert.Equal(t, ViewEntry, m.View)
	assert.Equal(t, Lifecycle{}, m.Lifecycle)
}

func TestStart_RestoresPersistedView(t *testing.T) {
	tests := []struct {
		name      string
		persisted string
		want      View
	}{
		{"nothing stored", "", HomeView},
		{"explorer", string(ViewExplorer), ViewExplorer},
		{"settings", string(ViewSettings), ViewSettings},
		{"garbage", "nav-nowhere", HomeView},
		{"entry is not restored", string(ViewEntry), HomeView},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := loggedIn(t)
			if tt.persisted != "" {
				require.NoError(t, store.SetActiveView(tt.persisted))
			}
			m := New(store, nil).Start()
			assert.Equal(t, tt.want, m.View)
			assert.Equal(t, uint64(1), m.Generation)
		})
	}
}

func TestNavigate_PersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := cache.Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, store.SetWallet(testAddress))

	r := New(store, nil)
	r.Start()
	_, err = r.Navigate(ViewMarket)
	require.NoError(t, err)

	reopened, err := cache.Open(path, nil)
	require.NoError(t, err)
	assert.Equal(t, ViewMarket, New(reopened, nil).Start().View)
}

func TestNavigate_UnknownView(t *testing.T) {
	store := loggedIn(t)
	r := New(store, nil)
	before := r.Start()

	_, err := r.Navigate("nav-missing")
	assert.True(t, errors.Is(err, ErrUnknownView))
	assert.Equal(t, string(before.View), store.ActiveView())
	assert.True(t, r.IsCurrent(before.Generation))
}

func TestNavigate_RedirectsWithoutWallet(t *testing.T) {
	store := cache.NewMemory()
	r := New(store, nil)

	m, err := r.Navigate(ViewPortfolio)
	require.NoError(t, err)
	assert.Equal(t, ViewEntry, m.View)
	assert.Equal(t, "", store.ActiveView())
}

func TestNavigate_GenerationInvalidatesOldMounts(t *testing.T) {
	r := New(loggedIn(t), nil)
	first := r.Start()
	assert.True(t, r.IsCurrent(first.Generation))

	second, err := r.Navigate(ViewExplorer)
	require.NoError(t, err)
	assert.False(t, r.IsCurrent(first.Generation))
	assert.True(t, r.IsCurrent(second.Generation))

	// Re-selecting the same view is a fresh mount.
	third, err := r.Navigate(ViewExplorer)
	require.NoError(t, err)
	assert.False(t, r.IsCurrent(second.Generation))
	assert.Greater(t, third.Generation, second.Generation)
	assert.False(t, r.IsCurrent(0))
}

func TestLifecycles(t *testing.T) {
	r := New(loggedIn(t), nil)
	tests := []struct {
		view View
		want Lifecycle
	}{
		{ViewDashboard, Lifecycle{Balance: true, Latency: true}},
		{ViewMarket, Lifecycle{MarketRefresh: true}},
		{ViewPortfolio, Lifecycle{Portfolio: true}},
		{ViewExplorer, Lifecycle{Explorer: true}},
		{ViewSettings, Lifecycle{}},
	}
	for _, tt := range tests {
		m, err := r.Navigate(tt.view)
		require.NoError(t, err)
		assert.Equal(t, tt.want, m.Lifecycle, "%s", tt.view)
	}
}

func TestLatency_TeardownOnSwitch(t *testing.T) {
	r := New(loggedIn(t), nil)
	r.Start()

	h := r.StartLatency()
	require.NotZero(t, h)
	assert.True(t, r.LatencyRunning(h))

	for _, v := range NavViews {
		_, err := r.Navigate(v)
		require.NoError(t, err)
		assert.False(t, r.LatencyRunning(h), "interval survived switch to %s", v)
	}
}

func TestLatency_RemountGetsNewHandle(t *testing.T) {
	r := New(loggedIn(t), nil)
	r.Start()
	old := r.StartLatency()

	_, err := r.Navigate(ViewDashboard)
	require.NoError(t, err)
	fresh := r.StartLatency()

	assert.NotEqual(t, old, fresh)
	assert.False(t, r.LatencyRunning(old))
	assert.True(t, r.LatencyRunning(fresh))

	r.StopLatency()
	assert.False(t, r.LatencyRunning(fresh))
}

func TestLatency_OnlyOnOwningView(t *testing.T) {
	r := New(loggedIn(t), nil)
	_, err := r.Navigate(ViewSettings)
	require.NoError(t, err)
	assert.Zero(t, r.StartLatency())
	assert.False(t, r.LatencyRunning(0))
}

func TestLoginLogout(t *testing.T) {
	store := cache.NewMemory()
	r := New(store, nil)
	assert.Equal(t, ViewEntry, r.Start().View)

	m, err := r.Login(testAddress)
	require.NoError(t, err)
	assert.Equal(t, HomeView, m.View)
	assert.Equal(t, testAddress, store.Wallet())
	assert.Equal(t, string(HomeView), store.ActiveView())

	require.NoError(t, store.SetBalance("1.0000 ETH"))
	h := r.StartLatency()

	m = r.Logout()
	assert.Equal(t, ViewEntry, m.View)
	assert.False(t, r.LatencyRunning(h))
	assert.Equal(t, "", store.Wallet())
	assert.Equal(t, "", store.ActiveView())
	assert.Equal(t, cache.DefaultBalance, store.Balance())
}
