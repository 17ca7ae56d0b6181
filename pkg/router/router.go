package router

import (
	"sync"

	"novadash/pkg/cache"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// View identifies one mountable screen.
type View string

const (
	ViewEntry     View = "entry"
	ViewDashboard View = "nav-dash"
	ViewMarket    View = "nav-market"
	ViewPortfolio View = "nav-portfolio"
	ViewExplorer  View = "nav-explorer"
	ViewSettings  View = "nav-settings"
)

// HomeView is mounted when no valid view was persisted.
const HomeView = ViewDashboard

// NavViews lists the dashboard views in menu order.
var NavViews = []View{ViewDashboard, ViewMarket, ViewPortfolio, ViewExplorer, ViewSettings}

var ErrUnknownView = errors.New("unknown view")

// Lifecycle lists the work a view starts when it mounts.
type Lifecycle struct {
	Balance       bool // race a balance lookup
	Latency       bool // run the latency interval until teardown
	MarketRefresh bool // refresh the snapshot immediately
	Portfolio     bool // scan the stored wallet
	Explorer      bool // load the first listing page
}

var lifecycles = map[View]Lifecycle{
	ViewEntry:     {},
	ViewDashboard: {Balance: true, Latency: true},
	ViewMarket:    {MarketRefresh: true},
	ViewPortfolio: {Portfolio: true},
	ViewExplorer:  {Explorer: true},
	ViewSettings:  {},
}

func (v View) Valid() bool {
	_, ok := lifecycles[v]
	return ok
}

// Title is the menu label.
func (v View) Title() string {
	switch v {
	case ViewEntry:
		return "Connect"
	case ViewDashboard:
		return "Overview"
	case ViewMarket:
		return "Market Analysis"
	case ViewPortfolio:
		return "Portfolio"
	case ViewExplorer:
		return "Market Explorer"
	case ViewSettings:
		return "Settings"
	}
	return string(v)
}

// Mount describes a completed transition. Async work started for it must
// carry Generation and be discarded once the router has moved on.
type Mount struct {
	View       View
	Generation uint64
	Lifecycle  Lifecycle
}

// Router is the view state machine. It owns the active view, the mount
// generation and the latency interval handle.
type Router struct {
	store *cache.Store
	log   *zap.Logger

	mu         sync.Mutex
	active     View
	generation uint64
	latency    uint64
	nextHandle uint64
}

func New(store *cache.Store, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{store: store, log: log}
}

// Start mounts the initial view: the entry view when no wallet is stored,
// otherwise the persisted view or HomeView.
func (r *Router) Start() Mount {
	if r.store.Wallet() == "" {
		m, _ := r.Navigate(ViewEntry)
		return m
	}
	v := View(r.store.ActiveView())
	if !v.Valid() || v == ViewEntry {
		v = HomeView
	}
	m, _ := r.Navigate(v)
	return m
}

// Navigate tears down the current view and mounts v. Dashboard views
// redirect to the entry view when no wallet is stored.
func (r *Router) Navigate(v View) (Mount, error) {
	if !v.Valid() {
		return Mount{}, errors.Wrapf(ErrUnknownView, "%q", v)
	}
	if v != ViewEntry && r.store.Wallet() == "" {
		r.log.Info("no wallet stored, redirecting to entry", zap.String("requested", string(v)))
		v = ViewEntry
	}

	r.mu.Lock()
	r.latency = 0
	r.generation++
	r.active = v
	m := Mount{View: v, Generation: r.generation, Lifecycle: lifecycles[v]}
	r.mu.Unlock()

	if v != ViewEntry {
		if err := r.store.SetActiveView(string(v)); err != nil {
			r.log.Warn("persist active view", zap.Error(err))
		}
	}
	r.log.Debug("mounted view", zap.String("view", string(v)), zap.Uint64("generation", m.Generation))
	return m, nil
}

// Login stores address and mounts HomeView.
func (r *Router) Login(address string) (Mount, error) {
	if err := r.store.SetWallet(address); err != nil {
		return Mount{}, errors.Wrap(err, "store wallet")
	}
	return r.Navigate(HomeView)
}

// Logout clears the whole session and mounts the entry view.
func (r *Router) Logout() Mount {
	if err := r.store.Clear(); err != nil {
		r.log.Warn("clear session", zap.Error(err))
	}
	m, _ := r.Navigate(ViewEntry)
	return m
}

// IsCurrent reports whether gen is the generation of the mounted view.
func (r *Router) IsCurrent(gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return gen != 0 && gen == r.generation
}

// StartLatency registers a latency interval for the mounted view and
// returns its handle. It returns 0 when the view does not run one.
func (r *Router) StartLatency() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !lifecycles[r.active].Latency {
		return 0
	}
	r.nextHandle++
	r.latency = r.nextHandle
	return r.latency
}

// LatencyRunning reports whether handle is the live interval.
func (r *Router) LatencyRunning(handle uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return handle != 0 && handle == r.latency
}

// StopLatency cancels the live interval, if any.
func (r *Router) StopLatency() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latency = 0
}
