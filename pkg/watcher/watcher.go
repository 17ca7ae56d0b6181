package watcher

import (
	"context"
	"sync"
	"time"

	"novadash/pkg/cache"
	"novadash/pkg/models"

	"go.uber.org/zap"
)

// RefreshInterval is the cadence of the background snapshot refresh.
const RefreshInterval = 60000 * time.Millisecond

// DataSource defines the interface for fetching market data.
type DataSource interface {
	FetchCryptoPrices(ctx context.Context) models.CryptoPrices
	SimulatedStock() models.StockIndices
}

// Watcher owns the current market snapshot and refreshes it on a cadence.
type Watcher struct {
	store    *cache.Store
	log      *zap.Logger
	interval time.Duration

	snapshot    models.MarketSnapshot
	subscribers []Subscriber
	mu          sync.RWMutex
	stopOnce    sync.Once
	stopChan    chan struct{}
	dataSource  DataSource
}

// NewWatcher creates a Watcher seeded with the cached snapshot.
func NewWatcher(ds DataSource, store *cache.Store, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		store:      store,
		log:        log,
		interval:   RefreshInterval,
		snapshot:   store.MarketSnapshot(),
		stopChan:   make(chan struct{}),
		dataSource: ds,
	}
}

// SetDataSource replaces the source used by later refreshes.
func (w *Watcher) SetDataSource(ds DataSource) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dataSource = ds
}

// Subscribe adds a new subscriber and returns a channel to receive events.
func (w *Watcher) Subscribe() Subscriber {
	w.mu.Lock()
	defer w.mu.Unlock()
	ch := make(Subscriber, 16)
	w.subscribers = append(w.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscriber.
func (w *Watcher) Unsubscribe(ch Subscriber) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, sub := range w.subscribers {
		if sub == ch {
			w.subscribers = append(w.subscribers[:i], w.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

func (w *Watcher) notify(event Event) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, sub := range w.subscribers {
		select {
		case sub <- event:
		default:
			// slow subscriber, drop
		}
	}
}

// Snapshot returns a copy of the current snapshot.
func (w *Watcher) Snapshot() models.MarketSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snapshot.Normalized()
}

// Start begins the refresh loop. The first refresh runs immediately.
func (w *Watcher) Start(ctx context.Context) {
	go w.pollingLoop(ctx)
}

// Stop stops the refresh loop. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })
}

func (w *Watcher) pollingLoop(ctx context.Context) {
	w.Refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Refresh(ctx)
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Refresh fetches a new snapshot and replaces the current one wholesale.
// When the price fetch fails the previous snapshot is kept. It reports
// whether the snapshot changed.
func (w *Watcher) Refresh(ctx context.Context) bool {
	w.mu.RLock()
	ds := w.dataSource
	w.mu.RUnlock()

	if ds == nil {
		return false
	}
	crypto := ds.FetchCryptoPrices(ctx)
	if crypto == nil {
		w.log.Debug("keeping previous market snapshot")
		w.notify(Event{Type: EventRefreshFailed, Data: w.Snapshot()})
		return false
	}
	next := models.MarketSnapshot{Crypto: crypto, Stocks: ds.SimulatedStock()}.Normalized()

	w.mu.Lock()
	w.snapshot = next
	w.mu.Unlock()

	if err := w.store.SetMarketSnapshot(next); err != nil {
		w.log.Warn("persist market snapshot", zap.Error(err))
	}
	w.notify(Event{Type: EventSnapshotUpdated, Data: next})
	return true
}
