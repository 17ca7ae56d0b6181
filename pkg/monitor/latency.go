package monitor

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"novadash/pkg/cache"
	"novadash/pkg/models"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

const (
	// LatencyInterval is the measurement cadence while the owning view is mounted.
	LatencyInterval = 5000 * time.Millisecond
	// OfflineDisplay replaces the number when the request fails.
	OfflineDisplay = "OFFLINE"

	healthyBelow  = 100 * time.Millisecond
	degradedBelow = 300 * time.Millisecond
)

// Classify maps a round trip onto its display tier.
func Classify(d time.Duration) models.LatencyTier {
	switch {
	case d < healthyBelow:
		return models.LatencyHealthy
	case d < degradedBelow:
		return models.LatencyDegraded
	default:
		return models.LatencySlow
	}
}

// LatencyMonitor times a zero-payload request against a reference endpoint.
type LatencyMonitor struct {
	client *http.Client
	url    string
	store  *cache.Store
	log    *zap.Logger
	now    func() time.Time
}

func NewLatencyMonitor(url string, client *http.Client, store *cache.Store, log *zap.Logger) *LatencyMonitor {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &LatencyMonitor{client: client, url: url, store: store, log: log, now: time.Now}
}

// Measure times one request. Any HTTP response counts as reachable. Successful
// readings are persisted; failures show OFFLINE and leave the cache alone.
func (m *LatencyMonitor) Measure(ctx context.Context) models.LatencyReading {
	start := m.now()
	if err := m.roundTrip(ctx); err != nil {
		m.log.Warn("latency check failed", zap.String("url", m.url), zap.Error(err))
		return models.LatencyReading{Display: OfflineDisplay, Tier: models.LatencyOffline, Err: err}
	}
	elapsed := m.now().Sub(start)

	ms := int64(math.Round(float64(elapsed) / float64(time.Millisecond)))
	reading := models.LatencyReading{
		Latency: elapsed,
		Display: fmt.Sprintf("%dms", ms),
		Tier:    Classify(time.Duration(ms) * time.Millisecond),
	}
	if err := m.store.SetLatency(reading.Display); err != nil {
		m.log.Warn("persist latency", zap.Error(err))
	}
	return reading
}

func (m *LatencyMonitor) roundTrip(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, m.url, nil)
	if err != nil {
		return errors.Wrap(err, "build ping request")
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "ping")
	}
	_ = resp.Body.Close()
	return nil
}

// Cached returns the last persisted reading, classified when it parses.
func (m *LatencyMonitor) Cached() models.LatencyReading {
	display := m.store.Latency()
	var ms int64
	if _, err := fmt.Sscanf(display, "%dms", &ms); err != nil {
		return models.LatencyReading{Display: display, Tier: models.LatencyUnknown}
	}
	d := time.Duration(ms) * time.Millisecond
	return models.LatencyReading{Latency: d, Display: display, Tier: Classify(d)}
}
