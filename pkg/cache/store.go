package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"novadash/pkg/models"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Persisted keys. The set is fixed; Set rejects anything else.
const (
	KeyMarketData = "cachedMarketData"
	KeyBalance    = "cachedBalance"
	KeyLatency    = "cachedLatency"
	KeyActiveTab  = "activeTab"
	KeyWallet     = "userWallet"
)

// Placeholders shown before the first successful update.
const (
	DefaultBalance = "Loading..."
	DefaultLatency = "Checking..."
)

var ErrUnknownKey = errors.New("unknown cache key")

var knownKeys = map[string]bool{
	KeyMarketData: true,
	KeyBalance:    true,
	KeyLatency:    true,
	KeyActiveTab:  true,
	KeyWallet:     true,
}

// Store is the persisted session state. Values are strings; structured
// values are JSON-encoded. Every write is flushed to disk before returning.
type Store struct {
	path   string
	mu     sync.Mutex
	values map[string]string
}

// NewMemory returns a store that is never written to disk.
func NewMemory() *Store {
	return &Store{values: make(map[string]string)}
}

// Open reads the store at path once. A missing or unreadable JSON file
// yields an empty store that will be rewritten on the next update; the
// unreadable case is logged at warn level. log may be nil.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{path: path, values: make(map[string]string)}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read session %s", path)
	}
	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		log.Warn("session file unreadable, starting empty",
			zap.String("path", path), zap.Error(err))
		return s, nil
	}
	for k, v := range values {
		if knownKeys[k] {
			s.values[k] = v
		}
	}
	return s, nil
}

// Path returns the backing file, empty for memory stores.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Store) Set(key, value string) error {
	if !knownKeys[key] {
		return errors.Wrapf(ErrUnknownKey, "%q", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.flush()
}

// Clear drops every key, as on logout.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string)
	return s.flush()
}

func (s *Store) flush() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return errors.Wrap(err, "create session directory")
	}
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return errors.Wrap(err, "write session")
	}
	return os.Rename(tmpPath, s.path)
}

// MarketSnapshot returns the cached snapshot, or the zero default when none
// is stored or the stored value cannot be decoded.
func (s *Store) MarketSnapshot() models.MarketSnapshot {
	raw, ok := s.Get(KeyMarketData)
	if !ok {
		return models.DefaultSnapshot()
	}
	var snap models.MarketSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return models.DefaultSnapshot()
	}
	return snap.Normalized()
}

func (s *Store) SetMarketSnapshot(snap models.MarketSnapshot) error {
	data, err := json.Marshal(snap.Normalized())
	if err != nil {
		return err
	}
	return s.Set(KeyMarketData, string(data))
}

func (s *Store) Balance() string {
	if v, ok := s.Get(KeyBalance); ok && v != "" {
		return v
	}
	return DefaultBalance
}

func (s *Store) SetBalance(v string) error {
	return s.Set(KeyBalance, v)
}

func (s *Store) Latency() string {
	if v, ok := s.Get(KeyLatency); ok && v != "" {
		return v
	}
	return DefaultLatency
}

func (s *Store) SetLatency(v string) error {
	return s.Set(KeyLatency, v)
}

func (s *Store) ActiveView() string {
	v, _ := s.Get(KeyActiveTab)
	return v
}

func (s *Store) SetActiveView(v string) error {
	return s.Set(KeyActiveTab, v)
}

func (s *Store) Wallet() string {
	v, _ := s.Get(KeyWallet)
	return v
}

func (s *Store) SetWallet(addr string) error {
	return s.Set(KeyWallet, addr)
}
