package journal

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/fxjournal/id"
)

// Store is a small key-value store for profile data such as saved
// strategies. Get returns ErrNotFound for a missing key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: key %q", ErrNotFound, key)
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[key]; !ok {
		return fmt.Errorf("%w: key %q", ErrNotFound, key)
	}
	delete(m.data, key)
	return nil
}

func (m *MemoryStore) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

const strategyPrefix = "strategies/"

// Summary is the headline performance kept with a saved strategy.
type Summary struct {
	TotalTrades  int     `yaml:"total_trades"`
	WinRate      float64 `yaml:"win_rate"`
	TotalProfit  float64 `yaml:"total_profit"`
	ProfitFactor float64 `yaml:"profit_factor"`
	MaxDrawdown  float64 `yaml:"max_drawdown"`
	SharpeRatio  float64 `yaml:"sharpe_ratio"`
}

// SavedStrategy is a named backtest configuration with the results it
// produced. Config holds the configuration as a YAML node so this package
// does not depend on its Go type.
type SavedStrategy struct {
	ID      string    `yaml:"id"`
	Name    string    `yaml:"name"`
	RunID   string    `yaml:"run_id,omitempty"`
	SavedAt time.Time `yaml:"saved_at"`
	Config  yaml.Node `yaml:"config,omitempty"`
	Summary Summary   `yaml:"summary"`
}

// SetConfig encodes v into s.Config.
func (s *SavedStrategy) SetConfig(v any) error {
	return s.Config.Encode(v)
}

// DecodeConfig decodes s.Config into v.
func (s *SavedStrategy) DecodeConfig(v any) error {
	if s.Config.Kind == 0 {
		return fmt.Errorf("saved strategy %s has no config", s.ID)
	}
	return s.Config.Decode(v)
}

// SaveStrategy stores s under strategies/<id>, assigning an ID and SavedAt
// when they are empty. It returns the ID used.
func SaveStrategy(ctx context.Context, st Store, s SavedStrategy) (string, error) {
	if s.ID == "" {
		s.ID = id.New()
	}
	if s.SavedAt.IsZero() {
		s.SavedAt = time.Now().UTC()
	}

	data, err := yaml.Marshal(&s)
	if err != nil {
		return "", fmt.Errorf("encode saved strategy: %w", err)
	}
	if err := st.Put(ctx, strategyPrefix+s.ID, data); err != nil {
		return "", err
	}
	return s.ID, nil
}

// LoadStrategy reads the saved strategy with the given ID.
func LoadStrategy(ctx context.Context, st Store, sid string) (SavedStrategy, error) {
	data, err := st.Get(ctx, strategyPrefix+sid)
	if err != nil {
		return SavedStrategy{}, err
	}

	var s SavedStrategy
	if err := yaml.Unmarshal(data, &s); err != nil {
		return SavedStrategy{}, fmt.Errorf("decode saved strategy %s: %w", sid, err)
	}
	return s, nil
}

// ListStrategies returns every saved strategy, oldest first.
func ListStrategies(ctx context.Context, st Store) ([]SavedStrategy, error) {
	keys, err := st.List(ctx, strategyPrefix)
	if err != nil {
		return nil, err
	}

	out := make([]SavedStrategy, 0, len(keys))
	for _, k := range keys {
		s, err := LoadStrategy(ctx, st, strings.TrimPrefix(k, strategyPrefix))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// DeleteStrategy removes a saved strategy.
func DeleteStrategy(ctx context.Context, st Store, sid string) error {
	return st.Delete(ctx, strategyPrefix+sid)
}
