package journal

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeImpls(t *testing.T) map[string]Store {
	t.Helper()

	db, err := NewSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": db,
	}
}

func TestStore(t *testing.T) {
	for name, st := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := st.Get(ctx, "a")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, st.Put(ctx, "a/1", []byte("one")))
			require.NoError(t, st.Put(ctx, "a/2", []byte("two")))
			require.NoError(t, st.Put(ctx, "b/1", []byte("three")))
			require.NoError(t, st.Put(ctx, "a/1", []byte("uno")))

			v, err := st.Get(ctx, "a/1")
			require.NoError(t, err)
			assert.Equal(t, []byte("uno"), v)

			keys, err := st.List(ctx, "a/")
			require.NoError(t, err)
			assert.Equal(t, []string{"a/1", "a/2"}, keys)

			keys, err = st.List(ctx, "")
			require.NoError(t, err)
			assert.Len(t, keys, 3)

			require.NoError(t, st.Delete(ctx, "a/2"))
			assert.ErrorIs(t, st.Delete(ctx, "a/2"), ErrNotFound)

			keys, err = st.List(ctx, "a/")
			require.NoError(t, err)
			assert.Equal(t, []string{"a/1"}, keys)
		})
	}
}

type savedConfig struct {
	Strategy string             `yaml:"strategy"`
	Capital  float64            `yaml:"capital"`
	Params   map[string]float64 `yaml:"params"`
}

func TestSavedStrategies(t *testing.T) {
	for name, st := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			s := SavedStrategy{
				ID:      "01HV0000000000000000000001",
				Name:    "fast cross",
				SavedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
				Summary: Summary{TotalTrades: 4, WinRate: 75, ProfitFactor: math.Inf(1)},
			}
			cfg := savedConfig{Strategy: "moving_average", Capital: 10000, Params: map[string]float64{"fastMA": 5}}
			require.NoError(t, s.SetConfig(cfg))

			sid, err := SaveStrategy(ctx, st, s)
			require.NoError(t, err)
			assert.Equal(t, s.ID, sid)

			second, err := SaveStrategy(ctx, st, SavedStrategy{Name: "no config"})
			require.NoError(t, err)
			assert.NotEmpty(t, second)

			got, err := LoadStrategy(ctx, st, sid)
			require.NoError(t, err)
			assert.Equal(t, "fast cross", got.Name)
			assert.True(t, math.IsInf(got.Summary.ProfitFactor, 1))
			assert.True(t, s.SavedAt.Equal(got.SavedAt))

			var back savedConfig
			require.NoError(t, got.DecodeConfig(&back))
			assert.Equal(t, cfg, back)

			all, err := ListStrategies(ctx, st)
			require.NoError(t, err)
			require.Len(t, all, 2)

			bare, err := LoadStrategy(ctx, st, second)
			require.NoError(t, err)
			assert.Error(t, bare.DecodeConfig(&back))

			require.NoError(t, DeleteStrategy(ctx, st, sid))
			_, err = LoadStrategy(ctx, st, sid)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}
