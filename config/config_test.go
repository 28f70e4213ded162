package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxjournal/backtest"
	"github.com/rustyeddy/fxjournal/journal"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "moving_average", cfg.Backtest.Strategy)
	assert.Equal(t, 10000.0, cfg.Backtest.InitialCapital)
	assert.Equal(t, SourceSynthetic, cfg.Data.Source)
	assert.Equal(t, JournalSQLite, cfg.Journal.Type)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid config", func(*Config) {}, ""},
		{"no journal", func(c *Config) { c.Journal = JournalConfig{Type: JournalNone} }, ""},
		{"csv data", func(c *Config) { c.Data = DataConfig{Source: SourceCSV, Path: "data/**/*.csv"} }, ""},
		{"bad strategy", func(c *Config) { c.Backtest.Strategy = "nope" }, "unknown strategy"},
		{"bad source", func(c *Config) { c.Data.Source = "kafka" }, "data.source must be"},
		{"csv without path", func(c *Config) { c.Data.Source = SourceCSV }, "data.path required"},
		{"negative volatility", func(c *Config) { c.Data.Volatility = -0.1 }, "data.volatility"},
		{"bad journal", func(c *Config) { c.Journal.Type = "mongo" }, "journal.type must be"},
		{"sqlite without path", func(c *Config) { c.Journal.DBPath = "" }, "journal db_path required"},
		{
			"csv without files",
			func(c *Config) { c.Journal = JournalConfig{Type: JournalCSV, TradesFile: "trades.csv"} },
			"journal trades_file and equity_file required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
		{"yml format", ".yml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Backtest.Strategy = "rsi"
			cfg.Backtest.Params = map[string]float64{"period": 10}
			cfg.Data.Seed = 42
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backtest:\n  strategy: macd\n  currency_pair: GBP/USD\njournal:\n  type: none\n"), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "macd", cfg.Backtest.Strategy)
	assert.Equal(t, "GBP_USD", cfg.Backtest.Pair())
	assert.Equal(t, 20.0, cfg.Backtest.StopLossPips)
	assert.Equal(t, "4h", cfg.Backtest.Timeframe)
	assert.Equal(t, JournalNone, cfg.Journal.Type)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	dir := t.TempDir()

	garbled := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(garbled, []byte("{not json"), 0o644))
	_, err = LoadFromFile(garbled)
	assert.ErrorContains(t, err, "parse config")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("backtest:\n  period_days: 0\n"), 0o644))
	_, err = LoadFromFile(invalid)
	assert.ErrorContains(t, err, "invalid config")
}

func TestDataSource(t *testing.T) {
	cfg := Default()
	cfg.Data.Seed = 7

	src, seed := cfg.DataSource()
	assert.Equal(t, int64(7), seed)
	syn, ok := src.(backtest.SyntheticData)
	require.True(t, ok)
	assert.Equal(t, "synthetic seed=7", syn.Label)

	cfg.Data.Seed = 0
	_, seed = cfg.DataSource()
	assert.NotZero(t, seed)

	cfg.Data = DataConfig{Source: SourceCSV, Path: "data/*.csv"}
	src, _ = cfg.DataSource()
	assert.Equal(t, backtest.FileData{Pattern: "data/*.csv"}, src)
}

func TestOpenJournal(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()

	cfg.Journal = JournalConfig{Type: JournalNone}
	j, err := cfg.OpenJournal()
	require.NoError(t, err)
	assert.IsType(t, journal.Nop{}, j)

	cfg.Journal = JournalConfig{Type: JournalCSV, TradesFile: filepath.Join(dir, "t.csv"), EquityFile: filepath.Join(dir, "e.csv")}
	j, err = cfg.OpenJournal()
	require.NoError(t, err)
	assert.IsType(t, &journal.CSVJournal{}, j)
	require.NoError(t, j.Close())

	cfg.Journal = JournalConfig{Type: JournalSQLite, DBPath: filepath.Join(dir, "j.db")}
	j, err = cfg.OpenJournal()
	require.NoError(t, err)
	assert.IsType(t, &journal.SQLite{}, j)
	require.NoError(t, j.Close())

	cfg.Journal = JournalConfig{Type: JournalCSV, TradesFile: filepath.Join(dir, "missing", "t.csv"), EquityFile: "e.csv"}
	j, err = cfg.OpenJournal()
	assert.Error(t, err)
	assert.Nil(t, j)

	cfg.Journal.Type = "mongo"
	_, err = cfg.OpenJournal()
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("FXJ_LOADENV_TEST=from-file\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("FXJ_LOADENV_TEST") })

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "from-file", os.Getenv("FXJ_LOADENV_TEST"))

	assert.Error(t, LoadEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvStrategy, "bollinger")
	t.Setenv(EnvPair, "USD/JPY")
	t.Setenv(EnvPeriod, "90")
	t.Setenv(EnvCapital, "25000")
	t.Setenv(EnvRisk, "1.5")
	t.Setenv(EnvSeed, "99")
	t.Setenv(EnvJournal, JournalNone)
	t.Setenv(EnvTakePips, "")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "bollinger", cfg.Backtest.Strategy)
	assert.Equal(t, "USD/JPY", cfg.Backtest.CurrencyPair)
	assert.Equal(t, 90, cfg.Backtest.Period)
	assert.Equal(t, 25000.0, cfg.Backtest.InitialCapital)
	assert.Equal(t, 1.5, cfg.Backtest.RiskPerTrade)
	assert.Equal(t, 40.0, cfg.Backtest.TakeProfitPips)
	assert.Equal(t, int64(99), cfg.Data.Seed)
	assert.Equal(t, JournalNone, cfg.Journal.Type)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnvErrors(t *testing.T) {
	t.Setenv(EnvCapital, "lots")
	t.Setenv(EnvSeed, "1.5")

	cfg := Default()
	err := cfg.ApplyEnv()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), EnvCapital))
	assert.True(t, strings.Contains(err.Error(), EnvSeed))
	assert.Equal(t, 10000.0, cfg.Backtest.InitialCapital)
}
