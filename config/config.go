package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/fxjournal/backtest"
	"github.com/rustyeddy/fxjournal/journal"
	"github.com/rustyeddy/fxjournal/rng"
)

// Config represents the complete application configuration
type Config struct {
	Backtest backtest.Config `json:"backtest" yaml:"backtest"`
	Data     DataConfig      `json:"data" yaml:"data"`
	Journal  JournalConfig   `json:"journal" yaml:"journal"`
}

// Data sources.
const (
	SourceSynthetic = "synthetic"
	SourceCSV       = "csv"
)

// DataConfig selects where bars come from
type DataConfig struct {
	Source     string  `json:"source" yaml:"source"`                             // "synthetic" or "csv"
	Path       string  `json:"path,omitempty" yaml:"path,omitempty"`             // file or doublestar glob
	Seed       int64   `json:"seed,omitempty" yaml:"seed,omitempty"`             // 0 picks a random seed
	Volatility float64 `json:"volatility,omitempty" yaml:"volatility,omitempty"` // per-bar, synthetic only
}

// Journal types.
const (
	JournalNone   = "none"
	JournalCSV    = "csv"
	JournalSQLite = "sqlite"
)

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Backtest: backtest.DefaultConfig(),
		Data: DataConfig{
			Source: SourceSynthetic,
		},
		Journal: JournalConfig{
			Type:   JournalSQLite,
			DBPath: "./fxjournal.db",
		},
	}
}

// LoadFromFile loads configuration from a file (JSON or YAML by extension).
// Fields missing from the file keep their Default values.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// .json files are JSON, everything else YAML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON
// otherwise)
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Backtest.Validate(); err != nil {
		errs = append(errs, err)
	}

	switch c.Data.Source {
	case SourceSynthetic:
		if c.Data.Volatility < 0 {
			errs = append(errs, errors.New("data.volatility must not be negative"))
		}
	case SourceCSV:
		if c.Data.Path == "" {
			errs = append(errs, errors.New("data.path required for csv source"))
		}
	default:
		errs = append(errs, fmt.Errorf("data.source must be 'synthetic' or 'csv', got %q", c.Data.Source))
	}

	switch c.Journal.Type {
	case JournalNone:
	case JournalCSV:
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			errs = append(errs, errors.New("journal trades_file and equity_file required for CSV type"))
		}
	case JournalSQLite:
		if c.Journal.DBPath == "" {
			errs = append(errs, errors.New("journal db_path required for SQLite type"))
		}
	default:
		errs = append(errs, fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite', got %q", c.Journal.Type))
	}

	return errors.Join(errs...)
}

// DataSource builds the bar source described by c.Data. A zero seed draws a
// fresh one; the seed actually used is returned so a run can be repeated.
func (c *Config) DataSource() (backtest.DataSource, int64) {
	if c.Data.Source == SourceCSV {
		return backtest.FileData{Pattern: c.Data.Path}, 0
	}

	seed := c.Data.Seed
	if seed == 0 {
		seed = rng.RandomSeed()
	}
	return backtest.SyntheticData{
		Rand:       rng.New(seed),
		Volatility: c.Data.Volatility,
		Label:      fmt.Sprintf("synthetic seed=%d", seed),
	}, seed
}

// OpenJournal opens the trade/equity sink described by c.Journal.
func (c *Config) OpenJournal() (journal.Journal, error) {
	switch c.Journal.Type {
	case JournalNone, "":
		return journal.Nop{}, nil
	case JournalCSV:
		j, err := journal.NewCSV(c.Journal.TradesFile, c.Journal.EquityFile)
		if err != nil {
			return nil, err
		}
		return j, nil
	case JournalSQLite:
		j, err := journal.NewSQLite(c.Journal.DBPath)
		if err != nil {
			return nil, err
		}
		return j, nil
	default:
		return nil, fmt.Errorf("unknown journal type %q", c.Journal.Type)
	}
}

// LoadEnv loads .env files into the process environment without overriding
// variables that are already set. With no arguments it loads ./.env if one
// exists.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

// Environment variables read by ApplyEnv.
const (
	EnvStrategy   = "FXJ_STRATEGY"
	EnvPair       = "FXJ_PAIR"
	EnvTimeframe  = "FXJ_TIMEFRAME"
	EnvPeriod     = "FXJ_PERIOD_DAYS"
	EnvCapital    = "FXJ_CAPITAL"
	EnvRisk       = "FXJ_RISK"
	EnvStopPips   = "FXJ_STOP_PIPS"
	EnvTakePips   = "FXJ_TAKE_PIPS"
	EnvDataSource = "FXJ_DATA_SOURCE"
	EnvDataPath   = "FXJ_DATA_PATH"
	EnvSeed       = "FXJ_SEED"
	EnvJournal    = "FXJ_JOURNAL"
	EnvDB         = "FXJ_DB"
)

// ApplyEnv overrides fields of c from FXJ_* environment variables. Unset and
// empty variables leave the field alone.
func (c *Config) ApplyEnv() error {
	var errs []error

	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	float := func(key string, dst *float64) {
		if v := os.Getenv(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = f
		}
	}
	integer := func(key string, dst *int64) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}

	b := &c.Backtest
	str(EnvStrategy, &b.Strategy)
	str(EnvPair, &b.CurrencyPair)
	str(EnvTimeframe, &b.Timeframe)

	period := int64(b.Period)
	integer(EnvPeriod, &period)
	b.Period = int(period)

	float(EnvCapital, &b.InitialCapital)
	float(EnvRisk, &b.RiskPerTrade)
	float(EnvStopPips, &b.StopLossPips)
	float(EnvTakePips, &b.TakeProfitPips)

	str(EnvDataSource, &c.Data.Source)
	str(EnvDataPath, &c.Data.Path)
	integer(EnvSeed, &c.Data.Seed)

	str(EnvJournal, &c.Journal.Type)
	str(EnvDB, &c.Journal.DBPath)

	return errors.Join(errs...)
}
