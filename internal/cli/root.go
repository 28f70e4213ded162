package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rustyeddy/fxjournal/config"
	"github.com/rustyeddy/fxjournal/journal"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// rootConfig holds the persistent flags and what PersistentPreRunE builds
// from them.
type rootConfig struct {
	ConfigPath string
	DBPath     string
	EnvFile    string
	LogLevel   string

	cfg *config.Config
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	rc := &rootConfig{}

	cmd := &cobra.Command{
		Use:           "fxjournal",
		Short:         "fxjournal: FX strategy backtests and trade journal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global / persistent flags
	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file, YAML or JSON (optional)")
	cmd.PersistentFlags().StringVar(&rc.DBPath, "db", "", "SQLite journal database (overrides journal.db_path)")
	cmd.PersistentFlags().StringVar(&rc.EnvFile, "env-file", "", "Load environment overrides from this file (default ./.env if present)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "info", "Log level: debug|info|warn|error")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return rc.setup(cmd.ErrOrStderr())
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if rc.log != nil {
			_ = rc.log.Sync()
		}
	}

	cmd.AddCommand(
		newBacktestCmd(rc),
		newStrategiesCmd(rc),
		newRunsCmd(rc),
		newReportCmd(rc),
		newConfigCmd(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fxjournal %s\n", Version)
		},
	})

	return cmd
}

// setup configures logging, loads .env and the config file, then applies
// environment and flag overrides.
func (rc *rootConfig) setup(stderr io.Writer) error {
	level, err := zapcore.ParseLevel(rc.LogLevel)
	if err != nil {
		return fmt.Errorf("bad --log-level %q: %w", rc.LogLevel, err)
	}
	rc.log = newLogger(stderr, level)
	zap.ReplaceGlobals(rc.log)

	var envFiles []string
	if rc.EnvFile != "" {
		envFiles = append(envFiles, rc.EnvFile)
	}
	if err := config.LoadEnv(envFiles...); err != nil {
		return err
	}

	cfg := config.Default()
	if rc.ConfigPath != "" {
		loaded, err := config.LoadFromFile(rc.ConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if rc.DBPath != "" {
		cfg.Journal.DBPath = rc.DBPath
	}
	rc.cfg = cfg

	rc.log.Debug("config loaded",
		zap.String("file", rc.ConfigPath),
		zap.String("journal", cfg.Journal.Type),
		zap.String("db", cfg.Journal.DBPath),
	)
	return nil
}

// newLogger writes human readable console lines to w.
func newLogger(w io.Writer, level zapcore.Level) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.RFC3339TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core)
}

// openDB opens the SQLite database holding runs and saved strategies.
func (rc *rootConfig) openDB() (*journal.SQLite, error) {
	path := rc.cfg.Journal.DBPath
	if path == "" {
		path = config.Default().Journal.DBPath
	}
	db, err := journal.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open db %s: %w", path, err)
	}
	return db, nil
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
