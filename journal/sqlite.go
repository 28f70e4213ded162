package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// equityBatch is how many equity snapshots are buffered before they are
// written in one transaction.
const equityBatch = 256

// SQLite is a Journal and Store backed by one SQLite file.
type SQLite struct {
	db *sql.DB

	mu      sync.Mutex
	pending []EquitySnapshot
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// go-sqlite3 connections do not share an in-memory database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, run_id, pair, direction, quantity, entry_price, exit_price, stop_loss, take_profit,
		 entry_time, exit_time, profit_loss, reason, status, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.RunID, t.Pair, string(t.Direction), t.Quantity, t.EntryPrice, t.ExitPrice,
		t.StopLoss, t.TakeProfit, t.EntryTime.UTC(), t.ExitTime.UTC(), t.ProfitLoss,
		t.CloseReason, t.Status, t.Notes,
	)
	return err
}

// RecordEquity buffers e; buffered rows are written by Flush, by Close and
// before any query that reads equity.
func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	j.mu.Lock()
	j.pending = append(j.pending, e)
	full := len(j.pending) >= equityBatch
	j.mu.Unlock()

	if full {
		return j.Flush()
	}
	return nil
}

// Flush writes buffered equity snapshots.
func (j *SQLite) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if len(j.pending) == 0 {
		return nil
	}

	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO equity
		(run_id, idx, time, capital, equity, drawdown, max_drawdown)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, e := range j.pending {
		if _, err := stmt.Exec(e.RunID, e.Index, e.Time.UTC(), e.Capital, e.Equity, e.Drawdown, e.MaxDrawdown); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	j.pending = j.pending[:0]
	return nil
}

// RecordRun inserts or replaces the run summary.
func (j *SQLite) RecordRun(ctx context.Context, r Run) error {
	if r.RunID == "" {
		return errors.New("record run: empty run id")
	}
	created := r.Created
	if created.IsZero() {
		created = time.Now()
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs
		(run_id, created, strategy, pair, timeframe, dataset, config, risk_pct, stop_pips, take_pips,
		 start_time, end_time, trades, wins, losses, start_balance, end_balance, net_pl, return_pct,
		 win_rate, profit_factor, max_dd_pct, sharpe, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, created.UTC(), r.Strategy, r.Pair, r.Timeframe, r.Dataset, string(r.Config),
		r.RiskPct, r.StopPips, r.TakePips, r.Start.UTC(), r.End.UTC(), r.Trades, r.Wins, r.Losses,
		r.StartBalance, r.EndBalance, r.NetPL, r.ReturnPct, r.WinRate,
		strconv.FormatFloat(r.ProfitFactor, 'g', -1, 64), r.MaxDDPct, r.Sharpe,
		strings.Join(r.Notes, "\n"),
	)
	return err
}

const runColumns = `run_id, created, strategy, pair, timeframe, dataset, config, risk_pct, stop_pips, take_pips,
	start_time, end_time, trades, wins, losses, start_balance, end_balance, net_pl, return_pct,
	win_rate, profit_factor, max_dd_pct, sharpe, notes`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var (
		r      Run
		config string
		pf     string
		notes  string
	)
	err := s.Scan(&r.RunID, &r.Created, &r.Strategy, &r.Pair, &r.Timeframe, &r.Dataset, &config,
		&r.RiskPct, &r.StopPips, &r.TakePips, &r.Start, &r.End, &r.Trades, &r.Wins, &r.Losses,
		&r.StartBalance, &r.EndBalance, &r.NetPL, &r.ReturnPct, &r.WinRate, &pf, &r.MaxDDPct,
		&r.Sharpe, &notes)
	if err != nil {
		return Run{}, err
	}

	r.Config = []byte(config)
	if r.ProfitFactor, err = strconv.ParseFloat(pf, 64); err != nil {
		return Run{}, fmt.Errorf("run %s: profit factor %q: %w", r.RunID, pf, err)
	}
	if notes != "" {
		r.Notes = strings.Split(notes, "\n")
	}
	return r, nil
}

// GetRun returns the run summary with the given ID.
func (j *SQLite) GetRun(ctx context.Context, runID string) (Run, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: run %q", ErrNotFound, runID)
	}
	return r, err
}

// ListRuns returns every run, newest first.
func (j *SQLite) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created DESC, run_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ExportRunOrg loads a run and its trades and renders the Org report.
func (j *SQLite) ExportRunOrg(ctx context.Context, runID string) (string, error) {
	r, err := j.GetRun(ctx, runID)
	if err != nil {
		return "", err
	}
	trades, err := j.ListTradesByRun(ctx, runID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := r.WriteOrg(&b, trades); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (j *SQLite) Close() error {
	err := j.Flush()
	if cerr := j.db.Close(); err == nil {
		err = cerr
	}
	return err
}
