package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/fxjournal/market"
)

const tradeColumnsSQL = `trade_id, run_id, pair, direction, quantity, entry_price, exit_price, stop_loss,
	take_profit, entry_time, exit_time, profit_loss, reason, status, notes`

func scanTrade(s scanner) (TradeRecord, error) {
	var (
		rec TradeRecord
		dir string
	)
	err := s.Scan(
		&rec.ID,
		&rec.RunID,
		&rec.Pair,
		&dir,
		&rec.Quantity,
		&rec.EntryPrice,
		&rec.ExitPrice,
		&rec.StopLoss,
		&rec.TakeProfit,
		&rec.EntryTime,
		&rec.ExitTime,
		&rec.ProfitLoss,
		&rec.CloseReason,
		&rec.Status,
		&rec.Notes,
	)
	rec.Direction = market.Direction(dir)
	return rec, err
}

func (j *SQLite) queryTrades(ctx context.Context, query string, args ...any) ([]TradeRecord, error) {
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(ctx context.Context, tradeID string) (TradeRecord, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+tradeColumnsSQL+` FROM trades WHERE trade_id = ?`, tradeID)
	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeRecord{}, fmt.Errorf("%w: trade %q", ErrNotFound, tradeID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTradesByRun returns a run's trades in entry order.
func (j *SQLite) ListTradesByRun(ctx context.Context, runID string) ([]TradeRecord, error) {
	return j.queryTrades(ctx, `SELECT `+tradeColumnsSQL+` FROM trades
		WHERE run_id = ?
		ORDER BY entry_time ASC, trade_id ASC`, runID)
}

// ListTradesClosedBetween returns trades whose exit_time is within [start, end).
func (j *SQLite) ListTradesClosedBetween(ctx context.Context, start, end time.Time) ([]TradeRecord, error) {
	return j.queryTrades(ctx, `SELECT `+tradeColumnsSQL+` FROM trades
		WHERE exit_time >= ? AND exit_time < ?
		ORDER BY exit_time ASC`, start.UTC(), end.UTC())
}

// ListEquityByRun returns a run's equity curve in bar order.
func (j *SQLite) ListEquityByRun(ctx context.Context, runID string) ([]EquitySnapshot, error) {
	if err := j.Flush(); err != nil {
		return nil, err
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, idx, time, capital, equity, drawdown, max_drawdown
		FROM equity
		WHERE run_id = ?
		ORDER BY idx ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var e EquitySnapshot
		if err := rows.Scan(&e.RunID, &e.Index, &e.Time, &e.Capital, &e.Equity, &e.Drawdown, &e.MaxDrawdown); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
