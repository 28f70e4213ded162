package journal

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// CSVJournal appends trades and equity snapshots to two CSV files.
type CSVJournal struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

var (
	tradeColumns  = []string{"trade_id", "run_id", "pair", "direction", "quantity", "entry_price", "exit_price", "stop_loss", "take_profit", "entry_time", "exit_time", "profit_loss", "reason"}
	equityColumns = []string{"run_id", "index", "time", "capital", "equity", "drawdown", "max_drawdown"}
)

func NewCSV(tradesPath, equityPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		_ = tf.Close()
		return nil, err
	}

	j := &CSVJournal{trades: csv.NewWriter(tf), equity: csv.NewWriter(ef), tf: tf, ef: ef}
	if err := j.writeRow(j.trades, tradeColumns); err != nil {
		_ = j.Close()
		return nil, err
	}
	if err := j.writeRow(j.equity, equityColumns); err != nil {
		_ = j.Close()
		return nil, err
	}
	return j, nil
}

func (j *CSVJournal) writeRow(w *csv.Writer, row []string) error {
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	return j.writeRow(j.trades, []string{
		t.ID,
		t.RunID,
		t.Pair,
		string(t.Direction),
		f(t.Quantity),
		f(t.EntryPrice),
		f(t.ExitPrice),
		f(t.StopLoss),
		f(t.TakeProfit),
		t.EntryTime.UTC().Format(time.RFC3339),
		t.ExitTime.UTC().Format(time.RFC3339),
		f(t.ProfitLoss),
		t.CloseReason,
	})
}

func (j *CSVJournal) RecordEquity(e EquitySnapshot) error {
	return j.writeRow(j.equity, []string{
		e.RunID,
		strconv.Itoa(e.Index),
		e.Time.UTC().Format(time.RFC3339),
		f(e.Capital),
		f(e.Equity),
		f(e.Drawdown),
		f(e.MaxDrawdown),
	})
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	j.equity.Flush()

	err := j.trades.Error()
	if e := j.equity.Error(); err == nil {
		err = e
	}
	if e := j.tf.Close(); err == nil {
		err = e
	}
	if e := j.ef.Close(); err == nil {
		err = e
	}
	return err
}

// f renders x as its shortest exact decimal.
func f(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	return decimal.NewFromFloat(x).String()
}
