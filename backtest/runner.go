package backtest

import (
	"context"
	"errors"
	"fmt"

	"github.com/rustyeddy/fxjournal/journal"
	"github.com/rustyeddy/fxjournal/rng"
	"github.com/rustyeddy/fxjournal/strategies"
)

// RunRecorder stores run summaries. *journal.SQLite implements it.
type RunRecorder interface {
	RecordRun(ctx context.Context, r journal.Run) error
}

// Runner wires a data source, the configured strategy and an Engine:
//  1. load bars from Data
//  2. build the evaluator named by Config.Strategy
//  3. run the engine
//  4. record the run summary, if Recorder is set
type Runner struct {
	Config   Config
	Data     DataSource
	Rand     rng.Source // random draws for the custom strategy; nil seeds one
	Recorder RunRecorder
	Options  []Option
}

func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.Data == nil {
		return nil, errors.New("backtest: Data is required")
	}
	if err := r.Config.Validate(); err != nil {
		return nil, fmt.Errorf("backtest: invalid config: %w", err)
	}

	bars, dataset, err := r.Data.Bars(ctx, r.Config)
	if err != nil {
		return nil, fmt.Errorf("backtest: data: %w", err)
	}

	eval, err := strategies.New(r.Config.Strategy, r.Config.Params, r.Rand)
	if err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}

	eng, err := NewEngine(r.Config, eval, r.Options...)
	if err != nil {
		return nil, err
	}

	res, err := eng.Run(ctx, bars)
	if err != nil {
		return nil, err
	}
	res.Dataset = dataset

	if r.Recorder != nil {
		run, err := res.JournalRun()
		if err != nil {
			return nil, fmt.Errorf("backtest: encode run: %w", err)
		}
		if err := r.Recorder.RecordRun(ctx, run); err != nil {
			return nil, fmt.Errorf("backtest: record run: %w", err)
		}
	}
	return res, nil
}
