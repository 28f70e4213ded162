package backtest

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/fxjournal/market"
	"github.com/rustyeddy/fxjournal/strategies"
)

// Config describes one backtest run.
type Config struct {
	Strategy       string            `yaml:"strategy" json:"strategy"`
	CurrencyPair   string            `yaml:"currency_pair" json:"currencyPair"`
	Timeframe      string            `yaml:"timeframe" json:"timeframe"`
	Period         int               `yaml:"period_days" json:"period"`
	InitialCapital float64           `yaml:"initial_capital" json:"initialCapital"`
	RiskPerTrade   float64           `yaml:"risk_per_trade" json:"riskPerTrade"` // percent
	StopLossPips   float64           `yaml:"stop_loss_pips" json:"stopLossPips"`
	TakeProfitPips float64           `yaml:"take_profit_pips" json:"takeProfitPips"`
	Params         strategies.Params `yaml:"params,omitempty" json:"params,omitempty"`
}

// DefaultConfig is a 30 day moving-average run on EUR/USD 4h bars.
func DefaultConfig() Config {
	return Config{
		Strategy:       "moving_average",
		CurrencyPair:   "EUR/USD",
		Timeframe:      "4h",
		Period:         30,
		InitialCapital: 10000,
		RiskPerTrade:   2,
		StopLossPips:   20,
		TakeProfitPips: 40,
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error

	if _, err := strategies.Canonical(c.Strategy); err != nil {
		errs = append(errs, err)
	}
	if c.CurrencyPair == "" {
		errs = append(errs, errors.New("currency pair is required"))
	}
	if _, err := market.ParseTimeframe(c.Timeframe); err != nil {
		errs = append(errs, err)
	}
	if c.Period <= 0 {
		errs = append(errs, fmt.Errorf("period must be > 0 days, got %d", c.Period))
	}
	if c.InitialCapital <= 0 {
		errs = append(errs, fmt.Errorf("initial capital must be > 0, got %g", c.InitialCapital))
	}
	if c.RiskPerTrade <= 0 || c.RiskPerTrade > 100 {
		errs = append(errs, fmt.Errorf("risk per trade must be in (0, 100] percent, got %g", c.RiskPerTrade))
	}
	if c.StopLossPips <= 0 {
		errs = append(errs, fmt.Errorf("stop loss must be > 0 pips, got %g", c.StopLossPips))
	}
	if c.TakeProfitPips <= 0 {
		errs = append(errs, fmt.Errorf("take profit must be > 0 pips, got %g", c.TakeProfitPips))
	}
	return errors.Join(errs...)
}

// Pair is the normalised instrument name, e.g. EUR_USD.
func (c Config) Pair() string {
	return market.NormalizePair(c.CurrencyPair)
}
