// Package strategies turns a bar history into trading signals.
package strategies

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rustyeddy/fxjournal/market"
	"github.com/rustyeddy/fxjournal/rng"
)

// Warmup is the number of bars the simulator skips before the first
// evaluation.
const Warmup = 50

var ErrUnknownStrategy = errors.New("unknown strategy")

// Evaluator inspects the bars up to and including the current one and
// reports whether an entry signal fired on the newest bar. Evaluators must
// not look past the last element of bars.
type Evaluator interface {
	Name() string
	Evaluate(bars []market.Bar) (market.Direction, bool)
}

// Params are named numeric strategy parameters.
type Params map[string]float64

// Int returns p[key] truncated to an int.
func (p Params) Int(key string) int {
	return int(p[key])
}

func (p Params) clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

type Factory func(p Params, src rng.Source) (Evaluator, error)

type entry struct {
	defaults Params
	factory  Factory
}

var (
	registry = make(map[string]entry)
	aliases  = make(map[string]string)
)

// Register adds a strategy under name with its default parameters. Extra
// aliases resolve to the same strategy.
func Register(name string, defaults Params, f Factory, alias ...string) {
	registry[name] = entry{defaults: defaults, factory: f}
	for _, a := range alias {
		aliases[a] = name
	}
}

func init() {
	Register("moving_average", Params{"fastMA": 10, "slowMA": 20}, newMACross, "ma", "ma-cross", "ma_cross", "sma")
	Register("rsi", Params{"period": 14, "overbought": 70, "oversold": 30}, newRSIThreshold)
	Register("bollinger", Params{"period": 20, "stdDev": 2}, newBollingerBreakout, "bb", "bollinger-bands", "bollinger_bands")
	Register("macd", Params{"fastPeriod": 12, "slowPeriod": 26, "signalPeriod": 9}, newMACDCross, "macd-cross")
	Register("custom", Params{"param1": 10, "param2": 20}, newRandom, "random")
	Register("ema_cross", Params{"fastEMA": 10, "slowEMA": 30, "adxPeriod": 14, "adxMin": 25}, newEMACross, "ema-cross", "emacross", "ema_adx")
}

// Canonical resolves name (case and surrounding space ignored, aliases
// followed) to a registered strategy name.
func Canonical(name string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if a, ok := aliases[n]; ok {
		n = a
	}
	if _, ok := registry[n]; !ok {
		return "", fmt.Errorf("%w %q (supported: %s)", ErrUnknownStrategy, name, strings.Join(Names(), ", "))
	}
	return n, nil
}

// Names returns the registered strategy names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Defaults returns a copy of the default parameters for name.
func Defaults(name string) (Params, error) {
	n, err := Canonical(name)
	if err != nil {
		return nil, err
	}
	return registry[n].defaults.clone(), nil
}

// New builds the named evaluator. params are merged over the defaults, so
// callers only need to pass the values they change. src feeds strategies that
// draw random numbers and may be nil for the others.
func New(name string, params Params, src rng.Source) (Evaluator, error) {
	n, err := Canonical(name)
	if err != nil {
		return nil, err
	}
	e := registry[n]

	merged := e.defaults.clone()
	for k, v := range params {
		if _, known := merged[k]; !known {
			return nil, fmt.Errorf("strategy %s: unknown parameter %q", n, k)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("strategy %s: parameter %q is not finite", n, k)
		}
		merged[k] = v
	}
	return e.factory(merged, src)
}

func positive(name string, p Params, keys ...string) error {
	for _, k := range keys {
		if p[k] <= 0 {
			return fmt.Errorf("strategy %s: %s must be > 0, got %g", name, k, p[k])
		}
	}
	return nil
}

// periods checks that keys hold bar counts of at least 1 once truncated by Int.
func periods(name string, p Params, keys ...string) error {
	for _, k := range keys {
		if p.Int(k) < 1 {
			return fmt.Errorf("strategy %s: %s must be a period of at least 1 bar, got %g", name, k, p[k])
		}
	}
	return nil
}
