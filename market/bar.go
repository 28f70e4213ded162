package market

import (
	"errors"
	"fmt"
	"time"
)

// Bar is one OHLCV sample for a fixed interval.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Direction is the side of a position or signal.
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// Sign returns +1 for Buy and -1 for Sell.
func (d Direction) Sign() float64 {
	if d == Sell {
		return -1
	}
	return 1
}

func (d Direction) Valid() bool {
	return d == Buy || d == Sell
}

var (
	ErrEmpty     = errors.New("market: empty bar series")
	ErrUnordered = errors.New("market: bar timestamps not strictly increasing")
)

// ValidateSeries checks that bars are non-empty and strictly increasing in time.
func ValidateSeries(bars []Bar) error {
	if len(bars) == 0 {
		return ErrEmpty
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i].Time.After(bars[i-1].Time) {
			return fmt.Errorf("%w: bar %d at %s not after %s", ErrUnordered,
				i, bars[i].Time.Format(time.RFC3339), bars[i-1].Time.Format(time.RFC3339))
		}
	}
	return nil
}
