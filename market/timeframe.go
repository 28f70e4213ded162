package market

import (
	"fmt"
	"strings"
	"time"
)

// ParseTimeframe accepts both the short UI form ("10m", "4h", "1d") and the
// broker form ("M10", "H4", "D1").
func ParseTimeframe(tf string) (time.Duration, error) {
	s := strings.ToLower(strings.TrimSpace(tf))
	switch s {
	case "m1", "1m":
		return time.Minute, nil
	case "m5", "5m":
		return 5 * time.Minute, nil
	case "m10", "10m":
		return 10 * time.Minute, nil
	case "m15", "15m":
		return 15 * time.Minute, nil
	case "m30", "30m":
		return 30 * time.Minute, nil
	case "h1", "1h":
		return time.Hour, nil
	case "h4", "4h":
		return 4 * time.Hour, nil
	case "d1", "1d":
		return 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unsupported timeframe: %q", tf)
	}
}
