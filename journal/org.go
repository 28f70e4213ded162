package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/fxjournal/risk"
)

// FormatTradeOrg renders a TradeRecord as an Org-mode heading at the given
// level. Structured facts go in a PROPERTIES drawer; Thesis and Review are
// left for the reader to fill in.
func FormatTradeOrg(t TradeRecord, level int) string {
	if level < 1 {
		level = 1
	}
	stars := strings.Repeat("*", level)

	var b strings.Builder
	fmt.Fprintf(&b, "%s Trade: %s %s (%s)\n", stars, t.Pair, t.Direction, shortID(t.ID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":TRADE_ID: %s\n", t.ID)
	if t.RunID != "" {
		fmt.Fprintf(&b, ":RUN_ID: %s\n", t.RunID)
	}
	fmt.Fprintf(&b, ":PAIR: %s\n", t.Pair)
	fmt.Fprintf(&b, ":DIRECTION: %s\n", t.Direction)
	fmt.Fprintf(&b, ":QUANTITY: %.0f\n", t.Quantity)
	fmt.Fprintf(&b, ":ENTRY_PRICE: %.5f\n", t.EntryPrice)
	fmt.Fprintf(&b, ":EXIT_PRICE: %.5f\n", t.ExitPrice)
	fmt.Fprintf(&b, ":STOP_LOSS: %.5f\n", t.StopLoss)
	fmt.Fprintf(&b, ":TAKE_PROFIT: %.5f\n", t.TakeProfit)
	if plan := risk.Plan(t.Direction, t.EntryPrice, t.StopLoss, t.TakeProfit); plan.Valid {
		fmt.Fprintf(&b, ":RR: %.2f\n", plan.Ratio)
	}
	fmt.Fprintf(&b, ":ENTRY_TIME: %s\n", t.EntryTime.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":EXIT_TIME: %s\n", t.ExitTime.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":PROFIT_LOSS: %.2f\n", t.ProfitLoss)
	fmt.Fprintf(&b, ":REASON: %s\n", t.CloseReason)
	b.WriteString(":END:\n")

	sub := stars + "*"
	fmt.Fprintf(&b, "%s Thesis\n- %s\n", sub, t.Notes)
	fmt.Fprintf(&b, "%s Review\n- \n", sub)
	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []TradeRecord, level int) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatTradeOrg(t, level))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}
