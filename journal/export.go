package journal

import (
	"bufio"
	"io"
	"strings"
	"time"
)

// ExportHeader is the first line written by ExportTradesCSV.
const ExportHeader = "Date,Pair,Direction,Entry,Exit,Quantity,P&L,Status,Notes"

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func quote(s string) string {
	s = lineBreaks.Replace(s)
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ExportTradesCSV writes one header line and one line per trade. Text fields
// are always quoted and line breaks inside them become spaces, so the output
// has exactly len(trades)+1 lines. Numbers use their shortest exact decimal
// form; Exit is empty for a trade that has no exit price.
func ExportTradesCSV(w io.Writer, trades []TradeRecord) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(ExportHeader + "\n"); err != nil {
		return err
	}

	for _, t := range trades {
		exit := ""
		if t.ExitPrice != 0 {
			exit = f(t.ExitPrice)
		}
		row := []string{
			quote(t.EntryTime.UTC().Format(time.RFC3339)),
			quote(t.Pair),
			quote(string(t.Direction)),
			f(t.EntryPrice),
			exit,
			f(t.Quantity),
			f(t.ProfitLoss),
			quote(t.Status),
			quote(t.Notes),
		}
		if _, err := bw.WriteString(strings.Join(row, ",") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
