package journal

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"text/template"
	"time"
)

// Run summarises one backtest. It mirrors the runs table.
type Run struct {
	RunID     string
	Created   time.Time
	Strategy  string
	Pair      string
	Timeframe string
	Dataset   string

	// Config is the YAML encoding of the run configuration.
	Config []byte

	RiskPct  float64 // percent of capital, e.g. 2
	StopPips float64
	TakePips float64

	Start time.Time
	End   time.Time

	Trades int
	Wins   int
	Losses int

	StartBalance float64
	EndBalance   float64

	NetPL        float64
	ReturnPct    float64
	WinRate      float64 // percent
	ProfitFactor float64
	MaxDDPct     float64
	Sharpe       float64

	Notes []string
}

// RR is the take-profit distance as a multiple of the stop distance.
func (r Run) RR() float64 {
	if r.StopPips == 0 {
		return 0
	}
	return r.TakePips / r.StopPips
}

var runOrgFuncs = template.FuncMap{
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
	"num": func(x float64) string {
		if math.IsInf(x, 1) {
			return "inf"
		}
		return fmt.Sprintf("%.2f", x)
	},
}

var runOrgTmpl = template.Must(template.New("run").Funcs(runOrgFuncs).Parse(RunOrgTemplate))

// WriteOrg renders the run and its trades as an Org-mode document.
func (r Run) WriteOrg(w io.Writer, trades []TradeRecord) error {
	if err := runOrgTmpl.Execute(w, r); err != nil {
		return err
	}
	if len(trades) == 0 {
		return nil
	}
	_, err := io.WriteString(w, "\n** Trades\n"+FormatTradesOrg(trades, 3))
	return err
}

// WriteOrgFile writes the Org report to path.
func (r Run) WriteOrgFile(path string, trades []TradeRecord) error {
	buf := new(bytes.Buffer)
	if err := r.WriteOrg(buf, trades); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

const RunOrgTemplate = `* BACKTEST: {{.Strategy}} {{.Pair}} {{if .Timeframe}}{{.Timeframe}}{{else}}(timeframe?){{end}}
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:STRATEGY:    {{.Strategy}}
:TIMEFRAME:   {{if .Timeframe}}{{.Timeframe}}{{else}}(timeframe?){{end}}
:PAIR:        {{.Pair}}
:DATASET:     {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}}
:START_DATE:  {{.Start.Format "2006-01-02"}}
:END_DATE:    {{.End.Format "2006-01-02"}}
:START_BAL:   {{num .StartBalance}}
:END_BAL:     {{num .EndBalance}}
:NET_PL:      {{num .NetPL}}
:RETURN_PCT:  {{num .ReturnPct}}
:MAX_DD_PCT:  {{num .MaxDDPct}}
:TRADES:      {{.Trades}}
:WINS:        {{.Wins}}
:LOSSES:      {{.Losses}}
:WIN_RATE:    {{num .WinRate}}
:PROFIT_FAC:  {{num .ProfitFactor}}
:SHARPE:      {{num .Sharpe}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Strategy Parameters
| Parameter        | Value |
|------------------+-------|
| Stop (pips)      | {{printf "%.1f" .StopPips}} |
| Take (pips)      | {{printf "%.1f" .TakePips}} |
| R:R              | {{printf "%.2f" .RR}} |
| Risk per Trade % | {{printf "%.2f" .RiskPct}} |
{{- if .Config }}

#+begin_src yaml
{{printf "%s" .Config}}#+end_src
{{- end }}

** Performance Summary
- Net P/L:          *{{num .NetPL}}*
- Return:           *{{num .ReturnPct}}%*
- Max Drawdown:     *{{num .MaxDDPct}}%*
- Win Rate:         *{{num .WinRate}}%*
- Profit Factor:    *{{num .ProfitFactor}}*
- Sharpe Ratio:     *{{num .Sharpe}}*

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Wins}} |
| Losses  | {{.Losses}} |
| Total   | {{.Trades}} |

{{- if .Notes }}

** Recommendations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}
`
