package market

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadBarsCSV reads bar rows:
//
//	time,open,high,low,close[,volume]
//
// where time is RFC3339 or RFC3339Nano. A single header row ("time,...") is
// allowed and empty rows are skipped. Input starting with a UTF-16 byte order
// mark is decoded first; spreadsheet exports are often saved that way.
func ReadBarsCSV(r io.Reader) ([]Bar, error) {
	br := bufio.NewReader(r)
	if b, _ := br.Peek(2); len(b) == 2 && ((b[0] == 0xFF && b[1] == 0xFE) || (b[0] == 0xFE && b[1] == 0xFF)) {
		br = bufio.NewReader(transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	var (
		bars     []Bar
		sawFirst bool
		line     int
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}

		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}

		b, err := parseBarRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		bars = append(bars, b)
	}
	return bars, nil
}

// LoadBarsCSV reads a single bar file.
func LoadBarsCSV(path string) ([]Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bars, err := ReadBarsCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bars, nil
}

// LoadBarsGlob loads every file matching pattern (doublestar syntax, e.g.
// "data/**/*.csv"), merges them in time order and drops duplicate timestamps.
func LoadBarsGlob(pattern string) ([]Bar, error) {
	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("glob %q: no files matched", pattern)
	}
	sort.Strings(paths)

	var all []Bar
	for _, p := range paths {
		bars, err := LoadBarsCSV(p)
		if err != nil {
			return nil, err
		}
		all = append(all, bars...)
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Time.Before(all[j].Time) })

	out := all[:0]
	for i, b := range all {
		if i > 0 && b.Time.Equal(out[len(out)-1].Time) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func parseBarRow(row []string) (Bar, error) {
	if len(row) < 5 {
		return Bar{}, fmt.Errorf("need at least 5 fields, got %d", len(row))
	}

	ts := strings.TrimSpace(row[0])
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339Nano, ts)
		if err2 != nil {
			return Bar{}, fmt.Errorf("bad time %q: %w", ts, err)
		}
		t = t2
	}

	var vals [5]float64
	names := [5]string{"open", "high", "low", "close", "volume"}
	for i := 1; i < len(row) && i <= 5; i++ {
		s := strings.TrimSpace(row[i])
		if s == "" && i == 5 {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Bar{}, fmt.Errorf("bad %s %q: %w", names[i-1], row[i], err)
		}
		vals[i-1] = v
	}

	return Bar{
		Time:   t.UTC(),
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}
