package marketdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmanzanog/ticker-lens/internal/domain"
)

// Column names every history frame must expose after flattening.
const (
	ColumnOpen  = "Open"
	ColumnHigh  = "High"
	ColumnLow   = "Low"
	ColumnClose = "Close"
)

// ColumnKey is one column label. Single-symbol tables use one level
// ("Close"); some providers label columns with (field, symbol) pairs even
// when a single symbol was requested.
type ColumnKey []string

// UnmarshalJSON accepts either a plain string or an array of strings.
func (k *ColumnKey) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var levels []string
		if err := json.Unmarshal(data, &levels); err != nil {
			return fmt.Errorf("decode column key: %w", err)
		}
		*k = levels
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("decode column key: %w", err)
	}
	*k = ColumnKey{name}
	return nil
}

// Outer is the primary level of the key, or "" for an empty key.
func (k ColumnKey) Outer() string {
	if len(k) == 0 {
		return ""
	}
	return k[0]
}

// FrameIndex is a row timestamp, accepted as epoch milliseconds or as an
// ISO-8601 / plain date string.
type FrameIndex time.Time

func (i *FrameIndex) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode index: %w", err)
		}
		t, err := parseIndexTime(s)
		if err != nil {
			return err
		}
		*i = FrameIndex(t)
		return nil
	}
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("decode index %s: %w", data, err)
	}
	*i = FrameIndex(time.UnixMilli(ms).UTC())
	return nil
}

func (i FrameIndex) Time() time.Time {
	return time.Time(i)
}

var indexLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseIndexTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range indexLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised index timestamp %q", s)
}

// Frame is a column-labelled table in "split" orientation: one label per
// column, one timestamp per row, and a row-major grid of nullable cells.
type Frame struct {
	Columns []ColumnKey      `json:"columns"`
	Index   []FrameIndex     `json:"index"`
	Data    [][]*json.Number `json:"data"`
}

// DecodeFrame parses a split-oriented JSON table.
func DecodeFrame(data []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	return &f, nil
}

// Empty reports a frame without rows.
func (f *Frame) Empty() bool {
	return f == nil || len(f.Index) == 0 || len(f.Data) == 0
}

// IsCompound reports whether any column carries more than one label level.
func (f *Frame) IsCompound() bool {
	for _, c := range f.Columns {
		if len(c) > 1 {
			return true
		}
	}
	return false
}

// Flatten collapses compound column keys to their outer level, discarding
// the per-symbol inner level. When several columns share an outer label
// only the first is kept, so the result is always single-level.
func (f *Frame) Flatten() *Frame {
	if f == nil {
		return nil
	}

	keep := make([]int, 0, len(f.Columns))
	seen := make(map[string]struct{}, len(f.Columns))
	for i, c := range f.Columns {
		name := c.Outer()
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		keep = append(keep, i)
	}

	out := &Frame{
		Columns: make([]ColumnKey, len(keep)),
		Index:   f.Index,
		Data:    make([][]*json.Number, len(f.Data)),
	}
	for j, i := range keep {
		out.Columns[j] = ColumnKey{f.Columns[i].Outer()}
	}
	for r, row := range f.Data {
		flat := make([]*json.Number, len(keep))
		for j, i := range keep {
			if i < len(row) {
				flat[j] = row[i]
			}
		}
		out.Data[r] = flat
	}
	return out
}

// ColumnIndex finds a column by its outer label, case-insensitively.
func (f *Frame) ColumnIndex(name string) (int, bool) {
	for i, c := range f.Columns {
		if strings.EqualFold(c.Outer(), name) {
			return i, true
		}
	}
	return -1, false
}

// Bars reads Open/High/Low/Close from a single-level frame. Rows with a
// missing or negative cell are skipped (holidays, halted sessions) and the
// result is sorted chronologically.
func (f *Frame) Bars() ([]domain.PriceBar, error) {
	if f.Empty() {
		return nil, nil
	}
	if f.IsCompound() {
		return nil, fmt.Errorf("frame has compound columns, flatten it first")
	}

	var idx [4]int
	for n, name := range []string{ColumnOpen, ColumnHigh, ColumnLow, ColumnClose} {
		i, ok := f.ColumnIndex(name)
		if !ok {
			return nil, fmt.Errorf("frame is missing column %s", name)
		}
		idx[n] = i
	}

	bars := make([]domain.PriceBar, 0, len(f.Data))
	for r, row := range f.Data {
		if r >= len(f.Index) {
			break
		}
		var values [4]domain.Decimal
		complete := true
		for n, i := range idx {
			d, ok := cell(row, i)
			if !ok {
				complete = false
				break
			}
			values[n] = d
		}
		if !complete {
			continue
		}
		bars = append(bars, domain.PriceBar{
			Time:  f.Index[r].Time(),
			Open:  values[0],
			High:  values[1],
			Low:   values[2],
			Close: values[3],
		})
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func cell(row []*json.Number, i int) (domain.Decimal, bool) {
	if i >= len(row) || row[i] == nil {
		return domain.Decimal{}, false
	}
	d, err := domain.NewDecimalFromString(row[i].String())
	if err != nil || d.IsNegative() {
		return domain.Decimal{}, false
	}
	return d, true
}

// FrameBuilder assembles a single-level frame from column slices, for
// providers whose payload is not already tabular.
type FrameBuilder struct {
	frame Frame
}

func NewFrameBuilder(columns ...string) *FrameBuilder {
	b := &FrameBuilder{}
	for _, c := range columns {
		b.frame.Columns = append(b.frame.Columns, ColumnKey{c})
	}
	return b
}

// AddRow appends one row; nil values become missing cells.
func (b *FrameBuilder) AddRow(t time.Time, values ...*float64) *FrameBuilder {
	row := make([]*json.Number, len(b.frame.Columns))
	for i := range row {
		if i < len(values) && values[i] != nil {
			n := json.Number(strconv.FormatFloat(*values[i], 'f', -1, 64))
			row[i] = &n
		}
	}
	b.frame.Index = append(b.frame.Index, FrameIndex(t))
	b.frame.Data = append(b.frame.Data, row)
	return b
}

// AddTextRow appends one row of decimal strings; empty strings become
// missing cells.
func (b *FrameBuilder) AddTextRow(t time.Time, values ...string) *FrameBuilder {
	row := make([]*json.Number, len(b.frame.Columns))
	for i := range row {
		if i < len(values) && strings.TrimSpace(values[i]) != "" {
			n := json.Number(strings.TrimSpace(values[i]))
			row[i] = &n
		}
	}
	b.frame.Index = append(b.frame.Index, FrameIndex(t))
	b.frame.Data = append(b.frame.Data, row)
	return b
}

func (b *FrameBuilder) Build() *Frame {
	f := b.frame
	return &f
}
