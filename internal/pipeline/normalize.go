package pipeline

import (
	"strconv"
	"strings"

	"github.com/araddon/dateparse"

	"dpwhparse/internal/notes"
	"dpwhparse/internal/util"
)

// CleanCost converts a raw cost cell to a number. Thousands-separator
// commas are stripped before parsing. A negative or unparseable value is
// discarded and noted.
func CleanCost(raw *string) (*float64, notes.Columns) {
	col := &notes.Collector{}

	if isBlank(raw) {
		col.Add(notes.EmptyCost())
		return nil, col.Columns(notes.DefaultMaxLen)
	}

	cleaned := strings.TrimSpace(strings.ReplaceAll(*raw, ",", ""))
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		col.Add(notes.InvalidCost(*raw))
		return nil, col.Columns(notes.DefaultMaxLen)
	}
	if value < 0 {
		col.Add(notes.NegativeCost(value))
		return nil, col.Columns(notes.DefaultMaxLen)
	}

	return util.FloatPtr(value), col.Columns(notes.DefaultMaxLen)
}

// DateField selects the note codes a date normalizer emits.
type DateField string

const (
	DateEffectivity DateField = "effectivity"
	DateExpiry      DateField = "expiry"
)

// ParseDate canonicalizes a raw date cell to YYYY-MM-DD. The source data
// mixes day/month/year orderings and textual month names, so parsing is
// permissive free-text.
func ParseDate(raw *string, field DateField) (*string, notes.Columns) {
	col := &notes.Collector{}

	if isBlank(raw) {
		if field == DateEffectivity {
			col.Add(notes.EmptyEffectivity())
		} else {
			col.Add(notes.EmptyExpiry())
		}
		return nil, col.Columns(notes.DefaultMaxLen)
	}

	parsed, err := dateparse.ParseAny(strings.TrimSpace(*raw))
	if err != nil {
		if field == DateEffectivity {
			col.Add(notes.InvalidEffectivity(*raw))
		} else {
			col.Add(notes.InvalidExpiry(*raw))
		}
		return nil, col.Columns(notes.DefaultMaxLen)
	}

	return util.StringPtr(parsed.Format("2006-01-02")), col.Columns(notes.DefaultMaxLen)
}

// CleanPercentage converts a raw accomplishment cell to a number. An
// empty cell is a valid "not started" state, not a defect. A value
// outside [0,100] is retained alongside its note so downstream review
// still sees the raw figure.
func CleanPercentage(raw *string) (*float64, notes.Columns) {
	col := &notes.Collector{}

	if isBlank(raw) {
		return nil, col.Columns(notes.DefaultMaxLen)
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
	if err != nil {
		col.Add(notes.InvalidPercentage(*raw))
		return nil, col.Columns(notes.DefaultMaxLen)
	}
	if value < 0 || value > 100 {
		col.Add(notes.PercentageOutOfRange(value))
	}

	return util.FloatPtr(value), col.Columns(notes.DefaultMaxLen)
}

func isBlank(v *string) bool {
	return v == nil || strings.TrimSpace(*v) == ""
}
