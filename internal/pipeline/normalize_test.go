package pipeline

import (
	"strings"
	"testing"

	"dpwhparse/internal/notes"
	"dpwhparse/internal/util"
)

func hasCode(col *string, code notes.Code) bool {
	return col != nil && strings.Contains(*col, string(code)+":")
}

func TestCleanCost(t *testing.T) {
	cases := []struct {
		name     string
		input    *string
		want     *float64
		errCode  notes.Code
		warnCode notes.Code
	}{
		{name: "plain", input: util.StringPtr("1500000"), want: util.FloatPtr(1500000)},
		{name: "thousands commas", input: util.StringPtr("12,345,678.90"), want: util.FloatPtr(12345678.90)},
		{name: "zero", input: util.StringPtr("0"), want: util.FloatPtr(0)},
		{name: "empty", input: util.StringPtr(""), warnCode: notes.CodeEmptyCost},
		{name: "absent", input: nil, warnCode: notes.CodeEmptyCost},
		{name: "garbage", input: util.StringPtr("N/A"), errCode: notes.CodeInvalidCost},
		{name: "negative", input: util.StringPtr("-100"), errCode: notes.CodeNegativeCost},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			value, cols := CleanCost(tc.input)
			if tc.want != nil {
				if value == nil || *value != *tc.want {
					t.Fatalf("value=%v want %v", value, *tc.want)
				}
				if cols.Errors != nil || cols.Warnings != nil {
					t.Fatalf("unexpected notes: %+v", cols)
				}
				return
			}
			if value != nil {
				t.Fatalf("value=%v want nil", *value)
			}
			if tc.errCode != "" && !hasCode(cols.Errors, tc.errCode) {
				t.Fatalf("missing %s in %v", tc.errCode, cols.Errors)
			}
			if tc.warnCode != "" && !hasCode(cols.Warnings, tc.warnCode) {
				t.Fatalf("missing %s in %v", tc.warnCode, cols.Warnings)
			}
		})
	}
}

func TestCleanCostNegativeHasNoOtherNote(t *testing.T) {
	_, cols := CleanCost(util.StringPtr("-100"))
	if cols.Errors == nil || *cols.Errors != "ERR-022: Negative cost value: -100" {
		t.Fatalf("errors=%v", cols.Errors)
	}
	if cols.Warnings != nil || cols.Critical != nil || cols.Info != nil {
		t.Fatalf("unexpected extra notes: %+v", cols)
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "iso", input: "2019-07-01", want: "2019-07-01"},
		{name: "us slash", input: "03/15/2019", want: "2019-03-15"},
		{name: "textual month", input: "March 15, 2019", want: "2019-03-15"},
		{name: "day first textual", input: "15 March 2019", want: "2019-03-15"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			value, cols := ParseDate(util.StringPtr(tc.input), DateEffectivity)
			if value == nil || *value != tc.want {
				t.Fatalf("value=%v want %q", value, tc.want)
			}
			if cols.Errors != nil || cols.Warnings != nil {
				t.Fatalf("unexpected notes: %+v", cols)
			}
		})
	}
}

func TestParseDateFieldCodes(t *testing.T) {
	_, cols := ParseDate(nil, DateEffectivity)
	if !hasCode(cols.Warnings, notes.CodeEmptyEffectivity) {
		t.Fatalf("warnings=%v", cols.Warnings)
	}
	_, cols = ParseDate(util.StringPtr(""), DateExpiry)
	if !hasCode(cols.Warnings, notes.CodeEmptyExpiry) {
		t.Fatalf("warnings=%v", cols.Warnings)
	}

	value, cols := ParseDate(util.StringPtr("not a date"), DateEffectivity)
	if value != nil {
		t.Fatalf("value=%v want nil", *value)
	}
	if !hasCode(cols.Errors, notes.CodeInvalidEffectivity) {
		t.Fatalf("errors=%v", cols.Errors)
	}
	_, cols = ParseDate(util.StringPtr("not a date"), DateExpiry)
	if !hasCode(cols.Errors, notes.CodeInvalidExpiry) {
		t.Fatalf("errors=%v", cols.Errors)
	}
}

func TestCleanPercentage(t *testing.T) {
	// Empty accomplishment is a valid "not started" state, no note.
	value, cols := CleanPercentage(util.StringPtr(""))
	if value != nil {
		t.Fatalf("value=%v want nil", *value)
	}
	if cols.Errors != nil || cols.Warnings != nil {
		t.Fatalf("unexpected notes: %+v", cols)
	}

	value, cols = CleanPercentage(util.StringPtr("87.5"))
	if value == nil || *value != 87.5 {
		t.Fatalf("value=%v", value)
	}
	if cols.Errors != nil {
		t.Fatalf("unexpected errors: %v", cols.Errors)
	}

	value, cols = CleanPercentage(util.StringPtr("abc"))
	if value != nil {
		t.Fatalf("value=%v want nil", *value)
	}
	if !hasCode(cols.Errors, notes.CodeInvalidPercentage) {
		t.Fatalf("errors=%v", cols.Errors)
	}
}

func TestCleanPercentageOutOfRangeRetained(t *testing.T) {
	value, cols := CleanPercentage(util.StringPtr("150"))
	if value == nil || *value != 150.0 {
		t.Fatalf("value=%v want 150", value)
	}
	if !hasCode(cols.Errors, notes.CodePercentageOutOfRange) {
		t.Fatalf("errors=%v", cols.Errors)
	}

	value, cols = CleanPercentage(util.StringPtr("-1"))
	if value == nil || *value != -1.0 {
		t.Fatalf("value=%v want -1", value)
	}
	if !hasCode(cols.Errors, notes.CodePercentageOutOfRange) {
		t.Fatalf("errors=%v", cols.Errors)
	}
}
