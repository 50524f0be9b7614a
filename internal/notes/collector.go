package notes

import (
	"fmt"
	"strings"
)

// DefaultMaxLen caps the serialized length of one note column.
const DefaultMaxLen = 500

// Collector holds the four ordered note buckets of one row. The zero
// value is ready to use. Collectors are never shared across rows.
type Collector struct {
	critical []string
	errors   []string
	warnings []string
	info     []string
}

// Add formats a note as "CODE: message" and appends it to the bucket
// selected by the code's severity.
func (c *Collector) Add(n Note) {
	entry := fmt.Sprintf("%s: %s", n.Code, n.Message)
	switch n.Code.Severity() {
	case Critical:
		c.critical = append(c.critical, entry)
	case Error:
		c.errors = append(c.errors, entry)
	case Warning:
		c.warnings = append(c.warnings, entry)
	case Info:
		c.info = append(c.info, entry)
	}
}

func (c *Collector) HasCritical() bool { return len(c.critical) > 0 }

// Columns holds the four serialized note buckets attached to a record.
// A bucket with no notes serializes to nil.
type Columns struct {
	Critical *string
	Errors   *string
	Warnings *string
	Info     *string
}

// Columns serializes all four buckets, each capped at maxLen characters.
func (c *Collector) Columns(maxLen int) Columns {
	return Columns{
		Critical: serialize(c.critical, maxLen),
		Errors:   serialize(c.errors, maxLen),
		Warnings: serialize(c.warnings, maxLen),
		Info:     serialize(c.info, maxLen),
	}
}

// Merge appends another collector's already-serialized columns, one
// entry per bucket. The sub-collector's internal structure is flattened
// into a single entry rather than exploded back into individual notes.
func (c *Collector) Merge(other Columns) {
	if other.Critical != nil {
		c.critical = append(c.critical, *other.Critical)
	}
	if other.Errors != nil {
		c.errors = append(c.errors, *other.Errors)
	}
	if other.Warnings != nil {
		c.warnings = append(c.warnings, *other.Warnings)
	}
	if other.Info != nil {
		c.info = append(c.info, *other.Info)
	}
}

func serialize(entries []string, maxLen int) *string {
	if len(entries) == 0 {
		return nil
	}
	joined := strings.Join(entries, " | ")
	if r := []rune(joined); len(r) > maxLen {
		joined = string(r[:maxLen-3]) + "..."
	}
	return &joined
}
