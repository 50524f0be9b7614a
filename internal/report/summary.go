// Package report aggregates already-extracted contract records into
// per-year summaries. It consumes the record shape only; it never
// re-parses anything.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"dpwhparse/internal"
	"dpwhparse/internal/notes"
)

// YearStats holds aggregate counters for one year of records.
type YearStats struct {
	TotalContracts int
	CriticalErrors int
	Errors         int
	Warnings       int
	Clean          int

	ByOffice map[string]int
	ByRegion map[string]int
	ByStatus map[string]int

	TotalCost         float64
	ContractsWithCost int

	CriticalTypes map[notes.Code]int
	ErrorTypes    map[notes.Code]int
	WarningTypes  map[notes.Code]int
	InfoTypes     map[notes.Code]int
}

func newYearStats() *YearStats {
	return &YearStats{
		ByOffice:      map[string]int{},
		ByRegion:      map[string]int{},
		ByStatus:      map[string]int{},
		CriticalTypes: map[notes.Code]int{},
		ErrorTypes:    map[notes.Code]int{},
		WarningTypes:  map[notes.Code]int{},
		InfoTypes:     map[notes.Code]int{},
	}
}

// Collect groups records by year and tallies quality, status, office and
// cost statistics.
func Collect(records []internal.ContractRecord) map[int]*YearStats {
	years := map[int]*YearStats{}
	for _, r := range records {
		stats := years[r.Year]
		if stats == nil {
			stats = newYearStats()
			years[r.Year] = stats
		}

		stats.TotalContracts++
		dirty := false
		if r.CriticalErrors != nil {
			stats.CriticalErrors++
			countCodes(*r.CriticalErrors, stats.CriticalTypes)
			dirty = true
		}
		if r.Errors != nil {
			stats.Errors++
			countCodes(*r.Errors, stats.ErrorTypes)
			dirty = true
		}
		if r.Warnings != nil {
			stats.Warnings++
			countCodes(*r.Warnings, stats.WarningTypes)
			dirty = true
		}
		if r.InfoNotes != nil {
			countCodes(*r.InfoNotes, stats.InfoTypes)
		}
		if !dirty {
			stats.Clean++
		}

		stats.ByOffice[r.SourceOffice]++
		stats.ByRegion[orUnknown(r.Region)]++
		stats.ByStatus[orUnknown(r.Status)]++

		if r.CostPHP != nil {
			stats.TotalCost += *r.CostPHP
			stats.ContractsWithCost++
		}
	}
	return years
}

// countCodes splits a serialized note column on " | " entries and tallies
// the code before each ":".
func countCodes(cell string, dst map[notes.Code]int) {
	for _, entry := range strings.Split(cell, "|") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		code, _, _ := strings.Cut(entry, ":")
		dst[notes.Code(strings.TrimSpace(code))]++
	}
}

func orUnknown(v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return "Unknown"
	}
	return *v
}

// Markdown renders the per-year summary document.
func Markdown(years map[int]*YearStats, now time.Time) string {
	var b strings.Builder

	b.WriteString("# DPWH Contracts Data Summary\n")
	fmt.Fprintf(&b, "\nGenerated: %s\n", now.Format("2006-01-02 15:04:05"))
	b.WriteString("\n---\n\n")

	sortedYears := make([]int, 0, len(years))
	for year := range years {
		sortedYears = append(sortedYears, year)
	}
	sort.Ints(sortedYears)

	totalAll, totalCostAll := 0, 0.0
	totalClean, totalCritical, totalErrors, totalWarnings := 0, 0, 0, 0
	for _, stats := range years {
		totalAll += stats.TotalContracts
		totalCostAll += stats.TotalCost
		totalClean += stats.Clean
		totalCritical += stats.CriticalErrors
		totalErrors += stats.Errors
		totalWarnings += stats.Warnings
	}

	b.WriteString("## Overall Summary\n\n")
	fmt.Fprintf(&b, "- **Total Contracts Parsed**: %d\n", totalAll)
	fmt.Fprintf(&b, "- **Total Contract Value**: PHP %.2f\n", totalCostAll)
	if len(sortedYears) > 0 {
		fmt.Fprintf(&b, "- **Years Covered**: %d - %d\n", sortedYears[0], sortedYears[len(sortedYears)-1])
	}
	fmt.Fprintf(&b, "- **Number of Years**: %d\n\n", len(years))

	if totalAll > 0 {
		b.WriteString("**Total Data Quality (All Years):**\n")
		fmt.Fprintf(&b, "- Clean Contracts: %d (%.1f%%)\n", totalClean, pct(totalClean, totalAll))
		fmt.Fprintf(&b, "- Contracts with Critical Errors: %d\n", totalCritical)
		fmt.Fprintf(&b, "- Contracts with Errors: %d\n", totalErrors)
		fmt.Fprintf(&b, "- Contracts with Warnings: %d\n\n", totalWarnings)
	}

	b.WriteString("## Per-Year Breakdown\n\n")
	for _, year := range sortedYears {
		stats := years[year]
		fmt.Fprintf(&b, "### %d\n\n", year)

		b.WriteString("**Contract Statistics:**\n")
		fmt.Fprintf(&b, "- Total Contracts: %d\n", stats.TotalContracts)
		fmt.Fprintf(&b, "- Clean Contracts: %d (%.1f%%)\n", stats.Clean, pct(stats.Clean, stats.TotalContracts))
		fmt.Fprintf(&b, "- Contracts with Critical Errors: %d\n", stats.CriticalErrors)
		fmt.Fprintf(&b, "- Contracts with Errors: %d\n", stats.Errors)
		fmt.Fprintf(&b, "- Contracts with Warnings: %d\n\n", stats.Warnings)

		writeCodeBreakdown(&b, "Critical Error Breakdown", stats.CriticalTypes)
		writeCodeBreakdown(&b, "Error Breakdown", stats.ErrorTypes)
		writeCodeBreakdown(&b, "Warning Breakdown", stats.WarningTypes)
		writeCodeBreakdown(&b, "Info Breakdown", stats.InfoTypes)

		b.WriteString("**Financial Statistics:**\n")
		if stats.ContractsWithCost > 0 {
			fmt.Fprintf(&b, "- Total Contract Value: PHP %.2f\n", stats.TotalCost)
			fmt.Fprintf(&b, "- Contracts with Cost Data: %d (%.1f%%)\n",
				stats.ContractsWithCost, pct(stats.ContractsWithCost, stats.TotalContracts))
			fmt.Fprintf(&b, "- Average Contract Value: PHP %.2f\n", stats.TotalCost/float64(stats.ContractsWithCost))
		} else {
			b.WriteString("- No cost data available\n")
		}
		b.WriteString("\n")

		b.WriteString("**By Source Office (Top 10):**\n")
		offices := topCounts(stats.ByOffice, 10)
		for _, kv := range offices {
			fmt.Fprintf(&b, "- %s: %d (%.1f%%)\n", kv.key, kv.count, pct(kv.count, stats.TotalContracts))
		}
		if len(stats.ByOffice) > 10 {
			fmt.Fprintf(&b, "- ... and %d more offices\n", len(stats.ByOffice)-10)
		}
		b.WriteString("\n")

		b.WriteString("**By Contract Status:**\n")
		for _, kv := range topCounts(stats.ByStatus, len(stats.ByStatus)) {
			fmt.Fprintf(&b, "- %s: %d (%.1f%%)\n", kv.key, kv.count, pct(kv.count, stats.TotalContracts))
		}
		b.WriteString("\n---\n\n")
	}

	return b.String()
}

func writeCodeBreakdown(b *strings.Builder, title string, types map[notes.Code]int) {
	if len(types) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s:**\n", title)

	codes := make([]notes.Code, 0, len(types))
	for code := range types {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if types[codes[i]] != types[codes[j]] {
			return types[codes[i]] > types[codes[j]]
		}
		return codes[i] < codes[j]
	})

	for _, code := range codes {
		if desc := code.Description(); desc != "" {
			fmt.Fprintf(b, "  - %s (%s): %d\n", code, desc, types[code])
		} else {
			fmt.Fprintf(b, "  - %s: %d\n", code, types[code])
		}
	}
	b.WriteString("\n")
}

type keyCount struct {
	key   string
	count int
}

func topCounts(m map[string]int, limit int) []keyCount {
	out := make([]keyCount, 0, len(m))
	for k, v := range m {
		out = append(out, keyCount{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
