package pipeline

import (
	"regexp"
	"strings"

	"dpwhparse/internal"
	"dpwhparse/internal/notes"
	"dpwhparse/internal/util"
)

const maxContractorSlots = 4

var (
	// One contractor ends at a parenthesized numeric ID, optionally
	// preceded by a parenthesized former-name clause. Splitting keys off
	// the ID match rather than the slash because names may legitimately
	// contain both parentheses and slashes.
	contractorPattern = regexp.MustCompile(`(.*?\(.*?\))?\s*\((\d+)\)`)
	trailingIDPattern = regexp.MustCompile(`\((\d+)\)\s*$`)
	anyIDPattern      = regexp.MustCompile(`\((\d+)\)`)
)

// ParseContractors splits a raw contractor cell into individual entries.
// A single contractor looks like "NAME (ID)"; a joint venture is
// "NAME1 (ID1) / NAME2 (ID2) / ...". Each ID match closes one entry whose
// span runs from the end of the previous match to the end of the current
// one.
func ParseContractors(text string) []internal.ContractorEntry {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	matches := contractorPattern.FindAllStringIndex(text, -1)
	entries := make([]internal.ContractorEntry, 0, len(matches))
	lastEnd := 0
	for _, m := range matches {
		span := strings.TrimSpace(text[lastEnd:m[1]])
		lastEnd = m[1]
		entries = append(entries, parseContractorSpan(span))
	}
	return entries
}

func parseContractorSpan(span string) internal.ContractorEntry {
	if loc := trailingIDPattern.FindStringSubmatchIndex(span); loc != nil {
		id := span[loc[2]:loc[3]]
		name := strings.TrimSpace(span[:loc[0]])
		name = strings.TrimSpace(strings.TrimLeft(name, "/"))

		entry := internal.ContractorEntry{Name: name, ID: &id}
		if strings.Count(name, "(") != strings.Count(name, ")") {
			entry.Name = strings.TrimRight(name, " ") + "~"
			entry.IsTruncated = true
		}
		entry.HasStraySlash = strings.Contains(entry.Name, "/")
		return entry
	}

	// No trailing ID group in the span: best-effort recovery from any
	// parenthesized digit group, flagged truncated either way.
	entry := internal.ContractorEntry{IsTruncated: true}
	name := strings.TrimSpace(strings.TrimLeft(span, "/"))
	if loc := anyIDPattern.FindStringSubmatchIndex(span); loc != nil {
		id := span[loc[2]:loc[3]]
		entry.ID = &id
		name = strings.TrimSpace(strings.TrimLeft(span[:loc[0]], "/"))
	}
	entry.HasStraySlash = strings.Contains(name, "/")
	entry.Name = strings.TrimRight(name, " ") + "~"
	return entry
}

// ContractorSlots holds the four fixed contractor columns of a record.
type ContractorSlots struct {
	Names [maxContractorSlots]*string
	IDs   [maxContractorSlots]*string
}

// ContractorColumns parses the raw contractor cell and assigns entries to
// the four output slots. Entries 1-3 map to slots 1-3; slot 4 absorbs all
// remaining entries, names and IDs joined by "; " (a missing ID
// contributes an empty segment).
func ContractorColumns(text *string) (ContractorSlots, notes.Columns) {
	col := &notes.Collector{}
	var slots ContractorSlots

	if isBlank(text) {
		col.Add(notes.MissingContractor())
		return slots, col.Columns(notes.DefaultMaxLen)
	}

	entries := ParseContractors(*text)

	for i := 0; i < maxContractorSlots-1 && i < len(entries); i++ {
		slots.Names[i] = util.StringPtr(entries[i].Name)
		slots.IDs[i] = entries[i].ID
		addEntryNotes(col, entries[i])
	}

	if len(entries) >= maxContractorSlots {
		names := make([]string, 0, len(entries)-maxContractorSlots+1)
		ids := make([]string, 0, len(entries)-maxContractorSlots+1)
		for _, e := range entries[maxContractorSlots-1:] {
			names = append(names, e.Name)
			if e.ID != nil {
				ids = append(ids, *e.ID)
			} else {
				ids = append(ids, "")
			}
			addEntryNotes(col, e)
		}
		slots.Names[maxContractorSlots-1] = util.StringPtr(strings.Join(names, "; "))
		slots.IDs[maxContractorSlots-1] = util.StringPtr(strings.Join(ids, "; "))
		if len(entries) > maxContractorSlots {
			col.Add(notes.ExtraContractors(len(entries)))
		}
	}

	if len(entries) > 1 {
		col.Add(notes.JointVenture(len(entries)))
	}

	return slots, col.Columns(notes.DefaultMaxLen)
}

func addEntryNotes(col *notes.Collector, e internal.ContractorEntry) {
	if e.ID == nil {
		col.Add(notes.ContractorMissingID(e.Name))
	}
	if e.HasStraySlash {
		col.Add(notes.ContractorNameHasSlash(e.Name))
	}
	if e.IsTruncated {
		col.Add(notes.ContractorNameTruncated(e.Name))
	}
}
