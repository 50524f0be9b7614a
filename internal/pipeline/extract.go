package pipeline

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"dpwhparse/internal"
	"dpwhparse/internal/notes"
	"dpwhparse/internal/util"
)

// Marker fragments identifying each labeled span inside a contract row.
// The source site renders rows from an ASP.NET template, so element IDs
// are only stable as substrings.
const (
	markerContractID     = "lblCustomerId"
	markerDescription    = "lblContactName"
	markerContractor     = "lblCountry"
	markerOffice         = "Label5"
	markerFunds          = "Label6"
	markerCost           = "Label2"
	markerEffectivity    = "Label3"
	markerExpiry         = "Label4"
	markerStatus         = "Label7"
	markerAccomplishment = "Label1"
)

// SpanByMarker returns the trimmed text of the first span whose id
// contains the marker fragment, or nil when no such span exists. Absence
// is a normal outcome; callers decide whether it is a defect.
func SpanByMarker(row *goquery.Selection, marker string) *string {
	span := row.Find("span[id*='" + marker + "']").First()
	if span.Length() == 0 {
		return nil
	}
	return util.StringPtr(strings.TrimSpace(span.Text()))
}

// ContractRows returns the tbody selections holding one contract each.
// A tbody whose first tr lacks a row-scoped header cell is structurally
// broken and excluded entirely; it can produce no record.
func ContractRows(doc *goquery.Document) []*goquery.Selection {
	var out []*goquery.Selection
	doc.Find("tbody.table-group-divider").Each(func(_ int, tbody *goquery.Selection) {
		tr := tbody.Find("tr").First()
		if tr.Length() > 0 && tr.Find("th[scope='row']").Length() > 0 {
			out = append(out, tbody)
		}
	})
	return out
}

// AssembleRecord extracts every field of one contract tbody into a
// record. Field-level failures never abort assembly; each one lands in
// the record's note columns. A nil return means the tbody had no tr at
// all (CRIT-052); the caller logs and skips it.
func AssembleRecord(tbody *goquery.Selection, year int, office, filename string) *internal.ContractRecord {
	tr := tbody.Find("tr").First()
	if tr.Length() == 0 {
		return nil
	}

	record := internal.ContractRecord{Year: year, SourceOffice: office, FileSource: filename}
	col := &notes.Collector{}

	if th := tr.Find("th[scope='row']").First(); th.Length() > 0 {
		record.RowNumber = util.StringPtr(strings.TrimRight(strings.TrimSpace(th.Text()), "."))
	}

	record.ContractID = SpanByMarker(tr, markerContractID)
	if isBlank(record.ContractID) {
		col.Add(notes.MissingContractID())
	}

	record.Description = SpanByMarker(tr, markerDescription)
	if isBlank(record.Description) {
		col.Add(notes.MissingDescription())
	}

	slots, contractorCols := ContractorColumns(SpanByMarker(tr, markerContractor))
	record.ContractorName1, record.ContractorID1 = slots.Names[0], slots.IDs[0]
	record.ContractorName2, record.ContractorID2 = slots.Names[1], slots.IDs[1]
	record.ContractorName3, record.ContractorID3 = slots.Names[2], slots.IDs[2]
	record.ContractorName4, record.ContractorID4 = slots.Names[3], slots.IDs[3]
	col.Merge(contractorCols)

	if officeRaw := SpanByMarker(tr, markerOffice); isBlank(officeRaw) {
		col.Add(notes.MissingOffice())
	} else {
		record.Region, record.ImplementingOffice = splitImplementingOffice(*officeRaw)
	}

	record.SourceOfFunds = SpanByMarker(tr, markerFunds)
	if isBlank(record.SourceOfFunds) {
		col.Add(notes.MissingFunds())
	}

	cost, costCols := CleanCost(SpanByMarker(tr, markerCost))
	record.CostPHP = cost
	col.Merge(costCols)

	effectivity, effectivityCols := ParseDate(SpanByMarker(tr, markerEffectivity), DateEffectivity)
	record.EffectivityDate = effectivity
	col.Merge(effectivityCols)

	expiry, expiryCols := ParseDate(SpanByMarker(tr, markerExpiry), DateExpiry)
	record.ExpiryDate = expiry
	col.Merge(expiryCols)

	record.Status = SpanByMarker(tr, markerStatus)
	if isBlank(record.Status) {
		col.Add(notes.EmptyStatus())
	}

	pct, pctCols := CleanPercentage(SpanByMarker(tr, markerAccomplishment))
	record.AccomplishmentPct = pct
	col.Merge(pctCols)

	cols := col.Columns(notes.DefaultMaxLen)
	record.CriticalErrors = cols.Critical
	record.Errors = cols.Errors
	record.Warnings = cols.Warnings
	record.InfoNotes = cols.Info

	return &record
}

// splitImplementingOffice splits "Region - Office Name" on the first
// " - " delimiter. Without a delimiter the whole text is the office.
func splitImplementingOffice(text string) (*string, *string) {
	parts := strings.SplitN(text, " - ", 2)
	if len(parts) == 2 {
		return util.StringPtr(strings.TrimSpace(parts[0])), util.StringPtr(strings.TrimSpace(parts[1]))
	}
	return nil, util.StringPtr(strings.TrimSpace(parts[0]))
}
