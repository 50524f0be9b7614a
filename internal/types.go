package internal

// ContractorEntry is one contractor parsed out of the raw contractor cell.
// ID is the parenthesized numeric code when one was found. HasStraySlash
// flags a slash surviving inside the name after joint-venture splitting;
// IsTruncated flags a name with unbalanced parentheses or an entry
// recovered by the fallback scan, both marked with a trailing "~".
type ContractorEntry struct {
	Name          string
	ID            *string
	HasStraySlash bool
	IsTruncated   bool
}

// SourceFile ties one scraped table file to the year and office encoded
// in its filename.
type SourceFile struct {
	Path   string
	Year   int
	Office string
}

// ContractRecord is the assembled output for one contract row. Optional
// fields are nil when the source cell was absent or failed to parse; the
// defect is recorded in the note columns instead.
type ContractRecord struct {
	RowNumber   *string
	ContractID  *string
	Description *string

	ContractorName1 *string
	ContractorID1   *string
	ContractorName2 *string
	ContractorID2   *string
	ContractorName3 *string
	ContractorID3   *string
	ContractorName4 *string
	ContractorID4   *string

	Region             *string
	ImplementingOffice *string
	SourceOfFunds      *string
	CostPHP            *float64
	EffectivityDate    *string
	ExpiryDate         *string
	Status             *string
	AccomplishmentPct  *float64

	Year         int
	SourceOffice string
	FileSource   string

	CriticalErrors *string
	Errors         *string
	Warnings       *string
	InfoNotes      *string
}

// CSVFields is the fixed column order of every exported file.
var CSVFields = []string{
	"row_number", "contract_id", "description",
	"contractor_name_1", "contractor_id_1",
	"contractor_name_2", "contractor_id_2",
	"contractor_name_3", "contractor_id_3",
	"contractor_name_4", "contractor_id_4",
	"region", "implementing_office", "source_of_funds",
	"cost_php", "effectivity_date", "expiry_date",
	"status", "accomplishment_pct",
	"year", "source_office", "file_source",
	"critical_errors", "errors", "warnings", "info_notes",
}
