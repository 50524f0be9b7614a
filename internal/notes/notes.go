// Package notes accumulates data-quality defects for one contract row,
// bucketed into four severities. A Collector is row-scoped: it is created
// when assembly of a row starts and discarded after its buckets are
// flattened into the record's note columns.
package notes

import (
	"fmt"
	"strings"
)

type Severity int

const (
	Critical Severity = iota
	Error
	Warning
	Info
)

// Code is the stable identifier of one defect class. The severity is
// fixed by the code's prefix.
type Code string

const (
	CodeMissingContractID  Code = "ERR-001"
	CodeMissingDescription Code = "ERR-002"
	CodeMissingContractor  Code = "ERR-003"
	CodeMissingOffice      Code = "ERR-004"
	CodeMissingFunds       Code = "ERR-005"

	CodeEmptyCost           Code = "WARN-011"
	CodeEmptyEffectivity    Code = "WARN-012"
	CodeEmptyExpiry         Code = "WARN-013"
	CodeEmptyStatus         Code = "WARN-014"
	CodeEmptyAccomplishment Code = "WARN-015"

	CodeInvalidCost          Code = "ERR-021"
	CodeNegativeCost         Code = "ERR-022"
	CodeInvalidPercentage    Code = "ERR-023"
	CodePercentageOutOfRange Code = "ERR-024"

	CodeInvalidEffectivity Code = "ERR-031"
	CodeInvalidExpiry      Code = "ERR-032"

	CodeExtraContractors        Code = "WARN-041"
	CodeContractorMissingID     Code = "ERR-042"
	CodeContractorNameHasSlash  Code = "WARN-043"
	CodeContractorNameTruncated Code = "WARN-044"
	CodeJointVenture            Code = "INFO-045"

	CodeNoContractTbody Code = "CRIT-051"
	CodeNoRowInTbody    Code = "CRIT-052"
)

func (c Code) Severity() Severity {
	switch {
	case strings.HasPrefix(string(c), "CRIT-"):
		return Critical
	case strings.HasPrefix(string(c), "ERR-"):
		return Error
	case strings.HasPrefix(string(c), "WARN-"):
		return Warning
	default:
		return Info
	}
}

var descriptions = map[Code]string{
	CodeMissingContractID:       "Missing contract ID",
	CodeMissingDescription:      "Missing contract description",
	CodeMissingContractor:       "Missing contractor information",
	CodeMissingOffice:           "Missing implementing office",
	CodeMissingFunds:            "Missing source of funds",
	CodeEmptyCost:               "Empty cost field",
	CodeEmptyEffectivity:        "Empty effectivity date",
	CodeEmptyExpiry:             "Empty expiry date",
	CodeEmptyStatus:             "Empty status field",
	CodeEmptyAccomplishment:     "Empty accomplishment field",
	CodeInvalidCost:             "Invalid cost format",
	CodeNegativeCost:            "Negative cost value",
	CodeInvalidPercentage:       "Invalid percentage format",
	CodePercentageOutOfRange:    "Percentage out of range",
	CodeInvalidEffectivity:      "Invalid effectivity date format",
	CodeInvalidExpiry:           "Invalid expiry date format",
	CodeExtraContractors:        "Multiple contractors found, excess combined in column 4",
	CodeContractorMissingID:     "Contractor missing ID code",
	CodeContractorNameHasSlash:  "Contractor name contains slash",
	CodeContractorNameTruncated: "Contractor name appears truncated",
	CodeJointVenture:            "Joint venture",
	CodeNoContractTbody:         "No contract tbody found",
	CodeNoRowInTbody:            "No tr element in tbody",
}

// Description returns the short human description of a code, or "" for
// codes outside the catalog.
func (c Code) Description() string { return descriptions[c] }

// Note is one formatted defect. Notes are built by the constructor
// functions below, one per code, so every message is resolved with
// explicit arguments at the call site.
type Note struct {
	Code    Code
	Message string
}

func MissingContractID() Note  { return Note{CodeMissingContractID, "Missing contract ID"} }
func MissingDescription() Note { return Note{CodeMissingDescription, "Missing contract description"} }
func MissingContractor() Note  { return Note{CodeMissingContractor, "Missing contractor information"} }
func MissingOffice() Note      { return Note{CodeMissingOffice, "Missing implementing office"} }
func MissingFunds() Note       { return Note{CodeMissingFunds, "Missing source of funds"} }

func EmptyCost() Note           { return Note{CodeEmptyCost, "Empty cost field"} }
func EmptyEffectivity() Note    { return Note{CodeEmptyEffectivity, "Empty effectivity date"} }
func EmptyExpiry() Note         { return Note{CodeEmptyExpiry, "Empty expiry date"} }
func EmptyStatus() Note         { return Note{CodeEmptyStatus, "Empty status field"} }
func EmptyAccomplishment() Note { return Note{CodeEmptyAccomplishment, "Empty accomplishment field"} }

func InvalidCost(value string) Note {
	return Note{CodeInvalidCost, fmt.Sprintf("Invalid cost format: '%s'", value)}
}

func NegativeCost(value float64) Note {
	return Note{CodeNegativeCost, fmt.Sprintf("Negative cost value: %g", value)}
}

func InvalidPercentage(value string) Note {
	return Note{CodeInvalidPercentage, fmt.Sprintf("Invalid percentage format: '%s'", value)}
}

func PercentageOutOfRange(value float64) Note {
	return Note{CodePercentageOutOfRange, fmt.Sprintf("Percentage out of range: %g", value)}
}

func InvalidEffectivity(value string) Note {
	return Note{CodeInvalidEffectivity, fmt.Sprintf("Invalid effectivity date format: '%s'", value)}
}

func InvalidExpiry(value string) Note {
	return Note{CodeInvalidExpiry, fmt.Sprintf("Invalid expiry date format: '%s'", value)}
}

func ExtraContractors(count int) Note {
	return Note{CodeExtraContractors, fmt.Sprintf("%d contractors found, stored in 4 columns (excess combined in column 4)", count)}
}

func ContractorMissingID(name string) Note {
	return Note{CodeContractorMissingID, fmt.Sprintf("Contractor missing ID code: '%s'", clip(name, 30))}
}

func ContractorNameHasSlash(name string) Note {
	return Note{CodeContractorNameHasSlash, fmt.Sprintf("Contractor name contains slash (/) - may need manual review: '%s'", clip(name, 50))}
}

func ContractorNameTruncated(name string) Note {
	return Note{CodeContractorNameTruncated, fmt.Sprintf("Contractor name appears truncated: '%s'", clip(name, 50))}
}

func JointVenture(count int) Note {
	return Note{CodeJointVenture, fmt.Sprintf("Joint venture with %d contractors", count)}
}

func NoContractTbody() Note { return Note{CodeNoContractTbody, "No contract tbody found"} }
func NoRowInTbody() Note    { return Note{CodeNoRowInTbody, "No tr element in tbody"} }

func clip(s string, max int) string {
	if s == "" {
		return "Unknown"
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
