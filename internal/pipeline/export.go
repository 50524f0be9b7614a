package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"dpwhparse/internal"
)

// WriteCSV writes records in the fixed 26-column order.
func WriteCSV(records []internal.ContractRecord, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(internal.CSVFields); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write(csvRow(r)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func csvRow(r internal.ContractRecord) []string {
	return []string{
		derefString(r.RowNumber), derefString(r.ContractID), derefString(r.Description),
		derefString(r.ContractorName1), derefString(r.ContractorID1),
		derefString(r.ContractorName2), derefString(r.ContractorID2),
		derefString(r.ContractorName3), derefString(r.ContractorID3),
		derefString(r.ContractorName4), derefString(r.ContractorID4),
		derefString(r.Region), derefString(r.ImplementingOffice), derefString(r.SourceOfFunds),
		formatFloat(r.CostPHP), derefString(r.EffectivityDate), derefString(r.ExpiryDate),
		derefString(r.Status), formatFloat(r.AccomplishmentPct),
		strconv.Itoa(r.Year), r.SourceOffice, r.FileSource,
		derefString(r.CriticalErrors), derefString(r.Errors), derefString(r.Warnings), derefString(r.InfoNotes),
	}
}

// ExportRecordsToXLSX writes records to a workbook with the same column
// layout as the CSV export.
func ExportRecordsToXLSX(records []internal.ContractRecord, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, h := range internal.CSVFields {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, r := range records {
		row := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, derefString(r.RowNumber))
		set(2, derefString(r.ContractID))
		set(3, derefString(r.Description))
		set(4, derefString(r.ContractorName1))
		set(5, derefString(r.ContractorID1))
		set(6, derefString(r.ContractorName2))
		set(7, derefString(r.ContractorID2))
		set(8, derefString(r.ContractorName3))
		set(9, derefString(r.ContractorID3))
		set(10, derefString(r.ContractorName4))
		set(11, derefString(r.ContractorID4))
		set(12, derefString(r.Region))
		set(13, derefString(r.ImplementingOffice))
		set(14, derefString(r.SourceOfFunds))
		set(15, derefFloat(r.CostPHP))
		set(16, derefString(r.EffectivityDate))
		set(17, derefString(r.ExpiryDate))
		set(18, derefString(r.Status))
		set(19, derefFloat(r.AccomplishmentPct))
		set(20, r.Year)
		set(21, r.SourceOffice)
		set(22, r.FileSource)
		set(23, derefString(r.CriticalErrors))
		set(24, derefString(r.Errors))
		set(25, derefString(r.Warnings))
		set(26, derefString(r.InfoNotes))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefFloat(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
