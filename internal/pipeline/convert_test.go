package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func writeXLSX(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func TestConvertXLSXDir(t *testing.T) {
	tmp := t.TempDir()
	xlsxDir := filepath.Join(tmp, "xlsx")
	csvDir := filepath.Join(tmp, "csv")
	if err := os.MkdirAll(xlsxDir, 0o755); err != nil {
		t.Fatal(err)
	}

	writeXLSX(t, filepath.Join(xlsxDir, "contracts_2016.xlsx"), [][]any{
		{"contract_id", "cost_php"},
		{"16A00001", 5000000},
	})

	count, err := ConvertXLSXDir(xlsxDir, csvDir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("count=%d", count)
	}

	f, err := os.Open(filepath.Join(csvDir, "contracts_2016.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[1][0] != "16A00001" {
		t.Fatalf("rows=%v", rows)
	}
}
