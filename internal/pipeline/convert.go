package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ConvertXLSXDir converts every workbook under xlsxDir to CSV files in
// csvDir, one per sheet. A workbook that fails to open is logged and
// skipped. Returns the number of CSV files written.
func ConvertXLSXDir(xlsxDir, csvDir string, log *zap.Logger) (int, error) {
	paths, err := filepath.Glob(filepath.Join(xlsxDir, "*.xlsx"))
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(csvDir, 0o755); err != nil {
		return 0, err
	}

	total := 0
	for _, path := range paths {
		written, err := convertWorkbook(path, csvDir)
		if err != nil {
			log.Error("workbook conversion failed",
				zap.String("file", filepath.Base(path)),
				zap.Error(err))
			continue
		}
		log.Info("workbook converted",
			zap.String("file", filepath.Base(path)),
			zap.Int("sheets", written))
		total += written
	}
	return total, nil
}

func convertWorkbook(path, outDir string) (int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	sheets := f.GetSheetList()

	written := 0
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return written, fmt.Errorf("sheet %s: %w", sheet, err)
		}

		name := stem + ".csv"
		if len(sheets) > 1 {
			name = stem + "_" + sheet + ".csv"
		}
		if err := writeRawCSV(rows, filepath.Join(outDir, name)); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func writeRawCSV(rows [][]string, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
