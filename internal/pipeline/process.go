package pipeline

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"dpwhparse/internal"
	"dpwhparse/internal/config"
	"dpwhparse/internal/notes"
	"dpwhparse/internal/storage"
)

// ProcessingService drives parsing of scraped table files into stored
// contract records. Row extraction itself is pure; the service owns the
// I/O, the logging sink and the fan-out across files.
type ProcessingService struct {
	db  *storage.DB
	cfg config.Config
	log *zap.Logger
}

func NewProcessingService(db *storage.DB, cfg config.Config, log *zap.Logger) *ProcessingService {
	return &ProcessingService{db: db, cfg: cfg, log: log}
}

// ParseFile reads one scraped table file and assembles a record per
// contract row. Structural failures skip the affected row with a logged
// critical code; they never fail the file.
func (s *ProcessingService) ParseFile(src internal.SourceFile) ([]internal.ContractRecord, error) {
	blob, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(blob))
	if err != nil {
		return nil, err
	}

	filename := filepath.Base(src.Path)
	tbodies := ContractRows(doc)
	if len(tbodies) == 0 {
		s.log.Warn("no contract tbody found",
			zap.String("code", string(notes.CodeNoContractTbody)),
			zap.String("file", filename))
		return nil, nil
	}

	records := make([]internal.ContractRecord, 0, len(tbodies))
	for _, tbody := range tbodies {
		record := AssembleRecord(tbody, src.Year, src.Office, filename)
		if record == nil {
			s.log.Warn("contract row skipped",
				zap.String("code", string(notes.CodeNoRowInTbody)),
				zap.String("file", filename))
			continue
		}
		records = append(records, *record)
	}

	s.log.Info("file parsed",
		zap.String("file", filename),
		zap.Int("year", src.Year),
		zap.String("office", src.Office),
		zap.Int("contracts", len(records)))
	return records, nil
}

// ParseAll discovers table files for yearFilter (0 for all years) and
// parses them across a worker pool. Every row is independent, so the
// file is the unit of parallelism; results are collected per file index
// to keep output order deterministic. A failing file is logged and
// skipped without discarding the others.
func (s *ProcessingService) ParseAll(yearFilter int) ([]internal.ContractRecord, error) {
	files, err := DiscoverHTMLFiles(s.cfg.HTMLDir, yearFilter)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		s.log.Warn("no table files found",
			zap.String("dir", s.cfg.HTMLDir),
			zap.Int("year", yearFilter))
		return nil, nil
	}

	workers := s.cfg.ParseWorkers
	if workers < 1 {
		workers = 1
	}

	results := make([][]internal.ContractRecord, len(files))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				records, err := s.ParseFile(files[i])
				if err != nil {
					s.log.Error("file failed",
						zap.String("file", filepath.Base(files[i].Path)),
						zap.Error(err))
					continue
				}
				results[i] = records
			}
		}()
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var all []internal.ContractRecord
	for _, records := range results {
		all = append(all, records...)
	}
	return all, nil
}

// ParseAndStore parses, replaces the stored records for the year and
// records run statistics.
func (s *ProcessingService) ParseAndStore(yearFilter int) ([]internal.ContractRecord, error) {
	start := time.Now()

	records, err := s.ParseAll(yearFilter)
	if err != nil {
		return nil, err
	}

	if err := s.db.ClearYear(yearFilter); err != nil {
		return nil, err
	}
	if err := s.db.InsertContracts(records); err != nil {
		return nil, err
	}

	counts := countRecords(records)
	_ = s.db.InsertRun(traceID(), yearFilter,
		map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())},
		counts)

	s.log.Info("parse complete",
		zap.Int("year", yearFilter),
		zap.Int("contracts", counts["total"]),
		zap.Int("clean", counts["clean"]),
		zap.Int("withErrors", counts["errors"]),
		zap.Int("withWarnings", counts["warnings"]))
	return records, nil
}

func countRecords(records []internal.ContractRecord) map[string]int {
	counts := map[string]int{"total": len(records), "critical": 0, "errors": 0, "warnings": 0, "clean": 0}
	for _, r := range records {
		dirty := false
		if r.CriticalErrors != nil {
			counts["critical"]++
			dirty = true
		}
		if r.Errors != nil {
			counts["errors"]++
			dirty = true
		}
		if r.Warnings != nil {
			counts["warnings"]++
			dirty = true
		}
		if !dirty {
			counts["clean"]++
		}
	}
	return counts
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
