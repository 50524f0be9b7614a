package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"dpwhparse/internal/config"
	"dpwhparse/internal/pipeline"
	"dpwhparse/internal/report"
	"dpwhparse/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogPath)
	must(err)
	defer func() { _ = logger.Sync() }()

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "parse":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		year := fs.Int("year", 0, "filter to a single year (0 = all)")
		out := fs.String("out", "", "output csv path (default under CSV_DIR)")
		_ = fs.Parse(os.Args[2:])

		svc := pipeline.NewProcessingService(db, cfg, logger)
		records, err := svc.ParseAndStore(*year)
		must(err)
		if len(records) == 0 {
			fmt.Println("no contracts extracted")
			return
		}

		path := *out
		if path == "" {
			path = filepath.Join(cfg.CSVDir, csvName(*year))
		}
		must(pipeline.WriteCSV(records, path))
		fmt.Printf("parse done contracts=%d output=%s\n", len(records), path)
	case "summary":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		year := fs.Int("year", 0, "filter to a single year (0 = all)")
		out := fs.String("out", "", "output markdown path")
		_ = fs.Parse(os.Args[2:])

		records, err := db.ListContracts(*year)
		must(err)
		if len(records) == 0 {
			must(fmt.Errorf("no stored contracts; run parse first"))
		}

		path := *out
		if path == "" {
			path = filepath.Join(cfg.DocsDir, "parsing_summary.md")
		}
		must(os.MkdirAll(filepath.Dir(path), 0o755))
		md := report.Markdown(report.Collect(records), time.Now())
		must(os.WriteFile(path, []byte(md), 0o644))
		fmt.Printf("summary written contracts=%d output=%s\n", len(records), path)
	case "warnings:extract":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		year := fs.Int("year", 0, "filter to a single year (0 = all)")
		out := fs.String("out", "", "output csv path")
		_ = fs.Parse(os.Args[2:])

		records, err := db.ListContractsWithWarnings(*year)
		must(err)
		path := *out
		if path == "" {
			path = filepath.Join(cfg.CSVDir, "contracts_with_warnings.csv")
		}
		must(pipeline.WriteCSV(records, path))
		fmt.Printf("extracted %d contracts with warnings to %s\n", len(records), path)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		year := fs.Int("year", 0, "filter to a single year (0 = all)")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}

		records, err := db.ListContracts(*year)
		must(err)
		if len(records) == 0 {
			must(fmt.Errorf("no stored contracts; run parse first"))
		}
		must(pipeline.ExportRecordsToXLSX(records, *out))
		fmt.Printf("exported %d contracts to %s\n", len(records), *out)
	case "convert:xlsx":
		count, err := pipeline.ConvertXLSXDir(cfg.XLSXDir, cfg.CSVDir, logger)
		must(err)
		fmt.Printf("conversion complete: %d csv file(s)\n", count)
	default:
		usage()
		os.Exit(1)
	}
}

func csvName(year int) string {
	if year != 0 {
		return fmt.Sprintf("contracts_%d_all_offices.csv", year)
	}
	return "contracts_all_years_all_offices.csv"
}

func newLogger(path string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	logCfg := zap.NewProductionConfig()
	logCfg.OutputPaths = []string{"stderr", path}
	return logCfg.Build()
}

func usage() {
	fmt.Println("usage: dpwhparse <command>")
	fmt.Println("commands:")
	fmt.Println("  parse [--year=2016] [--out=./csv/contracts.csv]")
	fmt.Println("  summary [--year=2016] [--out=./docs/parsing_summary.md]")
	fmt.Println("  warnings:extract [--year=2016] [--out=./csv/contracts_with_warnings.csv]")
	fmt.Println("  export:xlsx --out=./out/contracts.xlsx [--year=2016]")
	fmt.Println("  convert:xlsx")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
