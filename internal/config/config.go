package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTMLDir string
	CSVDir  string
	XLSXDir string
	DocsDir string
	DBPath  string
	LogPath string

	ParseWorkers int
	YearStart    int
	YearEnd      int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTMLDir: getEnv("HTML_DIR", filepath.Join(cwd, "html")),
		CSVDir:  getEnv("CSV_DIR", filepath.Join(cwd, "csv")),
		XLSXDir: getEnv("XLSX_DIR", filepath.Join(cwd, "xlsx")),
		DocsDir: getEnv("DOCS_DIR", filepath.Join(cwd, "docs")),
		DBPath:  getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		LogPath: getEnv("LOG_PATH", filepath.Join(cwd, "logs", "parser.log")),

		ParseWorkers: getEnvInt("PARSE_WORKERS", 4),
		YearStart:    getEnvInt("YEAR_START", 2016),
		YearEnd:      getEnvInt("YEAR_END", 2025),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
