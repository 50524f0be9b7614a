package pipeline

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"dpwhparse/internal"
)

// DiscoverHTMLFiles scans dir for scraped table files and pulls the year
// and office name out of each filename. The scraper writes
// table_{office parts}_{year}_{date}_{time}.html, with the office itself
// possibly containing underscores. yearFilter of 0 keeps every year.
// Results are ordered by (year, office).
func DiscoverHTMLFiles(dir string, yearFilter int) ([]internal.SourceFile, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "table_*.html"))
	if err != nil {
		return nil, err
	}

	out := make([]internal.SourceFile, 0, len(paths))
	for _, path := range paths {
		src, ok := parseTableFilename(path)
		if !ok {
			continue
		}
		if yearFilter != 0 && src.Year != yearFilter {
			continue
		}
		out = append(out, src)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Office < out[j].Office
	})
	return out, nil
}

// parseTableFilename works backwards from the end: the last three
// underscore-separated parts are year, date and time, everything between
// the "table" prefix and the year is the office name.
func parseTableFilename(path string) (internal.SourceFile, bool) {
	stem := strings.TrimSuffix(filepath.Base(path), ".html")
	parts := strings.Split(stem, "_")
	if len(parts) < 4 {
		return internal.SourceFile{}, false
	}

	yearPart := parts[len(parts)-3]
	if len(yearPart) != 4 || !allDigits(yearPart) {
		return internal.SourceFile{}, false
	}
	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return internal.SourceFile{}, false
	}

	office := strings.Join(parts[1:len(parts)-3], " ")
	return internal.SourceFile{Path: path, Year: year, Office: office}, true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
