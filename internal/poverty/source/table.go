// Package source reads the statistical input file into raw rows.
//
// Two layouts are accepted: CSV (UTF-8, optional BOM) and XLSX (first sheet).
// Column headers are matched case-insensitively against a small alias list so
// the INS export and the dashboard's own CSV both load without edits.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"povertymap/internal/poverty/models"
	dErrors "povertymap/pkg/domain-errors"
)

var (
	nameHeaders = []string{"governorate", "gouvernorat", "name"}
	rateHeaders = []string{"poverty_rate", "taux_pauvreté", "povertyrate", "rate"}
)

// ReadTable loads the rate table at path, choosing the decoder from the file extension.
func ReadTable(path string) ([]models.RawRow, error) {
	if err := checkExists(path); err != nil {
		return nil, err
	}

	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		records, err = readXLSX(path)
	case ".csv", "":
		records, err = readCSV(path)
	default:
		return nil, dErrors.Newf(dErrors.CodeSourceMalformed, "%s: unsupported table format", path)
	}
	if err != nil {
		return nil, err
	}
	return ParseRecords(path, records)
}

func checkExists(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return dErrors.Newf(dErrors.CodeSourceNotFound, "%s not found", path)
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeSourceNotFound, path)
	}
	if info.IsDir() {
		return dErrors.Newf(dErrors.CodeSourceMalformed, "%s is a directory", path)
	}
	return nil
}

// ParseRecords turns decoded cells (header first) into raw rows. origin only
// labels error messages.
func ParseRecords(origin string, records [][]string) ([]models.RawRow, error) {
	if len(records) == 0 {
		return nil, dErrors.Newf(dErrors.CodeSourceMalformed, "%s: empty table", origin)
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	index := mapHeaders(header)
	nameCol, ok := findColumn(index, nameHeaders)
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeSourceMalformed, "%s: missing governorate column (one of %s)", origin, strings.Join(nameHeaders, ", "))
	}
	rateCol, ok := findColumn(index, rateHeaders)
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeSourceMalformed, "%s: missing poverty rate column (one of %s)", origin, strings.Join(rateHeaders, ", "))
	}

	rows := make([]models.RawRow, 0, len(records)-1)
	for i, record := range records[1:] {
		line := i + 2
		if blank(record) {
			continue
		}
		row, err := parseRow(record, nameCol, rateCol, line)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeSourceMalformed, origin)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, dErrors.Newf(dErrors.CodeSourceMalformed, "%s: no data rows", origin)
	}
	return rows, nil
}

func mapHeaders(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(norm.NFC.String(strings.TrimSpace(name)))
		index[key] = i
	}
	return index
}

func findColumn(index map[string]int, aliases []string) (int, bool) {
	for _, alias := range aliases {
		if pos, ok := index[alias]; ok {
			return pos, true
		}
	}
	return 0, false
}

func parseRow(record []string, nameCol, rateCol, line int) (models.RawRow, error) {
	get := func(pos int) string {
		if pos >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[pos])
	}

	name := get(nameCol)
	if !utf8.ValidString(name) {
		return models.RawRow{}, fmt.Errorf("line %d: governorate name is not valid UTF-8", line)
	}
	if name == "" {
		return models.RawRow{}, fmt.Errorf("line %d: missing governorate name", line)
	}

	rate, err := parseRate(get(rateCol))
	if err != nil {
		return models.RawRow{}, fmt.Errorf("line %d (%s): %w", line, name, err)
	}

	return models.RawRow{
		Line:        line,
		Governorate: norm.NFC.String(name),
		Rate:        rate,
	}, nil
}

// parseRate accepts "6.1", "6,1" and "6.1%". An empty cell is a missing rate;
// anything else that is not a number in [0, 100] is rejected.
func parseRate(raw string) (models.Rate, error) {
	if raw == "" {
		return models.MissingRate(), nil
	}
	s := strings.TrimSpace(strings.TrimSuffix(raw, "%"))
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return models.Rate{}, fmt.Errorf("poverty rate %q is not a number", raw)
	}
	if v < 0 || v > 100 {
		return models.Rate{}, fmt.Errorf("poverty rate %v outside [0, 100]", v)
	}
	return models.NewRate(v), nil
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
