package source

import (
	"encoding/csv"
	"os"

	dErrors "povertymap/pkg/domain-errors"
)

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeSourceNotFound, "open "+path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeSourceMalformed, "read "+path)
	}
	return records, nil
}
