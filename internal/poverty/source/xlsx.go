package source

import (
	"github.com/xuri/excelize/v2"

	dErrors "povertymap/pkg/domain-errors"
)

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeSourceMalformed, "open "+path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, dErrors.Newf(dErrors.CodeSourceMalformed, "%s: workbook has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeSourceMalformed, "read "+path)
	}
	return rows, nil
}
