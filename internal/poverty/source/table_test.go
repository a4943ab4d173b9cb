package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	dErrors "povertymap/pkg/domain-errors"
)

const datasetPath = "../../../data/poverty_tunisia.csv"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadTableDataset(t *testing.T) {
	rows, err := ReadTable(datasetPath)
	require.NoError(t, err)
	require.Len(t, rows, 24)

	assert.Equal(t, "Tunis", rows[0].Governorate)
	v, ok := rows[0].Rate.Value()
	assert.True(t, ok)
	assert.Equal(t, 4.6, v)
	assert.Equal(t, 2, rows[0].Line)
}

func TestReadTableCSV(t *testing.T) {
	t.Run("accented names and alias headers", func(t *testing.T) {
		path := writeFile(t, "rates.csv", "\ufeffGouvernorat,Taux_Pauvreté\nBéja,24.7\nMédenine,\"18,6\"\n")
		rows, err := ReadTable(path)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Béja", rows[0].Governorate)
		v, _ := rows[1].Rate.Value()
		assert.Equal(t, 18.6, v)
	})

	t.Run("empty rate cell is missing, not zero", func(t *testing.T) {
		path := writeFile(t, "rates.csv", "Governorate,Poverty_Rate\nTunis,\n")
		rows, err := ReadTable(path)
		require.NoError(t, err)
		assert.False(t, rows[0].Rate.Valid())
	})

	t.Run("blank lines are skipped", func(t *testing.T) {
		path := writeFile(t, "rates.csv", "Governorate,Poverty_Rate\nTunis,4.6\n,\nSfax,8.3\n")
		rows, err := ReadTable(path)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("percent suffix accepted", func(t *testing.T) {
		path := writeFile(t, "rates.csv", "Name,Rate\nTunis,4.6%\n")
		rows, err := ReadTable(path)
		require.NoError(t, err)
		v, _ := rows[0].Rate.Value()
		assert.Equal(t, 4.6, v)
	})
}

func TestReadTableErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"non numeric rate", "Governorate,Poverty_Rate\nTunis,high\n"},
		{"rate above 100", "Governorate,Poverty_Rate\nTunis,104\n"},
		{"negative rate", "Governorate,Poverty_Rate\nTunis,-1\n"},
		{"NaN rate", "Governorate,Poverty_Rate\nTunis,NaN\n"},
		{"missing rate column", "Governorate,Population\nTunis,100\n"},
		{"missing name column", "Region,Poverty_Rate\nTunis,4.6\n"},
		{"missing governorate name", "Governorate,Poverty_Rate\n,4.6\n"},
		{"header only", "Governorate,Poverty_Rate\n"},
		{"empty file", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, "rates.csv", tc.content)
			_, err := ReadTable(path)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeSourceMalformed), err.Error())
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadTable(filepath.Join(t.TempDir(), "absent.csv"))
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeSourceNotFound, dErrors.CodeOf(err))
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, "rates.json", "{}")
		_, err := ReadTable(path)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeSourceMalformed))
	})

	t.Run("error names the line", func(t *testing.T) {
		path := writeFile(t, "rates.csv", "Governorate,Poverty_Rate\nTunis,4.6\nSfax,abc\n")
		_, err := ReadTable(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 3")
	})
}

func TestReadTableXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Governorate", "Poverty_Rate"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Kasserine", 32.8}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"Le Kef", 33.1}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	rows, err := ReadTable(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Le Kef", rows[1].Governorate)
	v, ok := rows[1].Rate.Value()
	assert.True(t, ok)
	assert.InDelta(t, 33.1, v, 1e-9)
}

func TestReadTableCorruptXLSX(t *testing.T) {
	path := writeFile(t, "rates.xlsx", "not a zip archive")
	_, err := ReadTable(path)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeSourceMalformed))
}
