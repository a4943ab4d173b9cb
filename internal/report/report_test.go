package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"povertymap/internal/poverty/models"
	"povertymap/internal/poverty/snapshot/snapshottest"
	dErrors "povertymap/pkg/domain-errors"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestFormat(t *testing.T) {
	assert.Contains(t, FormatRate(6.1), "6,1")
	assert.Contains(t, FormatRate(6.1), "%")
	assert.Contains(t, FormatPoints(14), "+14,0")
	assert.Contains(t, FormatPoints(-9.2), "-9,2")

	count := FormatCount(165859)
	assert.NotEqual(t, "165859", count, "French digit grouping")
	assert.Contains(t, count, "165")
	assert.Contains(t, count, "859")
}

func TestParseChart(t *testing.T) {
	for _, c := range Charts() {
		got, err := ParseChart(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseChart("pie")
	assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
	assert.Equal(t, "regions.png", ChartRegions.Filename())
}

func TestRenderChart(t *testing.T) {
	snap := snapshottest.Load(t)
	for _, c := range Charts() {
		t.Run(string(c), func(t *testing.T) {
			body, err := RenderChart(snap, c)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(body, pngMagic), "PNG signature")
		})
	}

	t.Run("unknown chart", func(t *testing.T) {
		_, err := RenderChart(snap, Chart("pie"))
		assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
	})

	t.Run("missing rate", func(t *testing.T) {
		records := snapshottest.Records(t)
		records[3].PovertyRate = models.MissingRate()
		_, err := RenderChart(snapshottest.WithRecords(t, records), ChartGovernorates)
		assert.Equal(t, dErrors.CodeMissingValue, dErrors.CodeOf(err))
	})
}

func TestWorkbook(t *testing.T) {
	body, err := Workbook(snapshottest.Load(t))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetGovernorates, SheetRegions, SheetStats, SheetSource}, f.GetSheetList())

	rows, err := f.GetRows(SheetGovernorates)
	require.NoError(t, err)
	require.Len(t, rows, 25)
	assert.Equal(t, "Gouvernorat", rows[0][1])
	assert.Equal(t, []string{"1", "Le Kef", "Nord-Ouest", "33.1", "17.8"}, rows[1])
	assert.Equal(t, "Tunis", rows[24][1])

	rows, err = f.GetRows(SheetRegions)
	require.NoError(t, err)
	require.Len(t, rows, 8)
	assert.Equal(t, []string{"Grand Tunis", "6.1", "2719000", "165859"}, rows[1][:4])

	rows, err = f.GetRows(SheetStats)
	require.NoError(t, err)
	assert.Len(t, rows, 8)

	rows, err = f.GetRows(SheetSource)
	require.NoError(t, err)
	assert.Equal(t, "Source", rows[1][0])
}
