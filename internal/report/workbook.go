package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"povertymap/internal/dashboard/views"
	"povertymap/internal/poverty/aggregate"
	"povertymap/internal/poverty/snapshot"
	dErrors "povertymap/pkg/domain-errors"
)

// Sheet names of the exported workbook, in order.
const (
	SheetGovernorates = "Gouvernorats"
	SheetRegions      = "Régions"
	SheetStats        = "Statistiques"
	SheetSource       = "Source"
)

// WorkbookFilename is the file the report CLI writes the workbook to.
const WorkbookFilename = "pauvrete_tunisie_2015.xlsx"

// Workbook exports the governorate table, the regional summary, the grouped
// statistics and the data attribution as an XLSX file.
func Workbook(snap *snapshot.Snapshot) ([]byte, error) {
	governorates, err := views.BuildGovernorateList(snap, views.SortRate)
	if err != nil {
		return nil, err
	}
	comparisons, err := views.BuildComparisons(snap)
	if err != nil {
		return nil, err
	}
	regions := views.BuildRegionList(snap)
	footer := views.BuildFooter(snap.Reference())

	f := excelize.NewFile()
	defer f.Close()

	w := &sheetWriter{f: f}
	if err := f.SetSheetName("Sheet1", SheetGovernorates); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create workbook")
	}

	w.table(SheetGovernorates,
		[]any{"Rang", "Gouvernorat", "Région", "Taux de pauvreté (%)", "Écart national (pts)"},
		func(row func(...any)) {
			rates, _ := aggregate.Rates(governorates.Governorates)
			for _, g := range governorates.Governorates {
				v, _ := g.PovertyRate.Value()
				row(aggregate.RankOf(v, rates), g.DisplayName, g.Region, v,
					aggregate.Round(aggregate.DeviationFromNational(v, aggregate.NationalRate), 1))
			}
		})

	w.table(SheetRegions,
		[]any{"Région", "Taux de pauvreté (%)", "Population", "Pauvres estimés", "Gouvernorats"},
		func(row func(...any)) {
			for _, r := range regions.Regions {
				row(r.Region, r.PovertyRate, r.Population, r.EstimatedPoor, r.Members)
			}
		})

	w.table(SheetStats,
		[]any{"Région", "Gouvernorats", "Moyenne", "Médiane", "Min", "Max", "Écart-type"},
		func(row func(...any)) {
			for _, st := range comparisons.Stats {
				var sd any = ""
				if st.StdDev != nil {
					sd = *st.StdDev
				}
				row(st.Region, st.Count, st.Mean, st.Median, st.Min, st.Max, sd)
			}
		})

	w.table(SheetSource, []any{"Rubrique", "Texte"}, func(row func(...any)) {
		row("Source", footer.Source)
		row("Version des référentiels", footer.ReferenceVersion)
		for _, s := range footer.About {
			row("À propos", s)
		}
		for _, s := range footer.Definitions {
			row("Définitions", s)
		}
		for _, s := range footer.Limits {
			row("Limites", s)
		}
	})

	if w.err != nil {
		return nil, dErrors.Wrap(w.err, dErrors.CodeInternal, "write workbook")
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode workbook")
	}
	return buf.Bytes(), nil
}

// sheetWriter writes header-plus-rows tables and keeps the first error.
type sheetWriter struct {
	f   *excelize.File
	err error
}

func (w *sheetWriter) table(sheet string, header []any, rows func(row func(...any))) {
	if w.err != nil {
		return
	}
	if idx, _ := w.f.GetSheetIndex(sheet); idx < 0 {
		if _, err := w.f.NewSheet(sheet); err != nil {
			w.err = err
			return
		}
	}

	line := 1
	write := func(values ...any) {
		if w.err != nil {
			return
		}
		cell, err := excelize.CoordinatesToCellName(1, line)
		if err == nil {
			err = w.f.SetSheetRow(sheet, cell, &values)
		}
		w.err = err
		line++
	}
	write(header...)
	rows(write)
	if w.err != nil {
		return
	}

	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		w.err = err
		return
	}
	style, err := w.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetCellStyle(sheet, "A1", last+"1", style); err != nil {
		w.err = err
		return
	}
	if err := w.f.SetColWidth(sheet, "A", last, 22); err != nil {
		w.err = err
		return
	}
	if line > 2 {
		if err := w.f.AutoFilter(sheet, fmt.Sprintf("A1:%s%d", last, line-1), nil); err != nil {
			w.err = err
		}
	}
}
