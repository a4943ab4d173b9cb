// Package report renders the dashboard figures as PNG charts and an XLSX
// workbook. Renderers read a snapshot through the view builders and never
// compute figures of their own.
package report

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"povertymap/internal/dashboard/views"
	"povertymap/internal/poverty/aggregate"
	"povertymap/internal/poverty/snapshot"
	dErrors "povertymap/pkg/domain-errors"
)

// Chart names one rendered figure.
type Chart string

const (
	ChartRegions      Chart = "regions"
	ChartGovernorates Chart = "governorates"
	ChartPopulation   Chart = "population"
	ChartDistribution Chart = "distribution"
	ChartInequality   Chart = "inequality"
)

// Charts lists every chart in rendering order.
func Charts() []Chart {
	return []Chart{ChartRegions, ChartGovernorates, ChartPopulation, ChartDistribution, ChartInequality}
}

// ParseChart resolves a chart name. Unknown names are NotFound.
func ParseChart(name string) (Chart, error) {
	for _, c := range Charts() {
		if string(c) == name {
			return c, nil
		}
	}
	return "", dErrors.Newf(dErrors.CodeNotFound, "chart %q not found", name)
}

// Filename is the file the report CLI writes the chart to.
func (c Chart) Filename() string {
	return string(c) + ".png"
}

const (
	chartWidth  = 8 * vg.Inch
	chartHeight = 5 * vg.Inch
)

var (
	barColor      = color.RGBA{R: 229, G: 57, B: 53, A: 255}
	neutralColor  = color.RGBA{R: 144, G: 202, B: 249, A: 255}
	nationalColor = color.RGBA{R: 30, G: 30, B: 30, A: 255}
)

// RenderChart draws one chart of snap as PNG.
func RenderChart(snap *snapshot.Snapshot, chart Chart) ([]byte, error) {
	var (
		p   *plot.Plot
		err error
	)
	switch chart {
	case ChartRegions:
		p, err = regionsChart(snap)
	case ChartGovernorates:
		p, err = governoratesChart(snap)
	case ChartPopulation:
		p, err = populationChart(snap)
	case ChartDistribution:
		p, err = distributionChart(snap)
	case ChartInequality:
		p, err = inequalityChart(snap)
	default:
		return nil, dErrors.Newf(dErrors.CodeNotFound, "chart %q not found", chart)
	}
	if err != nil {
		return nil, err
	}
	return encodePNG(p)
}

func encodePNG(p *plot.Plot) ([]byte, error) {
	w, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode chart")
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode chart")
	}
	return buf.Bytes(), nil
}

func newPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Add(plotter.NewGrid())
	return p
}

// nationalLine draws the national rate across n nominal positions. Vertical
// lines serve horizontal bar charts.
func nationalLine(p *plot.Plot, n int, vertical bool) error {
	from, to := plotter.XY{X: -0.5, Y: aggregate.NationalRate}, plotter.XY{X: float64(n) - 0.5, Y: aggregate.NationalRate}
	if vertical {
		from, to = plotter.XY{X: aggregate.NationalRate, Y: -0.5}, plotter.XY{X: aggregate.NationalRate, Y: float64(n) - 0.5}
	}
	line, err := plotter.NewLine(plotter.XYs{from, to})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "national line")
	}
	line.Color = nationalColor
	line.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
	p.Add(line)
	p.Legend.Add(fmt.Sprintf("Moyenne nationale (%s)", FormatRate(aggregate.NationalRate)), line)
	return nil
}

func regionsChart(snap *snapshot.Snapshot) (*plot.Plot, error) {
	overview, err := views.BuildOverview(snap)
	if err != nil {
		return nil, err
	}
	values := make(plotter.Values, len(overview.Regions))
	names := make([]string, len(overview.Regions))
	for i, r := range overview.Regions {
		values[i] = r.PovertyRate
		names[i] = r.Region
	}

	p := newPlot("Taux de pauvreté par région (%)", "Taux de pauvreté (%)", "")
	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "regions chart")
	}
	bars.Horizontal = true
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalY(names...)
	p.X.Min = 0

	labels, err := valueLabels(values, true)
	if err != nil {
		return nil, err
	}
	p.Add(labels)
	if err := nationalLine(p, len(values), true); err != nil {
		return nil, err
	}
	return p, nil
}

func governoratesChart(snap *snapshot.Snapshot) (*plot.Plot, error) {
	list, err := views.BuildGovernorateList(snap, views.SortRate)
	if err != nil {
		return nil, err
	}
	values := make(plotter.Values, len(list.Governorates))
	names := make([]string, len(list.Governorates))
	for i, g := range list.Governorates {
		values[i], _ = g.PovertyRate.Value()
		names[i] = g.DisplayName
	}

	p := newPlot("Taux de pauvreté par gouvernorat", "Gouvernorat", "Taux de pauvreté (%)")
	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "governorates chart")
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Y.Min = 0
	if err := nationalLine(p, len(values), false); err != nil {
		return nil, err
	}
	return p, nil
}

func populationChart(snap *snapshot.Snapshot) (*plot.Plot, error) {
	overview, err := views.BuildOverview(snap)
	if err != nil {
		return nil, err
	}
	points := make(plotter.XYs, len(overview.Population))
	names := make([]string, len(overview.Population))
	for i, pt := range overview.Population {
		points[i] = plotter.XY{X: float64(pt.Population), Y: pt.PovertyRate}
		names[i] = pt.Region
	}

	p := newPlot("Population vs taux de pauvreté", "Population", "Taux de pauvreté (%)")
	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "population chart")
	}
	scatter.GlyphStyle.Color = barColor
	scatter.GlyphStyle.Radius = vg.Points(5)
	p.Add(scatter)

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: points, Labels: names})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "population chart")
	}
	p.Add(labels)
	p.X.Tick.Marker = countTicks{}
	p.Y.Min = 0
	return p, nil
}

func distributionChart(snap *snapshot.Snapshot) (*plot.Plot, error) {
	regions, rates, err := aggregate.RatesByRegion(snap.Records())
	if err != nil {
		return nil, err
	}

	p := newPlot("Distribution des taux par région", "Région", "Taux de pauvreté (%)")
	for i, group := range rates {
		box, err := plotter.NewBoxPlot(vg.Points(24), float64(i), plotter.Values(group))
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "distribution chart")
		}
		box.FillColor = neutralColor
		p.Add(box)
	}
	p.NominalX(regions...)
	if err := nationalLine(p, len(regions), false); err != nil {
		return nil, err
	}
	return p, nil
}

func inequalityChart(snap *snapshot.Snapshot) (*plot.Plot, error) {
	comparisons, err := views.BuildComparisons(snap)
	if err != nil {
		return nil, err
	}
	bars := comparisons.Inequality.Regions
	points := make(plotter.XYs, len(bars))
	names := make([]string, len(bars))
	for i, r := range bars {
		points[i] = plotter.XY{X: float64(i), Y: r.PovertyRate}
		names[i] = r.Region
	}

	p := newPlot("Courbe des inégalités régionales", "", "Taux de pauvreté (%)")
	line, dots, err := plotter.NewLinePoints(points)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "inequality chart")
	}
	line.Color = barColor
	line.Width = vg.Points(2)
	dots.GlyphStyle.Color = barColor
	dots.GlyphStyle.Radius = vg.Points(4)
	p.Add(line, dots)
	p.Legend.Add("Taux de pauvreté", line, dots)
	p.NominalX(names...)
	p.Y.Min = 0
	if err := nationalLine(p, len(bars), false); err != nil {
		return nil, err
	}
	p.Legend.Top = true
	return p, nil
}

// valueLabels annotates bars with their formatted rate.
func valueLabels(values plotter.Values, horizontal bool) (*plotter.Labels, error) {
	xys := make(plotter.XYs, len(values))
	text := make([]string, len(values))
	for i, v := range values {
		xys[i] = plotter.XY{X: float64(i), Y: v}
		if horizontal {
			xys[i] = plotter.XY{X: v, Y: float64(i)}
		}
		text[i] = FormatRate(v)
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: text})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "bar labels")
	}
	return labels, nil
}

// countTicks labels population axes with French digit grouping.
type countTicks struct{}

func (countTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = FormatCount(int64(math.Round(ticks[i].Value)))
		}
	}
	return ticks
}
