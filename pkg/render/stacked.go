package render

import (
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/venviro/chartkit/pkg/dataset"
	"github.com/venviro/chartkit/pkg/palette"
)

const (
	stackedBarWidth   = 60
	stackedBarSpacing = 40
)

// renderStackedPercent builds a stacked percent bar chart: one stack per
// active category, one segment per group, segments normalized so every
// stack sums to 100%. A category whose raw values sum to zero renders as
// an invisible placeholder stack and records a warning instead of
// faulting on division by zero.
func renderStackedPercent(ds *dataset.Dataset, style StyleConfig) (*Figure, error) {
	cats := ds.ActiveCategories()
	indices := ds.ActiveIndices()
	groups := ds.Groups
	colors := palette.ColorsFor(style.Scheme, len(groups))

	var warnings []string
	bars := make([]chart.StackedBar, 0, len(cats))

	for bi, ci := range indices {
		raw := make([]float64, len(groups))
		for gi, g := range groups {
			raw[gi] = g.Values[ci]
		}

		pcts, ok := percentages(raw)
		var values []chart.Value
		if !ok {
			warnings = append(warnings, fmt.Sprintf("category %q sums to zero; rendered empty", cats[bi]))
			values = []chart.Value{{Value: 100, Style: fillerStyle()}}
		} else {
			values = make([]chart.Value, len(groups))
			for gi := range groups {
				v := chart.Value{
					Value: pcts[gi],
					Style: segmentStyle(colors[gi]),
				}
				if pcts[gi] >= 1 {
					v.Label = fmt.Sprintf("%.0f%%", pcts[gi])
				}
				values[gi] = v
			}
		}
		bars = append(bars, chart.StackedBar{
			Name:   cats[bi],
			Width:  stackedBarWidth,
			Values: values,
		})
	}

	width := stackedWidth
	if need := 120 + len(bars)*(stackedBarWidth+stackedBarSpacing); need > width {
		width = need
	}

	sbc := &chart.StackedBarChart{
		Title:  chartTitle(ds, style),
		Width:  width,
		Height: stackedHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 60, Right: 25, Bottom: 55},
		},
		BarSpacing: stackedBarSpacing,
		Bars:       bars,
		Elements:   axisElements(style.XLabel, style.YLabel),
	}

	return newFigure(width, stackedHeight, warnings,
		func(dpi float64) { sbc.DPI = dpi },
		func(rp chart.RendererProvider, w io.Writer) error { return sbc.Render(rp, w) },
	), nil
}
