package render

import (
	"fmt"
	"io"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/venviro/chartkit/pkg/dataset"
	"github.com/venviro/chartkit/pkg/palette"
)

const (
	horizontalBarWidth   = 28
	horizontalBarSpacing = 16
)

// renderHorizontal builds a horizontal bar chart of raw values, one row
// per (category, group) pair in axis order, colored per group. Bar length
// is scaled against the maximum active value with an invisible filler
// segment, since stacked rows always span the full value axis.
func renderHorizontal(ds *dataset.Dataset, style StyleConfig) (*Figure, error) {
	cats := ds.ActiveCategories()
	indices := ds.ActiveIndices()
	groups := ds.Groups
	colors := palette.ColorsFor(style.Scheme, len(groups))

	var total, max float64
	for _, g := range groups {
		for _, ci := range indices {
			v := g.Values[ci]
			total += v
			if v > max {
				max = v
			}
		}
	}

	var warnings []string
	if max == 0 {
		warnings = append(warnings, "all active values are zero; rendered empty")
	}

	rows := make([]chart.StackedBar, 0, len(cats)*len(groups))
	for bi, ci := range indices {
		for gi, g := range groups {
			label := cats[bi]
			if len(groups) > 1 {
				label = fmt.Sprintf("%s (%s)", cats[bi], g.Name)
			}

			v := g.Values[ci]
			var values []chart.Value
			switch {
			case max == 0:
				values = []chart.Value{{Value: 1, Style: fillerStyle()}}
			case v == 0:
				values = []chart.Value{{Value: max, Style: fillerStyle()}}
			default:
				seg := chart.Value{
					Value: v,
					Label: valueLabel(v, total),
					Style: segmentStyle(colors[gi]),
				}
				if v < max {
					values = []chart.Value{seg, {Value: max - v, Style: fillerStyle()}}
				} else {
					values = []chart.Value{seg}
				}
			}

			rows = append(rows, chart.StackedBar{
				Name:   label,
				Width:  horizontalBarWidth,
				Values: values,
			})
		}
	}

	height := horizontalHeight
	if need := 130 + len(rows)*(horizontalBarWidth+horizontalBarSpacing); need > height {
		height = need
	}

	sbc := &chart.StackedBarChart{
		Title:  chartTitle(ds, style),
		Width:  horizontalWidth,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 120, Right: 25, Bottom: 55},
		},
		BarSpacing:   horizontalBarSpacing,
		IsHorizontal: true,
		Bars:         rows,
		Elements:     axisElements(style.XLabel, style.YLabel),
	}

	return newFigure(horizontalWidth, height, warnings,
		func(dpi float64) { sbc.DPI = dpi },
		func(rp chart.RendererProvider, w io.Writer) error { return sbc.Render(rp, w) },
	), nil
}

// valueLabel formats a raw value with its share of the plotted total,
// e.g. "23 (47%)".
func valueLabel(v, total float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if total == 0 {
		return s
	}
	return fmt.Sprintf("%s (%.0f%%)", s, v/total*100)
}
