package render

import (
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/venviro/chartkit/pkg/dataset"
	"github.com/venviro/chartkit/pkg/errors"
	"github.com/venviro/chartkit/pkg/palette"
)

// renderPie builds a donut-styled pie chart for a single group: one slice
// per active category, one color per slice. A one-slice pie is rejected as
// non-informative, as is a group whose active values sum to zero.
func renderPie(ds *dataset.Dataset, style StyleConfig) (*Figure, error) {
	group := ds.FirstGroup()
	if style.PieGroup != "" {
		g, ok := ds.Group(style.PieGroup)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "pie group %q not found in dataset", style.PieGroup)
		}
		group = g
	}

	cats := ds.ActiveCategories()
	if len(cats) < 2 {
		return nil, errors.New(errors.ErrCodeInsufficientData,
			"pie chart needs at least 2 active categories, have %d", len(cats))
	}

	values := ds.ActiveValues(group)
	var sum float64
	for _, v := range values {
		sum += v
	}
	if sum == 0 {
		return nil, errors.New(errors.ErrCodeInsufficientData,
			"pie chart values for group %q sum to zero", group.Name)
	}

	colors := palette.ColorsFor(style.Scheme, len(cats))
	slices := make([]chart.Value, len(cats))
	for i, c := range cats {
		slices[i] = chart.Value{
			Value: values[i],
			Label: fmt.Sprintf("%s (%.0f%%)", c, values[i]/sum*100),
			Style: segmentStyle(colors[i]),
		}
	}

	// Donut style follows the original rendering; axis labels do not apply
	// to a pie.
	dc := &chart.DonutChart{
		Title:  chartTitle(ds, style),
		Width:  pieWidth,
		Height: pieHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 30, Right: 30, Bottom: 30},
		},
		Values: slices,
	}

	return newFigure(pieWidth, pieHeight, nil,
		func(dpi float64) { dc.DPI = dpi },
		func(rp chart.RendererProvider, w io.Writer) error { return dc.Render(rp, w) },
	), nil
}
