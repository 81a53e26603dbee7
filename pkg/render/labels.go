package render

import (
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
)

// axisElements returns the chart elements drawing the x and y axis labels.
// go-chart's stacked bar charts have no axis-name slots, so the labels are
// drawn directly: x centered under the plot, y rotated along the left edge.
func axisElements(xLabel, yLabel string) []chart.Renderable {
	if xLabel == "" && yLabel == "" {
		return nil
	}
	return []chart.Renderable{axisLabels(xLabel, yLabel)}
}

func axisLabels(xLabel, yLabel string) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, defaults chart.Style) {
		font := defaults.Font
		if font == nil {
			f, err := chart.GetDefaultFont()
			if err != nil {
				return
			}
			font = f
		}
		r.SetFont(font)
		r.SetFontColor(chart.DefaultTextColor)
		r.SetFontSize(11)

		if xLabel != "" {
			tb := r.MeasureText(xLabel)
			x := canvasBox.Left + (canvasBox.Width()-tb.Width())/2
			r.Text(xLabel, x, canvasBox.Bottom+40)
		}
		if yLabel != "" {
			tb := r.MeasureText(yLabel)
			r.SetTextRotation(-math.Pi / 2)
			y := canvasBox.Top + (canvasBox.Height()+tb.Width())/2
			r.Text(yLabel, canvasBox.Left-34, y)
			r.ClearTextRotation()
		}
	}
}
