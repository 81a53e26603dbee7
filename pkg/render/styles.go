package render

import (
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// segmentStyle fills a bar segment or pie slice with the palette color,
// separated by a thin white stroke.
func segmentStyle(c drawing.Color) chart.Style {
	return chart.Style{
		FillColor:   c,
		StrokeColor: chart.ColorWhite,
		StrokeWidth: 1,
		FontSize:    9,
		FontColor:   chart.ColorBlack,
	}
}

// fillerStyle is fully transparent. Stacked rows always span the whole
// value axis, so raw-value bars pad the remainder with an invisible
// segment.
func fillerStyle() chart.Style {
	return chart.Style{
		FillColor:   chart.ColorTransparent,
		StrokeColor: chart.ColorTransparent,
	}
}
