// Package render turns a validated dataset plus a style configuration into
// a Figure, an in-memory renderable chart artifact.
//
// # Overview
//
// Three chart kinds share one rendering contract:
//
//   - StackedPercentBar: one stacked bar per category, segments normalized
//     so each stack sums to 100%
//   - HorizontalBar: raw values as horizontal bars, one row per
//     (category, group) pair
//   - Pie: donut-styled proportional slices for a single group
//
// All variants plot only the dataset's active categories, attach the style's
// title and axis labels verbatim, and allocate colors through
// [palette.ColorsFor]: one color per group for the bar variants, one color
// per slice for pie.
//
// # Usage
//
//	fig, err := render.Render(ds, render.StyleConfig{
//	    Kind:   render.KindPie,
//	    Scheme: palette.SchemeDefault,
//	})
//	if err != nil {
//	    return err
//	}
//	defer fig.Close()
//	err = fig.WritePNG(w, 150)
//
// The Figure owns drawing state and is not safe for concurrent use; callers
// must Close it once exported, after which further encoding fails with
// FIGURE_RELEASED.
//
// [palette.ColorsFor]: github.com/venviro/chartkit/pkg/palette.ColorsFor
package render
