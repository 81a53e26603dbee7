package render

import (
	"io"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/venviro/chartkit/pkg/errors"
)

// Figure is an in-memory renderable chart artifact. It wraps the built
// chart object behind encode closures so callers never touch the drawing
// library directly.
//
// A Figure is owned exclusively by the caller that created it and is not
// safe for concurrent use. Close releases it; encoding a released Figure
// fails with FIGURE_RELEASED.
type Figure struct {
	encode   func(rp chart.RendererProvider, w io.Writer) error
	setDPI   func(dpi float64)
	width    int
	height   int
	warnings []string
	released bool
}

// newFigure wraps a built chart behind encode and DPI closures.
func newFigure(width, height int, warnings []string, setDPI func(float64), encode func(chart.RendererProvider, io.Writer) error) *Figure {
	return &Figure{
		encode:   encode,
		setDPI:   setDPI,
		width:    width,
		height:   height,
		warnings: warnings,
	}
}

// Width returns the figure's frame width in pixels.
func (f *Figure) Width() int { return f.width }

// Height returns the figure's frame height in pixels.
func (f *Figure) Height() int { return f.height }

// Warnings returns render-time warnings (e.g. zero-sum categories in a
// stacked percent chart). The slice is owned by the Figure.
func (f *Figure) Warnings() []string { return f.warnings }

// Released reports whether Close has been called.
func (f *Figure) Released() bool { return f.released }

// Close releases the figure's drawing state. It is idempotent. After Close,
// every encode call fails.
func (f *Figure) Close() error {
	f.released = true
	return nil
}

// WritePNG encodes the figure as PNG at the given resolution.
func (f *Figure) WritePNG(w io.Writer, dpi int) error {
	return f.write(chart.PNG, w, dpi)
}

// WriteSVG encodes the figure as SVG. The dpi still scales text metrics so
// vector output matches the raster layout.
func (f *Figure) WriteSVG(w io.Writer, dpi int) error {
	return f.write(chart.SVG, w, dpi)
}

func (f *Figure) write(rp chart.RendererProvider, w io.Writer, dpi int) error {
	if f.released {
		return errors.New(errors.ErrCodeFigureReleased, "figure has been released")
	}
	if dpi > 0 {
		f.setDPI(float64(dpi))
	}
	if err := f.encode(rp, w); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode figure")
	}
	return nil
}
