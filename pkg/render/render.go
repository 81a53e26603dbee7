package render

import (
	"github.com/venviro/chartkit/pkg/dataset"
	"github.com/venviro/chartkit/pkg/errors"
	"github.com/venviro/chartkit/pkg/palette"
)

// Kind identifies a chart kind.
type Kind string

// Supported chart kinds. The set is closed: rendering dispatches over
// exactly these values and anything else fails with UNSUPPORTED_KIND.
const (
	KindStackedPercentBar Kind = "stacked_percent_bar"
	KindHorizontalBar     Kind = "horizontal_bar"
	KindPie               Kind = "pie"
)

// ValidKinds is the set of supported chart kinds.
var ValidKinds = map[Kind]bool{
	KindStackedPercentBar: true,
	KindHorizontalBar:     true,
	KindPie:               true,
}

// ParseKind validates a chart kind name. There is no default: a missing
// kind is an error, never a silent substitution.
func ParseKind(name string) (Kind, error) {
	k := Kind(name)
	if !ValidKinds[k] {
		return "", errors.New(errors.ErrCodeUnsupportedKind,
			"invalid chart kind: %q (must be one of: stacked_percent_bar, horizontal_bar, pie)", name)
	}
	return k, nil
}

// StyleConfig carries the per-render style choices. It is passed by value
// and never retained by the renderer.
type StyleConfig struct {
	Kind   Kind
	Scheme palette.Scheme

	// Title overrides the dataset title when non-empty.
	Title  string
	XLabel string
	YLabel string

	// PieGroup names the group a pie chart plots. Empty means the first
	// group in upload order. Ignored by the bar variants.
	PieGroup string
}

// Default frame sizes per kind, in pixels.
const (
	stackedWidth    = 940
	stackedHeight   = 500
	horizontalWidth = 1200
	horizontalHeight = 600
	pieWidth        = 800
	pieHeight       = 600
)

// Render produces a Figure for the dataset with the given style.
// Only active categories are plotted. The caller owns the returned Figure
// and must Close it after export.
func Render(ds *dataset.Dataset, style StyleConfig) (*Figure, error) {
	switch style.Kind {
	case KindStackedPercentBar:
		return renderStackedPercent(ds, style)
	case KindHorizontalBar:
		return renderHorizontal(ds, style)
	case KindPie:
		return renderPie(ds, style)
	default:
		return nil, errors.New(errors.ErrCodeUnsupportedKind, "unsupported chart kind: %q", string(style.Kind))
	}
}

// chartTitle applies the style override to the dataset title.
func chartTitle(ds *dataset.Dataset, style StyleConfig) string {
	if style.Title != "" {
		return style.Title
	}
	return ds.Title
}

// percentages normalizes values so they sum to 100. ok is false when the
// raw sum is zero, in which case all percentages are zero and the caller
// records a render warning instead of dividing by zero.
func percentages(values []float64) (pcts []float64, ok bool) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	pcts = make([]float64, len(values))
	if sum == 0 {
		return pcts, false
	}
	for i, v := range values {
		pcts[i] = v / sum * 100
	}
	return pcts, true
}
