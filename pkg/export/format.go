package export

import (
	"strings"

	"github.com/venviro/chartkit/pkg/errors"
)

// Format identifies an output file format.
type Format string

// Supported output formats.
const (
	FormatPNG Format = "png"
	FormatJPG Format = "jpg"
	FormatPDF Format = "pdf"
	FormatSVG Format = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[Format]bool{
	FormatPNG: true,
	FormatJPG: true,
	FormatPDF: true,
	FormatSVG: true,
}

// Ext returns the filename extension for the format, without the dot.
func (f Format) Ext() string { return string(f) }

// ParseFormat validates a format name. "jpeg" is accepted as an alias
// for jpg.
func ParseFormat(name string) (Format, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "jpeg" {
		n = "jpg"
	}
	f := Format(n)
	if !ValidFormats[f] {
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"invalid export format: %q (must be one of: png, jpg, pdf, svg)", name)
	}
	return f, nil
}

// ParseFormats validates a list of format names, dropping duplicates while
// preserving order.
func ParseFormats(names []string) ([]Format, error) {
	seen := make(map[Format]bool, len(names))
	formats := make([]Format, 0, len(names))
	for _, n := range names {
		f, err := ParseFormat(n)
		if err != nil {
			return nil, err
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}
	return formats, nil
}
