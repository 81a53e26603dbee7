// Package export writes rendered figures to one or more output formats.
//
// An export is all-or-nothing per format, never per batch: each requested
// format is attempted independently and the result carries one outcome per
// format, so a missing rsvg-convert fails the pdf outcome without touching
// the png next to it.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/venviro/chartkit/pkg/errors"
	"github.com/venviro/chartkit/pkg/render"
)

// TimestampLayout is the suffix format appended to filenames when
// Config.AppendTimestamp is set.
const TimestampLayout = "20060102_150405"

// now is swapped out in tests for deterministic filenames.
var now = time.Now

// Destination selects where exported bytes end up.
type Destination string

const (
	// DestDownload keeps the encoded bytes in memory for the caller to
	// hand to the client.
	DestDownload Destination = "download"
	// DestLocal writes files under Config.LocalPath.
	DestLocal Destination = "local"
)

// Config describes a single export request.
type Config struct {
	// Formats to produce. Must not be empty.
	Formats []Format

	// DPI for raster output. Must be positive.
	DPI int

	// Filename is the base name without extension.
	Filename string

	// AppendTimestamp adds _YYYYMMDD_HHMMSS before the extension.
	AppendTimestamp bool

	// Destination defaults to DestDownload.
	Destination Destination

	// LocalPath is the target directory for DestLocal.
	LocalPath string
}

// Outcome is the result of one format attempt.
type Outcome struct {
	Format   Format
	Filename string

	// Path is the absolute file path for DestLocal exports.
	Path string

	// Data holds the encoded bytes for DestDownload exports.
	Data []byte

	Err error
}

// Result collects the per-format outcomes of one export.
type Result struct {
	Outcomes []Outcome
}

// Succeeded returns the outcomes that produced output.
func (r *Result) Succeeded() []Outcome {
	var ok []Outcome
	for _, o := range r.Outcomes {
		if o.Err == nil {
			ok = append(ok, o)
		}
	}
	return ok
}

// Failed returns the outcomes that errored.
func (r *Result) Failed() []Outcome {
	var bad []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			bad = append(bad, o)
		}
	}
	return bad
}

// Export encodes the figure in every requested format. Formats fail
// independently; Export itself only errors when the request is invalid
// before any encoding starts.
func Export(fig *render.Figure, cfg Config) (*Result, error) {
	if len(cfg.Formats) == 0 {
		return nil, errors.New(errors.ErrCodeNoFormatSelected, "no export format selected")
	}
	if cfg.DPI <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidResolution, "dpi must be positive, got %d", cfg.DPI)
	}
	if cfg.Filename == "" {
		return nil, errors.New(errors.ErrCodeMissingField, "export filename is empty")
	}

	dest := cfg.Destination
	if dest == "" {
		dest = DestDownload
	}
	if dest == DestLocal {
		if err := errors.ValidateExportPath(cfg.LocalPath); err != nil {
			return nil, err
		}
		if err := os.MkdirAll(cfg.LocalPath, 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeWriteFailure, err, "create export directory %q", cfg.LocalPath)
		}
	}

	// One timestamp per export so all formats of a batch share a name.
	base := BaseName(cfg.Filename, cfg.AppendTimestamp)

	res := &Result{Outcomes: make([]Outcome, 0, len(cfg.Formats))}
	for _, f := range cfg.Formats {
		o := Outcome{
			Format:   f,
			Filename: fmt.Sprintf("%s.%s", base, f.Ext()),
		}

		data, err := Encode(fig, f, cfg.DPI)
		if err != nil {
			o.Err = err
			res.Outcomes = append(res.Outcomes, o)
			continue
		}

		if dest == DestLocal {
			path, err := WriteLocal(cfg.LocalPath, o.Filename, data)
			if err != nil {
				o.Err = err
			} else {
				o.Path = path
			}
		} else {
			o.Data = data
		}
		res.Outcomes = append(res.Outcomes, o)
	}
	return res, nil
}

// BaseName stamps the filename base with the current timestamp when
// appendTimestamp is set. Callers producing a batch of filenames must call
// it once and reuse the result so every format shares the same stamp.
func BaseName(base string, appendTimestamp bool) string {
	if appendTimestamp {
		return fmt.Sprintf("%s_%s", base, now().Format(TimestampLayout))
	}
	return base
}

// WriteLocal writes one artifact under dir and returns its full path.
func WriteLocal(dir, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeWriteFailure, err, "create export directory %q", dir)
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeWriteFailure, err, "write %q", path)
	}
	return path, nil
}

// Encode produces the figure bytes for one format. jpg piggybacks on the
// png encoder, pdf on the svg encoder.
func Encode(fig *render.Figure, f Format, dpi int) ([]byte, error) {
	var buf bytes.Buffer
	switch f {
	case FormatPNG:
		if err := fig.WritePNG(&buf, dpi); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	case FormatSVG:
		if err := fig.WriteSVG(&buf, dpi); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	case FormatJPG:
		if err := fig.WritePNG(&buf, dpi); err != nil {
			return nil, err
		}
		data, err := jpgFromPNG(buf.Bytes())
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "convert png to jpg")
		}
		return data, nil

	case FormatPDF:
		if err := fig.WriteSVG(&buf, dpi); err != nil {
			return nil, err
		}
		data, err := pdfFromSVG(buf.Bytes())
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "convert svg to pdf")
		}
		return data, nil

	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid export format: %q", string(f))
	}
}
