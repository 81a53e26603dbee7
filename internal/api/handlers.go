package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/venviro/chartkit/pkg/buildinfo"
	"github.com/venviro/chartkit/pkg/errors"
	"github.com/venviro/chartkit/pkg/export"
	"github.com/venviro/chartkit/pkg/pipeline"
)

// contentTypes maps formats to response content types.
var contentTypes = map[export.Format]string{
	export.FormatPNG: "image/png",
	export.FormatJPG: "image/jpeg",
	export.FormatSVG: "image/svg+xml",
	export.FormatPDF: "application/pdf",
}

// renderResponse is the JSON envelope for multi-format requests. Formats
// fail independently, so a failed pdf lands in Errors while the png next
// to it still arrives in Artifacts.
type renderResponse struct {
	Filename  string                   `json:"filename"`
	Artifacts map[string][]byte        `json:"artifacts"`
	Errors    map[string]errorResponse `json:"errors,omitempty"`
	Warnings  []string                 `json:"warnings,omitempty"`
	Cached    bool                     `json:"cached"`
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// handleRender runs the pipeline for the uploaded dataset.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	upload, err := io.ReadAll(io.LimitReader(r.Body, maxUploadSize+1))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return
	}
	if len(upload) > maxUploadSize {
		s.writeError(w, r, http.StatusRequestEntityTooLarge,
			errors.New(errors.ErrCodeInvalidInput, "upload exceeds %d bytes", maxUploadSize))
		return
	}

	opts, err := optionsFromQuery(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	opts.Logger = s.logger

	result, err := s.runner.Execute(r.Context(), upload, opts)
	if err != nil {
		s.writeError(w, r, statusForError(err), err)
		return
	}

	// The request only fails outright when no format produced output.
	// Partial failures travel in the envelope next to the good artifacts.
	failed := result.Failed()
	if len(failed) > 0 && len(failed) == len(result.Outcomes) {
		s.writeError(w, r, statusForError(failed[0].Err), failed[0].Err)
		return
	}

	// Single format: raw bytes with the right content type.
	if len(result.Outcomes) == 1 {
		o := result.Outcomes[0]
		w.Header().Set("Content-Type", contentTypes[o.Format])
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", o.Filename))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(o.Data)
		return
	}

	resp := renderResponse{
		Filename:  result.Dataset.FilenameBase,
		Artifacts: result.Artifacts(),
		Warnings:  result.Warnings,
		Cached:    result.CacheInfo.ArtifactHit,
	}
	for _, o := range failed {
		if resp.Errors == nil {
			resp.Errors = make(map[string]errorResponse, len(failed))
		}
		resp.Errors[string(o.Format)] = errorResponse{
			Code:  string(errors.GetCode(o.Err)),
			Error: errors.UserMessage(o.Err),
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleHealth reports liveness and build info.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// optionsFromQuery builds pipeline options from the request query.
func optionsFromQuery(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()

	opts := pipeline.Options{
		Kind:     q.Get("kind"),
		Scheme:   q.Get("scheme"),
		Title:    q.Get("title"),
		XLabel:   q.Get("xlabel"),
		YLabel:   q.Get("ylabel"),
		PieGroup: q.Get("group"),
		Filename: q.Get("filename"),
	}

	// Formats and categories accept repeated params and comma lists.
	opts.Formats = splitMulti(q["format"])
	opts.Categories = splitMulti(q["categories"])

	if v := q.Get("dpi"); v != "" {
		dpi, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidResolution, "invalid dpi: %q", v)
		}
		if dpi <= 0 {
			return opts, errors.New(errors.ErrCodeInvalidResolution, "dpi must be positive, got %d", dpi)
		}
		opts.DPI = dpi
	}
	if v := q.Get("timestamp"); v != "" {
		ts, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid timestamp flag: %q", v)
		}
		opts.AppendTimestamp = ts
	}
	if v := q.Get("refresh"); v != "" {
		refresh, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid refresh flag: %q", v)
		}
		opts.Refresh = refresh
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

// splitMulti flattens repeated query params with comma-separated values.
func splitMulti(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// statusForError maps pipeline errors to HTTP status codes: bad uploads
// and bad parameters are 400, unsatisfiable chart requests are 422, and
// everything else is 500.
func statusForError(err error) int {
	switch {
	case errors.IsValidation(err):
		return http.StatusBadRequest
	case errors.IsRender(err):
		return http.StatusUnprocessableEntity
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidScheme, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidResolution, errors.ErrCodeNoFormatSelected, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logger.Warn("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"err", err)
	s.writeJSON(w, status, errorResponse{
		Code:  string(errors.GetCode(err)),
		Error: errors.UserMessage(err),
	})
}
