// Package dataset parses and validates the upload JSON into a typed chart
// dataset.
//
// Validation happens eagerly at this boundary: renderers never see raw
// untyped maps, and a dataset that violates any invariant (missing fields,
// ragged value rows, duplicate categories, zero groups) is rejected with a
// specific error code before any drawing logic runs.
//
// The upload shape is:
//
//	{
//	  "title": "...",
//	  "category_names": ["A", "B", ...],
//	  "results": { "group": [1, 2, ...], ... },
//	  "filename": "optional_base_name"
//	}
//
// Group order matters (it becomes legend and stack order), so the results
// object is decoded with a token walk instead of a map unmarshal, which
// would destroy JSON insertion order.
package dataset

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/venviro/chartkit/pkg/errors"
)

// Group is a named series of values, one per category.
type Group struct {
	Name   string
	Values []float64
}

// Dataset is the validated, normalized representation of an upload.
// Categories and Groups preserve the upload's order. The active-category
// set starts as the full category list and is narrowed by
// SetActiveCategories; everything else is immutable after Parse.
type Dataset struct {
	Title        string
	Categories   []string
	Groups       []Group
	FilenameBase string

	active map[string]bool
}

// upload mirrors the raw JSON document, with results kept raw for the
// ordered decode pass.
type upload struct {
	Title         *string         `json:"title"`
	CategoryNames *[]string       `json:"category_names"`
	Results       json.RawMessage `json:"results"`
	Filename      *string         `json:"filename"`
}

// Parse decodes and validates an upload document.
//
// Failure modes:
//   - MISSING_FIELD: category_names or results absent
//   - EMPTY_DATASET: no categories or no groups
//   - DUPLICATE_CATEGORY: repeated category label
//   - LENGTH_MISMATCH: a group's value count differs from the category count
//   - INVALID_INPUT: the document is not well-formed JSON
func Parse(data []byte) (*Dataset, error) {
	var raw upload
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed upload JSON")
	}

	if raw.CategoryNames == nil {
		return nil, errors.New(errors.ErrCodeMissingField, "upload is missing required field %q", "category_names")
	}
	if raw.Results == nil {
		return nil, errors.New(errors.ErrCodeMissingField, "upload is missing required field %q", "results")
	}

	categories := *raw.CategoryNames
	if len(categories) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "category_names is empty")
	}

	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		if seen[c] {
			return nil, errors.New(errors.ErrCodeDuplicateCategory, "category %q appears more than once", c)
		}
		seen[c] = true
	}

	groups, err := decodeGroups(raw.Results)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "results contains no groups")
	}
	for _, g := range groups {
		if len(g.Values) != len(categories) {
			return nil, errors.New(errors.ErrCodeLengthMismatch,
				"group %q has %d values, want %d (one per category)", g.Name, len(g.Values), len(categories))
		}
	}

	d := &Dataset{
		Categories:   categories,
		Groups:       groups,
		FilenameBase: filenameBase(raw.Filename),
		active:       make(map[string]bool, len(categories)),
	}
	if raw.Title != nil {
		d.Title = *raw.Title
	}
	for _, c := range categories {
		d.active[c] = true
	}
	return d, nil
}

// decodeGroups walks the results object token by token so group order
// survives. A bare array is also accepted and treated as a single group
// named "results", matching the looser upload shape the original frontend
// tolerated for pie data.
func decodeGroups(raw json.RawMessage) ([]Group, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var values []float64
		if err := json.Unmarshal(raw, &values); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "results array is not numeric")
		}
		return []Group{{Name: "results", Values: values}}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "results is not an object")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New(errors.ErrCodeInvalidInput, "results must be an object of value arrays")
	}

	var groups []Group
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading results")
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "results has a non-string key")
		}

		var values []float64
		if err := dec.Decode(&values); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "group %q is not a numeric array", name)
		}
		groups = append(groups, Group{Name: name, Values: values})
	}
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading results")
	}
	return groups, nil
}

// filenameBase derives the export filename base from the optional upload
// filename: path and extension are stripped, and anything unusable falls
// back to a generated chart_<uuid8> name.
func filenameBase(name *string) string {
	if name != nil {
		base := filepath.Base(*name)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		if errors.ValidateFilenameBase(base) == nil {
			return base
		}
	}
	return "chart_" + uuid.NewString()[:8]
}

// GroupCount returns the number of groups.
func (d *Dataset) GroupCount() int { return len(d.Groups) }

// CategoryCount returns the total number of categories, active or not.
func (d *Dataset) CategoryCount() int { return len(d.Categories) }

// Group returns the group with the given name.
func (d *Dataset) Group(name string) (Group, bool) {
	for _, g := range d.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

// FirstGroup returns the first group in upload order. Parse guarantees at
// least one group exists.
func (d *Dataset) FirstGroup() Group { return d.Groups[0] }

// IsActive reports whether the category is currently included.
func (d *Dataset) IsActive(category string) bool { return d.active[category] }

// SetActiveCategories restricts the active set to subset ∩ Categories.
// Unknown labels in subset are ignored. An empty intersection fails with
// EMPTY_DATASET and leaves the active set unchanged, so a bad filter never
// produces a degenerate chart.
func (d *Dataset) SetActiveCategories(subset []string) error {
	requested := make(map[string]bool, len(subset))
	for _, c := range subset {
		requested[c] = true
	}

	next := make(map[string]bool, len(d.Categories))
	count := 0
	for _, c := range d.Categories {
		if requested[c] {
			next[c] = true
			count++
		}
	}
	if count == 0 {
		return errors.New(errors.ErrCodeEmptyDataset, "category filter matches none of the dataset's categories")
	}

	d.active = next
	return nil
}

// ResetActiveCategories restores the full category set.
func (d *Dataset) ResetActiveCategories() {
	for _, c := range d.Categories {
		d.active[c] = true
	}
}

// ActiveIndices returns the positions of active categories in axis order.
func (d *Dataset) ActiveIndices() []int {
	idx := make([]int, 0, len(d.Categories))
	for i, c := range d.Categories {
		if d.active[c] {
			idx = append(idx, i)
		}
	}
	return idx
}

// ActiveCategories returns the active category labels in axis order.
func (d *Dataset) ActiveCategories() []string {
	out := make([]string, 0, len(d.Categories))
	for _, c := range d.Categories {
		if d.active[c] {
			out = append(out, c)
		}
	}
	return out
}

// ActiveValues selects g's values at the active category positions.
// This is an index pass over the stored slice; the underlying results are
// never duplicated wholesale.
func (d *Dataset) ActiveValues(g Group) []float64 {
	idx := d.ActiveIndices()
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = g.Values[j]
	}
	return out
}
