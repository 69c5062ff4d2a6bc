package errors

import (
	"strings"
	"unicode"

	"github.com/matzehuels/gridpack/pkg/grid"
)

// MaxColumn is the widest grid accepted from user input.
const MaxColumn = 1024

// ValidateColumn checks a column count from user input.
func ValidateColumn(column int) error {
	if column < 1 {
		return New(ErrCodeInvalidColumn, "column must be at least 1, got %d", column)
	}
	if column > MaxColumn {
		return New(ErrCodeInvalidColumn, "column too large (max %d), got %d", MaxColumn, column)
	}
	return nil
}

// ValidateMaxRow checks a row limit; zero means unbounded.
func ValidateMaxRow(maxRow int) error {
	if maxRow < 0 {
		return New(ErrCodeInvalidInput, "maxRow cannot be negative, got %d", maxRow)
	}
	return nil
}

// ValidateWidgetID checks a widget id supplied on the command line or in a
// request. Ids in layout files are not restricted.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters
//   - Maximum length of 256 characters
func ValidateWidgetID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidInput, "widget id cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "widget id too long (max 256 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "widget id contains invalid control characters")
		}
	}
	return nil
}

// ValidateLayoutMode parses a column rescale mode. The empty string is the
// default mode.
func ValidateLayoutMode(mode string) (grid.LayoutMode, error) {
	m, err := grid.ParseLayoutMode(mode)
	if err != nil {
		return "", Wrap(ErrCodeInvalidLayoutMode, err, "invalid layout mode %q", mode)
	}
	return m, nil
}

// ValidateLayout reports the first structural problem in widgets as an
// error: duplicate ids are INVALID_LAYOUT, overlaps OVERLAP, and widgets
// leaving the grid or breaking their size limits OUT_OF_BOUNDS. All
// violations are returned alongside for callers that want the full list.
func ValidateLayout(widgets []grid.Widget, column, maxRow int) ([]grid.Violation, error) {
	vs := grid.Check(widgets, column, maxRow)
	if len(vs) == 0 {
		return nil, nil
	}
	first := vs[0]
	var code Code
	switch first.Kind {
	case grid.ViolationDuplicate:
		code = ErrCodeInvalidLayout
	case grid.ViolationOverlap:
		code = ErrCodeOverlap
	default:
		code = ErrCodeOutOfBounds
	}
	if len(vs) == 1 {
		return vs, New(code, "%s", first)
	}
	return vs, New(code, "%s (and %d more)", first, len(vs)-1)
}
