package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyFile         = errors.New("file is empty")
	ErrMissingColumn     = errors.New("missing required column")
	ErrUnparseableDate   = errors.New("unparseable date")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrInvalidNumber     = errors.New("unparseable number")

	ErrValidation            = errors.New("validation failed")
	ErrInvalidRedistribution = errors.New("invalid redistribution")

	ErrNotFound           = errors.New("not found")
	ErrNotCustomProduct   = errors.New("only custom products can be deleted")
	ErrUnsupportedVersion = errors.New("unsupported hand-off version")
)

// ImportError aborts a spreadsheet import. Nothing is produced from a file
// that fails with an ImportError.
type ImportError struct {
	File   string
	Row    int
	Column string
	Err    error
}

func (e *ImportError) Error() string {
	var b strings.Builder
	b.WriteString("import")
	if e.File != "" {
		fmt.Fprintf(&b, " %s", e.File)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, ": row %d", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ": column %q", e.Column)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// IsImportError reports whether err aborted an import.
func IsImportError(err error) bool {
	var ie *ImportError
	return errors.As(err, &ie)
}

// ValidationError is a configuration problem shown next to the offending field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrValidation
	}
	return e.Err
}

func (e ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ValidationErrors blocks a wizard step until every entry is fixed.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v))
	for i, e := range v {
		errs[i] = e
	}
	return errs
}

// WarningKind classifies a non-blocking data-sufficiency problem.
type WarningKind string

const (
	WarnZeroSales          WarningKind = "zero_sales"
	WarnZeroTrafficDay     WarningKind = "zero_traffic_day"
	WarnNoTraffic          WarningKind = "no_traffic"
	WarnLostRedistribution WarningKind = "lost_redistribution"
)

// Warning is attached to results so a human can intervene.
type Warning struct {
	Kind      WarningKind `json:"kind"`
	ProductID string      `json:"product_id,omitempty"`
	Day       *Day        `json:"day,omitempty"`
	Message   string      `json:"message"`
}

// DayWarning builds a warning about a single day.
func DayWarning(kind WarningKind, d Day, msg string) Warning {
	return Warning{Kind: kind, Day: &d, Message: msg}
}
