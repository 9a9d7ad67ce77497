package steamspy

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned by app detail lookups whose payload is empty.
	ErrNotFound = errors.New("app not found")

	// ErrInvalidParameter is returned when a request argument is out of range.
	ErrInvalidParameter = errors.New("invalid request parameter")

	// ErrUnsupportedFormat is returned for output formats other than json and csv.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNotValidated is returned when an Archiver is run before Validate.
	ErrNotValidated = errors.New("archiver hasn't been validated")
)

// FieldError is returned when a required field of a raw app object is
// missing or cannot be converted.
type FieldError struct {
	Field   string
	Missing bool
	Value   string
}

func (e *FieldError) Error() string {
	if e.Missing {
		return fmt.Sprintf("missing field %q", e.Field)
	}
	return fmt.Sprintf("invalid value %s for field %q", e.Value, e.Field)
}

// FetchError reports that a page could not be rendered at all.
// Archive runs stop on it.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsMissingField reports whether err was caused by a missing required field.
func IsMissingField(err error) bool {
	var fe *FieldError
	return errors.As(err, &fe) && fe.Missing
}

// IsFetchError reports whether err is an unrecoverable fetch failure.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
