package payload

import (
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// Kind classifies payload failures.
type Kind string

const (
	KindParse         Kind = "parse_error"
	KindScan          Kind = "scan_error"
	KindValidation    Kind = "validation_error"
	KindMissingData   Kind = "missing_data"
	KindInvalidFormat Kind = "invalid_format"
	KindGeneration    Kind = "generation_error"
	KindImage         Kind = "image_error"
)

// Error is the typed failure returned for untrusted input and generation
// problems. Details carries a short excerpt of the offending input.
type Error struct {
	Kind    Kind
	Message string
	Details string
	Err     error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if e.Details != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Details)
		sb.WriteString(")")
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind. A target with a message also
// requires the message to match, so ErrParse matches every parse error while
// ErrUnsupportedFormat matches only itself.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Sentinels for errors.Is.
var (
	ErrParse         = &Error{Kind: KindParse}
	ErrScan          = &Error{Kind: KindScan}
	ErrValidation    = &Error{Kind: KindValidation}
	ErrMissingData   = &Error{Kind: KindMissingData}
	ErrInvalidFormat = &Error{Kind: KindInvalidFormat}
	ErrGeneration    = &Error{Kind: KindGeneration}
	ErrImage         = &Error{Kind: KindImage}

	ErrUnsupportedFormat = &Error{Kind: KindGeneration, Message: "format not supported for this entity"}
)

// NewError builds an *Error. Details are clipped to 50 characters.
func NewError(kind Kind, message, details string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Details: excerpt(details), Err: cause}
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

func excerpt(s string) string {
	const limit = 50
	if len(s) <= limit {
		return s
	}
	n := limit
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
