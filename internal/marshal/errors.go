package marshal

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrUnsupportedFormat is reported when the active provider cannot handle the requested format.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrInvalidArgument is reported for unusable inputs such as a nil unmarshal target.
	ErrInvalidArgument = errors.New("invalid argument")
)

const (
	opMarshal   = "marshal"
	opUnmarshal = "unmarshal"
)

// Error is the single failure type returned by Marshaller operations.
// The provider diagnostic is preserved as the wrapped cause.
type Error struct {
	Op       string
	Format   Format
	Provider ProviderKind
	Type     string
	Err      error
}

func (e *Error) Error() string {
	subject := e.Type
	if subject == "" {
		subject = "value"
	}

	return fmt.Sprintf("could not %s %s as %s (%s): %v", e.Op, subject, e.Format, e.Provider, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op string, format Format, provider ProviderKind, t reflect.Type, err error) *Error {
	e := &Error{
		Op:       op,
		Format:   format,
		Provider: provider,
		Err:      err,
	}
	if t != nil {
		e.Type = t.String()
	}

	return e
}

func unsupportedFormat(provider ProviderKind, format Format) error {
	return fmt.Errorf("%w: provider %s does not support %s", ErrUnsupportedFormat, provider, format)
}
