// Package jsonx provides a configurable JSON object mapper.
package jsonx

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// Mapper reads and writes JSON with a fixed configuration. The zero value
// writes compact JSON and ignores unknown fields.
type Mapper struct {
	indent string
	strict bool
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithIndent pretty-prints output using indent per level.
func WithIndent(indent string) Option {
	return func(m *Mapper) {
		m.indent = indent
	}
}

// WithStrict rejects input carrying fields the target does not declare.
func WithStrict() Option {
	return func(m *Mapper) {
		m.strict = true
	}
}

// New returns a Mapper configured by opts.
func New(opts ...Option) *Mapper {
	m := &Mapper{}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Write encodes v to w.
func (m *Mapper) Write(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if m.indent != "" {
		enc.SetIndent("", m.indent)
	}

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write %T as json: %w", v, err)
	}

	return nil
}

// WriteString encodes v and returns it without the trailing newline.
func (m *Mapper) WriteString(v any) (string, error) {
	var buf bytes.Buffer
	if err := m.Write(&buf, v); err != nil {
		return "", err
	}

	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

func (m *Mapper) decode(data []byte, target any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if m.strict {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(target); err != nil {
		return err
	}

	if dec.More() {
		return errors.New("trailing data after json value")
	}

	return nil
}

// Read decodes data into a new T.
func Read[T any](m *Mapper, data []byte) (T, error) {
	var v T
	if err := m.decode(data, &v); err != nil {
		return v, fmt.Errorf("failed to read json as %T: %w", v, err)
	}

	return v, nil
}

// ReadList decodes a JSON array of T.
func ReadList[T any](m *Mapper, data []byte) ([]T, error) {
	return Read[[]T](m, data)
}

// Convert maps from onto a new T by writing and reading it back, the way
// loosely typed values (e.g. map[string]any) become structs.
func Convert[T any](m *Mapper, from any) (T, error) {
	var zero T

	data, err := json.Marshal(from)
	if err != nil {
		return zero, fmt.Errorf("failed to convert %T: %w", from, err)
	}

	return Read[T](m, data)
}
