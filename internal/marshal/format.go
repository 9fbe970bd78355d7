package marshal

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=Format -linecomment -output=format_string.go

// Format identifies the textual representation produced by a marshaller.
type Format int

const (
	XML  Format = iota // xml
	JSON               // json
)

// ParseFormat returns the Format named by s, ignoring case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xml":
		return XML, nil
	case "json":
		return JSON, nil
	default:
		return 0, fmt.Errorf("%w: unknown format %q", ErrInvalidArgument, s)
	}
}

// ContentType returns the MIME type of documents in this format.
func (f Format) ContentType() string {
	switch f {
	case XML:
		return "application/xml"
	case JSON:
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
