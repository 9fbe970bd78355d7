package naming

import (
	"fmt"
	"strconv"
	"strings"

	"bindkit/internal/common"
	"bindkit/internal/match"
)

// Identifier is a logical or physical database name.
type Identifier struct {
	Text   string
	Quoted bool
}

// ToIdentifier builds an identifier, treating text wrapped in double quotes
// or backticks as quoted.
func ToIdentifier(text string) Identifier {
	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if (first == '"' && last == '"') || (first == '`' && last == '`') {
			return Identifier{Text: text[1 : len(text)-1], Quoted: true}
		}
	}

	return Identifier{Text: text}
}

// IsEmpty reports whether the identifier has no text.
func (id Identifier) IsEmpty() bool {
	return id.Text == ""
}

// String renders the identifier, in double quotes when quoted.
func (id Identifier) String() string {
	if id.Quoted {
		return strconv.Quote(id.Text)
	}

	return id.Text
}

// Kind is the category of a database identifier.
type Kind int

const (
	Catalog Kind = iota
	Schema
	Table
	Sequence
	Column
)

var kindNames = [...]string{"catalog", "schema", "table", "sequence", "column"}

// Kinds lists every identifier kind in declaration order.
func Kinds() []Kind {
	return []Kind{Catalog, Schema, Table, Sequence, Column}
}

// String returns the lowercase kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return common.UnknownStr
	}

	return kindNames[k]
}

// ParseKind returns the kind named s.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Kind(i), nil
		}
	}

	return 0, fmt.Errorf("unknown identifier kind %q%s", s, match.DidYouMean(s, kindNames[:]))
}
