package naming

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Transform rewrites the text of an identifier.
type Transform func(string) string

// Identity returns its input.
func Identity(s string) string { return s }

// Lowercase returns a locale aware lowercasing transform. Under language.Und
// the result does not depend on the host locale.
func Lowercase(tag language.Tag) Transform {
	return func(s string) string {
		// cases.Caser is stateful, one per call keeps the transform goroutine safe.
		return cases.Lower(tag).String(s)
	}
}

// CamelToSnake splits camel case and separator delimited words and joins them
// with underscores, e.g. "OrderLineID" becomes "order_line_id".
func CamelToSnake(s string) string {
	return strings.ToLower(joinWords(s))
}

// joinWords is CamelToSnake without case folding.
func joinWords(s string) string {
	return strings.Join(tokenize(s), "_")
}

// Chain applies ts from left to right.
func Chain(ts ...Transform) Transform {
	return func(s string) string {
		for _, t := range ts {
			if t != nil {
				s = t(s)
			}
		}

		return s
	}
}

// TransformByName resolves the transform names used in configuration files:
// "lower", "snake" and "none" (or empty).
func TransformByName(name string, tag language.Tag) (Transform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lower":
		return Lowercase(tag), nil
	case "snake":
		return Chain(joinWords, Lowercase(tag)), nil
	case "none", "":
		return Identity, nil
	default:
		return nil, fmt.Errorf("unknown naming transform %q", name)
	}
}

// tokenize splits a camelCase, CamelCase or separated identifier into words.
// Examples:
//   - "OrderID" -> ["Order", "ID"]
//   - "XMLParser" -> ["XML", "Parser"]
//   - "line-item id" -> ["line", "item", "id"]
func tokenize(s string) []string {
	if s == "" {
		return nil
	}

	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()

			continue
		}

		if i > 0 && startsWord(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// startsWord reports whether a new word begins at runes[i].
func startsWord(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	// "orderID" splits before 'I'
	if !unicode.IsUpper(prev) {
		return true
	}

	// "XMLParser" splits before 'P'
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
