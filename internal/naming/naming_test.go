package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestCamelToSnake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"OrderID", "order_id"},
		{"customerName", "customer_name"},
		{"XMLParser", "xml_parser"},
		{"getHTTPResponse", "get_http_response"},
		{"line-item id", "line_item_id"},
		{"already_snake", "already_snake"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CamelToSnake(tt.in))
		})
	}
}

func TestLowercase_Locale(t *testing.T) {
	assert.Equal(t, "title", Lowercase(language.Und)("TITLE"))
	// Turkish dotted capital I lowercases to a plain i
	assert.Equal(t, "istanbul", Lowercase(language.Turkish)("İSTANBUL"))
	assert.Equal(t, "ısparta", Lowercase(language.Turkish)("ISPARTA"))
	assert.Equal(t, "isparta", Lowercase(language.English)("ISPARTA"))
}

func TestPhysicalNamingStrategy_Default(t *testing.T) {
	s := NewPhysicalNamingStrategy()

	for _, k := range Kinds() {
		assert.Equal(t, Identifier{Text: "orderline"}, s.Apply(k, Identifier{Text: "OrderLine"}), k.String())
	}

	quoted := ToIdentifier(`"MixedCase"`)
	assert.Equal(t, quoted, s.TableName(quoted))
	assert.Equal(t, `"MixedCase"`, s.TableName(quoted).String())
	assert.Equal(t, Identifier{}, s.ColumnName(Identifier{}))
}

func TestPhysicalNamingStrategy_Options(t *testing.T) {
	s := NewPhysicalNamingStrategy(
		WithLocale(language.Turkish),
		WithTransform(Column, Chain(CamelToSnake, Lowercase(language.Turkish))),
		WithTransform(Catalog, Identity),
	)

	assert.Equal(t, "ınvoıce", s.TableName(Identifier{Text: "INVOICE"}).Text)
	assert.Equal(t, "index", s.TableName(Identifier{Text: "İNDEX"}).Text)
	assert.Equal(t, "due_date", s.ColumnName(Identifier{Text: "DueDate"}).Text)
	assert.Equal(t, "Main", s.CatalogName(Identifier{Text: "Main"}).Text)
	assert.Equal(t, "seq", s.SequenceName(Identifier{Text: "SEQ"}).Text)
	assert.Equal(t, "app", s.SchemaName(Identifier{Text: "APP"}).Text)
}

func TestTransformByName(t *testing.T) {
	snake, err := TransformByName("snake", language.Und)
	require.NoError(t, err)
	assert.Equal(t, "order_line", snake("OrderLine"))

	none, err := TransformByName("", language.Und)
	require.NoError(t, err)
	assert.Equal(t, "OrderLine", none("OrderLine"))

	_, err = TransformByName("upper", language.Und)
	assert.Error(t, err)
}

func TestKind(t *testing.T) {
	k, err := ParseKind("Column")
	require.NoError(t, err)
	assert.Equal(t, Column, k)
	assert.Equal(t, "unknown", Kind(12).String())

	_, err = ParseKind("index")
	assert.Error(t, err)

	_, err = ParseKind("colum")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean column?")
}

func TestToIdentifier(t *testing.T) {
	assert.Equal(t, Identifier{Text: "a b", Quoted: true}, ToIdentifier("`a b`"))
	assert.Equal(t, Identifier{Text: `"`}, ToIdentifier(`"`))
	assert.True(t, Identifier{}.IsEmpty())
}
