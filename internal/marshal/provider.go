package marshal

import (
	"fmt"
	"reflect"
	"strings"

	"bindkit/internal/common"
)

// ProviderKind identifies one of the bundled providers.
type ProviderKind int

const (
	// ProviderExtended binds XML and JSON.
	ProviderExtended ProviderKind = iota
	// ProviderReference binds XML only.
	ProviderReference
)

// String returns the configuration name of the provider kind.
func (k ProviderKind) String() string {
	switch k {
	case ProviderExtended:
		return "extended"
	case ProviderReference:
		return "reference"
	default:
		return common.UnknownStr
	}
}

// ParseProviderKind returns the provider kind named by s.
func ParseProviderKind(s string) (ProviderKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "extended", "":
		return ProviderExtended, nil
	case "reference":
		return ProviderReference, nil
	default:
		return 0, fmt.Errorf("%w: unknown provider %q", ErrInvalidArgument, s)
	}
}

// Provider builds binding contexts for a set of known types.
type Provider interface {
	Kind() ProviderKind
	Supports(format Format) bool
	NewContext(types []reflect.Type, props Properties, resolver *NamespacePrefixResolver) (*Context, error)
}

// Extended returns the provider that binds both XML and JSON.
func Extended() Provider {
	return extendedProvider{}
}

// Reference returns the XML-only provider.
func Reference() Provider {
	return referenceProvider{}
}

// ProviderFor returns the provider of the given kind.
func ProviderFor(kind ProviderKind) (Provider, error) {
	switch kind {
	case ProviderExtended:
		return Extended(), nil
	case ProviderReference:
		return Reference(), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider kind %d", ErrInvalidArgument, int(kind))
	}
}

type extendedProvider struct{}

func (extendedProvider) Kind() ProviderKind { return ProviderExtended }

func (extendedProvider) Supports(format Format) bool {
	return format == XML || format == JSON
}

func (p extendedProvider) NewContext(types []reflect.Type, props Properties, resolver *NamespacePrefixResolver) (*Context, error) {
	xs, err := readXMLSettings(props, prefixPolicy{defaultRootNamespace: true, firstGenerated: 0})
	if err != nil {
		return nil, err
	}

	js := jsonSettings{formatted: xs.formatted}

	if js.includeRoot, err = props.Bool(PropertyJSONIncludeRoot, false); err != nil {
		return nil, err
	}

	if js.wrapperAsArrayName, err = props.Bool(PropertyJSONWrapperAsArrayName, true); err != nil {
		return nil, err
	}

	if js.omitEmptyCollections, err = props.Bool(PropertyJSONOmitEmptyCollections, true); err != nil {
		return nil, err
	}

	if js.valueWrapper, err = props.String(PropertyJSONValueWrapper, "value"); err != nil {
		return nil, err
	}

	return newContext(p.Kind(), types, resolver, xs, &js)
}

type referenceProvider struct{}

func (referenceProvider) Kind() ProviderKind { return ProviderReference }

func (referenceProvider) Supports(format Format) bool {
	return format == XML
}

func (p referenceProvider) NewContext(types []reflect.Type, props Properties, resolver *NamespacePrefixResolver) (*Context, error) {
	xs, err := readXMLSettings(props, prefixPolicy{firstGenerated: 2})
	if err != nil {
		return nil, err
	}

	return newContext(p.Kind(), types, resolver, xs, nil)
}

func readXMLSettings(props Properties, policy prefixPolicy) (xmlSettings, error) {
	xs := xmlSettings{prefixes: policy}

	var err error
	if xs.formatted, err = props.Bool(PropertyFormattedOutput, false); err != nil {
		return xs, err
	}

	if xs.fragment, err = props.Bool(PropertyFragment, false); err != nil {
		return xs, err
	}

	return xs, nil
}
