package marking

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const FieldDefinitionType = "definition_type"

// Kind enumerates the supported marking types.
type Kind uint8

const (
	kindUnknown Kind = iota
	KindTLP
	KindStatement
)

// Kinds lists every supported kind in declaration order. Callers own the
// returned slice.
func Kinds() []Kind { return []Kind{KindTLP, KindStatement} }

func (k Kind) String() string {
	switch k {
	case KindTLP:
		return "tlp"
	case KindStatement:
		return "statement"
	default:
		return ""
	}
}

func kindFromString(s string) (Kind, error) {
	// Casers keep state between calls, so each parse gets its own.
	lowered := cases.Lower(language.Und).String(s)
	switch lowered {
	case "tlp":
		return KindTLP, nil
	case "statement":
		return KindStatement, nil
	default:
		return kindUnknown, invalid(FieldDefinitionType, fmt.Sprintf(
			"%s is not a supported marking type. Use either 'tlp' or 'statement'.",
			lowered,
		))
	}
}

// DefinitionType classifies a marking. Its string form is always the
// canonical lowercase kind name.
type DefinitionType struct {
	kind Kind
}

func ParseDefinitionType(raw string) (DefinitionType, error) {
	k, err := kindFromString(raw)
	if err != nil {
		return DefinitionType{}, err
	}
	return DefinitionType{kind: k}, nil
}

func (t DefinitionType) Kind() Kind { return t.kind }

func (t DefinitionType) String() string { return t.kind.String() }

func (t DefinitionType) IsZero() bool { return t.kind == kindUnknown }
