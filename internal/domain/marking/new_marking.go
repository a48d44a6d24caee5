package marking

import "errors"

// RawMarking is the untrusted input for a new marking.
type RawMarking struct {
	Name           string
	DefinitionType string
	Definition     string
}

// NewMarking is a marking whose parts all passed validation. It carries no
// identity; ids, timestamps and authorship are assigned when it is stored.
type NewMarking struct {
	name           Name
	definitionType DefinitionType
	definition     Definition
}

var errUnparsedPart = errors.New("marking parts must come from their Parse functions")

// Compose builds a NewMarking from parts that were already parsed.
func Compose(name Name, definitionType DefinitionType, definition Definition) (NewMarking, error) {
	if name.IsZero() || definitionType.IsZero() || definition.IsZero() {
		return NewMarking{}, errUnparsedPart
	}
	return NewMarking{name: name, definitionType: definitionType, definition: definition}, nil
}

// ParseNewMarking parses name, then definition, then definition type and
// returns the first failure unchanged.
func ParseNewMarking(raw RawMarking) (NewMarking, error) {
	name, err := ParseName(raw.Name)
	if err != nil {
		return NewMarking{}, err
	}
	definition, err := ParseDefinition(raw.Definition)
	if err != nil {
		return NewMarking{}, err
	}
	definitionType, err := ParseDefinitionType(raw.DefinitionType)
	if err != nil {
		return NewMarking{}, err
	}
	return NewMarking{name: name, definitionType: definitionType, definition: definition}, nil
}

func (m NewMarking) Name() Name { return m.name }

func (m NewMarking) DefinitionType() DefinitionType { return m.definitionType }

func (m NewMarking) Definition() Definition { return m.definition }

// IsZero reports whether m is the zero value rather than a parsed marking.
func (m NewMarking) IsZero() bool { return m.name.IsZero() }
