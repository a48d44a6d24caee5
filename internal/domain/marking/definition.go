package marking

import (
	"fmt"
	"strings"
)

const FieldDefinition = "definition"

// forbiddenDefinitionChars are rejected anywhere in a definition.
const forbiddenDefinitionChars = `/()"<>\{}`

// Definition is the human readable text describing a marking.
type Definition struct {
	value string
}

func ParseDefinition(raw string) (Definition, error) {
	if blank(raw) || tooLong(raw) || strings.ContainsAny(raw, forbiddenDefinitionChars) {
		return Definition{}, invalid(FieldDefinition, fmt.Sprintf("%s is not a valid definition for a marking.", raw))
	}
	return Definition{value: raw}, nil
}

func (d Definition) String() string { return d.value }

func (d Definition) IsZero() bool { return d.value == "" }
