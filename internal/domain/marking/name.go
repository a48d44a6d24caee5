package marking

import (
	"fmt"
	"strconv"
)

const FieldName = "name"

// Name identifies a marking: lowercase latin letters and '_' only.
type Name struct {
	value string
}

// nameAlphabet holds the base-36 digits 10..35 plus '_'.
var nameAlphabet = func() map[rune]struct{} {
	set := make(map[rune]struct{}, 27)
	for i := int64(10); i < 36; i++ {
		set[rune(strconv.FormatInt(i, 36)[0])] = struct{}{}
	}
	set['_'] = struct{}{}
	return set
}()

func ParseName(raw string) (Name, error) {
	if blank(raw) || tooLong(raw) || !onlyNameRunes(raw) {
		return Name{}, invalid(FieldName, fmt.Sprintf("%s is not a valid name for a marking.", raw))
	}
	return Name{value: raw}, nil
}

func onlyNameRunes(s string) bool {
	for _, r := range s {
		if _, ok := nameAlphabet[r]; !ok {
			return false
		}
	}
	return true
}

func (n Name) String() string { return n.value }

// IsZero reports whether n was never produced by ParseName.
func (n Name) IsZero() bool { return n.value == "" }
