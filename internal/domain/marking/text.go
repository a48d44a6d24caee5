package marking

import (
	"strings"

	"github.com/rivo/uniseg"
)

// MaxGraphemes bounds names and definitions in user-perceived characters.
const MaxGraphemes = 256

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func tooLong(s string) bool {
	return uniseg.GraphemeClusterCount(s) > MaxGraphemes
}
