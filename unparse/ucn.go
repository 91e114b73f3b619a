package unparse

import (
	"fmt"
	"strings"
)

// escapeUCN rewrites every non-ASCII code point in an identifier's text as a
// universal-character-name escape (\uXXXX, or \UXXXXXXXX above the basic
// multilingual plane), leaving every ASCII byte untouched. Grounded on spec.md §4.6's identifier-escaping rule.
func escapeUCN(text string) string {
	hasNonASCII := false
	for _, r := range text {
		if r > 127 {
			hasNonASCII = true
			break
		}
	}
	if !hasNonASCII {
		return text
	}
	var out strings.Builder
	for _, r := range text {
		if r <= 127 {
			out.WriteRune(r)
			continue
		}
		if r <= 0xFFFF {
			fmt.Fprintf(&out, "\\u%04X", r)
		} else {
			fmt.Fprintf(&out, "\\U%08X", r)
		}
	}
	return out.String()
}
