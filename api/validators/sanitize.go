package validators

import (
	"strings"
	"unicode/utf8"
)

// SanitizeString trims surrounding space, drops invalid UTF-8 and caps the
// result at maxLen characters. A non-positive maxLen disables the cap.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(strings.ToValidUTF8(input, ""))
	if maxLen <= 0 || utf8.RuneCountInString(trimmed) <= maxLen {
		return trimmed
	}
	cut := 0
	for i := 0; i < maxLen; i++ {
		_, size := utf8.DecodeRuneInString(trimmed[cut:])
		cut += size
	}
	return strings.TrimSpace(trimmed[:cut])
}
