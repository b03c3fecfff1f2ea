// Package textutil provides tokenization, normalization, and string
// similarity primitives shared by the matching and conflict engines.
package textutil

import "strings"

// fileNameReplacer replaces filesystem-unsafe characters with safe
// alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of surrounding whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// Tokenize splits text into lowercase alphanumeric tokens. Unlike a
// whitespace split it treats any punctuation run as a separator, so
// "Kill Bill: Vol. 1" yields ["kill" "bill" "vol" "1"].
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)
	return strings.FieldsFunc(lowered, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= '0' && r <= '9':
			return false
		case r >= 0x80:
			// Keep non-ASCII letters together; diacritics are handled by
			// the sortkey package, original-language titles stay intact.
			return false
		}
		return true
	})
}
