package generator

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fallbackSlug is used when a name contains nothing transliterable.
const fallbackSlug = "project"

// Slugify turns a display name into an identifier that is safe as a path
// segment and as a package name in most languages.
// Examples: "My Package" → my_package, "Café Ünïcode" → cafe_unicode,
// "Test-Package_With.Special_Characters" → test_package_with_special_characters
//
// Letters with diacritics are folded to their base letter; runs of spaces,
// hyphens, underscores and dots become a single underscore; everything else
// is dropped. The result is never empty and never starts with a digit.
func Slugify(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			pendingSep = true
		}
	}

	slug := b.String()
	if slug == "" {
		return fallbackSlug
	}
	if slug[0] >= '0' && slug[0] <= '9' {
		slug = fallbackSlug + "_" + slug
	}
	return slug
}

// Kebab is Slugify with hyphens: "My Package" → my-package
func Kebab(s string) string {
	return strings.ReplaceAll(Slugify(s), "_", "-")
}

// PascalCase converts snake_case to PascalCase
// Examples: user_name → UserName, my_package → MyPackage
func PascalCase(s string) string {
	if s == "" {
		return ""
	}

	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, part := range parts {
		parts[i] = capitalizeWord(part)
	}
	return strings.Join(parts, "")
}

// capitalizeWord upper-cases the first rune and keeps the rest as-is
func capitalizeWord(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// SnakeCase converts PascalCase or camelCase to snake_case
// Examples: UserName → user_name, HTTPServer → http_server
func SnakeCase(s string) string {
	if s == "" {
		return ""
	}

	if strings.Contains(s, "_") {
		return strings.ToLower(s)
	}

	rs := []rune(s)
	var result strings.Builder
	for i, r := range rs {
		if unicode.IsUpper(r) {
			// Underscore before an upper-case letter that starts a new word,
			// keeping acronyms such as HTTP together
			if i > 0 && (unicode.IsLower(rs[i-1]) || (i+1 < len(rs) && unicode.IsLower(rs[i+1]))) {
				result.WriteRune('_')
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// Title converts a string to title case (first letter of each word capitalized)
func Title(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = capitalizeWord(strings.ToLower(word))
	}
	return strings.Join(words, " ")
}

// Quote wraps a string in double quotes
func Quote(s string) string {
	return fmt.Sprintf("%q", s)
}

// Default returns val, or defaultVal when val is empty
func Default(defaultVal, val any) any {
	if val == nil {
		return defaultVal
	}
	if s, ok := val.(string); ok && s == "" {
		return defaultVal
	}
	return val
}
