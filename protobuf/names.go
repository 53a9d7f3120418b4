package protobuf

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// toLowerSnakeCase lowercases the leading run of upper case letters and then
// turns every other upper case letter into an underscore followed by its
// lower case form.
func toLowerSnakeCase(s string) string {
	var sb strings.Builder
	leading := true
	for _, r := range s {
		if unicode.IsUpper(r) {
			if !leading {
				sb.WriteRune('_')
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		leading = false
		sb.WriteRune(r)
	}
	return sb.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func pluralize(s string) string {
	return inflect.Pluralize(s)
}

// toProtobufPkg turns a dotted or slashed path into a valid protobuf package
// name, dropping diacritics and any character that is not a letter, a digit
// or an underscore.
func toProtobufPkg(path string) string {
	pkg := strings.Map(func(r rune) rune {
		if r == '/' || r == '.' {
			return '.'
		}

		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' {
			return r
		}

		return -1
	}, path)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	pkg, _, _ = transform.String(t, pkg)
	return strings.Trim(pkg, ".")
}
