package querycache

import (
	"reflect"
	"strings"
	"unicode"
)

// Namespace derives a cache namespace from the type of mapper, so
// *UserMapper and UserMapper both map to "user_mapper".
func Namespace(mapper any) string {
	t := reflect.TypeOf(mapper)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return toSnake(t.Name())
}

// toSnake lower-cases name and separates its words with underscores. A
// word starts at an upper-case letter that follows a lower-case letter or
// digit, or that ends an acronym ("HTTPLog" is "http_log"). Any rune that
// is not a letter or digit, such as the brackets of a generic type name,
// acts as a separator.
func toSnake(name string) string {
	runes := []rune(name)
	words := make([]string, 0, 4)
	start := -1

	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, strings.ToLower(string(runes[start:end])))
		}
		start = -1
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		if unicode.IsUpper(r) {
			prev := runes[i-1]
			acronymEnd := unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || acronymEnd {
				flush(i)
				start = i
			}
		}
	}
	flush(len(runes))

	return strings.Join(words, "_")
}
