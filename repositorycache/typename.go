package repositorycache

import (
	"reflect"
	"strings"
	"unicode"
)

// EntityTypeName returns the bare type name of T (pointers dereferenced,
// package path and generic arguments removed). It is the default key prefix
// and invalidation namespace.
func EntityTypeName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	name := t.Name()
	if name == "" {
		name = t.String()
	}
	return sanitizeTypeName(name)
}

// sanitizeTypeName keeps letters and digits only, so pointers, generic
// brackets and underscores never leak into a key prefix.
func sanitizeTypeName(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
