package ext

import (
	"path/filepath"
	"strings"
	"unicode"
)

// Normalize converts a raw extension token to its canonical key.
//
// Accepted forms include "png", ".PNG", " . p n g " and "tar.gz"-like tokens
// (the inner dot is dropped). The result may be empty.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, ".")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		if isKeyRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Valid reports whether key is a non-empty canonical key.
func Valid(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if !isKeyRune(r) {
			return false
		}
	}
	return true
}

// Split breaks free-form editor input such as "png, jpg，jpeg gif" into
// normalized keys. Commas (ASCII and full-width) and whitespace separate
// tokens; empty tokens are dropped and input order is preserved.
func Split(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '，' || unicode.IsSpace(r)
	})

	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		if key := Normalize(f); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// Dedupe drops repeated keys, keeping the first occurrence.
func Dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// FromPath returns the normalized extension of a file name, or "" when the
// name has none.
func FromPath(name string) string {
	e := filepath.Ext(filepath.Base(name))
	if e == "" {
		return ""
	}
	return Normalize(e)
}

func isKeyRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '+', r == '_', r == '-':
		return true
	}
	return false
}
