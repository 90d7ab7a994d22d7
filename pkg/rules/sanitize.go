package rules

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/arthur-debert/asprules/pkg/ext"
)

// Legacy scalar keys accepted when no extensions list is present, in lookup
// order.
var legacyExtensionKeys = []string{"ext", "extension"}

// Sanitize validates and repairs one untyped rule record.
//
// raw is typically a map[string]any decoded from storage; Rule and *Rule
// values are accepted too and go through their generic form. The second result
// is false only when raw is not a record or when no extension survives
// normalization. Sanitize never panics.
func Sanitize(raw any) (rule Rule, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			rule, ok = Rule{}, false
		}
	}()

	record, isRecord := asRecord(raw)
	if !isRecord {
		return Rule{}, false
	}

	extensions := guard(func() []string { return extractExtensions(record) })
	if len(extensions) == 0 {
		return Rule{}, false
	}

	return Rule{
		Extensions:  extensions,
		DisplayName: guard(func() *string { return extractDisplayName(record) }),
		FileTree:    guard(func() *FileTree { return extractFileTree(record) }),
		OpenWith:    guard(func() *OpenWith { return extractOpenWith(record) }),
	}, true
}

// SanitizeAll sanitizes every item, dropping rejects. It returns the surviving
// rules in input order and the number of dropped items.
func SanitizeAll(items []any) (RuleSet, int) {
	out := make(RuleSet, 0, len(items))
	for _, item := range items {
		if rule, ok := Sanitize(item); ok {
			out = append(out, rule)
		}
	}
	return out, len(items) - len(out)
}

// Resanitize passes every rule of a typed set back through Sanitize. It is
// used on write paths so that only sanitizer-clean data is persisted.
func Resanitize(rs RuleSet) RuleSet {
	out := make(RuleSet, 0, len(rs))
	for _, r := range rs {
		if clean, ok := Sanitize(r); ok {
			out = append(out, clean)
		}
	}
	return out
}

func extractExtensions(record map[string]any) []string {
	var candidates []any
	if list, ok := AsList(record["extensions"]); ok {
		candidates = list
	} else {
		for _, key := range legacyExtensionKeys {
			if single := looseString(record[key]); single != "" {
				candidates = []any{single}
				break
			}
		}
	}

	keys := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if key := ext.Normalize(looseString(c)); key != "" {
			keys = append(keys, key)
		}
	}
	return ext.Dedupe(keys)
}

func extractDisplayName(record map[string]any) *string {
	if name, ok := record["displayName"].(string); ok {
		return &name
	}
	return nil
}

func extractFileTree(record map[string]any) *FileTree {
	ft, ok := fieldRecord(record["fileTree"])
	if !ok {
		return nil
	}

	out := &FileTree{Show: true, Icon: IconFile}
	if show, ok := ft["show"].(bool); ok {
		out.Show = show
	}
	if icon, ok := ft["icon"].(string); ok && icon == string(IconPDF) {
		out.Icon = IconPDF
	}
	return out
}

func extractOpenWith(record map[string]any) *OpenWith {
	ow, ok := fieldRecord(record["openWith"])
	if !ok {
		return nil
	}

	if mode, _ := ow["mode"].(string); mode != string(ModePlugin) {
		return Markdown()
	}

	pluginID := strings.TrimSpace(looseString(ow["pluginId"]))
	if pluginID == "" {
		return Markdown()
	}
	return &OpenWith{
		Mode:     ModePlugin,
		PluginID: pluginID,
		Method:   strings.TrimSpace(looseString(ow["method"])),
	}
}

// guard runs fn and converts a panic into the zero value.
func guard[T any](fn func() T) (v T) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v = zero
		}
	}()
	return fn()
}

// fieldRecord reads a nested object field. A list in that position counts
// as an object with no keys, so its field defaults apply.
func fieldRecord(v any) (map[string]any, bool) {
	if rec, ok := asRecord(v); ok {
		return rec, true
	}
	if _, ok := AsList(v); ok {
		return map[string]any{}, true
	}
	return nil, false
}

// asRecord returns the string-keyed form of an object-like value.
func asRecord(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		if t == nil {
			return nil, false
		}
		return t, true
	case map[any]any:
		if t == nil {
			return nil, false
		}
		out := make(map[string]any, len(t))
		for k, val := range t {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out, true
	case Rule:
		return t.Raw(), true
	case *Rule:
		if t == nil {
			return nil, false
		}
		return t.Raw(), true
	}
	return nil, false
}

// AsList returns the elements of an ordered sequence: []any, or any typed
// slice or array such as []map[string]any or []Rule. Byte slices are treated
// as opaque payloads, not sequences.
func AsList(v any) ([]any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case []any:
		return t, t != nil
	case []byte:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return nil, false
		}
	case reflect.Array:
	default:
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// looseString converts a scalar to text the way a lenient reader would:
// empty, false, zero and non-scalar values become "".
func looseString(v any) string {
	if v == nil {
		return ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		if rv.Bool() {
			return "true"
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n := rv.Int(); n != 0 {
			return strconv.FormatInt(n, 10)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n := rv.Uint(); n != 0 {
			return strconv.FormatUint(n, 10)
		}
	case reflect.Float32, reflect.Float64:
		if f := rv.Float(); f != 0 && f == f {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return ""
}
