package markup

import (
	"strconv"
	"strings"
)

// FieldKind selects the typed interpretation of a directive attribute value.
// At the syntax level attributes are always plain strings; the codec is the
// only place where richer types are encoded and decoded.
type FieldKind int

const (
	FieldString FieldKind = iota
	FieldNumber
	FieldBool
	FieldList
)

// EncodeList joins elements with a comma.
func EncodeList(items []string) string {
	return strings.Join(items, ",")
}

// DecodeList splits on commas, trims each element and drops empty entries.
// Empty input decodes to an empty sequence.
func DecodeList(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

func EncodeBool(v bool) string {
	return strconv.FormatBool(v)
}

// DecodeBool accepts "true" and "1"; any other input is false. It never
// fails.
func DecodeBool(raw string) bool {
	return raw == "true" || raw == "1"
}

func EncodeNumber(v int) string {
	return strconv.Itoa(v)
}

// DecodeNumber substitutes fallback when the input does not parse. Numeric
// fields always have a defined fallback, so a malformed attribute can never
// interrupt deserialization.
func DecodeNumber(raw string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return v
}

// Field declares one typed attribute of a directive schema. Default is the
// raw string form of the field's default value.
type Field struct {
	Name    string
	Kind    FieldKind
	Default string
}

// Schema is the ordered set of fields a directive declares.
type Schema []Field

// Decode resolves every declared field from attrs. An absent attribute
// resolves to the declared default, never to a missing entry, so documents
// authored by an older schema deserialize to the current schema's defaults.
func (s Schema) Decode(attrs Attributes) map[string]interface{} {
	values := make(map[string]interface{}, len(s))
	for _, f := range s {
		raw, ok := attrs[f.Name]
		if !ok {
			raw = f.Default
		}
		switch f.Kind {
		case FieldNumber:
			values[f.Name] = DecodeNumber(raw, DecodeNumber(f.Default, 0))
		case FieldBool:
			values[f.Name] = DecodeBool(raw)
		case FieldList:
			values[f.Name] = DecodeList(raw)
		default:
			values[f.Name] = raw
		}
	}
	return values
}

// Encode converts typed field values back to string attributes. Fields that
// are unset, empty, or equal to their declared default are omitted; they are
// reconstructed from the schema on decode.
func (s Schema) Encode(values map[string]interface{}) Attributes {
	attrs := make(Attributes)
	for _, f := range s {
		v, ok := values[f.Name]
		if !ok {
			continue
		}

		var raw string
		switch f.Kind {
		case FieldNumber:
			switch n := v.(type) {
			case int:
				raw = EncodeNumber(n)
			case float64:
				// JSON round trips deliver numbers as float64.
				raw = EncodeNumber(int(n))
			default:
				continue
			}
		case FieldBool:
			b, ok := v.(bool)
			if !ok {
				continue
			}
			raw = EncodeBool(b)
		case FieldList:
			items, ok := toStringSlice(v)
			if !ok {
				continue
			}
			raw = EncodeList(items)
		default:
			sv, ok := v.(string)
			if !ok {
				continue
			}
			raw = sv
		}

		if raw == "" || raw == f.Default {
			continue
		}
		attrs[f.Name] = raw
	}
	return attrs
}

func toStringSlice(v interface{}) ([]string, bool) {
	switch items := v.(type) {
	case []string:
		return items, true
	case []interface{}:
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
