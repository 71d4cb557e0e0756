package models

import (
	"encoding/json"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// StringList is a list of strings that older rows may hold as a native array
// or as a JSON-encoded string ("[\"a\",\"b\"]"). Decoding always yields a
// non-nil slice: absent, null, malformed or mistyped values become empty,
// and non-string elements of an array are dropped. Encoding always writes a
// native array.
type StringList []string

// ParseStringList coerces a raw stored value into a StringList.
func ParseStringList(raw string) StringList {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return StringList{}
	}
	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return StringList{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return clean(out)
}

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (l *StringList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Array:
		vals, err := rv.Array().Values()
		if err != nil {
			*l = StringList{}
			return nil
		}
		out := make([]string, 0, len(vals))
		for _, v := range vals {
			if s, ok := v.StringValueOK(); ok {
				out = append(out, s)
			}
		}
		*l = clean(out)
	case bsontype.String:
		*l = ParseStringList(rv.StringValue())
	default:
		*l = StringList{}
	}
	return nil
}

// MarshalBSONValue implements bson.ValueMarshaler.
func (l StringList) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(l.Values())
}

// UnmarshalJSON accepts either a JSON array or a string holding one.
func (l *StringList) UnmarshalJSON(data []byte) error {
	if trimmed := strings.TrimSpace(string(data)); strings.HasPrefix(trimmed, "[") {
		*l = ParseStringList(trimmed)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = ParseStringList(s)
		return nil
	}
	*l = StringList{}
	return nil
}

// MarshalJSON never emits null.
func (l StringList) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Values())
}

// Values returns the list as a plain non-nil slice.
func (l StringList) Values() []string {
	if l == nil {
		return []string{}
	}
	return []string(l)
}

func clean(in []string) StringList {
	out := make(StringList, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
