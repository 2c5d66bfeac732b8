package section

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// fields is a decoded JSON object whose keys may arrive in lowerCamelCase or
// UpperCamelCase. Lookups try the exact name first and then fold case.
type fields map[string]json.RawMessage

func parseFields(raw []byte) (fields, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var f fields
	if err := json.Unmarshal(raw, &f); err != nil || f == nil {
		return nil, false
	}
	return f, true
}

func (f fields) lookup(names ...string) (json.RawMessage, bool) {
	for _, name := range names {
		if v, ok := f[name]; ok && !isNull(v) {
			return v, true
		}
	}
	for _, name := range names {
		for k, v := range f {
			if strings.EqualFold(k, name) && !isNull(v) {
				return v, true
			}
		}
	}
	return nil, false
}

func (f fields) getString(names ...string) (string, bool) {
	v, ok := f.lookup(names...)
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, true
	}
	// numbers and booleans are kept in their literal form
	if v[0] != '{' && v[0] != '[' {
		return string(v), true
	}
	return "", false
}

func (f fields) getInt(names ...string) (int, bool) {
	n, ok := f.getFloat(names...)
	if !ok {
		return 0, false
	}
	if n != math.Trunc(n) {
		return 0, false
	}
	return int(n), true
}

func (f fields) getFloat(names ...string) (float64, bool) {
	v, ok := f.lookup(names...)
	if !ok {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(v, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func (f fields) getBool(names ...string) (bool, bool) {
	v, ok := f.lookup(names...)
	if !ok {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(v, &b); err == nil {
		return b, true
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

func isNull(v json.RawMessage) bool {
	return len(bytes.TrimSpace(v)) == 0 || bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// unwrapString peels JSON string layers off raw until it reaches a value that
// is not itself a string. Legacy rows double-encode the snapshot.
func unwrapString(raw []byte, depth int) []byte {
	raw = bytes.TrimSpace(raw)
	for i := 0; i < depth && len(raw) > 0 && raw[0] == '"'; i++ {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return raw
		}
		raw = bytes.TrimSpace([]byte(s))
	}
	return raw
}

// inferResponseType guesses the response type of a properties object that was
// stored without one: options mean List, min or max mean Numeric and anything
// else is Text. It fails when raw is not a JSON object.
func inferResponseType(raw []byte) (ResponseType, bool) {
	f, ok := parseFields(unwrapString(raw, 2))
	if !ok {
		return 0, false
	}
	if _, ok := f.lookup("options"); ok {
		return ResponseList, true
	}
	if _, ok := f.lookup("min", "max"); ok {
		return ResponseNumeric, true
	}
	return ResponseText, true
}

// parseProperties reads a properties object for the given response type.
// Keys with the wrong JSON type are ignored rather than failing the parse.
func parseProperties(rt ResponseType, raw []byte) (Properties, bool) {
	f, ok := parseFields(unwrapString(raw, 2))
	if !ok {
		return nil, false
	}

	required, _ := f.getBool("isRequired")
	switch rt {
	case ResponseText:
		p := TextProperties{IsRequired: required}
		if n, ok := f.getInt("maxLength"); ok {
			p.MaxLength = &n
		}
		return p, true
	case ResponseNumeric:
		p := NumericProperties{IsRequired: required}
		if n, ok := f.getFloat("min"); ok {
			p.Min = &n
		}
		if n, ok := f.getFloat("max"); ok {
			p.Max = &n
		}
		return p, true
	case ResponseList:
		p := ListProperties{IsRequired: required, Options: make([]ListOption, 0)}
		if v, ok := f.lookup("options"); ok {
			var items []json.RawMessage
			if err := json.Unmarshal(v, &items); err == nil {
				for _, item := range items {
					of, ok := parseFields(item)
					if !ok {
						continue
					}
					id, _ := of.getString("id")
					name, _ := of.getString("name")
					p.Options = append(p.Options, ListOption{Id: id, Name: name})
				}
			}
		}
		return p, true
	default:
		return nil, false
	}
}
