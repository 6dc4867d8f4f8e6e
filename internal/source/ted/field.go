package ted

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
)

// Field decodes the three shapes a TED field can arrive in: a bare scalar,
// a (usually single-element) list, or a language-keyed map. Every notice
// field goes through this one decode step instead of ad hoc type checks.
type Field struct {
	scalar string
	list   []string
	langs  map[string]string
}

func (f *Field) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch v := v.(type) {
	case nil:
	case []interface{}:
		for _, item := range v {
			f.list = append(f.list, stringify(item))
		}
	case map[string]interface{}:
		f.langs = make(map[string]string, len(v))
		for k, item := range v {
			f.langs[k] = stringify(item)
		}
	default:
		f.scalar = stringify(v)
	}
	return nil
}

// First resolves the field to one scalar: the scalar itself, the first list
// element, or the language-resolved text of a map.
func (f Field) First() string {
	switch {
	case f.scalar != "":
		return f.scalar
	case len(f.list) > 0:
		return f.list[0]
	default:
		return f.langText()
	}
}

// Text resolves a possibly multilingual field, preferring English.
func (f Field) Text() string {
	if len(f.langs) > 0 {
		return f.langText()
	}
	return f.First()
}

func (f Field) IsZero() bool {
	return f.scalar == "" && len(f.list) == 0 && len(f.langs) == 0
}

// langText prefers the "eng" entry; otherwise it falls back to the first
// key in sorted order so one parse is deterministic.
func (f Field) langText() string {
	if len(f.langs) == 0 {
		return ""
	}
	if text, ok := f.langs["eng"]; ok {
		return text
	}
	keys := make([]string, 0, len(f.langs))
	for k := range f.langs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return f.langs[keys[0]]
}

func stringify(v interface{}) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case map[string]interface{}:
		var f Field
		f.langs = make(map[string]string, len(v))
		for k, item := range v {
			f.langs[k] = stringify(item)
		}
		return f.langText()
	default:
		return ""
	}
}
