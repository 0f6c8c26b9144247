/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// substitute returns a copy of raw with each reference replaced by its
// resolved value. refs and values are parallel. A string that is exactly one
// reference takes the referenced value as is, keeping its type.
func substitute(raw any, refs []Ref, values []any) any {
	byField := make(map[string][]int, len(refs))
	for i, ref := range refs {
		key := fieldKey(ref.Field)
		byField[key] = append(byField[key], i)
	}
	return substituteAt(raw, nil, byField, refs, values)
}

func substituteAt(raw any, field []string, byField map[string][]int, refs []Ref, values []any) any {
	switch v := raw.(type) {
	case string:
		idx := byField[fieldKey(field)]
		if len(idx) == 0 {
			return v
		}
		if len(idx) == 1 && refs[idx[0]].Start == 0 && refs[idx[0]].End == len(v) {
			return cloneValue(values[idx[0]])
		}
		var sb strings.Builder
		last := 0
		for _, i := range idx {
			sb.WriteString(v[last:refs[i].Start])
			sb.WriteString(Stringify(values[i]))
			last = refs[i].End
		}
		sb.WriteString(v[last:])
		return sb.String()
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = substituteAt(item, appendField(field, key), byField, refs, values)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = substituteAt(item, appendField(field, strconv.Itoa(i)), byField, refs, values)
		}
		return out
	default:
		return raw
	}
}

// cloneValue deep-copies maps and slices so no two tokens share structure.
func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for key, item := range x {
			out[key] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

func fieldKey(field []string) string {
	return strings.Join(field, "\x00")
}

// Stringify returns the form of a resolved value used when it is
// interpolated into a larger string.
func Stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x)
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(data)
	}
}
