package twitter

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"slices"
	"strconv"
	"time"
)

var errFileParam = errors.New("file parameters need multipart encoding")

// flattenParams walks params in key order and calls emit for every leaf.
// Nested keys become "parent[child]" and sequence entries "parent[]".
func flattenParams(params Params, emit func(key string, value any) error) error {
	for _, k := range sortedKeys(params) {
		if err := flattenValue(k, params[k], emit); err != nil {
			return err
		}
	}
	return nil
}

func flattenValue(key string, v any, emit func(string, any) error) error {
	switch val := v.(type) {
	case map[string]any:
		for _, k := range sortedKeys(val) {
			if err := flattenValue(key+"["+k+"]", val[k], emit); err != nil {
				return err
			}
		}
		return nil
	case []any:
		for _, item := range val {
			if err := flattenValue(key+"[]", item, emit); err != nil {
				return err
			}
		}
		return nil
	case nil, string, []byte, *UploadPart, *File, File, FileLike, fmt.Stringer:
		return emit(key, v)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			if err := flattenValue(key+"[]", rv.Index(i).Interface(), emit); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		keys := make([]string, 0, rv.Len())
		for _, mk := range rv.MapKeys() {
			keys = append(keys, mk.String())
		}
		slices.Sort(keys)
		for _, k := range keys {
			mv := rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()))
			if err := flattenValue(key+"["+k+"]", mv.Interface(), emit); err != nil {
				return err
			}
		}
		return nil
	}
	return emit(key, v)
}

// formatScalar renders a leaf value as form text.
func formatScalar(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case []byte:
		return string(val), nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case time.Time:
		return strconv.FormatInt(val.Unix(), 10), nil
	case *UploadPart, *File, File, FileLike:
		return "", errFileParam
	case fmt.Stringer:
		return val.String(), nil
	default:
		return fmt.Sprint(val), nil
	}
}

// encodeValues flattens params into form values.
func encodeValues(params Params) (url.Values, error) {
	values := make(url.Values)
	err := flattenParams(params, func(key string, v any) error {
		s, err := formatScalar(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		values.Add(key, s)
		return nil
	})
	return values, err
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
