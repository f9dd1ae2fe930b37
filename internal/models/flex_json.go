package models

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// shareRequestFieldMap caches JSON tag -> struct field index mappings
var (
	shareRequestFieldMap     map[string]int
	shareRequestFieldMapOnce sync.Once
)

func getShareRequestFieldMap() map[string]int {
	shareRequestFieldMapOnce.Do(func() {
		t := reflect.TypeOf(ShareRequest{})
		shareRequestFieldMap = make(map[string]int, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			tag := t.Field(i).Tag.Get("json")
			if tag == "" || tag == "-" {
				continue
			}
			name := strings.Split(tag, ",")[0]
			shareRequestFieldMap[name] = i
		}
	})
	return shareRequestFieldMap
}

// UnmarshalJSON accepts both native and string-encoded values. The browser
// client posts logData as a JSON-encoded string and form posts carry every
// number as a string.
func (r *ShareRequest) UnmarshalJSON(data []byte) error {
	type Alias ShareRequest
	a := (*Alias)(r)

	if err := json.Unmarshal(data, a); err == nil {
		return nil
	}

	var raw map[string]jsoniter.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("flex unmarshal: %w", err)
	}

	fieldMap := getShareRequestFieldMap()
	v := reflect.ValueOf(a).Elem()

	for key, rawVal := range raw {
		idx, ok := fieldMap[key]
		if !ok {
			continue
		}

		fv := v.Field(idx)
		if !fv.CanSet() {
			continue
		}

		ptr := reflect.New(fv.Type())
		if err := json.Unmarshal(rawVal, ptr.Interface()); err == nil {
			fv.Set(ptr.Elem())
			continue
		}

		if len(rawVal) > 1 && rawVal[0] == '"' {
			var s string
			if err := json.Unmarshal(rawVal, &s); err != nil {
				continue
			}
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			coerceStringToField(fv, s)
		}
	}

	return nil
}

// coerceStringToField converts a string value to the field's native type.
// Slices are decoded from the string as embedded JSON.
func coerceStringToField(fv reflect.Value, s string) {
	switch fv.Kind() {
	case reflect.Ptr:
		elem := reflect.New(fv.Type().Elem())
		coerceStringToField(elem.Elem(), s)
		if !elem.Elem().IsZero() || isZeroLiteral(s) {
			fv.Set(elem)
		}
	case reflect.Slice:
		ptr := reflect.New(fv.Type())
		if err := json.Unmarshal([]byte(s), ptr.Interface()); err == nil {
			fv.Set(ptr.Elem())
		}
	case reflect.Float32, reflect.Float64:
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			fv.SetFloat(n)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			fv.SetInt(int64(n))
		}
	case reflect.Bool:
		if b, err := strconv.ParseBool(s); err == nil {
			fv.SetBool(b)
		}
	case reflect.String:
		fv.SetString(s)
	}
}

func isZeroLiteral(s string) bool {
	n, err := strconv.ParseFloat(s, 64)
	return err == nil && n == 0
}
