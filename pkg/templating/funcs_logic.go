package templating

import "reflect"

// isSet returns true if a value is not its zero value.
func isSet(val any) bool {
	v := reflect.ValueOf(val)
	if !v.IsValid() {
		return false
	}
	return !v.IsZero()
}

// defaultValue returns val, or def when val is unset.
// Used as {{default "fallback" .field}}.
func defaultValue(def, val any) any {
	if !isSet(val) {
		return def
	}
	if v := reflect.ValueOf(val); (v.Kind() == reflect.Slice || v.Kind() == reflect.Map) && v.Len() == 0 {
		return def
	}
	return val
}

// list returns a slice containing all the arguments passed to it.
func list(args ...any) []any {
	return args
}

// repeat returns a slice of integers from 0 to count-1.
func repeat(count any) []int {
	n, err := toInt(count)
	if err != nil || n < 0 {
		return []int{}
	}
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

// first returns the first element of a slice or array, or nil.
func first(slice any) any {
	v := reflect.ValueOf(slice)
	if !v.IsValid() || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) || v.Len() == 0 {
		return nil
	}
	return v.Index(0).Interface()
}

// last returns the last element of a slice or array, or nil.
func last(slice any) any {
	v := reflect.ValueOf(slice)
	if !v.IsValid() || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) || v.Len() == 0 {
		return nil
	}
	return v.Index(v.Len() - 1).Interface()
}
