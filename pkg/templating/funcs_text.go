package templating

import (
	"fmt"
	"reflect"
	"strings"
)

// join joins the elements of any slice with sep. Non-string elements are
// formatted with fmt.
func join(sep string, items any) string {
	v := reflect.ValueOf(items)
	if !v.IsValid() {
		return ""
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return fmt.Sprint(items)
	}
	parts := make([]string, v.Len())
	for i := range parts {
		parts[i] = fmt.Sprint(v.Index(i).Interface())
	}
	return strings.Join(parts, sep)
}

// truncate shortens s to at most n runes, appending the configured suffix
// when something was cut.
func (tm *TemplateManager) truncate(n any, s string) (string, error) {
	limit, err := toInt(n)
	if err != nil {
		return "", err
	}
	runes := []rune(s)
	if limit < 0 || len(runes) <= limit {
		return s, nil
	}
	return string(runes[:limit]) + tm.config.TruncateSuffix, nil
}

// nl2br replaces newlines with <br> tags. Output is not escaped.
func nl2br(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "<br>\n")
}
