// Package errors derives low-cardinality error tags for metrics and logs.
package errors

import (
	goerrors "errors"
	"reflect"
	"strings"

	apperrors "github.com/target/recipe-finder/internal/errors"
)

// Classify returns a tag for err. Application errors are tagged by their code;
// anything else by the innermost concrete type, e.g. *net.OpError becomes "net_operror".
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}

	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}
	name := strings.ReplaceAll(strings.ToLower(t.String()), ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}
