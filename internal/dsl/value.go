// Where: internal/dsl/value.go
// What: Registry value variants and truthiness.
// Why: Make literal versus deferred entries explicit at read time.
package dsl

import (
	"fmt"
	"reflect"
	"strings"
)

// Value is a registry entry: either a Literal or a Deferred producer.
type Value interface {
	// Resolve returns the literal, or invokes the producer. Producers run on
	// every call; results are never cached back into the entry.
	Resolve() any
	isValue()
}

type literalValue struct {
	v any
}

func (l literalValue) Resolve() any { return l.v }
func (literalValue) isValue()       {}

type deferredValue struct {
	fn func() any
}

func (d deferredValue) Resolve() any {
	if d.fn == nil {
		return nil
	}
	return d.fn()
}
func (deferredValue) isValue() {}

// Literal wraps a plain value.
func Literal(v any) Value {
	return literalValue{v: v}
}

// Deferred wraps a zero-argument producer evaluated on each read.
func Deferred(fn func() any) Value {
	return deferredValue{fn: fn}
}

// IsDeferred reports whether v is a Deferred producer.
func IsDeferred(v Value) bool {
	_, ok := v.(deferredValue)
	return ok
}

// Truthy reports whether a resolved value counts as present. nil, false, the
// empty string and nil slices, maps, pointers and funcs are falsy; everything
// else, including empty non-nil slices, is truthy.
func Truthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case string:
		return value != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}

// stringOf converts a resolved value to its string form; nil becomes "".
func stringOf(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case fmt.Stringer:
		return value.String()
	default:
		return fmt.Sprint(value)
	}
}

// stringsOf converts a resolved list value into a string slice.
func stringsOf(v any) []string {
	switch value := v.(type) {
	case nil:
		return nil
	case []string:
		return value
	case string:
		if strings.TrimSpace(value) == "" {
			return nil
		}
		return []string{value}
	case []any:
		out := make([]string, 0, len(value))
		for _, item := range value {
			if s := stringOf(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{stringOf(value)}
	}
}
