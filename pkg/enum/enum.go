package enum

import (
	"fmt"
	"reflect"
)

var enumManager = map[string]any{}

type enum[T comparable] struct {
	toEnum map[string]T
	values []T
}

// New registers value as a member of its enum type and returns it.
func New[T comparable](value T) T {
	t := reflect.TypeOf(value)
	e, ok := enumManager[t.Name()].(*enum[T])
	if !ok {
		e = &enum[T]{toEnum: make(map[string]T)}
		enumManager[t.Name()] = e
	}

	e.toEnum[fmt.Sprint(value)] = value
	e.values = append(e.values, value)
	return value
}

func ToEnum[T comparable](s string) (T, error) {
	var defaultT T
	e, ok := enumManager[reflect.TypeOf(defaultT).Name()].(*enum[T])
	if !ok {
		return defaultT, fmt.Errorf("not found enum type %T", defaultT)
	}

	t, ok := e.toEnum[s]
	if !ok {
		return defaultT, fmt.Errorf("not found value %s in enum %T", s, defaultT)
	}

	return t, nil
}

// Values returns all registered members of T in registration order.
func Values[T comparable]() []T {
	var defaultT T
	e, ok := enumManager[reflect.TypeOf(defaultT).Name()].(*enum[T])
	if !ok {
		return nil
	}

	return append([]T(nil), e.values...)
}
