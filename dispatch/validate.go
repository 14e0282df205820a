package dispatch

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// isPointerLike rejects the "pointer- or reference-like" types §4.2 bars
// from ever reaching the codec: Go has no C++-style references, so
// pointers, channels, and unsafe.Pointer stand in for that category.
// Funcs are also barred everywhere except an async handler's first
// parameter, which validateAsyncSignature skips (validateArgs with
// skip 1) before calling this.
func isPointerLike(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Chan, reflect.UnsafePointer, reflect.Func:
		return true
	default:
		return false
	}
}

// splitReturn separates a handler's optional (value, error) return pair.
// It accepts zero, one, or two return values; when there are two, the
// second must be error.
func splitReturn(fnType reflect.Type) (valueType reflect.Type, hasError bool, err error) {
	switch fnType.NumOut() {
	case 0:
		return nil, false, nil
	case 1:
		if fnType.Out(0) == errorType {
			return nil, true, nil
		}
		return fnType.Out(0), false, nil
	case 2:
		if fnType.Out(1) != errorType {
			return nil, false, fmt.Errorf("dispatch: second return value must be error, got %s", fnType.Out(1))
		}
		return fnType.Out(0), true, nil
	default:
		return nil, false, fmt.Errorf("dispatch: too many return values (%d)", fnType.NumOut())
	}
}

// validateArgs checks every argument type, starting at skip, against
// §4.2 point 2: no argument is pointer- or reference-typed.
func validateArgs(fnType reflect.Type, skip int) error {
	for i := skip; i < fnType.NumIn(); i++ {
		if isPointerLike(fnType.In(i)) {
			return fmt.Errorf("dispatch: argument %d (%s) is not serializable", i, fnType.In(i))
		}
	}
	return nil
}

// validateReturn checks §4.2 point 1: the return type is serializable.
func validateReturn(fnType reflect.Type) error {
	valueType, _, err := splitReturn(fnType)
	if err != nil {
		return err
	}
	if valueType != nil && isPointerLike(valueType) {
		return fmt.Errorf("dispatch: return type %s is not serializable", valueType)
	}
	return nil
}

// validateSyncSignature enforces §4.2 points 1-2 on a sync handler.
func validateSyncSignature(fnType reflect.Type) error {
	if fnType.Kind() != reflect.Func {
		return fmt.Errorf("dispatch: handler must be a function, got %s", fnType)
	}
	if err := validateArgs(fnType, 0); err != nil {
		return err
	}
	return validateReturn(fnType)
}

// validateAsyncSignature enforces §4.2 point 3: fn's first parameter must
// be a callback whose own signature satisfies points 1-2, and the
// remaining parameters and fn's own return must satisfy points 1-2 too.
func validateAsyncSignature(fnType reflect.Type) (callbackType reflect.Type, err error) {
	if fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("dispatch: async handler must be a function, got %s", fnType)
	}
	if fnType.NumIn() < 1 || fnType.In(0).Kind() != reflect.Func {
		return nil, fmt.Errorf("dispatch: async handler's first parameter must be a callback function")
	}
	callbackType = fnType.In(0)
	if err := validateArgs(callbackType, 0); err != nil {
		return nil, fmt.Errorf("dispatch: callback: %w", err)
	}
	if callbackType.NumOut() != 0 {
		return nil, fmt.Errorf("dispatch: callback must not return a value")
	}
	if err := validateArgs(fnType, 1); err != nil {
		return nil, err
	}
	if err := validateReturn(fnType); err != nil {
		return nil, err
	}
	return callbackType, nil
}
