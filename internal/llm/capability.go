package llm

import "fmt"

// negotiate builds a value with the enhanced constructor and falls back to
// base when that fails or panics. Only a base failure is returned.
func negotiate[T any](enhanced, base func() (T, error), onFallback func(error)) (T, error) {
	v, err := attempt(enhanced)
	if err == nil {
		return v, nil
	}
	if onFallback != nil {
		onFallback(err)
	}
	return base()
}

func attempt[T any](build func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v, err = zero, fmt.Errorf("capability probe panicked: %v", r)
		}
	}()
	return build()
}
