// Package result implements a short-circuiting success/failure pipeline used
// to sequence side-effecting persistence steps. A Result is either Success
// carrying a value or Failure carrying an error. Failure is absorbing: once a
// pipeline has failed, no later combinator runs its function and the first
// error is forwarded unchanged.
package result

import "reflect"

// Result is a completed pipeline state. The zero value is Success carrying
// the zero value of T. Combinators return new Results; they never mutate the
// receiver.
type Result[T any] struct {
	value T
	err   error
}

// Ok returns a Success carrying v.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail returns a Failure carrying err.
func Fail[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// Do starts a pipeline from a fallible call.
func Do[T any](f func() (T, error)) Result[T] {
	v, err := f()
	if err != nil {
		return Fail[T](err)
	}
	return Ok(v)
}

// Then applies f to the carried value. f's error becomes the new Failure.
func (r Result[T]) Then(f func(T) (T, error)) Result[T] {
	if r.err != nil {
		return r
	}
	return Do(func() (T, error) { return f(r.value) })
}

// SideEffect runs f for its effect only. The carried value is preserved
// unless f fails, in which case the pipeline becomes that Failure. Used for
// steps whose return value is irrelevant, such as committing a session.
func (r Result[T]) SideEffect(f func() error) Result[T] {
	if r.err != nil {
		return r
	}
	if err := f(); err != nil {
		return Fail[T](err)
	}
	return r
}

// BindSideEffect applies f to the carried value for its failure signal only.
// On success of f the original value passes through unchanged.
func (r Result[T]) BindSideEffect(f func(T) error) Result[T] {
	if r.err != nil {
		return r
	}
	if err := f(r.value); err != nil {
		return Fail[T](err)
	}
	return r
}

// NotNil fails the pipeline with failure when the carried value is nil.
// A present value passes through unchanged.
func (r Result[T]) NotNil(failure error) Result[T] {
	if r.err != nil {
		return r
	}
	if isNil(r.value) {
		return Fail[T](failure)
	}
	return r
}

// Unwrap terminates the pipeline.
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.err
}

// Err returns the carried error, nil on Success.
func (r Result[T]) Err() error {
	return r.err
}

// Map is the type-changing bind. Methods cannot introduce type parameters,
// so this lives at package level.
func Map[T, U any](r Result[T], f func(T) (U, error)) Result[U] {
	if err := r.Err(); err != nil {
		return Fail[U](err)
	}
	return Do(func() (U, error) { return f(r.value) })
}

// Replace discards the carried success value in favor of v. An existing
// Failure is forwarded untouched.
func Replace[T, U any](r Result[T], v U) Result[U] {
	if err := r.Err(); err != nil {
		return Fail[U](err)
	}
	return Ok(v)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
