package action

// Context is the caller-supplied value passed to every precondition, label,
// run and state evaluation. The registry never constructs or inspects it.
type Context = any

// Value is a descriptor field that is either a constant or computed from the
// caller's context (plus any extra arguments) each time it is resolved.
// The zero Value is unset and resolves to T's zero value.
type Value[T any] struct {
	static T
	fn     func(scope Context, args ...any) T
	set    bool
}

// Static returns a Value that always resolves to v.
func Static[T any](v T) Value[T] {
	return Value[T]{static: v, set: true}
}

// Computed returns a Value that calls fn on every resolution.
func Computed[T any](fn func(scope Context, args ...any) T) Value[T] {
	if fn == nil {
		return Value[T]{}
	}
	return Value[T]{fn: fn, set: true}
}

// Text is shorthand for Static on a string.
func Text(s string) Value[string] {
	return Static(s)
}

// Bool is shorthand for Static on a bool.
func Bool(b bool) Value[bool] {
	return Static(b)
}

// Resolve returns the value for the given context and arguments.
func (v Value[T]) Resolve(scope Context, args ...any) T {
	if v.fn != nil {
		return v.fn(scope, args...)
	}
	return v.static
}

// ResolveOr returns def when the value is unset, otherwise Resolve.
func (v Value[T]) ResolveOr(def T, scope Context, args ...any) T {
	if !v.set {
		return def
	}
	return v.Resolve(scope, args...)
}

// IsSet reports whether the value was given.
func (v Value[T]) IsSet() bool {
	return v.set
}

// IsComputed reports whether the value is derived from the context.
func (v Value[T]) IsComputed() bool {
	return v.fn != nil
}
