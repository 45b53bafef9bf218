// Package middleware holds the HTTP wrappers mounted on the check API.
package middleware

import (
	"net/http"
	"slices"
)

// Func wraps an http.Handler.
type Func = func(http.Handler) http.Handler

// Stack is an ordered middleware chain. The first registered Func is
// the outermost wrapper.
type Stack []Func

// Use appends fns to the chain.
func (s *Stack) Use(fns ...Func) {
	*s = append(*s, fns...)
}

// Apply wraps handler with the chain.
func (s Stack) Apply(handler http.Handler) http.Handler {
	for _, fn := range slices.Backward(s) {
		handler = fn(handler)
	}
	return handler
}
