// Package routes declares handler groups as data so each domain owns its
// paths and the API module only registers them.
package routes

import (
	"net/http"

	"github.com/JaimeStill/drugx/pkg/middleware"
)

type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group shares a path prefix and middleware across its routes. Children
// inherit both, with the parent's middleware outermost.
type Group struct {
	Prefix     string
	Middleware middleware.Stack
	Routes     []Route
	Children   []Group
}

// Register adds every route in groups to mux.
func Register(mux *http.ServeMux, groups ...Group) {
	walk(groups, "", nil, func(pattern string, h http.Handler) {
		mux.Handle(pattern, h)
	})
}

// Patterns lists the ServeMux patterns groups would register, in order.
func Patterns(groups ...Group) []string {
	var out []string
	walk(groups, "", nil, func(pattern string, _ http.Handler) {
		out = append(out, pattern)
	})
	return out
}

func walk(groups []Group, prefix string, inherited middleware.Stack, visit func(string, http.Handler)) {
	for _, g := range groups {
		full := prefix + g.Prefix
		chain := append(inherited[:len(inherited):len(inherited)], g.Middleware...)

		for _, r := range g.Routes {
			visit(r.Method+" "+full+r.Pattern, chain.Apply(r.Handler))
		}
		walk(g.Children, full, chain, visit)
	}
}
