// Package module mounts prefixed handler groups, each with its own
// middleware chain, behind a single Router.
package module

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/JaimeStill/drugx/pkg/middleware"
)

// Module serves one single-level prefix such as "/api". The prefix is
// stripped before the inner handler sees the request.
type Module struct {
	prefix  string
	inner   http.Handler
	chain   middleware.Stack
	once    sync.Once
	handler http.Handler
}

// New creates a Module. It panics on a prefix that is empty, relative,
// or nested.
func New(prefix string, inner http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{prefix: prefix, inner: inner}
}

func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends middleware. Calls after the first request are ignored.
func (m *Module) Use(mw middleware.Func) {
	m.chain.Use(mw)
}

// Handler returns the inner handler wrapped in the middleware chain.
func (m *Module) Handler() http.Handler {
	m.once.Do(func() {
		m.handler = m.chain.Apply(m.inner)
	})
	return m.handler
}

// Serve strips the prefix and dispatches through the chain.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	m.Handler().ServeHTTP(w, stripPrefix(req, m.prefix))
}

func stripPrefix(req *http.Request, prefix string) *http.Request {
	path := strings.TrimPrefix(req.URL.Path, prefix)
	if path == "" {
		path = "/"
	}

	r := new(http.Request)
	*r = *req
	u := *req.URL
	u.Path = path
	u.RawPath = ""
	r.URL = &u
	return r
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix cannot be empty")
	case prefix[0] != '/':
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case strings.Count(prefix, "/") != 1 || len(prefix) == 1:
		return fmt.Errorf("module prefix must be single-level sub-path: %s", prefix)
	}
	return nil
}
