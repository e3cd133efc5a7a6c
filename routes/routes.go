// Package routes maps URL paths to pages and models navigation between them.
package routes

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/maxence-charriere/go-app/v9/pkg/app"

	"agenteur.ai/web/pages"
	"agenteur.ai/web/ui"
)

// ErrNoRoute is returned when a path matches no registered route
var ErrNoRoute = errors.New("no route for path")

// Route binds a path pattern to a page factory. Patterns may contain
// parameters in curly braces, e.g. "/invite/{token}".
type Route struct {
	Path string
	Name string
	New  func() pages.Page
}

// Table is an ordered set of routes. Parameterized paths are compiled once
// and the same expressions serve Lookup and the go-app router.
type Table struct {
	routes   []Route
	patterns []*regexp.Regexp // nil for literal paths
	errs     []error
}

// NewTable creates a table from the given routes, in lookup order
func NewTable(routes ...Route) *Table {
	t := &Table{
		routes:   routes,
		patterns: make([]*regexp.Regexp, len(routes)),
	}
	for i, r := range routes {
		if !isParameterized(r.Path) {
			continue
		}
		re, err := regexp.Compile(PathRegexp(r.Path))
		if err != nil {
			t.errs = append(t.errs, fmt.Errorf("route %q: invalid pattern %s: %w", r.Name, r.Path, err))
			continue
		}
		t.patterns[i] = re
	}
	return t
}

// Default returns the application's route table
func Default() *Table {
	return NewTable(
		Route{Path: "/", Name: "home", New: func() pages.Page { return &pages.Home{} }},
		Route{Path: "/login", Name: "login", New: func() pages.Page { return &pages.Login{} }},
		Route{Path: "/signup", Name: "signup", New: func() pages.Page { return &pages.Signup{} }},
	)
}

// Routes returns a copy of the routes in lookup order
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Register mounts every route on the go-app router. It must run before
// app.RunWhenOnBrowser on the client and before the app handler serves pages.
// Literal paths are mounted with and without a trailing slash; parameterized
// paths are mounted with the expression Lookup matches against. go-app tries
// literal paths before expressions, as Lookup does.
func (t *Table) Register() {
	for i, r := range t.routes {
		if r.New == nil {
			continue
		}
		if re := t.patterns[i]; re != nil {
			app.RouteWithRegexp(re.String(), r.New())
			continue
		}
		if isParameterized(r.Path) {
			continue
		}

		path := normalize(r.Path)
		app.Route(path, r.New())
		if path != "/" {
			app.Route(path+"/", r.New())
		}
	}
}

// Lookup resolves a path to its route and extracted parameters. Query
// strings, fragments and trailing slashes are ignored. Exact matches win
// over parameterized ones.
func (t *Table) Lookup(rawPath string) (Route, map[string]string, bool) {
	path := normalize(rawPath)

	for i, r := range t.routes {
		if t.patterns[i] == nil && !isParameterized(r.Path) && normalize(r.Path) == path {
			return r, map[string]string{}, true
		}
	}
	for i, r := range t.routes {
		re := t.patterns[i]
		if re == nil {
			continue
		}
		m := re.FindStringSubmatch(path)
		if m == nil {
			continue
		}
		params := make(map[string]string)
		for j, name := range re.SubexpNames() {
			if name != "" {
				params[name] = m[j]
			}
		}
		return r, params, true
	}
	return Route{}, nil, false
}

// Validate checks that paths are unique and that every link a page
// declares resolves to a registered route
func (t *Table) Validate() error {
	errs := append([]error(nil), t.errs...)
	seen := make(map[string]string, len(t.routes))

	for _, r := range t.routes {
		key := normalize(r.Path)
		if other, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("route %q: path %s already registered by %q", r.Name, r.Path, other))
			continue
		}
		seen[key] = r.Name

		if r.New == nil {
			errs = append(errs, fmt.Errorf("route %q: missing page factory", r.Name))
		}
	}

	for _, r := range t.routes {
		if r.New == nil {
			continue
		}
		for _, l := range r.New().Content().Links {
			if _, _, ok := t.Lookup(l.To); !ok {
				errs = append(errs, fmt.Errorf("route %q: link %q targets %s: %w", r.Name, l.Label, l.To, ErrNoRoute))
			}
		}
	}

	return errors.Join(errs...)
}

// Entry describes one route for the manifest
type Entry struct {
	Path  string    `json:"path"`
	Name  string    `json:"name"`
	Title string    `json:"title"`
	Links []ui.Link `json:"links"`
}

// Manifest lists each route with its page title and declared navigation targets
func (t *Table) Manifest() []Entry {
	entries := make([]Entry, 0, len(t.routes))
	for _, r := range t.routes {
		if r.New == nil {
			continue
		}
		c := r.New().Content()
		links := c.Links
		if links == nil {
			links = []ui.Link{}
		}
		entries = append(entries, Entry{
			Path:  r.Path,
			Name:  r.Name,
			Title: c.Title,
			Links: links,
		})
	}
	return entries
}

// normalize reduces a raw URL path to "/a/b" form
func normalize(rawPath string) string {
	path := rawPath
	if u, err := url.Parse(rawPath); err == nil {
		path = u.Path
	}
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func isParameterized(path string) bool {
	return strings.Contains(path, "{")
}

// PathRegexp converts a route pattern into the anchored expression used for
// both lookup and go-app routing. "{name}" segments become named groups
// matching one non-empty segment; a trailing slash is optional.
func PathRegexp(pattern string) string {
	parts := strings.Split(strings.Trim(normalize(pattern), "/"), "/")

	var b strings.Builder
	b.WriteString("^")
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString("/")
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			b.WriteString("(?P<" + strings.Trim(part, "{}") + ">[^/]+)")
			continue
		}
		b.WriteString(regexp.QuoteMeta(part))
	}
	if b.Len() == 1 {
		b.WriteString("/")
		return b.String() + "$"
	}
	return b.String() + "/?$"
}
