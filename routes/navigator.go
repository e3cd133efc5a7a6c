package routes

import (
	"errors"
	"fmt"
	"sync"

	"agenteur.ai/web/pages"
)

// ErrNoLink is returned when the active page declares no link with the given label
var ErrNoLink = errors.New("no link with label")

// Navigator tracks the active route of a table
type Navigator struct {
	mu      sync.Mutex
	table   *Table
	path    string
	route   Route
	page    pages.Page
	params  map[string]string
	history []string
}

// NewNavigator creates a navigator with no active route
func NewNavigator(t *Table) *Navigator {
	return &Navigator{table: t}
}

// Navigate activates the route matching path. On failure the active route
// is left unchanged.
func (n *Navigator) Navigate(path string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.navigateLocked(path)
}

func (n *Navigator) navigateLocked(path string) error {
	route, params, ok := n.table.Lookup(path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoRoute, path)
	}

	if n.path != "" {
		n.history = append(n.history, n.path)
	}
	n.path = normalize(path)
	n.route = route
	n.page = route.New()
	n.params = params
	return nil
}

// Follow activates the link with the given label on the active page and
// navigates to its declared destination
func (n *Navigator) Follow(label string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.page == nil {
		return fmt.Errorf("%w %q: no active page", ErrNoLink, label)
	}

	for _, l := range n.page.Content().Links {
		if l.Label == label {
			return n.navigateLocked(l.To)
		}
	}
	return fmt.Errorf("%w %q on %s", ErrNoLink, label, n.path)
}

// Back returns to the previously active path. It reports false when there is
// no history.
func (n *Navigator) Back() bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.history) == 0 {
		return false
	}
	prev := n.history[len(n.history)-1]
	n.history = n.history[:len(n.history)-1]

	route, params, ok := n.table.Lookup(prev)
	if !ok {
		return false
	}
	n.path = prev
	n.route = route
	n.page = route.New()
	n.params = params
	return true
}

// CurrentPath returns the active path, or "" before the first navigation
func (n *Navigator) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

// Current returns the active route and its page
func (n *Navigator) Current() (Route, pages.Page, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.route, n.page, n.page != nil
}

// Param returns a path parameter of the active route
func (n *Navigator) Param(name string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.params[name]
}

// Walk starts a navigator at start and follows every declared link,
// breadth first, returning the paths it reached in discovery order
func Walk(t *Table, start string) ([]string, error) {
	nav := NewNavigator(t)
	if err := nav.Navigate(start); err != nil {
		return nil, err
	}

	visited := []string{nav.CurrentPath()}
	seen := map[string]bool{nav.CurrentPath(): true}

	for i := 0; i < len(visited); i++ {
		from := visited[i]
		if err := nav.Navigate(from); err != nil {
			return visited, err
		}
		_, page, _ := nav.Current()

		for _, l := range page.Content().Links {
			if err := nav.Navigate(from); err != nil {
				return visited, err
			}
			if err := nav.Follow(l.Label); err != nil {
				return visited, err
			}
			if to := nav.CurrentPath(); !seen[to] {
				seen[to] = true
				visited = append(visited, to)
			}
		}
	}
	return visited, nil
}

// Unreachable lists literal routes that no chain of links from start reaches
func Unreachable(t *Table, start string) ([]string, error) {
	visited, err := Walk(t, start)
	if err != nil {
		return nil, err
	}

	reached := make(map[string]bool, len(visited))
	for _, p := range visited {
		reached[p] = true
	}

	var out []string
	for _, r := range t.Routes() {
		if isParameterized(r.Path) {
			continue
		}
		if p := normalize(r.Path); !reached[p] {
			out = append(out, p)
		}
	}
	return out, nil
}
