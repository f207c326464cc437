package navigation

import (
	"errors"
	"fmt"
	"strings"
)

// CatchAll is the pattern of the fallback route.
const CatchAll = "*"

var (
	ErrEmptyPattern    = errors.New("route pattern is empty")
	ErrDuplicateRoute  = errors.New("duplicate route")
	ErrMissingCatchAll = errors.New("route table has no catch-all")
	ErrCatchAllNotLast = errors.New("catch-all route must be declared last")
)

type Kind int

const (
	KindHome Kind = iota
	KindPage
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindHome:
		return "home"
	case KindPage:
		return "page"
	case KindNotFound:
		return "not-found"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Route maps an exact path to a view.
type Route struct {
	Pattern string
	Name    string
	Kind    Kind
}

// Table is an ordered, static list of routes ending in a catch-all.
type Table struct {
	routes []Route
	index  map[string]int
}

func NewTable(routes ...Route) (*Table, error) {
	t := &Table{
		routes: make([]Route, 0, len(routes)),
		index:  make(map[string]int, len(routes)),
	}

	for i, r := range routes {
		if strings.TrimSpace(r.Pattern) == "" {
			return nil, fmt.Errorf("route %d (%s): %w", i, r.Name, ErrEmptyPattern)
		}
		if r.Pattern == CatchAll {
			if i != len(routes)-1 {
				return nil, ErrCatchAllNotLast
			}
			r.Kind = KindNotFound
			t.routes = append(t.routes, r)
			continue
		}

		pattern := normalize(r.Pattern)
		if _, ok := t.index[pattern]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRoute, pattern)
		}
		r.Pattern = pattern
		t.index[pattern] = len(t.routes)
		t.routes = append(t.routes, r)
	}

	if len(t.routes) == 0 || t.routes[len(t.routes)-1].Pattern != CatchAll {
		return nil, ErrMissingCatchAll
	}
	return t, nil
}

// Resolve returns the route for path, or the catch-all when nothing matches.
// Matching ignores letter case.
func (t *Table) Resolve(path string) Route {
	if i, ok := t.index[normalize(path)]; ok {
		return t.routes[i]
	}
	return t.routes[len(t.routes)-1]
}

// Routes returns the table in declaration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.ToLower(path)
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
