package navigation

// State is the authentication state the guard switches on.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func StateOf(authenticated bool) State {
	if authenticated {
		return Authenticated
	}
	return Unauthenticated
}

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

type View int

const (
	ViewLogin View = iota
	ViewHome
	ViewPage
	ViewNotFound
)

func (v View) String() string {
	switch v {
	case ViewLogin:
		return "login"
	case ViewHome:
		return "home"
	case ViewPage:
		return "page"
	case ViewNotFound:
		return "not-found"
	}
	return "unknown"
}

// Decision is what the guard renders for one request. Route is the zero value
// for the login view.
type Decision struct {
	State State
	View  View
	Route Route
}

// Guard gates every route behind the session. It performs no per-route
// authorization: persona and process area are labels only.
type Guard struct {
	table *Table
}

func NewGuard(table *Table) *Guard {
	return &Guard{table: table}
}

func (g *Guard) Table() *Table {
	return g.table
}

// Decide picks the view for path. Signed-out clients always get the login view,
// whatever they asked for.
func (g *Guard) Decide(state State, path string) Decision {
	if state != Authenticated {
		return Decision{State: state, View: ViewLogin}
	}

	route := g.table.Resolve(path)
	d := Decision{State: state, Route: route}
	switch route.Kind {
	case KindHome:
		d.View = ViewHome
	case KindPage:
		d.View = ViewPage
	default:
		d.View = ViewNotFound
	}
	return d
}
