package dashboard

import "pharma-console/internal/navigation"

// RouteTable declares home, every page, and the catch-all, in that order.
func RouteTable() (*navigation.Table, error) {
	pages := Pages()
	routes := make([]navigation.Route, 0, len(pages)+2)
	routes = append(routes, navigation.Route{Pattern: "/", Name: "home", Kind: navigation.KindHome})
	for _, p := range pages {
		routes = append(routes, navigation.Route{Pattern: p.Path, Name: p.Name(), Kind: navigation.KindPage})
	}
	routes = append(routes, navigation.Route{Pattern: navigation.CatchAll, Name: "not-found"})
	return navigation.NewTable(routes...)
}
