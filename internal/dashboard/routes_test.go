package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharma-console/internal/navigation"
)

func TestRouteTable(t *testing.T) {
	table, err := RouteTable()
	require.NoError(t, err)

	routes := table.Routes()
	require.Len(t, routes, 12)
	assert.Equal(t, navigation.KindHome, routes[0].Kind)
	assert.Equal(t, navigation.CatchAll, routes[len(routes)-1].Pattern)

	r := table.Resolve("/lab-operations")
	assert.Equal(t, "lab-operations", r.Name)
	assert.Equal(t, navigation.KindPage, r.Kind)
	assert.Equal(t, navigation.KindNotFound, table.Resolve("/does-not-exist").Kind)
}
