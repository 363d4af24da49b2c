package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/weave/core"
)

func TestStringTableDedupes(t *testing.T) {
	tbl := core.NewStringTable()
	a := tbl.Intern("gold coin")
	b := tbl.Intern("gold coin")
	c := tbl.Intern("silver coin")

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Equal(t, 2, tbl.Len())
	require.Equal(t, "gold coin", tbl.Lookup(a))
	require.Equal(t, "silver coin", tbl.Lookup(c))
}

func TestStringTableStringsPreservesIdOrder(t *testing.T) {
	tbl := core.NewStringTable()
	tbl.Intern("first")
	tbl.Intern("second")
	require.Equal(t, []string{"first", "second"}, tbl.Strings())
}
