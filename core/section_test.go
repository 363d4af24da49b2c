package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/weave/core"
)

func TestSectionRegistryRejectsDuplicatePath(t *testing.T) {
	reg := core.NewSectionRegistry()
	require.True(t, reg.Register("Intro", 0))
	require.False(t, reg.Register("Intro", 1))

	id, ok := reg.Lookup("Intro")
	require.True(t, ok)
	require.Equal(t, core.SectionId(0), id)
}

func TestJoinPathUsesCanonicalSeparator(t *testing.T) {
	got := core.JoinPath("Chapter One", "The Forest")
	require.Equal(t, "Chapter One"+core.PathSeparator+"The Forest", got)
}

func TestSectionRegistryPathsListsEverything(t *testing.T) {
	reg := core.NewSectionRegistry()
	reg.Register("A", 0)
	reg.Register("B", 1)
	require.ElementsMatch(t, []string{"A", "B"}, reg.Paths())
}
