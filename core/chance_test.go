package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/weave/core"
)

func TestNoChanceIsZero(t *testing.T) {
	require.True(t, core.NoChance.IsZero())
	require.False(t, core.Chance{Kind: core.ChanceFrequency, Frequency: 3}.IsZero())
}

func TestChanceKindStrings(t *testing.T) {
	require.Equal(t, "frequency", core.ChanceFrequency.String())
	require.Equal(t, "probability", core.ChanceProbability.String())
	require.Equal(t, "none", core.ChanceNone.String())
}

func TestBlockHasChance(t *testing.T) {
	blk := core.Block{Settings: core.BlockSettings{Chance: core.Chance{Kind: core.ChanceFrequency, Frequency: 1}}}
	require.True(t, blk.HasChance())

	empty := core.Block{}
	require.False(t, empty.HasChance())
}
