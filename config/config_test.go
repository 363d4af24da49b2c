package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/weave/config"
)

func TestVariableNamesAreSortedAndStable(t *testing.T) {
	cfg := config.New()
	cfg.Variables["zebra"] = config.VariableKind{Kind: config.Integer}
	cfg.Variables["apple"] = config.VariableKind{Kind: config.Bool}
	cfg.Variables["mango"] = config.VariableKind{Kind: config.Float}

	names := cfg.VariableNames()
	require.Equal(t, []string{"apple", "mango", "zebra"}, names)

	// Calling it again must produce the same order, since VariableId
	// assignment in lang.newVariableIndex depends on positional stability.
	require.Equal(t, names, cfg.VariableNames())
}

func TestHasReputation(t *testing.T) {
	cfg := config.New()
	cfg.Reputations["village"] = struct{}{}
	require.True(t, cfg.HasReputation("village"))
	require.False(t, cfg.HasReputation("kingdom"))
}

func TestDefaultRuntimeTuning(t *testing.T) {
	tuning := config.DefaultRuntimeTuning()
	require.Equal(t, int32(-100), tuning.ChosenEventFrequencyPenalty)
	require.Equal(t, uint32(10), tuning.EventFrequencyCooldown)
	require.Equal(t, uint32(50), tuning.MetRequirementFrequencyBoost)
}
