package lang_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/weave/config"
	"github.com/aledsdavies/weave/core"
	"github.com/aledsdavies/weave/lang"
)

func TestDefaultOperatorIsGreaterThanForNumericVariables(t *testing.T) {
	cfg := config.New()
	cfg.Variables["gold"] = config.VariableKind{Kind: config.Integer}

	source := "# Intro\n" +
		"  * Go north\n" +
		"    req gold 5\n" +
		"    You are rich enough.\n"

	db, err := lang.Compile(source, "story.txt", cfg)
	require.NoError(t, err)

	var found bool
	for _, blk := range db.Blocks() {
		if len(blk.Settings.Requirements) == 1 {
			found = true
			require.Equal(t, core.OpGt, blk.Settings.Requirements[0].Condition.Op)
		}
	}
	require.True(t, found)
}

func TestDefaultOperatorIsEqualForBoolVariables(t *testing.T) {
	cfg := config.New()
	cfg.Variables["met_hero"] = config.VariableKind{Kind: config.Bool}

	source := "# Intro\n" +
		"  * Talk to the hero\n" +
		"    req met_hero true\n" +
		"    The hero nods.\n"

	db, err := lang.Compile(source, "story.txt", cfg)
	require.NoError(t, err)

	var found bool
	for _, blk := range db.Blocks() {
		if len(blk.Settings.Requirements) == 1 {
			found = true
			require.Equal(t, core.OpEq, blk.Settings.Requirements[0].Condition.Op)
		}
	}
	require.True(t, found)
}

func TestBoolVariableRejectsOrderingOperator(t *testing.T) {
	cfg := config.New()
	cfg.Variables["met_hero"] = config.VariableKind{Kind: config.Bool}

	source := "# Intro\n" +
		"  req met_hero >= true\n" +
		"  The hero nods.\n"

	_, err := lang.Compile(source, "story.txt", cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "only = and != are valid")
}

func TestModifierRejectsDivisionByLiteralZero(t *testing.T) {
	cfg := config.New()
	cfg.Variables["gold"] = config.VariableKind{Kind: config.Integer}

	source := "# Intro\n" +
		"  You find a cursed coin.\n" +
		"    mod gold div 0\n"

	_, err := lang.Compile(source, "story.txt", cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "div by a literal zero")
}

func TestFrequencyModifierOutsideBucketIsRejected(t *testing.T) {
	cfg := config.New()
	cfg.Variables["luck"] = config.VariableKind{Kind: config.Integer}

	source := "# Intro\n" +
		"  You feel lucky.\n" +
		"    freq luck 5 2\n"

	_, err := lang.Compile(source, "story.txt", cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "freq modifier outside a bucket")
}

func TestBucketMixingFrequencyAndProbabilityIsRejected(t *testing.T) {
	source := "# Garden\n" +
		"  [Weather]\n" +
		"    (1) Sunny day.\n" +
		"    (100%) Rainy day.\n"

	_, err := lang.Compile(source, "story.txt", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "mixes frequency and probability")
}
