package lang_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/weave/config"
	"github.com/aledsdavies/weave/core"
	"github.com/aledsdavies/weave/lang"
)

func TestCompileBasicBranchingStory(t *testing.T) {
	source := "# Intro\n" +
		"  You wake up in a forest.\n" +
		"  * Go north\n" +
		"    req gold >= 0\n" +
		"    You walk north.\n" +
		"  * Go south\n" +
		"    You walk south.\n" +
		"  -> END\n"

	cfg := config.New()
	cfg.Variables["gold"] = config.VariableKind{Kind: config.Integer}

	db, err := lang.Compile(source, "story.txt", cfg)
	require.NoError(t, err)
	require.NotNil(t, db)
	require.NoError(t, db.CheckInvariants())

	require.Len(t, db.Sections(), 1)
	intro := db.Section(0)
	require.Equal(t, "Intro", db.String(intro.Name))
}

func TestCompileRejectsEmptySource(t *testing.T) {
	_, err := lang.Compile("", "story.txt", nil)
	require.Error(t, err)
}

func TestCompileReportsOrphanedSubSection(t *testing.T) {
	source := "## Clearing\n  A clearing in the woods.\n"
	_, err := lang.Compile(source, "story.txt", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "orphaned sub-section")
}

func TestCompileReportsDuplicateSectionName(t *testing.T) {
	source := "# Intro\n  First.\n# Intro\n  Second.\n"
	_, err := lang.Compile(source, "story.txt", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate section name")
}

func TestCompileSuggestsCloseVariableName(t *testing.T) {
	cfg := config.New()
	cfg.Variables["gold"] = config.VariableKind{Kind: config.Integer}
	source := "# Intro\n  req glod >= 1\n  You are rich.\n"

	_, err := lang.Compile(source, "story.txt", cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), `did you mean "gold"?`)
}

func TestCompileExplicitBucketWithMatchingProbabilities(t *testing.T) {
	source := "# Garden\n" +
		"  [Weather]\n" +
		"    (40%) Sunny day.\n" +
		"    (60%) Rainy day.\n"

	db, err := lang.Compile(source, "story.txt", nil)
	require.NoError(t, err)

	var foundBucket bool
	for _, blk := range db.Blocks() {
		if blk.Kind.Tag == core.KindBucket {
			foundBucket = true
			require.Len(t, blk.Children, 2)
		}
	}
	require.True(t, foundBucket)
}

func TestCompileRejectsBucketSumNotOne(t *testing.T) {
	source := "# Garden\n" +
		"  [Weather]\n" +
		"    (40%) Sunny day.\n" +
		"    (40%) Rainy day.\n"

	_, err := lang.Compile(source, "story.txt", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "want 1.0")
}

func TestCompileInsertsImplicitBucketForHomogeneousRun(t *testing.T) {
	source := "# Garden\n" +
		"  (40%) Sunny day.\n" +
		"  (60%) Rainy day.\n"

	db, err := lang.Compile(source, "story.txt", nil)
	require.NoError(t, err)

	var bucketCount int
	for _, blk := range db.Blocks() {
		if blk.Kind.Tag == core.KindBucket {
			bucketCount++
		}
	}
	require.Equal(t, 1, bucketCount)
}

func TestCompileResolvesRelativeGoTo(t *testing.T) {
	source := "# Town\n" +
		"  ## Market\n" +
		"    You browse the stalls.\n" +
		"    -> .. \\ Square\n" +
		"  ## Square\n" +
		"    Pigeons scatter.\n"

	db, err := lang.Compile(source, "story.txt", nil)
	require.NoError(t, err)
	require.Len(t, db.Sections(), 3)
}

func TestCompileResolvesBareSiblingGoTo(t *testing.T) {
	source := "# Town\n" +
		"  ## Market\n" +
		"    You browse the stalls.\n" +
		"    -> Square\n" +
		"  ## Square\n" +
		"    Pigeons scatter.\n"

	db, err := lang.Compile(source, "story.txt", nil)
	require.NoError(t, err)
	require.Len(t, db.Sections(), 3)
}

func TestCompileResolvesAbsoluteGoToFromNestedSection(t *testing.T) {
	source := "# Town\n" +
		"  ## Market\n" +
		"    -> Town \\ Square\n" +
		"  ## Square\n" +
		"    Pigeons scatter.\n"

	db, err := lang.Compile(source, "story.txt", nil)
	require.NoError(t, err)
	require.Len(t, db.Sections(), 3)
}

func TestCompileReportsInvalidIndentation(t *testing.T) {
	source := "# Intro\n   Odd indent.\n"
	_, err := lang.Compile(source, "story.txt", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "indentation")
}
