package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/weave/config"
	"github.com/aledsdavies/weave/core"
)

func TestNewDatabaseHasStartSentinel(t *testing.T) {
	db := core.New(config.New())
	require.Equal(t, core.StartBlock, db.Block(core.StartBlock).ID)
	require.Equal(t, core.KindStart, db.Block(core.StartBlock).Kind.Tag)
}

func TestFinalizeAppendsEndAndLinksChild(t *testing.T) {
	db := core.New(config.New())
	text := db.AddString("hello")
	child := db.AddBlock(core.StringKind(text), core.StartBlock, 0, core.BlockSettings{})
	db.LinkChild(core.StartBlock, child)

	end := db.Finalize(core.StartBlock, 0)
	require.Equal(t, end, db.End())
	require.Equal(t, core.KindEnd, db.Block(end).Kind.Tag)

	start := db.Block(core.StartBlock)
	require.Contains(t, start.Children, end)
	require.NoError(t, db.CheckInvariants())
}

func TestCheckInvariantsRejectsOrphan(t *testing.T) {
	db := core.New(config.New())
	text := db.AddString("orphan")
	// AddBlock without LinkChild: the block exists but its parent doesn't
	// list it, which violates parent/child consistency.
	db.AddBlock(core.StringKind(text), core.StartBlock, 0, core.BlockSettings{})
	db.Finalize(core.StartBlock, 0)

	err := db.CheckInvariants()
	require.Error(t, err)
}

func TestAddSectionRejectsDuplicatePath(t *testing.T) {
	db := core.New(config.New())
	name := db.AddString("Intro")
	path := db.AddString("Intro")
	blockA := db.AddBlock(core.SectionKind(0), core.StartBlock, 0, core.BlockSettings{})
	db.LinkChild(core.StartBlock, blockA)
	_, ok := db.AddSection(blockA, name, path, "Intro")
	require.True(t, ok)

	blockB := db.AddBlock(core.SectionKind(0), core.StartBlock, 0, core.BlockSettings{})
	db.LinkChild(core.StartBlock, blockB)
	_, ok = db.AddSection(blockB, name, path, "Intro")
	require.False(t, ok)
}

func TestFromPartsRoundTrips(t *testing.T) {
	db := core.New(config.New())
	text := db.AddString("hi")
	child := db.AddBlock(core.StringKind(text), core.StartBlock, 0, core.BlockSettings{})
	db.LinkChild(core.StartBlock, child)
	db.Finalize(core.StartBlock, 0)

	rebuilt := core.FromParts(db.Strings(), db.Blocks(), db.Sections(), db.Config())
	require.NoError(t, rebuilt.CheckInvariants())
	require.Equal(t, db.String(text), rebuilt.String(text))
}
