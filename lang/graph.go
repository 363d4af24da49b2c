package lang

import (
	"strconv"

	"github.com/aledsdavies/weave/core"
	"github.com/aledsdavies/weave/errors"
)

// pendingGoTo records a GoToSection/GoToSectionAndReturn block whose path
// text must be resolved once the whole section registry exists (component
// C5 runs as a second pass, since forward references are common).
type pendingGoTo struct {
	Block     core.BlockId
	Path      string
	Line      int
	Return    bool
	Containing core.SectionId
	HasContaining bool
}

// builder assembles classified+parsed lines into a block graph (component
// C4). It owns the two parent-selection stacks described in spec §4.3.
type builder struct {
	db   *core.Database
	file string
	errs *errors.Errors

	sectionStack []core.BlockId // index: section depth
	blockStack   []core.BlockId // index: generic level, any block kind

	sectionLineByPath map[string]int
	lineByBlock       map[core.BlockId]int
	vars              *variableIndex

	goTos []pendingGoTo
}

func newBuilder(db *core.Database, file string, errs *errors.Errors, vars *variableIndex) *builder {
	return &builder{
		db:                db,
		file:              file,
		errs:              errs,
		sectionLineByPath: make(map[string]int),
		lineByBlock:       make(map[core.BlockId]int),
		vars:              vars,
	}
}

// currentSection returns the deepest active section's id, or false if none.
func (b *builder) currentSection() (core.SectionId, bool) {
	if len(b.sectionStack) == 0 {
		return 0, false
	}
	blockID := b.sectionStack[len(b.sectionStack)-1]
	for id, sec := range b.db.Sections() {
		if sec.Block == blockID {
			return core.SectionId(id), true
		}
	}
	return 0, false
}

// truncateBlockStackAbove drops entries above level L, keeping L itself.
func (b *builder) truncateBlockStackAbove(level int) {
	if level+1 < len(b.blockStack) {
		b.blockStack = b.blockStack[:level+1]
	}
}

func (b *builder) setBlockStack(level int, id core.BlockId) {
	for len(b.blockStack) <= level {
		b.blockStack = append(b.blockStack, core.NoBlock)
	}
	b.blockStack = b.blockStack[:level+1]
	b.blockStack[level] = id
}

// processSection handles a Section-kind feature: parent selection per the
// d-1 rule, orphan/duplicate detection, and section_stack maintenance.
func (b *builder) processSection(f feature) {
	d := f.SectionDepth

	if d > 0 {
		if d-1 >= len(b.sectionStack) {
			b.errs.Add(errors.ParseError{
				Kind: errors.OrphanedSubSection, File: b.file, Line: f.Line,
				Message: "sub-section has no enclosing section at the previous depth",
			})
			return
		}
	}

	var parent core.BlockId
	if d == 0 {
		parent = core.StartBlock
	} else {
		parent = b.sectionStack[d-1]
	}

	nameID := b.db.AddString(f.Title)

	var ancestorNames []string
	for i := 0; i < d; i++ {
		sec := b.sectionForBlock(b.sectionStack[i])
		ancestorNames = append(ancestorNames, b.db.String(sec.Name))
	}
	ancestorNames = append(ancestorNames, f.Title)
	pathStr := core.JoinPath(ancestorNames...)
	pathID := b.db.AddString(pathStr)

	id := b.db.AddBlock(core.SectionKind(0), parent, uint16(d), core.BlockSettings{})
	b.db.LinkChild(parent, id)
	b.setBlockStack(d, id)
	b.lineByBlock[id] = f.Line

	secID, ok := b.db.AddSection(id, nameID, pathID, pathStr)
	if !ok {
		prevLine := b.sectionLineByPath[pathStr]
		b.errs.Add(errors.ParseError{
			Kind: errors.DuplicateSectionName, File: b.file, Line: f.Line,
			Message: "section name already used at line " + strconv.Itoa(prevLine) + " under the same parent",
		})
		return
	}
	b.sectionLineByPath[pathStr] = f.Line

	// Patch the block's Kind now that we know the SectionId (blocks are
	// appended before the section they declare is registered, since the
	// section needs the block's id).
	blk := b.db.Block(id)
	blk.Kind = core.SectionKind(secID)

	for len(b.sectionStack) <= d {
		b.sectionStack = append(b.sectionStack, core.NoBlock)
	}
	b.sectionStack = b.sectionStack[:d+1]
	b.sectionStack[d] = id
}

func (b *builder) sectionForBlock(blockID core.BlockId) *core.Section {
	for i := range b.db.Sections() {
		if b.db.Sections()[i].Block == blockID {
			return &b.db.Sections()[i]
		}
	}
	return nil
}

// parentFor computes the parent for a non-section block at indentation
// level L, per spec §4.3 point 2.
func (b *builder) parentFor(level int) core.BlockId {
	if level < len(b.sectionStack) {
		return b.sectionStack[level]
	}
	if level == 0 {
		return core.StartBlock
	}
	if level-1 < len(b.blockStack) {
		return b.blockStack[level-1]
	}
	return core.StartBlock
}

// addGeneric appends a non-section block, wiring parent/children and
// updating blockStack.
func (b *builder) addGeneric(kind core.BlockKind, level, line int, settings core.BlockSettings) core.BlockId {
	parent := b.parentFor(level)
	id := b.db.AddBlock(kind, parent, uint16(level), settings)
	b.db.LinkChild(parent, id)
	b.setBlockStack(level, id)
	b.lineByBlock[id] = line
	return id
}

// attachCommand finds the block owning a set/req/mod/freq line (the block
// one level shallower than the command) and attaches the parsed setting.
func (b *builder) attachCommand(f feature) {
	ownerLevel := int(f.Level) - 1
	if ownerLevel < 0 || ownerLevel >= len(b.blockStack) {
		b.errs.Add(errors.ParseError{
			Kind: errors.UnexpectedToken, File: b.file, Line: f.Line,
			Message: "command has no owning block",
		})
		return
	}
	owner := b.blockStack[ownerLevel]
	blk := b.db.Block(owner)
	applyCommand(blk, f, b.file, b.vars, b.errs)
}
