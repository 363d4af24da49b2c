package core

import (
	"fmt"

	"github.com/aledsdavies/weave/config"
	"github.com/aledsdavies/weave/core/invariant"
)

// Database is the final compiled artifact: interned strings, a flat block
// array, the section registry, and the config the story was compiled
// against. It is append-only during construction and never mutated
// afterwards — the runtime only ever mutates its own State value.
type Database struct {
	strings  *StringTable
	blocks   []Block
	sections []Section
	registry *SectionRegistry
	cfg      *config.Config
}

// New creates a Database with the Start sentinel at block 0, as required by
// invariant 1 of spec §3.
func New(cfg *config.Config) *Database {
	if cfg == nil {
		cfg = config.New()
	}
	db := &Database{
		strings:  NewStringTable(),
		registry: NewSectionRegistry(),
		cfg:      cfg,
	}
	db.blocks = append(db.blocks, Block{ID: StartBlock, Kind: StartKind(), Parent: NoBlock})
	return db
}

// AddString interns s and returns its id.
func (db *Database) AddString(s string) StringId {
	return db.strings.Intern(s)
}

// AddBlock appends a block, assigning it the next BlockId. The caller is
// responsible for wiring Parent/Children (the graph builder owns that).
func (db *Database) AddBlock(kind BlockKind, parent BlockId, level uint16, settings BlockSettings) BlockId {
	id := BlockId(len(db.blocks))
	db.blocks = append(db.blocks, Block{
		ID:       id,
		Kind:     kind,
		Parent:   parent,
		Level:    level,
		Settings: settings,
	})
	return id
}

// AddSection appends a section and registers its canonical path. Returns
// false if path is already registered (a duplicate sibling name).
func (db *Database) AddSection(block BlockId, name StringId, path StringId, pathStr string) (SectionId, bool) {
	id := SectionId(len(db.sections))
	if !db.registry.Register(pathStr, id) {
		return NoSection, false
	}
	db.sections = append(db.sections, Section{Block: block, Name: name, Path: path})
	return id, true
}

// Finalize appends the End sentinel block as the last block, per invariant 1.
// Must be called exactly once, after all other blocks have been added.
func (db *Database) Finalize(parent BlockId, level uint16) BlockId {
	id := db.AddBlock(EndKind(), parent, level, BlockSettings{})
	db.LinkChild(parent, id)
	invariant.Postcondition(int(id) == len(db.blocks)-1, "End must be the last block")
	return id
}

// FromParts reconstructs a Database from its already-decoded pieces — used
// by the serialize package after a CBOR payload has been unmarshaled into
// plain exported structs. strings must be in original id order; blocks and
// sections are taken as-is (Children/Parent/indices are not checked here;
// serialize.Decode runs CheckInvariants on the result).
func FromParts(strings []string, blocks []Block, sections []Section, cfg *config.Config) *Database {
	st := NewStringTable()
	for _, s := range strings {
		st.Intern(s)
	}
	registry := NewSectionRegistry()
	for id, sec := range sections {
		registry.Register(st.Lookup(sec.Path), SectionId(id))
	}
	return &Database{strings: st, blocks: blocks, sections: sections, registry: registry, cfg: cfg}
}

// Block returns the block at id.
func (db *Database) Block(id BlockId) *Block {
	invariant.InRange(int(id), 0, len(db.blocks)-1, "BlockId")
	return &db.blocks[id]
}

// LinkChild appends child to parent's Children in source order.
func (db *Database) LinkChild(parent, child BlockId) {
	db.blocks[parent].Children = append(db.blocks[parent].Children, child)
}

// ReplaceChildren overwrites parent's children list wholesale. Used by the
// graph builder when it re-parents a run of implicitly-bucketed siblings
// beneath a synthesized Bucket block.
func (db *Database) ReplaceChildren(parent BlockId, children []BlockId) {
	db.blocks[parent].Children = children
}

// SetParent updates a block's recorded parent (used when re-parenting into
// a synthetic bucket).
func (db *Database) SetParent(child, parent BlockId) {
	db.blocks[child].Parent = parent
}

// Blocks returns all blocks in id order. Callers must not mutate the
// returned slice.
func (db *Database) Blocks() []Block {
	return db.blocks
}

// Sections returns all sections in id order.
func (db *Database) Sections() []Section {
	return db.sections
}

// Section returns the section at id.
func (db *Database) Section(id SectionId) *Section {
	invariant.InRange(int(id), 0, len(db.sections)-1, "SectionId")
	return &db.sections[id]
}

// Registry returns the section-path registry.
func (db *Database) Registry() *SectionRegistry {
	return db.registry
}

// String resolves an interned string.
func (db *Database) String(id StringId) string {
	return db.strings.Lookup(id)
}

// Strings returns the table's contents in id order.
func (db *Database) Strings() []string {
	return db.strings.Strings()
}

// Config returns the config the database was compiled against.
func (db *Database) Config() *config.Config {
	return db.cfg
}

// End returns the id of the End sentinel, always the last block.
func (db *Database) End() BlockId {
	return BlockId(len(db.blocks) - 1)
}

// CheckInvariants validates the structural invariants of an already-built
// Database: Start first and End last, parent/child consistency,
// reachability from Start, unique section paths, and homogeneous bucket
// weights (probabilities summing to 1). It does not check variables,
// operators or modifier values; lang's semantic validator does that during
// Compile. Compile calls this before returning; it is
// exported so tests (and paranoid embedders) can re-run it against a
// deserialized database.
func (db *Database) CheckInvariants() error {
	if len(db.blocks) == 0 {
		return fmt.Errorf("database has no blocks")
	}
	if db.blocks[0].Kind.Tag != KindStart {
		return fmt.Errorf("block 0 must be Start, got %s", db.blocks[0].Kind.Tag)
	}
	last := len(db.blocks) - 1
	if db.blocks[last].Kind.Tag != KindEnd {
		return fmt.Errorf("last block must be End, got %s", db.blocks[last].Kind.Tag)
	}

	if err := db.checkParentChildConsistency(); err != nil {
		return err
	}
	if err := db.checkReachability(); err != nil {
		return err
	}
	if err := db.checkSectionPaths(); err != nil {
		return err
	}
	if err := db.checkBucketHomogeneity(); err != nil {
		return err
	}
	return nil
}

func (db *Database) checkParentChildConsistency() error {
	for _, b := range db.blocks {
		for _, c := range b.Children {
			child := db.Block(c)
			if child.Parent != b.ID {
				return fmt.Errorf("block %d lists child %d whose recorded parent is %d", b.ID, c, child.Parent)
			}
		}
	}
	for _, b := range db.blocks[1:] {
		if b.Parent == NoBlock {
			return fmt.Errorf("block %d has no parent", b.ID)
		}
		parent := db.Block(b.Parent)
		found := false
		for _, c := range parent.Children {
			if c == b.ID {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("block %d's parent %d does not list it as a child", b.ID, b.Parent)
		}
	}
	return nil
}

// checkReachability verifies every non-Start block is reachable from Start
// via parent/child edges (spec §3 invariant 2). Graph diverts (GoToSection,
// Divert) are navigational, not structural, so reachability is checked over
// the tree shape the graph builder produced, not over runtime traversal
// order.
func (db *Database) checkReachability() error {
	visited := make([]bool, len(db.blocks))
	stack := []BlockId{StartBlock}
	visited[StartBlock] = true
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range db.Block(id).Children {
			if !visited[c] {
				visited[c] = true
				stack = append(stack, c)
			}
		}
	}
	visited[db.End()] = true // End is reached via traversal fallthrough, not as anyone's child necessarily
	for _, b := range db.blocks {
		if !visited[b.ID] {
			return fmt.Errorf("block %d is not reachable from Start", b.ID)
		}
	}
	return nil
}

func (db *Database) checkSectionPaths() error {
	seen := make(map[string]SectionId, len(db.sections))
	for id := range db.sections {
		sec := &db.sections[id]
		path := db.String(sec.Path)
		if existing, ok := seen[path]; ok && existing != SectionId(id) {
			return fmt.Errorf("duplicate section path %q (sections %d and %d)", path, existing, id)
		}
		seen[path] = SectionId(id)
	}
	return nil
}

func (db *Database) checkBucketHomogeneity() error {
	for _, b := range db.blocks {
		if b.Kind.Tag != KindBucket {
			continue
		}
		if err := checkBucketWeights(db, b.Children); err != nil {
			return fmt.Errorf("bucket at block %d: %w", b.ID, err)
		}
	}
	return nil
}

func checkBucketWeights(db *Database, children []BlockId) error {
	var kind ChanceKind
	var sum float64
	for i, c := range children {
		chance := db.Block(c).Settings.Chance
		if i == 0 {
			kind = chance.Kind
		} else if chance.Kind != kind {
			return fmt.Errorf("mixed frequency and probability chances")
		}
		if chance.Kind == ChanceProbability {
			sum += float64(chance.Probability)
		}
	}
	if kind == ChanceProbability {
		if diff := sum - 1.0; diff > BucketEpsilon || diff < -BucketEpsilon {
			return fmt.Errorf("probabilities sum to %v, want 1.0 +/- %v", sum, BucketEpsilon)
		}
	}
	return nil
}
