// Package runtime implements the deterministic story state machine
// (component C8): a program counter over a compiled Database, variable
// state, and the splittable PRNG that drives bucket draws. State never
// mutates the Database it was built from.
package runtime

import (
	"fmt"

	"github.com/aledsdavies/weave/config"
	"github.com/aledsdavies/weave/core"
)

// EventKind discriminates what a Step produced.
type EventKind int

const (
	EventText EventKind = iota
	EventChoices
	EventEnded
)

// Event is what Step returns: either a line of narrative text, a menu of
// choices to pick from via PickChoice, or the end of the story.
type Event struct {
	Kind    EventKind
	Text    string
	Choices []core.BlockId
}

// frame is one open container on the traversal stack: the block whose
// Children are being walked, and the index of the next child to try.
type frame struct {
	container core.BlockId
	idx       int
}

// State is a single, independently advanceable play-through of a Database.
type State struct {
	db *core.Database

	stack       []frame
	returnStack [][]frame
	pc          core.BlockId
	previousPC  core.BlockId
	running     bool

	vars     map[core.VariableId]Value
	varNames []string

	rng      *splitMix64
	tuning   config.RuntimeTuning
	cooldown map[core.BlockId]uint32 // blocks chosen recently: draws remaining until their penalty lifts
}

// New creates a fresh State positioned at Start, with every declared
// variable set to its type's zero value (spec §3: Integer 0, Float 0.0,
// Bool false, Enum its first declared value).
func New(db *core.Database, seed uint64) *State {
	cfg := db.Config()
	names := cfg.VariableNames()
	vars := make(map[core.VariableId]Value, len(names))
	for i, name := range names {
		vars[core.VariableId(i)] = zeroValue(cfg.Variables[name])
	}

	return &State{
		db:         db,
		stack:      []frame{{container: core.StartBlock, idx: 0}},
		pc:         core.StartBlock,
		previousPC: core.StartBlock,
		running:    true,
		vars:       vars,
		varNames:   names,
		rng:        newSplitMix64(seed),
		tuning:     cfg.Runtime,
		cooldown:   make(map[core.BlockId]uint32),
	}
}

// CurrentBlock returns the block Step most recently produced content for.
func (s *State) CurrentBlock() *core.Block {
	return s.db.Block(s.pc)
}

// HasEnded reports whether the story has reached its End sentinel (or an
// explicit END divert) with no pending GoToSectionAndReturn to resume.
func (s *State) HasEnded() bool {
	return !s.running
}

// CanContinue reports whether calling Step would produce another Event
// without requiring a PickChoice first.
func (s *State) CanContinue() bool {
	if !s.running {
		return false
	}
	if s.CurrentBlock().Kind.Tag != core.KindChoice {
		return true
	}
	// PickChoice opens a frame over the chosen block; until it does, the
	// choice menu Step returned is still waiting for an answer.
	return len(s.stack) > 0 && s.stack[len(s.stack)-1].container == s.pc
}

// CurrentSectionHierarchy returns the names of every section currently on
// the traversal stack, outermost first.
func (s *State) CurrentSectionHierarchy() []string {
	var names []string
	for _, f := range s.stack {
		blk := s.db.Block(f.container)
		if blk.Kind.Tag == core.KindSection {
			names = append(names, s.db.String(s.db.Section(blk.Kind.Section).Name))
		}
	}
	return names
}

// Stop halts the story immediately; HasEnded reports true thereafter and
// Step returns an EventEnded without further traversal.
func (s *State) Stop() {
	s.running = false
}

// CurrentBlocks returns every block spanned since the position before the
// most recent Step/Skip call, inclusive on both ends (spec §4.7:
// `blocks[previous_pc..=pc]`). Block ids are assigned in compiled order, so
// this is a direct slice of the database rather than a replay of the
// traversal path.
func (s *State) CurrentBlocks() []core.Block {
	lo, hi := s.previousPC, s.pc
	if lo > hi {
		lo, hi = hi, lo
	}
	return s.db.Blocks()[lo : hi+1]
}

// Skip steps repeatedly until the story ends, per spec §4.7. Afterwards
// previous_pc holds the position pc had when Skip was called (not the value
// each internal step leaves behind), so CurrentBlocks reports the whole
// skipped range. A choice encountered mid-skip has no narrator to ask, so
// Skip picks its first available option and keeps going.
func (s *State) Skip() error {
	if !s.running {
		return nil
	}
	prePC := s.pc
	for s.running {
		ev, err := s.Step()
		if err != nil {
			return err
		}
		if ev.Kind == EventChoices {
			if err := s.PickChoice(ev.Choices, 0); err != nil {
				return err
			}
		}
	}
	s.previousPC = prePC
	return nil
}

// Step advances the state machine to the next piece of content: narrative
// text, a choice menu, or the end of the story (spec §4.7).
func (s *State) Step() (Event, error) {
	if !s.running {
		return Event{Kind: EventEnded}, nil
	}

	prevPC := s.pc
	defer func() { s.previousPC = prevPC }()

	for {
		if len(s.stack) == 0 {
			if len(s.returnStack) > 0 {
				s.stack = s.returnStack[len(s.returnStack)-1]
				s.returnStack = s.returnStack[:len(s.returnStack)-1]
				continue
			}
			s.running = false
			return Event{Kind: EventEnded}, nil
		}

		top := &s.stack[len(s.stack)-1]
		container := s.db.Block(top.container)

		if top.idx >= len(container.Children) {
			s.stack = s.stack[:len(s.stack)-1]
			if next := container.Settings.Next; next.Kind != core.NextSibling {
				s.applyNext(next)
			}
			continue
		}

		childID := container.Children[top.idx]
		top.idx++
		child := s.db.Block(childID)
		if !s.requirementsHold(child) {
			continue
		}

		if child.Kind.Tag == core.KindChoice {
			s.applyModifiers(child)
			choices := []core.BlockId{childID}
			for top.idx < len(container.Children) {
				nextID := container.Children[top.idx]
				next := s.db.Block(nextID)
				if next.Kind.Tag != core.KindChoice {
					break
				}
				top.idx++
				if s.requirementsHold(next) {
					s.applyModifiers(next)
					choices = append(choices, nextID)
				}
			}
			s.pc = choices[0]
			return Event{Kind: EventChoices, Choices: choices}, nil
		}

		s.applyModifiers(child)
		if ev, ok := s.dispatchChild(childID); ok {
			return ev, nil
		}
	}
}

// dispatchChild handles every non-Choice block kind reachable from normal
// descent. It loops internally to resolve Bucket draws without the caller
// needing to re-enter the switch.
func (s *State) dispatchChild(childID core.BlockId) (Event, bool) {
	for {
		blk := s.db.Block(childID)
		switch blk.Kind.Tag {
		case core.KindBucket:
			chosen, ok := s.chooseBucketChild(blk)
			if !ok {
				return Event{}, false
			}
			chosenBlk := s.db.Block(chosen)
			if !s.requirementsHold(chosenBlk) {
				return Event{}, false
			}
			s.applyModifiers(chosenBlk)
			childID = chosen
			continue
		case core.KindSection:
			s.stack = append(s.stack, frame{container: childID, idx: 0})
			s.pc = childID
			return Event{}, false
		case core.KindGoToSection:
			s.jump(blk.Kind.Target)
			return Event{}, false
		case core.KindGoToSectionAndReturn:
			s.pushReturn()
			s.jump(blk.Kind.Target)
			return Event{}, false
		case core.KindDivert:
			s.applyNext(blk.Kind.Next)
			return Event{}, false
		case core.KindEnd:
			s.pc = childID
			return Event{}, false
		case core.KindString:
			s.stack = append(s.stack, frame{container: childID, idx: 0})
			s.pc = childID
			return Event{Kind: EventText, Text: s.db.String(blk.Kind.Text)}, true
		default:
			return Event{}, false
		}
	}
}

// PickChoice resumes traversal into the i'th choice from the most recently
// returned EventChoices.
func (s *State) PickChoice(choices []core.BlockId, i int) error {
	if i < 0 || i >= len(choices) {
		return fmt.Errorf("choice index %d out of range [0,%d)", i, len(choices))
	}
	chosen := choices[i]
	s.stack = append(s.stack, frame{container: chosen, idx: 0})
	s.pc = chosen
	return nil
}

func (s *State) pushReturn() {
	saved := append([]frame{}, s.stack...)
	s.returnStack = append(s.returnStack, saved)
}

func (s *State) jump(target core.Target) {
	switch target.Kind {
	case core.TargetStart:
		s.stack = []frame{{container: core.StartBlock, idx: 0}}
	case core.TargetRestart:
		s.resetVars()
		s.returnStack = nil
		s.stack = []frame{{container: core.StartBlock, idx: 0}}
	case core.TargetEnd:
		s.stack = nil
		s.returnStack = nil
	case core.TargetSection:
		sec := s.db.Section(target.Section)
		s.stack = s.sectionStackFrames(sec.Block)
	}
}

// sectionStackFrames rebuilds the traversal stack for a direct jump into a
// section block, seeding one frame per ancestor section (root first), not
// just the jumped-to section itself. Without this, CurrentSectionHierarchy
// reports only the target after a go-to into a nested section, and the
// target's own remaining siblings in its real parent are never visited once
// its subtree is exhausted. An ancestor's frame idx is set one past the
// child leading toward the target, exactly where that ancestor's frame
// would sit had normal top-down descent reached the target instead of a
// direct jump, so none of the ancestor's earlier children get re-emitted.
func (s *State) sectionStackFrames(target core.BlockId) []frame {
	var chain []core.BlockId
	for id := target; id != core.NoBlock; id = s.db.Block(id).Parent {
		if s.db.Block(id).Kind.Tag == core.KindSection {
			chain = append(chain, id)
		}
	}
	for l, r := 0, len(chain)-1; l < r; l, r = l+1, r-1 {
		chain[l], chain[r] = chain[r], chain[l]
	}

	frames := make([]frame, len(chain))
	for i, id := range chain {
		idx := 0
		if i+1 < len(chain) {
			idx = childIndex(s.db, id, chain[i+1]) + 1
		}
		frames[i] = frame{container: id, idx: idx}
	}
	return frames
}

func childIndex(db *core.Database, parent, child core.BlockId) int {
	for i, c := range db.Block(parent).Children {
		if c == child {
			return i
		}
	}
	return 0
}

func (s *State) applyNext(next core.NextInstruction) {
	switch next.Kind {
	case core.NextBlockID:
		s.stack = append(s.stack, frame{container: next.Block, idx: 0})
	case core.NextSectionID:
		s.stack = []frame{{container: s.db.Section(next.Section).Block, idx: 0}}
	case core.NextEndOfFile:
		s.stack = nil
	}
}

func (s *State) resetVars() {
	cfg := s.db.Config()
	for i, name := range s.varNames {
		s.vars[core.VariableId(i)] = zeroValue(cfg.Variables[name])
	}
	s.cooldown = make(map[core.BlockId]uint32)
}
