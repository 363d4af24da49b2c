package lang

import (
	"strings"

	"github.com/aledsdavies/weave/core"
	"github.com/aledsdavies/weave/errors"
)

// resolvePaths runs component C5 over every GoToSection/GoToSectionAndReturn
// block recorded during graph building. It is a second pass because a path
// may name a section that appears later in the source file.
func resolvePaths(db *core.Database, goTos []pendingGoTo, file string, errs *errors.Errors) {
	blockToSection := make(map[core.BlockId]core.SectionId, len(db.Sections()))
	for id, sec := range db.Sections() {
		blockToSection[sec.Block] = core.SectionId(id)
	}

	for _, g := range goTos {
		target, errMsg := resolveOne(db, g, blockToSection)
		if errMsg != "" {
			var suggestions []string
			if strings.HasPrefix(errMsg, "no section named") {
				suggestions = errors.Suggest(g.Path, db.Registry().Paths())
			}
			errs.Add(errors.ParseError{
				Kind: errorKindFor(errMsg), File: file, Line: g.Line,
				Message:     errMsg,
				Suggestions: suggestions,
			})
			continue
		}
		blk := db.Block(g.Block)
		if g.Return {
			blk.Kind = core.GoToSectionAndReturnKind(target)
		} else {
			blk.Kind = core.GoToSectionKind(target)
		}
	}
}

// sentinel error messages, matched by errorKindFor; kept as
// plain strings so resolveOne stays a pure function of (db, pendingGoTo).
const (
	errNavigationAboveRoot = "path navigates above the root with too many '..' segments"
	errInvalidPath         = "'.' and '..' segments may only appear at the start of a path"
)

func errorKindFor(msg string) errors.Kind {
	switch msg {
	case errNavigationAboveRoot:
		return errors.NavigationAboveRoot
	case errInvalidPath:
		return errors.InvalidPath
	default:
		return errors.SectionNotFound
	}
}

func resolveOne(db *core.Database, g pendingGoTo, blockToSection map[core.BlockId]core.SectionId) (core.Target, string) {
	switch g.Path {
	case "START":
		return core.Target{Kind: core.TargetStart}, ""
	case "RESTART":
		return core.Target{Kind: core.TargetRestart}, ""
	case "END":
		return core.Target{Kind: core.TargetEnd}, ""
	}

	segments := splitPath(g.Path)
	if segments[0] == "." {
		if !g.HasContaining {
			return core.Target{}, "no enclosing section for '.'"
		}
		final := append(ancestorNames(db, g.Containing, blockToSection), segments[1:]...)
		pathStr := core.JoinPath(final...)
		if secID, ok := db.Registry().Lookup(pathStr); ok {
			return core.Target{Kind: core.TargetSection, Section: secID}, ""
		}
		return core.Target{}, "no section named " + pathStr
	}
	if segments[0] != ".." {
		return resolvePlainPath(db, g, segments, blockToSection)
	}

	var base []string
	if g.HasContaining {
		base = ancestorNames(db, g.Containing, blockToSection)
	}

	i := 0
	for i < len(segments) && segments[i] == ".." {
		if len(base) == 0 {
			return core.Target{}, errNavigationAboveRoot
		}
		base = base[:len(base)-1]
		i++
	}
	if i < len(segments) && segments[i] == "." {
		i++
	}
	for _, s := range segments[i:] {
		if s == "." || s == ".." {
			return core.Target{}, errInvalidPath
		}
	}

	final := append(append([]string{}, base...), segments[i:]...)
	pathStr := core.JoinPath(final...)

	secID, ok := db.Registry().Lookup(pathStr)
	if !ok {
		return core.Target{}, "no section named " + pathStr
	}
	return core.Target{Kind: core.TargetSection, Section: secID}, ""
}

// resolvePlainPath resolves a path with no leading ".." segment, per the
// ground-truth algorithm (_examples/original_source/common/src/path_resolver.rs):
// try it as an absolute path via the registry, then search the containing
// section's direct children by name, then its siblings, and only then fall
// back to reconstructing an ancestor-qualified path. Trying the registry
// first is what lets an absolute reference written from inside a nested
// section (e.g. "Town \ Square" issued from within "Town \ Market") resolve
// to the literal path instead of being prefixed with the writer's own
// ancestor chain; the child/sibling search is what lets a bare sibling name
// (e.g. "Square" from within "Market", both children of "Town") resolve
// without the author spelling out the full qualified path.
func resolvePlainPath(db *core.Database, g pendingGoTo, segments []string, blockToSection map[core.BlockId]core.SectionId) (core.Target, string) {
	pathStr := core.JoinPath(segments...)
	if secID, ok := db.Registry().Lookup(pathStr); ok {
		return core.Target{Kind: core.TargetSection, Section: secID}, ""
	}

	if g.HasContaining {
		containingBlock := db.Section(g.Containing).Block

		if childBlock, ok := findChildSectionBlock(db, containingBlock, segments[0]); ok {
			if target, ok := finishSegments(db, childBlock, segments, blockToSection); ok {
				return target, ""
			}
		}
		if siblingBlock, ok := findSiblingSectionBlock(db, containingBlock, segments[0]); ok {
			if target, ok := finishSegments(db, siblingBlock, segments, blockToSection); ok {
				return target, ""
			}
		}
	}

	var base []string
	if g.HasContaining {
		base = ancestorNames(db, g.Containing, blockToSection)
	}
	final := append(append([]string{}, base...), segments...)
	fullPath := core.JoinPath(final...)
	if secID, ok := db.Registry().Lookup(fullPath); ok {
		return core.Target{Kind: core.TargetSection, Section: secID}, ""
	}
	return core.Target{}, "no section named " + fullPath
}

// finishSegments resolves the remaining path once its first segment has
// matched a found child/sibling section block. A single-segment path
// resolves to that block directly; a longer one re-qualifies the found
// section's own canonical path with the rest of the segments and retries
// the registry, since the found block only matched on name, not on the
// full remaining path.
func finishSegments(db *core.Database, found core.BlockId, segments []string, blockToSection map[core.BlockId]core.SectionId) (core.Target, bool) {
	secID, ok := blockToSection[found]
	if !ok {
		return core.Target{}, false
	}
	if len(segments) == 1 {
		return core.Target{Kind: core.TargetSection, Section: secID}, true
	}
	full := core.JoinPath(append(splitPath(db.String(db.Section(secID).Path)), segments[1:]...)...)
	if target, ok := db.Registry().Lookup(full); ok {
		return core.Target{Kind: core.TargetSection, Section: target}, true
	}
	return core.Target{}, false
}

// findChildSectionBlock finds a direct child section of parent by name.
func findChildSectionBlock(db *core.Database, parent core.BlockId, name string) (core.BlockId, bool) {
	for _, childID := range db.Block(parent).Children {
		child := db.Block(childID)
		if child.Kind.Tag != core.KindSection {
			continue
		}
		if db.String(db.Section(child.Kind.Section).Name) == name {
			return childID, true
		}
	}
	return 0, false
}

// findSiblingSectionBlock finds a section sharing blockID's own parent
// (excluding blockID itself) by name.
func findSiblingSectionBlock(db *core.Database, blockID core.BlockId, name string) (core.BlockId, bool) {
	self := db.Block(blockID)
	if self.Parent == core.NoBlock {
		return 0, false
	}
	for _, siblingID := range db.Block(self.Parent).Children {
		if siblingID == blockID {
			continue
		}
		sibling := db.Block(siblingID)
		if sibling.Kind.Tag != core.KindSection {
			continue
		}
		if db.String(db.Section(sibling.Kind.Section).Name) == name {
			return siblingID, true
		}
	}
	return 0, false
}

func splitPath(path string) []string {
	parts := strings.Split(path, core.PathSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// ancestorNames returns the path segments of sectionID's full path, i.e. the
// chain of section names from a root section down to and including sectionID.
func ancestorNames(db *core.Database, sectionID core.SectionId, blockToSection map[core.BlockId]core.SectionId) []string {
	sec := db.Section(sectionID)
	full := db.String(sec.Path)
	return splitPath(full)
}
