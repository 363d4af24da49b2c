package core

import "strings"

// PathSeparator joins section name segments into a canonical hierarchical
// path, per spec §3: `" \ "`.
const PathSeparator = ` \ `

// Section is a named, hierarchically addressable region of the story.
type Section struct {
	Block BlockId
	Name  StringId
	Path  StringId // interned join(ancestors.name, PathSeparator)
}

// SectionRegistry maps a canonical hierarchical path string to a SectionId
// with O(1) absolute lookup.
type SectionRegistry struct {
	byPath map[string]SectionId
}

// NewSectionRegistry creates an empty registry.
func NewSectionRegistry() *SectionRegistry {
	return &SectionRegistry{byPath: make(map[string]SectionId)}
}

// Register records path -> id. Returns false if path is already registered
// (the caller, the graph builder, treats that as DuplicateSectionName).
func (r *SectionRegistry) Register(path string, id SectionId) bool {
	if _, exists := r.byPath[path]; exists {
		return false
	}
	r.byPath[path] = id
	return true
}

// Lookup resolves an absolute canonical path to a SectionId.
func (r *SectionRegistry) Lookup(path string) (SectionId, bool) {
	id, ok := r.byPath[path]
	return id, ok
}

// Paths returns all registered canonical paths, useful for "did you mean"
// suggestions against an unresolved path.
func (r *SectionRegistry) Paths() []string {
	paths := make([]string, 0, len(r.byPath))
	for p := range r.byPath {
		paths = append(paths, p)
	}
	return paths
}

// JoinPath builds the canonical path string from ordered name segments.
func JoinPath(names ...string) string {
	return strings.Join(names, PathSeparator)
}
