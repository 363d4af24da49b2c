package core

// StringId indexes into a Database's string table.
type StringId uint32

// BlockId indexes into a Database's block array. Block 0 is always Start;
// the last index is always End.
type BlockId uint32

// SectionId indexes into a Database's section array.
type SectionId uint32

// VariableId indexes into a Config's declared variable list. Variables are
// looked up by name at compile time and referenced by id thereafter so the
// runtime never compares strings on the hot path.
type VariableId uint32

// StartBlock is the fixed id of the sentinel Start block.
const StartBlock BlockId = 0

// NoBlock marks the absence of a block reference (e.g. a node with no
// parent other than the root sentinel).
const NoBlock BlockId = ^BlockId(0)

// NoSection marks the absence of a containing section.
const NoSection SectionId = ^SectionId(0)

// NoVariable marks an unresolved variable reference.
const NoVariable VariableId = ^VariableId(0)
