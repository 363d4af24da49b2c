// Package errors implements the structured, locatable, multi-error
// reporting model described in spec §4.8/§7 (component C9).
package errors

import (
	"fmt"
	"sort"
	"strings"
)

// Kind enumerates every lexing/structure/semantics/IO error named in spec §7.
type Kind int

const (
	InvalidIndentation Kind = iota
	EmptySectionTitle
	OrphanedSubSection
	DuplicateSectionName
	InvalidGoToSection
	InvalidPath
	SectionNotFound
	NavigationAboveRoot
	BucketSumIsNot1
	BucketHasFrequenciesAndChances
	BucketMissingProbability
	DivisionByZero
	VariableDoesntExist
	InvalidVariableValue
	InvalidVariableOperator
	FrequencyOutOfBucket
	FrequencyModifierWithoutFrequencyChance
	FileIsEmpty
	PathIsNotAFile
	PathDoesntExist
	CantReadFile
	UnexpectedToken
)

func (k Kind) String() string {
	switch k {
	case InvalidIndentation:
		return "invalid indentation"
	case EmptySectionTitle:
		return "empty section title"
	case OrphanedSubSection:
		return "orphaned sub-section"
	case DuplicateSectionName:
		return "duplicate section name"
	case InvalidGoToSection:
		return "invalid go-to"
	case InvalidPath:
		return "invalid path"
	case SectionNotFound:
		return "section not found"
	case NavigationAboveRoot:
		return "navigation above root"
	case BucketSumIsNot1:
		return "bucket probabilities do not sum to 1"
	case BucketHasFrequenciesAndChances:
		return "bucket mixes frequencies and probabilities"
	case BucketMissingProbability:
		return "bucket child missing a chance"
	case DivisionByZero:
		return "division by zero"
	case VariableDoesntExist:
		return "variable doesn't exist"
	case InvalidVariableValue:
		return "invalid variable value"
	case InvalidVariableOperator:
		return "invalid variable operator"
	case FrequencyOutOfBucket:
		return "frequency modifier outside a bucket"
	case FrequencyModifierWithoutFrequencyChance:
		return "frequency modifier on a non-frequency bucket"
	case FileIsEmpty:
		return "file is empty"
	case PathIsNotAFile:
		return "path is not a file"
	case PathDoesntExist:
		return "path doesn't exist"
	case CantReadFile:
		return "can't read file"
	case UnexpectedToken:
		return "unexpected token"
	default:
		return "error"
	}
}

// ParseError carries enough context to render a Rust/Clang-style snippet:
// the file, 1-based line, optional 1-based column, a short message, and an
// optional set of "did you mean" suggestions.
type ParseError struct {
	Kind        Kind
	File        string
	Line        int
	Column      int // 0 if not applicable
	Message     string
	Suggestions []string

	// Source, when set, is the full source text; it lets Error() render the
	// offending line alongside a caret. Parse callers that have the text in
	// hand should set it; it is optional.
	Source string
}

// Error implements the error interface using spec §7's user-visible format:
// "<file>:<line>:<col>  <short>\n  <explanation>".
func (e ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d", e.File, e.Line)
	if e.Column > 0 {
		fmt.Fprintf(&b, ":%d", e.Column)
	}
	fmt.Fprintf(&b, "  %s\n  %s", e.Kind.String(), e.Message)
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", joinQuoted(e.Suggestions))
	}
	if snippet := e.snippet(); snippet != "" {
		b.WriteString("\n")
		b.WriteString(snippet)
	}
	return b.String()
}

func (e ParseError) snippet() string {
	if e.Source == "" || e.Line <= 0 {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if e.Line > len(lines) {
		return ""
	}
	line := lines[e.Line-1]

	var b strings.Builder
	fmt.Fprintf(&b, "   |\n%4d | %s\n    | ", e.Line, line)
	if e.Column > 0 && e.Column <= len(line)+1 {
		b.WriteString(strings.Repeat(" ", e.Column-1) + "^")
	}
	return b.String()
}

func joinQuoted(ss []string) string {
	quoted := make([]string, len(ss))
	for i, s := range ss {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}

// Errors is an ordered, error-implementing collection of ParseError. Parsing
// accumulates into one of these and continues after most errors (spec §4.8);
// the compiler returns either a Database or a non-empty Errors, never both.
type Errors struct {
	items []ParseError
}

// Add records err.
func (e *Errors) Add(err ParseError) {
	e.items = append(e.items, err)
}

// SetSource stamps source onto every recorded error that doesn't already
// carry one, so Error() can render a snippet without every call site along
// the pipeline having to thread the full source text through.
func (e *Errors) SetSource(source string) {
	for i := range e.items {
		if e.items[i].Source == "" {
			e.items[i].Source = source
		}
	}
}

// HasErrors reports whether any error was recorded.
func (e *Errors) HasErrors() bool {
	return len(e.items) > 0
}

// Len returns the number of recorded errors.
func (e *Errors) Len() int {
	return len(e.items)
}

// All returns the recorded errors sorted by (file, line, column).
func (e *Errors) All() []ParseError {
	sorted := make([]ParseError, len(e.items))
	copy(sorted, e.items)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return sorted
}

// Error implements the error interface, rendering every recorded error
// separated by a blank line, in (file, line, column) order.
func (e *Errors) Error() string {
	all := e.All()
	parts := make([]string, len(all))
	for i, err := range all {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "\n\n")
}

// AsError returns e as an error if it has any recorded errors, else nil —
// the idiomatic way for a parser to return `errs.AsError()` instead of
// always returning a non-nil *Errors.
func (e *Errors) AsError() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}
