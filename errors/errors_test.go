package errors_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/weave/errors"
)

func TestParseErrorRendersSnippetWithCaret(t *testing.T) {
	err := errors.ParseError{
		Kind:    errors.SectionNotFound,
		File:    "story.txt",
		Line:    2,
		Column:  5,
		Message: "no section named Forest",
		Source:  "# Intro\n-> Forest\n",
	}

	rendered := err.Error()
	require.Contains(t, rendered, "story.txt:2:5")
	require.Contains(t, rendered, "no section named Forest")
	require.Contains(t, rendered, "-> Forest")
	require.Contains(t, rendered, "^")
}

func TestParseErrorIncludesSuggestions(t *testing.T) {
	err := errors.ParseError{
		Kind:        errors.VariableDoesntExist,
		File:        "story.txt",
		Line:        1,
		Message:     "no declared variable named glod",
		Suggestions: []string{"gold"},
	}
	require.Contains(t, err.Error(), `did you mean "gold"?`)
}

func TestErrorsAllSortsByFileLineColumn(t *testing.T) {
	var errs errors.Errors
	errs.Add(errors.ParseError{File: "b.txt", Line: 1})
	errs.Add(errors.ParseError{File: "a.txt", Line: 5})
	errs.Add(errors.ParseError{File: "a.txt", Line: 2})

	all := errs.All()
	require.Len(t, all, 3)
	require.Equal(t, "a.txt", all[0].File)
	require.Equal(t, 2, all[0].Line)
	require.Equal(t, "a.txt", all[1].File)
	require.Equal(t, 5, all[1].Line)
	require.Equal(t, "b.txt", all[2].File)
}

func TestSetSourceOnlyFillsEmpty(t *testing.T) {
	var errs errors.Errors
	errs.Add(errors.ParseError{File: "a.txt", Line: 1, Source: "kept"})
	errs.Add(errors.ParseError{File: "a.txt", Line: 2})

	errs.SetSource("full source text")

	all := errs.All()
	require.Equal(t, "kept", all[0].Source)
	require.Equal(t, "full source text", all[1].Source)
}

func TestAsErrorReturnsNilWhenEmpty(t *testing.T) {
	var errs errors.Errors
	require.Nil(t, errs.AsError())

	errs.Add(errors.ParseError{File: "a.txt", Line: 1})
	require.NotNil(t, errs.AsError())
}
