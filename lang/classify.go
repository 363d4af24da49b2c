// Package lang implements the compiler pipeline (components C2-C6): the line
// classifier, feature parsers, block graph builder, path resolver, and
// semantic validator. Compile is the package's single public entry point.
package lang

import (
	"strconv"
	"strings"

	"github.com/aledsdavies/weave/errors"
)

// classified is one source line after indentation has been validated and
// stripped.
type classified struct {
	Line  int
	Level uint16
	Body  string // raw body, trailing whitespace preserved
}

// classifyLines validates indentation on every non-blank line of source and
// strips it, per spec §4.1. Odd indentation is reported as InvalidIndentation
// but does not stop classification of subsequent lines — the parser
// continues accumulating errors across the whole file.
func classifyLines(source, file string) ([]classified, *errors.Errors) {
	var out []classified
	errs := &errors.Errors{}

	for i, raw := range strings.Split(source, "\n") {
		lineNo := i + 1
		if strings.TrimSpace(raw) == "" {
			continue
		}

		spaces := 0
		for spaces < len(raw) && raw[spaces] == ' ' {
			spaces++
		}
		if spaces%2 != 0 {
			errs.Add(errors.ParseError{
				Kind:    errors.InvalidIndentation,
				File:    file,
				Line:    lineNo,
				Column:  spaces + 1,
				Message: spacesMessage(spaces),
				Source:  source,
			})
			continue
		}

		out = append(out, classified{
			Line:  lineNo,
			Level: uint16(spaces / 2),
			Body:  raw[spaces:],
		})
	}

	return out, errs
}

func spacesMessage(spaces int) string {
	return "indentation must be an even multiple of two spaces, found " + strconv.Itoa(spaces) + " spaces"
}
