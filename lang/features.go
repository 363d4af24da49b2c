package lang

import (
	"strconv"
	"strings"

	"github.com/aledsdavies/weave/core"
	"github.com/aledsdavies/weave/errors"
)

// featureKind discriminates the result of dispatching one classified line
// (component C3).
type featureKind int

const (
	featureSection featureKind = iota
	featureChoice
	featureGoTo
	featureGoToAndReturn
	featureBucketHeader
	featureCommand
	featureText
)

type commandKind int

const (
	cmdSet commandKind = iota
	cmdReq
	cmdMod
	cmdFreq
)

// feature is the parsed result of one classified line before it becomes a
// Block (or, for commands, before it is attached to one).
type feature struct {
	Kind featureKind
	Line int
	Level uint16

	// featureSection
	SectionDepth int
	Title        string

	// featureChoice, featureBucketHeader, featureText
	Text        string
	Chance      core.Chance
	HasChance   bool
	BucketName  string
	HasBucketName bool

	// featureGoTo, featureGoToAndReturn
	Path string

	// featureCommand
	Command commandKind
	Raw     string
}

// parseFeature dispatches one classified line to its feature parser, per
// spec §4.2.
func parseFeature(c classified, file string, errs *errors.Errors) (feature, bool) {
	body := c.Body
	trimmed := strings.TrimRight(body, " \t")
	if trimmed == "" {
		return feature{}, false
	}

	switch {
	case isSectionHeader(trimmed):
		return parseSectionHeader(c, trimmed, file, errs)
	case strings.HasPrefix(trimmed, "* "):
		return parseChoice(c, trimmed, file, errs)
	case strings.HasPrefix(trimmed, "<-> "):
		return parseGoTo(c, trimmed[4:], true, file, errs)
	case strings.HasPrefix(trimmed, "-> "):
		return parseGoTo(c, trimmed[3:], false, file, errs)
	case strings.HasPrefix(trimmed, "[") :
		return parseBucketHeader(c, trimmed, file, errs)
	case isCommandLine(trimmed):
		return parseCommand(c, trimmed, file, errs)
	default:
		return parseText(c, trimmed)
	}
}

func isSectionHeader(body string) bool {
	i := 0
	for i < len(body) && body[i] == '#' {
		i++
	}
	if i == 0 {
		return false
	}
	return i == len(body) || body[i] == ' ' || body[i] == '\t'
}

func parseSectionHeader(c classified, body, file string, errs *errors.Errors) (feature, bool) {
	i := 0
	for i < len(body) && body[i] == '#' {
		i++
	}
	title := strings.TrimSpace(body[i:])
	if title == "" {
		errs.Add(errors.ParseError{
			Kind: errors.EmptySectionTitle, File: file, Line: c.Line,
			Message: "section header has no title",
		})
		return feature{}, false
	}
	return feature{
		Kind: featureSection, Line: c.Line, Level: c.Level,
		SectionDepth: i - 1, Title: title,
	}, true
}

func parseChoice(c classified, body, file string, errs *errors.Errors) (feature, bool) {
	rest := body[2:]
	chance, hasChance, rest, err := parseChancePrefix(rest)
	if err != "" {
		errs.Add(errors.ParseError{Kind: errors.UnexpectedToken, File: file, Line: c.Line, Message: err})
		return feature{}, false
	}
	return feature{
		Kind: featureChoice, Line: c.Line, Level: c.Level,
		Text: strings.TrimSpace(rest), Chance: chance, HasChance: hasChance,
	}, true
}

func parseBucketHeader(c classified, body, file string, errs *errors.Errors) (feature, bool) {
	chance, hasChance, rest, err := parseChancePrefix(body)
	if err != "" {
		errs.Add(errors.ParseError{Kind: errors.UnexpectedToken, File: file, Line: c.Line, Message: err})
		return feature{}, false
	}
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "[") || !strings.HasSuffix(rest, "]") {
		errs.Add(errors.ParseError{Kind: errors.UnexpectedToken, File: file, Line: c.Line, Message: "malformed bucket header"})
		return feature{}, false
	}
	name := strings.TrimSpace(rest[1 : len(rest)-1])
	return feature{
		Kind: featureBucketHeader, Line: c.Line, Level: c.Level,
		BucketName: name, HasBucketName: name != "", Chance: chance, HasChance: hasChance,
	}, true
}

func parseGoTo(c classified, path string, isReturn bool, file string, errs *errors.Errors) (feature, bool) {
	if err := validateGoToSyntax(path); err != "" {
		errs.Add(errors.ParseError{Kind: errors.InvalidGoToSection, File: file, Line: c.Line, Message: err})
		return feature{}, false
	}
	kind := featureGoTo
	if isReturn {
		kind = featureGoToAndReturn
	}
	return feature{Kind: kind, Line: c.Line, Level: c.Level, Path: strings.TrimSpace(path)}, true
}

// validateGoToSyntax enforces spec §4.2: non-empty name, no trailing
// backslash, and every ` \ ` segment separator padded by exactly one space
// on each side.
func validateGoToSyntax(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "go-to has no target"
	}
	if strings.HasSuffix(trimmed, `\`) {
		return "path must not end with '\\'"
	}
	// Every literal backslash must be part of a ` \ ` separator.
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] != '\\' {
			continue
		}
		before := i > 0 && trimmed[i-1] == ' '
		after := i+1 < len(trimmed) && trimmed[i+1] == ' '
		beforeOK := before && (i < 2 || trimmed[i-2] != ' ')
		afterOK := after && (i+2 >= len(trimmed) || trimmed[i+2] != ' ')
		if !beforeOK || !afterOK {
			return "path separators must be surrounded by exactly one space on each side"
		}
	}
	return ""
}

func isCommandLine(body string) bool {
	for _, kw := range []string{"set ", "req ", "mod ", "freq "} {
		if strings.HasPrefix(body, kw) {
			return true
		}
	}
	return false
}

func parseCommand(c classified, body, file string, errs *errors.Errors) (feature, bool) {
	var kind commandKind
	var raw string
	switch {
	case strings.HasPrefix(body, "set "):
		kind, raw = cmdSet, body[4:]
	case strings.HasPrefix(body, "req "):
		kind, raw = cmdReq, body[4:]
	case strings.HasPrefix(body, "mod "):
		kind, raw = cmdMod, body[4:]
	case strings.HasPrefix(body, "freq "):
		kind, raw = cmdFreq, body[5:]
	}
	return feature{Kind: featureCommand, Line: c.Line, Level: c.Level, Command: kind, Raw: strings.TrimSpace(raw)}, true
}

func parseText(c classified, body string) (feature, bool) {
	chance, hasChance, rest, errMsg := parseChancePrefix(body)
	if errMsg != "" {
		// A malformed "(...)" prefix is not necessarily a chance marker;
		// fall back to treating the whole line as plain text.
		return feature{Kind: featureText, Line: c.Line, Level: c.Level, Text: strings.TrimSpace(body)}, true
	}
	return feature{
		Kind: featureText, Line: c.Line, Level: c.Level,
		Text: strings.TrimSpace(rest), Chance: chance, HasChance: hasChance,
	}, true
}

// parseChancePrefix recognizes a leading "(N)", "(N%)", or "(0.F)" token and
// returns the parsed Chance plus the remainder of the line. If body does not
// start with '(' it returns hasChance=false and the body unchanged.
func parseChancePrefix(body string) (chance core.Chance, hasChance bool, rest string, errMsg string) {
	trimmed := strings.TrimLeft(body, " ")
	if !strings.HasPrefix(trimmed, "(") {
		return core.NoChance, false, body, ""
	}
	closeIdx := strings.IndexByte(trimmed, ')')
	if closeIdx < 0 {
		return core.NoChance, false, body, ""
	}
	inner := strings.TrimSpace(trimmed[1:closeIdx])
	after := trimmed[closeIdx+1:]

	if strings.HasSuffix(inner, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(inner, "%"), 32)
		if err != nil {
			return core.NoChance, false, body, "invalid percentage chance"
		}
		return core.Chance{Kind: core.ChanceProbability, Probability: float32(pct) / 100}, true, after, ""
	}
	if strings.Contains(inner, ".") {
		f, err := strconv.ParseFloat(inner, 32)
		if err != nil {
			return core.NoChance, false, body, "invalid probability chance"
		}
		return core.Chance{Kind: core.ChanceProbability, Probability: float32(f)}, true, after, ""
	}
	n, err := strconv.ParseUint(inner, 10, 32)
	if err != nil {
		return core.NoChance, false, body, "invalid frequency chance"
	}
	return core.Chance{Kind: core.ChanceFrequency, Frequency: uint32(n)}, true, after, ""
}
