package lang

import (
	"strconv"
	"strings"

	"github.com/aledsdavies/weave/config"
	"github.com/aledsdavies/weave/core"
	"github.com/aledsdavies/weave/errors"
)

// variableIndex assigns a stable VariableId to every declared variable name,
// in sorted order, so Condition/Modifier can reference variables by id
// rather than carrying name strings into the compiled Database.
type variableIndex struct {
	ids   map[string]core.VariableId
	names []string
}

func newVariableIndex(cfg *config.Config) *variableIndex {
	names := cfg.VariableNames()
	ids := make(map[string]core.VariableId, len(names))
	for i, n := range names {
		ids[n] = core.VariableId(i)
	}
	return &variableIndex{ids: ids, names: names}
}

func (v *variableIndex) lookup(name string) (core.VariableId, bool) {
	id, ok := v.ids[name]
	return id, ok
}

var compareOps = []struct {
	text string
	op   core.CompareOp
}{
	{"!=", core.OpNeq},
	{">=", core.OpGte},
	{"<=", core.OpLte},
	{"=", core.OpEq},
	{">", core.OpGt},
	{"<", core.OpLt},
}

// splitCondition finds the first comparison operator in raw and splits it
// into (variable name, operator, value, hadOperator).
func splitCondition(raw string) (name string, op core.CompareOp, value string, hadOp bool) {
	for _, candidate := range compareOps {
		if idx := strings.Index(raw, candidate.text); idx >= 0 {
			name = strings.TrimSpace(raw[:idx])
			value = strings.TrimSpace(raw[idx+len(candidate.text):])
			return name, candidate.op, value, true
		}
	}
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "", core.OpEq, "", false
	}
	name = fields[0]
	value = strings.TrimSpace(strings.TrimPrefix(raw, fields[0]))
	return name, core.OpEq, value, false
}

var modifyWords = map[string]core.ModifyOp{
	"set": core.OpSet,
	"add": core.OpAdd,
	"sub": core.OpSub,
	"mul": core.OpMul,
	"div": core.OpDiv,
}

// applyCommand parses one attached set/req/mod/freq line and mutates the
// owning block's Settings accordingly (spec §4.2/§4.5). It never creates a
// Block — commands are annotations on the nearest enclosing block.
func applyCommand(blk *core.Block, f feature, file string, vars *variableIndex, errs *errors.Errors) {
	switch f.Command {
	case cmdSet:
		applySet(blk, f, file, vars, errs)
	case cmdReq:
		applyReq(blk, f, file, vars, errs)
	case cmdMod:
		applyMod(blk, f, file, vars, errs)
	case cmdFreq:
		applyFreq(blk, f, file, vars, errs)
	}
}

func resolveVariable(raw, name, file string, line int, vars *variableIndex, errs *errors.Errors) (core.VariableId, bool) {
	id, ok := vars.lookup(name)
	if !ok {
		errs.Add(errors.ParseError{
			Kind: errors.VariableDoesntExist, File: file, Line: line,
			Message:     "no declared variable named " + name,
			Suggestions: errors.Suggest(name, vars.names),
		})
		return 0, false
	}
	return id, true
}

// applySet handles "set <var> <value>", sugar for Modifier{var, OpSet, value}.
func applySet(blk *core.Block, f feature, file string, vars *variableIndex, errs *errors.Errors) {
	fields := strings.SplitN(f.Raw, " ", 2)
	if len(fields) < 2 {
		errs.Add(errors.ParseError{Kind: errors.UnexpectedToken, File: file, Line: f.Line, Message: "set requires a variable and a value"})
		return
	}
	name, value := fields[0], strings.TrimSpace(fields[1])
	id, ok := resolveVariable(f.Raw, name, file, f.Line, vars, errs)
	if !ok {
		return
	}
	blk.Settings.Modifiers = append(blk.Settings.Modifiers, core.Modifier{Variable: id, Op: core.OpSet, Value: value})
}

// applyReq handles "req <var> [op] <value>". The operator may be omitted;
// the semantic validator assigns the spec §4.5 default once the variable's
// declared type is known.
func applyReq(blk *core.Block, f feature, file string, vars *variableIndex, errs *errors.Errors) {
	name, op, value, hadOp := splitCondition(f.Raw)
	id, ok := resolveVariable(f.Raw, name, file, f.Line, vars, errs)
	if !ok {
		return
	}
	cond := core.Condition{Variable: id, Op: op, Value: value}
	if !hadOp {
		cond.Op = defaultOpMarker
	}
	blk.Settings.Requirements = append(blk.Settings.Requirements, core.Requirement{Condition: cond})
}

// defaultOpMarker flags a Condition whose operator was omitted in source, to
// be resolved by the semantic validator once the variable's kind is known.
// CompareOp has no "unset" member, so the marker is -1, a value outside the
// declared CompareOp range, kept local to this package.
const defaultOpMarker core.CompareOp = -1

// applyMod handles "mod <var> <op-word> <value>", where op-word is one of
// set/add/sub/mul/div.
func applyMod(blk *core.Block, f feature, file string, vars *variableIndex, errs *errors.Errors) {
	fields := strings.Fields(f.Raw)
	if len(fields) < 3 {
		errs.Add(errors.ParseError{Kind: errors.UnexpectedToken, File: file, Line: f.Line, Message: "mod requires a variable, an operator, and a value"})
		return
	}
	name := fields[0]
	opWord := fields[1]
	value := strings.TrimSpace(strings.Join(fields[2:], " "))
	op, ok := modifyWords[opWord]
	if !ok {
		errs.Add(errors.ParseError{Kind: errors.InvalidVariableOperator, File: file, Line: f.Line, Message: "unknown modifier operator " + opWord})
		return
	}
	id, ok := resolveVariable(f.Raw, name, file, f.Line, vars, errs)
	if !ok {
		return
	}
	blk.Settings.Modifiers = append(blk.Settings.Modifiers, core.Modifier{Variable: id, Op: op, Value: value})
}

// applyFreq handles "freq <var> [op] <value> <delta>": a condition plus the
// integer delta applied to the owning bucket child's weight when it holds.
func applyFreq(blk *core.Block, f feature, file string, vars *variableIndex, errs *errors.Errors) {
	fields := strings.Fields(f.Raw)
	if len(fields) < 2 {
		errs.Add(errors.ParseError{Kind: errors.UnexpectedToken, File: file, Line: f.Line, Message: "freq requires a condition and a delta"})
		return
	}
	deltaText := fields[len(fields)-1]
	rest := strings.TrimSpace(strings.TrimSuffix(f.Raw, deltaText))
	name, op, value, hadOp := splitCondition(rest)
	id, ok := resolveVariable(f.Raw, name, file, f.Line, vars, errs)
	if !ok {
		return
	}
	delta, err := parseInt32(deltaText)
	if err != nil {
		errs.Add(errors.ParseError{Kind: errors.InvalidVariableValue, File: file, Line: f.Line, Message: "invalid frequency delta " + deltaText})
		return
	}
	cond := core.Condition{Variable: id, Op: op, Value: value}
	if !hadOp {
		cond.Op = defaultOpMarker
	}
	blk.Settings.FrequencyModifiers = append(blk.Settings.FrequencyModifiers, core.FrequencyModifier{Condition: cond, Delta: delta})
}

func parseInt32(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(n), nil
}
