package runtime

import (
	"strconv"

	"github.com/aledsdavies/weave/config"
	"github.com/aledsdavies/weave/core"
)

// Value is a runtime variable's current value: a tagged union mirroring
// config.VariableTypeKind, the same shape core.Chance and core.BlockKind
// use elsewhere in this codebase for a union without an interface
// hierarchy.
type Value struct {
	Kind  config.VariableTypeKind
	Int   int64
	Float float64
	Bool  bool
	Enum  string
}

func zeroValue(kind config.VariableKind) Value {
	v := Value{Kind: kind.Kind}
	if kind.Kind == config.Enum && len(kind.Values) > 0 {
		v.Enum = kind.Values[0]
	}
	return v
}

// Var returns the current value of a declared variable by name, along with
// whether that name was declared at all.
func (s *State) Var(name string) (Value, bool) {
	for i, n := range s.varNames {
		if n == name {
			return s.vars[core.VariableId(i)], true
		}
	}
	return Value{}, false
}

func coerce(kind config.VariableTypeKind, literal string) Value {
	switch kind {
	case config.Integer:
		n, _ := strconv.ParseInt(literal, 10, 64)
		return Value{Kind: kind, Int: n}
	case config.Float:
		f, _ := strconv.ParseFloat(literal, 64)
		return Value{Kind: kind, Float: f}
	case config.Bool:
		return Value{Kind: kind, Bool: literal == "true"}
	case config.Enum:
		return Value{Kind: kind, Enum: literal}
	default:
		return Value{}
	}
}

// requirementsHold reports whether every Requirement on blk currently
// evaluates true (an empty requirement list always holds).
func (s *State) requirementsHold(blk *core.Block) bool {
	for _, req := range blk.Settings.Requirements {
		if !s.conditionHolds(req.Condition) {
			return false
		}
	}
	return true
}

func (s *State) conditionHolds(cond core.Condition) bool {
	current, ok := s.vars[cond.Variable]
	if !ok {
		return false
	}
	name := s.varNames[cond.Variable]
	kind := s.db.Config().Variables[name].Kind
	want := coerce(kind, cond.Value)

	switch kind {
	case config.Integer:
		return compareInt(current.Int, cond.Op, want.Int)
	case config.Float:
		return compareFloat(current.Float, cond.Op, want.Float)
	case config.Bool:
		return compareBool(current.Bool, cond.Op, want.Bool)
	case config.Enum:
		return compareEnum(current.Enum, cond.Op, want.Enum)
	default:
		return false
	}
}

func compareInt(a int64, op core.CompareOp, b int64) bool {
	switch op {
	case core.OpEq:
		return a == b
	case core.OpNeq:
		return a != b
	case core.OpGt:
		return a > b
	case core.OpLt:
		return a < b
	case core.OpGte:
		return a >= b
	case core.OpLte:
		return a <= b
	default:
		return false
	}
}

func compareFloat(a float64, op core.CompareOp, b float64) bool {
	switch op {
	case core.OpEq:
		return a == b
	case core.OpNeq:
		return a != b
	case core.OpGt:
		return a > b
	case core.OpLt:
		return a < b
	case core.OpGte:
		return a >= b
	case core.OpLte:
		return a <= b
	default:
		return false
	}
}

func compareBool(a bool, op core.CompareOp, b bool) bool {
	switch op {
	case core.OpEq:
		return a == b
	case core.OpNeq:
		return a != b
	default:
		return false
	}
}

func compareEnum(a string, op core.CompareOp, b string) bool {
	switch op {
	case core.OpEq:
		return a == b
	case core.OpNeq:
		return a != b
	default:
		return false
	}
}

// applyModifiers mutates variable state for every Modifier attached to blk,
// entered in source order.
func (s *State) applyModifiers(blk *core.Block) {
	for _, mod := range blk.Settings.Modifiers {
		s.applyModifier(mod)
	}
}

func (s *State) applyModifier(mod core.Modifier) {
	name := s.varNames[mod.Variable]
	kind := s.db.Config().Variables[name].Kind
	current := s.vars[mod.Variable]
	literal := coerce(kind, mod.Value)

	switch kind {
	case config.Integer:
		current.Int = applyIntOp(current.Int, mod.Op, literal.Int)
	case config.Float:
		current.Float = applyFloatOp(current.Float, mod.Op, literal.Float)
	case config.Bool, config.Enum:
		current = literal // only "set" is valid on these, enforced at compile time
	}
	s.vars[mod.Variable] = current
}

func applyIntOp(a int64, op core.ModifyOp, b int64) int64 {
	switch op {
	case core.OpSet:
		return b
	case core.OpAdd:
		return a + b
	case core.OpSub:
		return a - b
	case core.OpMul:
		return a * b
	case core.OpDiv:
		if b == 0 {
			return a
		}
		return a / b
	default:
		return a
	}
}

func applyFloatOp(a float64, op core.ModifyOp, b float64) float64 {
	switch op {
	case core.OpSet:
		return b
	case core.OpAdd:
		return a + b
	case core.OpSub:
		return a - b
	case core.OpMul:
		return a * b
	case core.OpDiv:
		if b == 0 {
			return a
		}
		return a / b
	default:
		return a
	}
}
