package lang

import (
	"strconv"

	"github.com/aledsdavies/weave/config"
	"github.com/aledsdavies/weave/core"
	"github.com/aledsdavies/weave/errors"
)

// validateSemantics runs component C6: default-operator assignment for
// requirements whose operator was omitted, type/operator compatibility
// against each variable's declared kind, and bucket weight laws reported
// with source locations (spec §4.5/§4.6). core.Database.CheckInvariants
// re-checks the structural half of this after Compile returns, as a
// cheap safety net for deserialized databases that never went through
// validateSemantics at all.
func validateSemantics(db *core.Database, cfg *config.Config, vars *variableIndex, file string, lineByBlock map[core.BlockId]int, errs *errors.Errors) {
	for i := range db.Blocks() {
		blk := &db.Blocks()[i]
		line := lineByBlock[blk.ID]

		for ci := range blk.Settings.Requirements {
			validateCondition(&blk.Settings.Requirements[ci].Condition, cfg, vars, file, line, errs)
		}
		for ci := range blk.Settings.FrequencyModifiers {
			validateCondition(&blk.Settings.FrequencyModifiers[ci].Condition, cfg, vars, file, line, errs)
			if blk.Parent == core.NoBlock {
				continue
			}
			parent := db.Block(blk.Parent)
			if parent.Kind.Tag != core.KindBucket {
				errs.Add(errors.ParseError{Kind: errors.FrequencyOutOfBucket, File: file, Line: line, Message: "freq modifier outside a bucket"})
				continue
			}
			if blk.Settings.Chance.Kind != core.ChanceFrequency {
				errs.Add(errors.ParseError{Kind: errors.FrequencyModifierWithoutFrequencyChance, File: file, Line: line, Message: "freq modifier on a block without a frequency chance"})
			}
		}
		for mi := range blk.Settings.Modifiers {
			validateModifier(&blk.Settings.Modifiers[mi], cfg, vars, file, line, errs)
		}
	}

	validateBuckets(db, file, lineByBlock, errs)
}

func variableKind(cfg *config.Config, vars *variableIndex, id core.VariableId) (config.VariableKind, bool) {
	if int(id) >= len(vars.names) {
		return config.VariableKind{}, false
	}
	kind, ok := cfg.Variables[vars.names[id]]
	return kind, ok
}

func validateCondition(cond *core.Condition, cfg *config.Config, vars *variableIndex, file string, line int, errs *errors.Errors) {
	kind, ok := variableKind(cfg, vars, cond.Variable)
	if !ok {
		return // already reported as VariableDoesntExist at parse time
	}
	if cond.Op == defaultOpMarker {
		if kind.Kind == config.Integer || kind.Kind == config.Float {
			cond.Op = core.OpGt
		} else {
			cond.Op = core.OpEq
		}
	}
	if (kind.Kind == config.Bool || kind.Kind == config.Enum) && cond.Op != core.OpEq && cond.Op != core.OpNeq {
		errs.Add(errors.ParseError{Kind: errors.InvalidVariableOperator, File: file, Line: line, Message: "only = and != are valid on " + kind.Kind.String() + " variables"})
		return
	}
	if !validLiteral(kind, cond.Value) {
		errs.Add(errors.ParseError{Kind: errors.InvalidVariableValue, File: file, Line: line, Message: "value " + cond.Value + " is not a valid " + kind.Kind.String()})
	}
}

func validateModifier(mod *core.Modifier, cfg *config.Config, vars *variableIndex, file string, line int, errs *errors.Errors) {
	kind, ok := variableKind(cfg, vars, mod.Variable)
	if !ok {
		return
	}
	if (kind.Kind == config.Bool || kind.Kind == config.Enum) && mod.Op != core.OpSet {
		errs.Add(errors.ParseError{Kind: errors.InvalidVariableOperator, File: file, Line: line, Message: "only set is valid on " + kind.Kind.String() + " variables"})
		return
	}
	if !validLiteral(kind, mod.Value) {
		errs.Add(errors.ParseError{Kind: errors.InvalidVariableValue, File: file, Line: line, Message: "value " + mod.Value + " is not a valid " + kind.Kind.String()})
		return
	}
	if mod.Op == core.OpDiv && isZeroLiteral(kind, mod.Value) {
		errs.Add(errors.ParseError{Kind: errors.DivisionByZero, File: file, Line: line, Message: "div by a literal zero"})
	}
}

func isZeroLiteral(kind config.VariableKind, value string) bool {
	switch kind.Kind {
	case config.Integer:
		n, err := strconv.ParseInt(value, 10, 64)
		return err == nil && n == 0
	case config.Float:
		f, err := strconv.ParseFloat(value, 64)
		return err == nil && f == 0
	default:
		return false
	}
}

func validLiteral(kind config.VariableKind, value string) bool {
	switch kind.Kind {
	case config.Integer:
		_, err := strconv.ParseInt(value, 10, 64)
		return err == nil
	case config.Float:
		_, err := strconv.ParseFloat(value, 64)
		return err == nil
	case config.Bool:
		return value == "true" || value == "false"
	case config.Enum:
		for _, v := range kind.Values {
			if v == value {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func validateBuckets(db *core.Database, file string, lineByBlock map[core.BlockId]int, errs *errors.Errors) {
	for _, blk := range db.Blocks() {
		if blk.Kind.Tag != core.KindBucket {
			continue
		}
		var sawFrequency, sawProbability bool
		var sum float64
		for _, cid := range blk.Children {
			child := db.Block(cid)
			line := lineByBlock[child.ID]
			switch child.Settings.Chance.Kind {
			case core.ChanceFrequency:
				sawFrequency = true
			case core.ChanceProbability:
				sawProbability = true
				sum += float64(child.Settings.Chance.Probability)
			case core.ChanceNone:
				errs.Add(errors.ParseError{Kind: errors.BucketMissingProbability, File: file, Line: line, Message: "bucket child has no chance"})
			}
		}
		if sawFrequency && sawProbability {
			errs.Add(errors.ParseError{Kind: errors.BucketHasFrequenciesAndChances, File: file, Line: lineByBlock[blk.ID], Message: "bucket mixes frequency and probability children"})
			continue
		}
		if sawProbability {
			diff := sum - 1.0
			if diff > core.BucketEpsilon || diff < -core.BucketEpsilon {
				errs.Add(errors.ParseError{Kind: errors.BucketSumIsNot1, File: file, Line: lineByBlock[blk.ID], Message: "bucket probabilities sum to " + strconv.FormatFloat(sum, 'f', -1, 64) + ", want 1.0"})
			}
		}
	}
}
