package lang

import (
	"github.com/aledsdavies/weave/config"
	"github.com/aledsdavies/weave/core"
	"github.com/aledsdavies/weave/errors"
)

// Compile runs the full pipeline (C2 classify, C3 parse, C4 graph build, C5
// path resolution, C6 semantic validation) over source and returns either a
// finished Database or the accumulated errors — never both, per spec §4.8.
func Compile(source, file string, cfg *config.Config) (*core.Database, error) {
	if cfg == nil {
		cfg = config.New()
	}
	if source == "" {
		errs := &errors.Errors{}
		errs.Add(errors.ParseError{Kind: errors.FileIsEmpty, File: file, Line: 1, Message: "source is empty"})
		return nil, errs
	}

	lines, errs := classifyLines(source, file)
	db := core.New(cfg)
	vars := newVariableIndex(cfg)
	b := newBuilder(db, file, errs, vars)

	for _, c := range lines {
		f, ok := parseFeature(c, file, errs)
		if !ok {
			continue
		}
		dispatch(b, f)
	}

	insertImplicitBuckets(db)
	resolvePaths(db, b.goTos, file, errs)
	validateSemantics(db, cfg, vars, file, b.lineByBlock, errs)

	db.Finalize(core.StartBlock, 0)

	if errs.HasErrors() {
		errs.SetSource(source)
		return nil, errs
	}

	if err := db.CheckInvariants(); err != nil {
		errs.Add(errors.ParseError{Kind: errors.UnexpectedToken, File: file, Line: 1, Message: err.Error()})
		errs.SetSource(source)
		return nil, errs
	}

	return db, nil
}

func dispatch(b *builder, f feature) {
	switch f.Kind {
	case featureSection:
		b.processSection(f)
	case featureChoice:
		text := b.db.AddString(f.Text)
		b.addGeneric(core.ChoiceKind(text), int(f.Level), f.Line, settingsFor(f))
	case featureText:
		text := b.db.AddString(f.Text)
		b.addGeneric(core.StringKind(text), int(f.Level), f.Line, settingsFor(f))
	case featureBucketHeader:
		name := b.db.AddString(f.BucketName)
		b.addGeneric(core.BucketKind(name, f.HasBucketName), int(f.Level), f.Line, settingsFor(f))
	case featureGoTo, featureGoToAndReturn:
		placeholder := core.GoToSectionKind(core.Target{})
		if f.Kind == featureGoToAndReturn {
			placeholder = core.GoToSectionAndReturnKind(core.Target{})
		}
		id := b.addGeneric(placeholder, int(f.Level), f.Line, core.BlockSettings{})
		containing, has := b.currentSection()
		b.goTos = append(b.goTos, pendingGoTo{
			Block: id, Path: f.Path, Line: f.Line, Return: f.Kind == featureGoToAndReturn,
			Containing: containing, HasContaining: has,
		})
	case featureCommand:
		b.attachCommand(f)
	}
}

func settingsFor(f feature) core.BlockSettings {
	s := core.BlockSettings{Next: core.DefaultNext}
	if f.HasChance {
		s.Chance = f.Chance
	}
	return s
}
