package core

// BlockKindTag discriminates the BlockKind tagged union. Kept as a separate
// type (rather than relying on type-switches everywhere) so callers can
// branch once and read the payload fields directly.
type BlockKindTag int

const (
	KindStart BlockKindTag = iota
	KindEnd
	KindString
	KindSection
	KindChoice
	KindBucket
	KindGoToSection
	KindGoToSectionAndReturn
	KindDivert
)

func (t BlockKindTag) String() string {
	switch t {
	case KindStart:
		return "Start"
	case KindEnd:
		return "End"
	case KindString:
		return "String"
	case KindSection:
		return "Section"
	case KindChoice:
		return "Choice"
	case KindBucket:
		return "Bucket"
	case KindGoToSection:
		return "GoToSection"
	case KindGoToSectionAndReturn:
		return "GoToSectionAndReturn"
	case KindDivert:
		return "Divert"
	default:
		return "Unknown"
	}
}

// BlockKind is the tagged variant set over a story graph node. Only the
// field(s) relevant to Tag are meaningful; this mirrors a sum type without
// resorting to an inheritance hierarchy of block structs.
type BlockKind struct {
	Tag BlockKindTag

	Text          StringId // KindString, KindChoice
	Section       SectionId
	Bucket        StringId // named bucket title; meaningful only if HasBucketName
	HasBucketName bool
	Target        Target          // KindGoToSection, KindGoToSectionAndReturn
	Next          NextInstruction // KindDivert
}

func StartKind() BlockKind { return BlockKind{Tag: KindStart} }
func EndKind() BlockKind   { return BlockKind{Tag: KindEnd} }

func StringKind(s StringId) BlockKind { return BlockKind{Tag: KindString, Text: s} }

func SectionKind(s SectionId) BlockKind { return BlockKind{Tag: KindSection, Section: s} }

func ChoiceKind(s StringId) BlockKind { return BlockKind{Tag: KindChoice, Text: s} }

// BucketKind builds a Bucket block. Pass hasName=false for a synthetic
// (unnamed) bucket inserted by the graph builder around an implicit group of
// weighted siblings.
func BucketKind(name StringId, hasName bool) BlockKind {
	return BlockKind{Tag: KindBucket, Bucket: name, HasBucketName: hasName}
}

func GoToSectionKind(t Target) BlockKind {
	return BlockKind{Tag: KindGoToSection, Target: t}
}

func GoToSectionAndReturnKind(t Target) BlockKind {
	return BlockKind{Tag: KindGoToSectionAndReturn, Target: t}
}

func DivertKind(next NextInstruction) BlockKind {
	return BlockKind{Tag: KindDivert, Next: next}
}

// BlockSettings carries the attachments common to every block kind:
// requirements gating whether it is visited, modifiers applied on entry,
// frequency modifiers affecting bucket weight, the block's own Chance when
// it lives inside a bucket, and an optional explicit Next override.
type BlockSettings struct {
	Requirements       []Requirement
	Modifiers          []Modifier
	FrequencyModifiers []FrequencyModifier
	Chance             Chance
	Next               NextInstruction
}

// Block is a node of the story graph.
type Block struct {
	ID       BlockId
	Kind     BlockKind
	Parent   BlockId // NoBlock only for the Start sentinel
	Children []BlockId
	Level    uint16
	Settings BlockSettings
}

// IsSectionHeader reports whether this block declares a Section.
func (b *Block) IsSectionHeader() bool {
	return b.Kind.Tag == KindSection
}

// HasChance reports whether the block carries a bucket weight of any kind
// (its Chance is not ChanceNone); a frequency of 0 still counts.
func (b *Block) HasChance() bool {
	return b.Settings.Chance.Kind != ChanceNone
}
