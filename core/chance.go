package core

// ChanceKind distinguishes how a block's weight inside a bucket is expressed.
type ChanceKind int

const (
	// ChanceNone means the block carries no weight and cannot appear as a
	// bucket child alongside weighted siblings.
	ChanceNone ChanceKind = iota
	// ChanceFrequency is an integer weight, e.g. "(7)".
	ChanceFrequency
	// ChanceProbability is a float weight in [0,1], e.g. "(42%)" or "(0.3)".
	ChanceProbability
)

func (k ChanceKind) String() string {
	switch k {
	case ChanceFrequency:
		return "frequency"
	case ChanceProbability:
		return "probability"
	default:
		return "none"
	}
}

// Chance is the weight a block carries inside a Bucket. Exactly one of
// Frequency/Probability is meaningful, selected by Kind.
type Chance struct {
	Kind        ChanceKind
	Frequency   uint32
	Probability float32
}

// NoChance is the zero value: the block carries no weight.
var NoChance = Chance{Kind: ChanceNone}

// IsZero reports whether this Chance carries no weight.
func (c Chance) IsZero() bool {
	return c.Kind == ChanceNone
}

// BucketEpsilon is the tolerance within which a bucket's probability
// children must sum to 1.0 (spec design note: unspecified in the source,
// fixed here).
const BucketEpsilon = 1e-5
