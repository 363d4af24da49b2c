package lang

import "github.com/aledsdavies/weave/core"

// insertImplicitBuckets groups maximal runs of 2+ consecutive siblings that
// already carry a homogeneous chance (spec §4.3: all Frequency, or all
// Probability summing to 1 within epsilon) under a synthesized, unnamed
// Bucket block. Non-homogeneous runs are left exactly as parsed — they
// surface as BucketSumIsNot1/BucketHasFrequenciesAndChances only if the
// author also wrote an explicit bucket header around them.
func insertImplicitBuckets(db *core.Database) {
	groupChildren(db, core.StartBlock)
}

// groupChildren regroups parent's own children list, then recurses into
// whatever ends up nested beneath each entry. A freshly synthesized bucket's
// run members are recursed into directly (for their own grandchildren)
// rather than re-examined as a sibling list — re-running the grouping scan
// over a run it just built would repeatedly re-wrap it in ever-deeper
// buckets. A parent that is already a Bucket (explicit or previously
// synthesized) is never itself re-scanned for synthesis: its children are
// already grouped by construction, so this only recurses into them.
func groupChildren(db *core.Database, parent core.BlockId) {
	if db.Block(parent).Kind.Tag == core.KindBucket {
		for _, c := range db.Block(parent).Children {
			groupChildren(db, c)
		}
		return
	}

	children := append([]core.BlockId{}, db.Block(parent).Children...)
	var regrouped []core.BlockId

	i := 0
	for i < len(children) {
		child := db.Block(children[i])
		if !child.HasChance() {
			regrouped = append(regrouped, children[i])
			groupChildren(db, children[i])
			i++
			continue
		}

		kind := child.Settings.Chance.Kind
		j := i
		var sum float64
		for j < len(children) {
			c := db.Block(children[j])
			if !c.HasChance() || c.Settings.Chance.Kind != kind {
				break
			}
			if kind == core.ChanceProbability {
				sum += float64(c.Settings.Chance.Probability)
			}
			j++
		}

		runLen := j - i
		homogeneous := kind == core.ChanceFrequency || withinBucketEpsilon(sum)
		if runLen >= 2 && homogeneous {
			run := append([]core.BlockId{}, children[i:j]...)
			bucketID := db.AddBlock(core.BucketKind(0, false), parent, db.Block(run[0]).Level, core.BlockSettings{})
			for _, c := range run {
				db.SetParent(c, bucketID)
			}
			db.ReplaceChildren(bucketID, run)
			regrouped = append(regrouped, bucketID)
			for _, c := range run {
				groupChildren(db, c)
			}
			i = j
			continue
		}

		regrouped = append(regrouped, children[i])
		groupChildren(db, children[i])
		i++
	}

	db.ReplaceChildren(parent, regrouped)
}

func withinBucketEpsilon(sum float64) bool {
	diff := sum - 1.0
	return diff <= core.BucketEpsilon && diff >= -core.BucketEpsilon
}
