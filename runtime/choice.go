package runtime

import "github.com/aledsdavies/weave/core"

// chooseBucketChild draws one of bucket's eligible children, weighted by
// their effective Chance plus any held FrequencyModifiers and recent-pick
// cooldown (spec §3 RuntimeTuning, §4.6). If every eligible child has zero
// effective weight, the first eligible child in source order is returned
// instead of drawing — a bucket should never stall the story just because
// tuning drove every weight to zero.
func (s *State) chooseBucketChild(bucket *core.Block) (core.BlockId, bool) {
	type candidate struct {
		id     core.BlockId
		weight int64
	}

	var eligible []core.BlockId
	var candidates []candidate
	var total int64
	for _, cid := range bucket.Children {
		child := s.db.Block(cid)
		if !s.requirementsHold(child) {
			continue
		}
		eligible = append(eligible, cid)
		w := s.effectiveWeight(child)
		if w > 0 {
			candidates = append(candidates, candidate{cid, w})
			total += w
		}
	}
	if len(eligible) == 0 {
		return 0, false
	}
	if total == 0 {
		return eligible[0], true
	}

	roll := int64(s.rng.next() % uint64(total))
	var cum int64
	chosen := candidates[len(candidates)-1].id
	for _, c := range candidates {
		cum += c.weight
		if roll < cum {
			chosen = c.id
			break
		}
	}

	s.registerPick(bucket, chosen)
	return chosen, true
}

func (s *State) effectiveWeight(child *core.Block) int64 {
	chance := child.Settings.Chance
	var base int64
	switch chance.Kind {
	case core.ChanceFrequency:
		base = int64(chance.Frequency)
	case core.ChanceProbability:
		base = int64(chance.Probability * 10000)
	}

	for _, fm := range child.Settings.FrequencyModifiers {
		if s.conditionHolds(fm.Condition) {
			base += int64(fm.Delta) + int64(s.tuning.MetRequirementFrequencyBoost)
		}
	}

	if remaining, onCooldown := s.cooldown[child.ID]; onCooldown && remaining > 0 {
		base += int64(s.tuning.ChosenEventFrequencyPenalty)
	}

	if base < 0 {
		base = 0
	}
	return base
}

// registerPick applies ChosenEventFrequencyPenalty to chosen for
// EventFrequencyCooldown subsequent draws from this bucket, and ticks down
// every sibling's existing cooldown by one draw.
func (s *State) registerPick(bucket *core.Block, chosen core.BlockId) {
	for _, cid := range bucket.Children {
		if remaining, ok := s.cooldown[cid]; ok {
			if remaining <= 1 {
				delete(s.cooldown, cid)
			} else {
				s.cooldown[cid] = remaining - 1
			}
		}
	}
	s.cooldown[chosen] = s.tuning.EventFrequencyCooldown
}
