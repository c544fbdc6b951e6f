package respengine

import "math/rand"

// Dispatcher picks the next response index out of a ResponseGroup each
// time a rule with that group fires, and reports whether exhaustion
// should disable the owning rule.
type Dispatcher interface {
	// Next returns the chosen index, or false if this dispatcher has
	// nothing left to offer (an exhausted List or Deplete, or any
	// dispatcher over an empty group).
	Next(rng *rand.Rand) (int, bool)
	// DisableRule reports whether the most recent exhaustion means the
	// owning rule should never be selected again.
	DisableRule() bool
}

func newDispatcher(d Delivery, weights []float32) Dispatcher {
	switch d {
	case DeliveryShuffle:
		return &shuffleDispatcher{weights: weights, candidates: identityRange(len(weights))}
	case DeliveryRandom:
		return &randomDispatcher{weights: weights}
	case DeliveryDeplete:
		return &depleteDispatcher{weights: weights, candidates: identityRange(len(weights))}
	case DeliveryLoop:
		return &loopDispatcher{length: len(weights)}
	case DeliveryList:
		return &listDispatcher{length: len(weights)}
	default:
		return &listDispatcher{length: len(weights)}
	}
}

func identityRange(n int) []int {
	r := make([]int, n)
	for i := range r {
		r[i] = i
	}
	return r
}

// weightedPick samples one of candidates with probability proportional
// to weights[candidates[i]], returning the position within candidates
// (not the candidate value itself). Falls back to a uniform pick if
// every candidate weight is non-positive; reports false only when
// candidates is empty.
func weightedPick(rng *rand.Rand, weights []float32, candidates []int) (int, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	var total float32
	for _, c := range candidates {
		if w := weights[c]; w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return rng.Intn(len(candidates)), true
	}
	target := rng.Float32() * total
	var acc float32
	for i, c := range candidates {
		if w := weights[c]; w > 0 {
			acc += w
			if target < acc {
				return i, true
			}
		}
	}
	return len(candidates) - 1, true
}

type shuffleDispatcher struct {
	weights    []float32
	candidates []int
}

func (d *shuffleDispatcher) Next(rng *rand.Rand) (int, bool) {
	if len(d.weights) == 1 {
		return 0, true
	}
	pos, ok := weightedPick(rng, d.weights, d.candidates)
	if !ok {
		return 0, false
	}
	chosen := d.candidates[pos]
	d.candidates = append(d.candidates[:pos], d.candidates[pos+1:]...)
	if len(d.candidates) == 0 {
		d.candidates = identityRange(len(d.weights))
		d.candidates = removeValue(d.candidates, chosen)
	}
	return chosen, true
}

func (d *shuffleDispatcher) DisableRule() bool { return false }

func removeValue(s []int, v int) []int {
	for i, x := range s {
		if x == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

type randomDispatcher struct {
	weights []float32
}

func (d *randomDispatcher) Next(rng *rand.Rand) (int, bool) {
	if len(d.weights) == 1 {
		return 0, true
	}
	return weightedPick(rng, d.weights, identityRange(len(d.weights)))
}

func (d *randomDispatcher) DisableRule() bool { return false }

type depleteDispatcher struct {
	weights    []float32
	candidates []int
}

func (d *depleteDispatcher) Next(rng *rand.Rand) (int, bool) {
	pos, ok := weightedPick(rng, d.weights, d.candidates)
	if !ok {
		return 0, false
	}
	chosen := d.candidates[pos]
	d.candidates = append(d.candidates[:pos], d.candidates[pos+1:]...)
	return chosen, true
}

func (d *depleteDispatcher) DisableRule() bool { return len(d.candidates) == 0 }

type loopDispatcher struct {
	length int
	index  int
}

func (d *loopDispatcher) Next(rng *rand.Rand) (int, bool) {
	if d.length == 0 {
		return 0, false
	}
	i := d.index
	d.index = (d.index + 1) % d.length
	return i, true
}

func (d *loopDispatcher) DisableRule() bool { return false }

type listDispatcher struct {
	length int
	index  int
}

func (d *listDispatcher) Next(rng *rand.Rand) (int, bool) {
	if d.index < d.length {
		i := d.index
		d.index++
		return i, true
	}
	return 0, false
}

func (d *listDispatcher) DisableRule() bool { return d.index == d.length }
