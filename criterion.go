package respengine

import (
	"math"

	"github.com/dialogrules/respengine/encode"
	"github.com/dialogrules/respengine/intern"
)

// PredicateKind identifies which shape of test a Predicate performs.
type PredicateKind int

const (
	// PredBoolEqual tests a bool variable against an exact value.
	PredBoolEqual PredicateKind = iota
	// PredNumEqual tests a number variable against an exact value.
	PredNumEqual
	// PredNumRange tests a number variable falls within [Lo, Hi],
	// either bound open (nil) to mean unbounded on that side.
	PredNumRange
	// PredStrEqual tests a string variable against an exact value.
	PredStrEqual
)

// Predicate is the test a Criterion applies to one variable.
type Predicate struct {
	Kind PredicateKind
	Bool bool
	Num  float32
	Lo   *float32
	Hi   *float32
	Str  intern.Handle
}

// BoolEqual builds a Predicate that matches a bool variable exactly.
func BoolEqual(b bool) Predicate { return Predicate{Kind: PredBoolEqual, Bool: b} }

// NumEqual builds a Predicate that matches a number variable exactly.
func NumEqual(n float32) Predicate { return Predicate{Kind: PredNumEqual, Num: n} }

// NumRange builds a Predicate that matches a number variable within an
// inclusive range. Either bound may be nil to leave that side open.
func NumRange(lo, hi *float32) Predicate { return Predicate{Kind: PredNumRange, Lo: lo, Hi: hi} }

// StrEqual builds a Predicate that matches a string variable exactly.
func StrEqual(h intern.Handle) Predicate { return Predicate{Kind: PredStrEqual, Str: h} }

// Criterion is a named, reusable test against one variable, with a
// weight contributing to the score of any rule that references it.
type Criterion struct {
	Variable  intern.Handle
	Predicate Predicate
	Weight    float32
}

// varKind reports the variable type this predicate implies, for the
// compiler's type-coherence check.
func (p Predicate) varKind() Kind {
	switch p.Kind {
	case PredBoolEqual:
		return KindBool
	case PredStrEqual:
		return KindStr
	default:
		return KindNum
	}
}

// engineCriterion is the compiled form: a single (variable, min, max)
// triple against which a scanned float32 is range-tested.
type engineCriterion struct {
	variable intern.Handle
	min, max float32
}

func compileCriterion(c Criterion, enc *encode.Encoder) engineCriterion {
	switch c.Predicate.Kind {
	case PredBoolEqual:
		v := float32(0)
		if c.Predicate.Bool {
			v = 1
		}
		return engineCriterion{variable: c.Variable, min: v, max: v}
	case PredNumEqual:
		return engineCriterion{variable: c.Variable, min: c.Predicate.Num, max: c.Predicate.Num}
	case PredNumRange:
		lo := float32(math.Inf(-1))
		hi := float32(math.Inf(1))
		if c.Predicate.Lo != nil {
			lo = *c.Predicate.Lo
		}
		if c.Predicate.Hi != nil {
			hi = *c.Predicate.Hi
		}
		return engineCriterion{variable: c.Variable, min: lo, max: hi}
	case PredStrEqual:
		v := enc.EncodeHandle(c.Predicate.Str)
		return engineCriterion{variable: c.Variable, min: v, max: v}
	default:
		return engineCriterion{variable: c.Variable, min: 1, max: 0} // never matches
	}
}
