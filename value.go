package respengine

import (
	"strconv"

	"github.com/dialogrules/respengine/encode"
	"github.com/dialogrules/respengine/intern"
)

// Kind identifies which case of Value is populated.
type Kind int

const (
	KindBool Kind = iota
	KindNum
	KindStr
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNum:
		return "num"
	case KindStr:
		return "str"
	default:
		return "unknown"
	}
}

// Value is the weakly-typed data carried by Props: a boolean, a number,
// or an interned string. The zero Value is Bool(false), matching the
// default a missing property reads as.
type Value struct {
	kind Kind
	b    bool
	n    float32
	s    intern.Handle
}

// BoolValue constructs a bool Value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// NumValue constructs a number Value.
func NumValue(n float32) Value { return Value{kind: KindNum, n: n} }

// StrValue constructs a string Value from an already-interned handle.
func StrValue(h intern.Handle) Value { return Value{kind: KindStr, s: h} }

// StrValueOf interns s and constructs a string Value from it.
func StrValueOf(s string) Value { return StrValue(intern.Intern(s)) }

// Kind reports which case v holds.
func (v Value) Kind() Kind { return v.kind }

// Bool returns v's boolean content, or false if v is not a bool.
func (v Value) Bool() bool {
	if v.kind == KindBool {
		return v.b
	}
	return false
}

// Num returns v's numeric content, or zero if v is not a number.
func (v Value) Num() float32 {
	if v.kind == KindNum {
		return v.n
	}
	return 0
}

// Str returns v's interned string handle, or the empty-string handle if
// v is not a string.
func (v Value) Str() intern.Handle {
	if v.kind == KindStr {
		return v.s
	}
	return intern.Handle(0)
}

// Equal reports whether v and o hold the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindNum:
		return v.n == o.n
	case KindStr:
		return v.s == o.s
	default:
		return false
	}
}

func numOrZero(v Value) float32 {
	if v.kind == KindNum {
		return v.n
	}
	return 0
}

// Add treats a non-number operand as zero and always returns a number.
func (v Value) Add(o Value) Value { return NumValue(numOrZero(v) + numOrZero(o)) }

// Sub treats a non-number operand as zero and always returns a number.
func (v Value) Sub(o Value) Value { return NumValue(numOrZero(v) - numOrZero(o)) }

// Mul treats a non-number operand as zero and always returns a number.
func (v Value) Mul(o Value) Value { return NumValue(numOrZero(v) * numOrZero(o)) }

// Div treats a non-number operand as zero, except a non-number divisor
// acts as the identity: the numerator passes through unchanged.
func (v Value) Div(o Value) Value {
	if o.kind != KindNum {
		return NumValue(numOrZero(v))
	}
	return NumValue(numOrZero(v) / o.n)
}

// Encode collapses v to the comparable float32 code the engine's
// scanner works with: false/true map to 0/1, a number passes through
// unchanged, and a string is looked up (and, if new, assigned) in e.
func (v Value) Encode(e *encode.Encoder) float32 {
	switch v.kind {
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	case KindNum:
		return v.n
	case KindStr:
		return e.EncodeHandle(v.s)
	default:
		return 0
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNum:
		return strconv.FormatFloat(float64(v.n), 'g', -1, 32)
	case KindStr:
		return v.s.String()
	default:
		return ""
	}
}
