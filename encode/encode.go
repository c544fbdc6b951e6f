// Package encode assigns each interned string a distinct, monotonically
// increasing float32 code so that every Value case a criterion can test
// — bool, number, or interned string — collapses to a single comparable
// float for the range check in the engine's hot path.
package encode

import (
	"math"

	"github.com/dialogrules/respengine/intern"
)

// Encoder hands out float32 codes for interned strings. It is owned
// exclusively by one compiled Engine; unlike the interner it wraps, it
// carries no internal locking because an Engine is never evaluated
// concurrently from multiple callers.
type Encoder struct {
	next  float32
	codes map[intern.Handle]float32
}

// New returns an Encoder whose first assigned code is the smallest
// finite float32, stepping upward by one ULP for each newly seen
// string thereafter.
func New() *Encoder {
	return &Encoder{
		next:  -math.MaxFloat32,
		codes: make(map[intern.Handle]float32),
	}
}

// EncodeHandle returns the float32 code for h, assigning the next
// available code the first time h is seen.
func (e *Encoder) EncodeHandle(h intern.Handle) float32 {
	if code, ok := e.codes[h]; ok {
		return code
	}
	code := e.next
	e.codes[h] = code
	e.next = nextUp32(e.next)
	return code
}

// nextUp32 returns the least float32 strictly greater than f, matching
// the documented behavior of Rust's f32::next_up: NaN maps to itself,
// +Inf maps to itself, and -0.0 steps to the smallest positive
// subnormal rather than to +0.0's own bit pattern.
func nextUp32(f float32) float32 {
	if f != f { // NaN
		return f
	}
	bits := math.Float32bits(f)
	const posInfBits = 0x7F800000
	if bits == posInfBits {
		return f
	}
	switch {
	case bits == 0x80000000: // -0.0
		bits = 1
	case bits&0x80000000 == 0: // positive, including +0.0
		bits++
	default: // negative, magnitude decreases toward zero
		bits--
	}
	return math.Float32frombits(bits)
}
