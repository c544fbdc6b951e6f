package respengine

import "github.com/dialogrules/respengine/intern"

// OperationKind identifies which mutation an Instruction performs.
type OperationKind int

const (
	OpBoolSet OperationKind = iota
	OpBoolToggle
	OpNumSet
	OpNumAdd
	OpStrSet
)

// Operation is the right-hand side of an Instruction.
type Operation struct {
	Kind OperationKind
	Bool bool
	Num  float32
	Str  intern.Handle
}

// Instruction mutates one variable in either the character bag or,
// when Global is set, the world bag, after a rule is chosen but before
// its response is dispatched.
type Instruction struct {
	Variable  intern.Handle
	Global    bool
	Operation Operation
}

// Rule is a named set of criteria references, response group
// references, and post-match instructions. Its compiled form starts
// enabled; as soon as a Deplete or List group it dispatches from
// becomes exhausted, the compiled rule is disabled and can never be
// chosen again, even if its other response groups still have responses.
type Rule struct {
	Criteria       []intern.Handle
	ResponseGroups []intern.Handle
	Instructions   []Instruction
	// Weight multiplies the sum of the referenced criteria's weights
	// to produce the rule's score. Zero means "unset" and compiles to
	// 1.0.
	Weight float32
}

type instructionEntry struct {
	global bool
	op     Operation
}

// engineRule is the compiled form: resolved criteria indices (sorted
// ascending by variable name, matching the scanner's monotone walk),
// resolved response group indices, a precomputed score, and the
// enabled flag the dispatcher mutates at runtime.
type engineRule struct {
	criteria       []int
	responseGroups []int
	instructions   map[intern.Handle]instructionEntry
	score          float32
	enabled        bool
}
