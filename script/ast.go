package script

import "github.com/dialogrules/respengine"

// DefinitionKind identifies which top-level form a Definition parses.
type DefinitionKind int

const (
	DefCriterion DefinitionKind = iota
	DefRule
	DefResponseGroup
)

// Definition is one parsed top-level form: `(criterion ...)`,
// `(rule ...)`, or `(response ...)`, tagged with the name that follows
// the keyword and the source span it was parsed from.
type Definition struct {
	Kind DefinitionKind
	Name string
	Span Location

	Criterion     respengine.Criterion
	Rule          respengine.Rule
	ResponseGroup respengine.ResponseGroup
}

// Location pinpoints a byte range in one named source for diagnostics.
type Location struct {
	Source     string
	Start, End int
	Line, Column int
}
