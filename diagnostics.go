package respengine

import (
	"fmt"
	"strings"

	box "github.com/Delta456/box-cli-maker/v2"
	"github.com/alexeyco/simpletable"
	"github.com/dustin/go-humanize"

	"github.com/dialogrules/respengine/intern"
)

// CompileError is the taxonomy of problems Compiler.Finish can find in
// an otherwise well-formed set of criteria, rules, and response
// groups. Every variant carries enough identifying information for a
// caller (or the script package's richer Report) to point back at the
// offending definition.
type CompileError interface {
	error
	compileError()
}

// VariableLocation names the kind of definition a VariableUsage was
// observed in.
type VariableLocation int

const (
	LocationCriterion VariableLocation = iota
	LocationRule
)

func (l VariableLocation) String() string {
	if l == LocationCriterion {
		return "criterion"
	}
	return "rule"
}

// VariableUsage records one place a variable's type was inferred, for
// an IndeterminateVariableTypeError's list of conflicting sightings.
type VariableUsage struct {
	Location     VariableLocation
	Name         intern.Handle
	InferredType Kind
}

// IndeterminateVariableTypeError reports a variable referenced as more
// than one Kind across the criteria and instructions that touch it.
type IndeterminateVariableTypeError struct {
	Variable intern.Handle
	Usages   []VariableUsage
}

func (e *IndeterminateVariableTypeError) Error() string {
	return fmt.Sprintf("variable %q used with conflicting types across %d definitions",
		e.Variable.String(), len(e.Usages))
}
func (*IndeterminateVariableTypeError) compileError() {}

// InvalidWeightStringError reports a response's "weight" field that
// could not be parsed as a number.
type InvalidWeightStringError struct {
	String          string
	InResponseGroup intern.Handle
}

func (e *InvalidWeightStringError) Error() string {
	return fmt.Sprintf("response group %q: invalid weight %q", e.InResponseGroup.String(), e.String)
}
func (*InvalidWeightStringError) compileError() {}

// MissingCriterionError reports a rule referencing a criterion name
// with no matching definition.
type MissingCriterionError struct {
	CriterionName intern.Handle
	InRule        intern.Handle
}

func (e *MissingCriterionError) Error() string {
	return fmt.Sprintf("rule %q references undefined criterion %q", e.InRule.String(), e.CriterionName.String())
}
func (*MissingCriterionError) compileError() {}

// MissingResponseGroupError reports a rule referencing a response
// group name with no matching definition.
type MissingResponseGroupError struct {
	GroupName intern.Handle
	InRule    intern.Handle
}

func (e *MissingResponseGroupError) Error() string {
	return fmt.Sprintf("rule %q references undefined response group %q", e.InRule.String(), e.GroupName.String())
}
func (*MissingResponseGroupError) compileError() {}

// RepeatedVariableError reports a rule whose criteria test the same
// variable more than once.
type RepeatedVariableError struct {
	CriterionName intern.Handle
	InRule        intern.Handle
}

func (e *RepeatedVariableError) Error() string {
	return fmt.Sprintf("rule %q uses criterion %q whose variable is already constrained by another criterion in the same rule",
		e.InRule.String(), e.CriterionName.String())
}
func (*RepeatedVariableError) compileError() {}

// CompileReport collects every CompileError found while compiling one
// Compiler's definitions. A report with no errors always means Finish
// returned a usable Engine.
type CompileReport struct {
	Errors []CompileError
}

// OK reports whether the report carries no errors.
func (r *CompileReport) OK() bool { return len(r.Errors) == 0 }

// String renders the report as a framed table, in the same style the
// teacher renders its own evaluation diagnostics.
func (r *CompileReport) String() string {
	if r.OK() {
		return "compiled with no errors"
	}

	table := simpletable.New()
	table.Header = &simpletable.Header{
		Cells: []*simpletable.Cell{
			{Align: simpletable.AlignCenter, Text: "Kind"},
			{Align: simpletable.AlignCenter, Text: "Detail"},
		},
	}
	for _, e := range r.Errors {
		table.Body.Cells = append(table.Body.Cells, []*simpletable.Cell{
			{Text: errorKindLabel(e)},
			{Text: e.Error()},
		})
	}
	table.SetStyle(simpletable.StyleUnicode)

	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s compile errors\n\n", humanize.Comma(int64(len(r.Errors)))))
	s.WriteString(table.String())

	b := box.New(box.Config{Px: 2, Py: 1, Type: "Double", Color: "Red", TitlePos: "Top", ContentAlign: "Left"})
	return b.String("COMPILE REPORT", s.String())
}

func errorKindLabel(e CompileError) string {
	switch e.(type) {
	case *IndeterminateVariableTypeError:
		return "IndeterminateVariableType"
	case *InvalidWeightStringError:
		return "InvalidWeightString"
	case *MissingCriterionError:
		return "MissingCriterion"
	case *MissingResponseGroupError:
		return "MissingResponseGroup"
	case *RepeatedVariableError:
		return "RepeatedVariable"
	default:
		return "CompileError"
	}
}
