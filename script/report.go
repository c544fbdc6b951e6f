package script

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/dialogrules/respengine"
)

// Report collects every problem found while compiling a set of
// Sources: lexical/grammar mistakes caught during parsing, and
// cross-reference or type mistakes caught afterward by the underlying
// respengine.Compiler. A Report with no errors of either kind always
// means Compile returned a usable Engine.
type Report struct {
	ParseErrors   []*SpannedError
	CompileErrors []respengine.CompileError

	criterionLocs map[string]Location
	ruleLocs      map[string]Location
	groupLocs     map[string]Location
}

// OK reports whether the report carries no errors of either kind.
func (r *Report) OK() bool {
	return len(r.ParseErrors) == 0 && len(r.CompileErrors) == 0
}

func (r *Report) locationFor(e respengine.CompileError) (Location, bool) {
	switch err := e.(type) {
	case *respengine.MissingCriterionError:
		loc, ok := r.ruleLocs[err.InRule.String()]
		return loc, ok
	case *respengine.MissingResponseGroupError:
		loc, ok := r.ruleLocs[err.InRule.String()]
		return loc, ok
	case *respengine.RepeatedVariableError:
		loc, ok := r.ruleLocs[err.InRule.String()]
		return loc, ok
	case *respengine.InvalidWeightStringError:
		loc, ok := r.groupLocs[err.InResponseGroup.String()]
		return loc, ok
	case *respengine.IndeterminateVariableTypeError:
		if len(err.Usages) == 0 {
			return Location{}, false
		}
		first := err.Usages[0]
		if first.Location == respengine.LocationCriterion {
			loc, ok := r.criterionLocs[first.Name.String()]
			return loc, ok
		}
		loc, ok := r.ruleLocs[first.Name.String()]
		return loc, ok
	default:
		return Location{}, false
	}
}

// String renders every parse and compile error as a framed table, in
// the same table-rendering idiom the base engine uses for its own
// CompileReport.
func (r *Report) String() string {
	if r.OK() {
		return "compiled with no errors"
	}

	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"\nKind", "\nSource", "\nLine:Col", "Detail\n"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, WidthMax: 72, Align: text.AlignLeft},
	})
	tw.SetStyle(table.StyleLight)

	for _, pe := range r.ParseErrors {
		tw.AppendRow(table.Row{
			"ParseError",
			pe.Loc.Source,
			fmt.Sprintf("%d:%d", pe.Loc.Line, pe.Loc.Column),
			pe.Err.Error(),
		})
	}
	for _, ce := range r.CompileErrors {
		loc, ok := r.locationFor(ce)
		pos := "-"
		source := "-"
		if ok {
			pos = fmt.Sprintf("%d:%d", loc.Line, loc.Column)
			source = loc.Source
		}
		tw.AppendRow(table.Row{
			compileErrorKind(ce),
			source,
			pos,
			ce.Error(),
		})
	}

	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%d parse error(s), %d compile error(s)\n\n", len(r.ParseErrors), len(r.CompileErrors)))
	s.WriteString(tw.Render())
	return s.String()
}

func compileErrorKind(e respengine.CompileError) string {
	switch e.(type) {
	case *respengine.IndeterminateVariableTypeError:
		return "IndeterminateVariableType"
	case *respengine.InvalidWeightStringError:
		return "InvalidWeightString"
	case *respengine.MissingCriterionError:
		return "MissingCriterion"
	case *respengine.MissingResponseGroupError:
		return "MissingResponseGroup"
	case *respengine.RepeatedVariableError:
		return "RepeatedVariable"
	default:
		return "CompileError"
	}
}
