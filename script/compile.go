package script

import (
	"github.com/dialogrules/respengine"
	"github.com/dialogrules/respengine/intern"
)

// Source is one named input to Compile. Name identifies it in
// diagnostics; multiple Sources may be compiled together into a single
// Engine, letting a caller split large rule sets across files.
type Source struct {
	Name string
	Text string
}

// Compile parses every Source's definitions, registers them with a
// fresh respengine.Compiler, and resolves them into an Engine. Parse
// errors and compile errors are merged into a single Report; if either
// kind is non-empty the returned Engine is nil.
func Compile(sources []Source, opts ...respengine.CompileOption) (*respengine.Engine, *Report) {
	report := &Report{}
	compiler := respengine.NewCompiler(opts...)

	criterionLocs := make(map[string]Location)
	ruleLocs := make(map[string]Location)
	groupLocs := make(map[string]Location)

	for _, src := range sources {
		parser := NewParser(src.Text)
		for {
			def, err := parser.MaybeParseDefinition()
			if err != nil {
				err.Loc.Source = src.Name
				report.ParseErrors = append(report.ParseErrors, err)
				continue
			}
			if def == nil {
				break
			}
			def.Span.Source = src.Name

			switch def.Kind {
			case DefCriterion:
				criterionLocs[def.Name] = def.Span
				compiler.AddCriterion(intern.Intern(def.Name), def.Criterion)
			case DefRule:
				ruleLocs[def.Name] = def.Span
				compiler.AddRule(intern.Intern(def.Name), def.Rule)
			case DefResponseGroup:
				groupLocs[def.Name] = def.Span
				compiler.AddResponseGroup(intern.Intern(def.Name), def.ResponseGroup)
			}
		}
	}

	if len(report.ParseErrors) > 0 {
		return nil, report
	}

	engine, compileReport := compiler.Finish()
	report.CompileErrors = compileReport.Errors
	report.criterionLocs = criterionLocs
	report.ruleLocs = ruleLocs
	report.groupLocs = groupLocs

	if !report.OK() {
		return nil, report
	}
	return engine, report
}

// CompileString is a convenience wrapper around Compile for a single
// unnamed source, as produced by an in-memory script or test fixture.
func CompileString(text string, opts ...respengine.CompileOption) (*respengine.Engine, *Report) {
	return Compile([]Source{{Name: "<script>", Text: text}}, opts...)
}
