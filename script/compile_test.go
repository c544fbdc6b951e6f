package script

import (
	"math/rand"
	"testing"

	"github.com/matryer/is"

	"github.com/dialogrules/respengine"
	"github.com/dialogrules/respengine/intern"
)

const greetingScript = `
(criterion IsHappy (mood == Happy) weight 2)
(criterion NotGreetedYet (greeted == false))

(response Cheer list
	(text "Great to see you smiling!"))

(rule GreetHappy (IsHappy NotGreetedYet) (Cheer)
	greeted := true)
`

func TestCompileStringEndToEnd(t *testing.T) {
	is := is.New(t)

	engine, report := CompileString(greetingScript)
	is.True(report.OK())
	is.True(engine != nil)

	character := respengine.NewProps()
	character.Set(intern.Intern("mood"), respengine.StrValueOf("Happy"))
	character.Set(intern.Intern("greeted"), respengine.BoolValue(false))

	rng := rand.New(rand.NewSource(3))
	resp := engine.FindBestResponse(rng, respengine.NewProps(), character, respengine.NewProps())
	is.True(resp != nil)
	is.Equal(resp["text"], "Great to see you smiling!")

	v, _ := character.Get(intern.Intern("greeted"))
	is.Equal(v.Bool(), true)
}

func TestCompileReportsParseErrorLocation(t *testing.T) {
	is := is.New(t)

	_, report := CompileString(`(criterion Bad`)
	is.True(!report.OK())
	is.Equal(len(report.ParseErrors), 1)
	is.True(report.String() != "compiled with no errors")
}

func TestCompileReportsMissingCriterionWithLocation(t *testing.T) {
	is := is.New(t)

	_, report := CompileString(`(rule Greet (NoSuchCriterion) ())`)
	is.True(!report.OK())
	is.Equal(len(report.CompileErrors), 1)
	loc, ok := report.locationFor(report.CompileErrors[0])
	is.True(ok)
	is.Equal(loc.Source, "<script>")
}

const weightedRulesScript = `
(criterion IsSad (mood == Sad))

(response Generic list (text "generic"))
(response Specific list (text "specific"))

(rule GenericRule (IsSad) (Generic))
(rule SpecificRule (IsSad) (Specific) weight 5)
`

func TestCompileStringHonorsRuleWeightClause(t *testing.T) {
	is := is.New(t)

	engine, report := CompileString(weightedRulesScript)
	is.True(report.OK())

	character := respengine.NewProps()
	character.Set(intern.Intern("mood"), respengine.StrValueOf("Sad"))

	rng := rand.New(rand.NewSource(11))
	resp := engine.FindBestResponse(rng, respengine.NewProps(), character, respengine.NewProps())
	is.True(resp != nil)
	is.Equal(resp["text"], "specific")
}

func TestCompileMultipleSourcesShareOneEngine(t *testing.T) {
	is := is.New(t)

	sources := []Source{
		{Name: "criteria.trill", Text: `(criterion IsSad (mood == Sad))`},
		{Name: "responses.trill", Text: `(response Comfort (text "It will be okay."))`},
		{Name: "rules.trill", Text: `(rule ComfortSad (IsSad) (Comfort))`},
	}

	engine, report := Compile(sources)
	is.True(report.OK())

	character := respengine.NewProps()
	character.Set(intern.Intern("mood"), respengine.StrValueOf("Sad"))

	rng := rand.New(rand.NewSource(1))
	resp := engine.FindBestResponse(rng, respengine.NewProps(), character, respengine.NewProps())
	is.True(resp != nil)
	is.Equal(resp["text"], "It will be okay.")
}
