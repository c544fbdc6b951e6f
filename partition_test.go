package respengine

import (
	"math/rand"
	"testing"

	"github.com/matryer/is"

	"github.com/dialogrules/respengine/intern"
)

func TestPowersetKeysCountsTwoToTheN(t *testing.T) {
	is := is.New(t)

	assignments := []varAssignment{
		{name: intern.Intern("a"), value: 1},
		{name: intern.Intern("b"), value: 2},
		{name: intern.Intern("c"), value: 3},
	}
	keys := powersetKeys(assignments)
	is.Equal(len(keys), 8)
}

func TestPowersetKeysIncludesEmptySubset(t *testing.T) {
	is := is.New(t)

	assignments := []varAssignment{{name: intern.Intern("x"), value: 1}}
	keys := powersetKeys(assignments)
	is.Equal(len(keys), 2)
	is.Equal(keys[0], partitionKeyFor(nil))
}

func TestPartitionKeyIsOrderSensitiveOnlyInContentNotCallOrder(t *testing.T) {
	is := is.New(t)

	a := partitionKeyFor([]varAssignment{{name: intern.Intern("k1"), value: 5}})
	b := partitionKeyFor([]varAssignment{{name: intern.Intern("k1"), value: 5}})
	is.Equal(a, b)

	c := partitionKeyFor([]varAssignment{{name: intern.Intern("k1"), value: 6}})
	is.True(a != c)
}

func TestPartitionVarsRestrictsRulesToMatchingBucket(t *testing.T) {
	is := is.New(t)

	c := NewCompiler(PartitionVars("concept"))

	concept := intern.Intern("concept")
	c.AddCriterion(intern.Intern("is-greeting"), Criterion{
		Variable:  concept,
		Predicate: StrEqual(intern.Intern("greeting")),
	})
	c.AddCriterion(intern.Intern("is-farewell"), Criterion{
		Variable:  concept,
		Predicate: StrEqual(intern.Intern("farewell")),
	})

	c.AddResponseGroup(intern.Intern("hello"), ResponseGroup{
		Delivery:  DeliveryLoop,
		Responses: []Response{{"text": "hello there"}},
	})
	c.AddResponseGroup(intern.Intern("bye"), ResponseGroup{
		Delivery:  DeliveryLoop,
		Responses: []Response{{"text": "goodbye"}},
	})

	c.AddRule(intern.Intern("greet"), Rule{
		Criteria:       []intern.Handle{intern.Intern("is-greeting")},
		ResponseGroups: []intern.Handle{intern.Intern("hello")},
	})
	c.AddRule(intern.Intern("farewell"), Rule{
		Criteria:       []intern.Handle{intern.Intern("is-farewell")},
		ResponseGroups: []intern.Handle{intern.Intern("bye")},
	})

	engine, report := c.Finish()
	is.True(report.OK())

	// A query pinned to "greeting" must never see the farewell rule's
	// response, and vice versa: each partition key's powerset subset
	// only ever reaches the bucket its own equality pin belongs to.
	greetingQuery := NewProps()
	greetingQuery.Set(concept, StrValueOf("greeting"))

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		resp := engine.FindBestResponse(rng, NewProps(), greetingQuery, NewProps())
		is.True(resp != nil)
		is.Equal(resp["text"], "hello there")
	}

	farewellQuery := NewProps()
	farewellQuery.Set(concept, StrValueOf("farewell"))

	for i := 0; i < 20; i++ {
		resp := engine.FindBestResponse(rng, NewProps(), farewellQuery, NewProps())
		is.True(resp != nil)
		is.Equal(resp["text"], "goodbye")
	}

	// An unrelated concept value matches neither rule's equality pin.
	neitherQuery := NewProps()
	neitherQuery.Set(concept, StrValueOf("weather"))
	is.True(engine.FindBestResponse(rng, NewProps(), neitherQuery, NewProps()) == nil)
}

func TestRulePartitionsSortsDescendingByScore(t *testing.T) {
	is := is.New(t)

	rp := newRulePartitions(nil)
	low := &engineRule{score: 1, enabled: true}
	high := &engineRule{score: 5, enabled: true}
	mid := &engineRule{score: 3, enabled: true}

	key := partitionKeyFor(nil)
	rp.partitions[key] = []*engineRule{low, high, mid}
	rp.sortAll()

	got := rp.partition(key)
	is.Equal(got[0], high)
	is.Equal(got[1], mid)
	is.Equal(got[2], low)
}
