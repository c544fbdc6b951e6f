package respengine

import (
	"math/rand"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/dialogrules/respengine/encode"
)

// Engine is a compiled, ready-to-query response engine. It is built by
// a Compiler and owned exclusively by one caller: nothing in this
// package guards Engine's mutable state with a lock, because spec
// scope is a single caller driving one Engine at a time.
type Engine struct {
	ID uuid.UUID

	criteria []engineCriterion
	rules    *rulePartitions
	groups   []engineResponseGroup
	encoder  *encode.Encoder
}

// Stats is a plain snapshot of a compiled Engine's size, useful for a
// log line or an inspector panel; it carries no behavior of its own.
type Stats struct {
	Criteria       int
	Rules          int
	Partitions     int
	ResponseGroups int
	PartitionVars  int
}

// Stats summarizes the size of e.
func (e *Engine) Stats() Stats {
	ruleCount := 0
	for _, rules := range e.rules.partitions {
		ruleCount += len(rules)
	}
	return Stats{
		Criteria:       len(e.criteria),
		Rules:          ruleCount,
		Partitions:     len(e.rules.partitions),
		ResponseGroups: len(e.groups),
		PartitionVars:  len(e.rules.vars),
	}
}

func (s Stats) String() string {
	return humanize.Comma(int64(s.Rules)) + " rules across " +
		humanize.Comma(int64(s.Partitions)) + " partitions (" +
		humanize.Comma(int64(s.Criteria)) + " criteria, " +
		humanize.Comma(int64(s.ResponseGroups)) + " response groups, " +
		humanize.Comma(int64(s.PartitionVars)) + " partition variables)"
}

// FindBestResponse queries request, character, and world (in that
// priority order) for every variable referenced by a compiled
// criterion, picks uniformly at random among the highest-scoring rules
// whose criteria all match, applies that rule's instructions to
// character and world, and dispatches one of its response groups.
// Returns nil if no rule matches.
func (e *Engine) FindBestResponse(rng *rand.Rand, request, character, world *Props) Response {
	q := buildQuery(e.encoder, request, character, world)

	key, idx, ok := e.findBestMatchingRule(rng, q)
	if !ok {
		return nil
	}
	rule := e.rules.partitions[key][idx]

	e.applyInstructions(rule, character, world)

	return e.dispatchResponse(rng, rule)
}

func (e *Engine) findBestMatchingRule(rng *rand.Rand, q *query) (PartitionKey, int, bool) {
	bestScore := float32(0)
	type match struct {
		key PartitionKey
		idx int
	}
	var best []match

	for _, key := range e.rules.keysForQuery(q) {
		partition := e.rules.partition(key)
		for i, rule := range partition {
			if rule.score < bestScore {
				break
			}
			if !rule.enabled {
				continue
			}
			if !e.matchRuleCriteria(q, rule) {
				continue
			}
			if rule.score > bestScore {
				bestScore = rule.score
				best = best[:0]
				best = append(best, match{key, i})
			} else {
				best = append(best, match{key, i})
			}
		}
	}

	if len(best) == 0 {
		return PartitionKey(0), 0, false
	}
	choice := best[rng.Intn(len(best))]
	return choice.key, choice.idx, true
}

func (e *Engine) matchRuleCriteria(q *query, rule *engineRule) bool {
	q.Reset()
	for _, ci := range rule.criteria {
		c := e.criteria[ci]
		val, ok := q.ScanTo(c.variable)
		if !ok {
			return false
		}
		if !(c.min <= val && val <= c.max) {
			return false
		}
	}
	return true
}

func (e *Engine) applyInstructions(rule *engineRule, character, world *Props) {
	for variable, instr := range rule.instructions {
		props := character
		if instr.global {
			props = world
		}
		current, _ := props.Get(variable)

		switch instr.op.Kind {
		case OpBoolToggle:
			if current.Kind() == KindBool {
				props.Set(variable, BoolValue(!current.Bool()))
			} else {
				props.Set(variable, BoolValue(true))
			}
		case OpNumAdd:
			if current.Kind() == KindNum {
				props.Set(variable, NumValue(current.Num()+instr.op.Num))
			} else {
				props.Set(variable, NumValue(instr.op.Num))
			}
		case OpBoolSet:
			props.Set(variable, BoolValue(instr.op.Bool))
		case OpNumSet:
			props.Set(variable, NumValue(instr.op.Num))
		case OpStrSet:
			props.Set(variable, StrValue(instr.op.Str))
			e.encoder.EncodeHandle(instr.op.Str)
		}
	}
}

func (e *Engine) dispatchResponse(rng *rand.Rand, rule *engineRule) Response {
	order := rng.Perm(len(rule.responseGroups))
	for _, oi := range order {
		gi := rule.responseGroups[oi]
		group := &e.groups[gi]
		idx, ok := group.dispatcher.Next(rng)
		if !ok {
			continue
		}
		if group.dispatcher.DisableRule() {
			rule.enabled = false
		}
		return group.responses[idx]
	}
	return nil
}
