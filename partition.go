package respengine

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"sort"

	"github.com/dialogrules/respengine/intern"
)

// maxPartitionVariables bounds the powerset enumeration the engine
// performs on every FindBestResponse call: the set is exponential in
// the number of partition variables but real scripts keep it to a
// handful of top-level story flags, so this cap exists purely as a
// safety rail against a misconfigured script, not as a named
// diagnostic.
const maxPartitionVariables = 20

// PartitionKey identifies one bucket of rules sharing the same
// assignment to the engine's partition variables.
type PartitionKey uint64

type varAssignment struct {
	name  intern.Handle
	value float32
}

func partitionKeyFor(assignments []varAssignment) PartitionKey {
	h := fnv.New64a()
	var buf [8]byte
	for _, a := range assignments {
		binary.LittleEndian.PutUint32(buf[:4], uint32(a.name))
		binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(a.value))
		h.Write(buf[:])
	}
	return PartitionKey(h.Sum64())
}

// rulePartitions groups compiled rules by the partition key computed
// from their equality assertions on the engine's partition variables.
type rulePartitions struct {
	vars       []intern.Handle // sorted ascending
	partitions map[PartitionKey][]*engineRule
}

func newRulePartitions(vars []intern.Handle) *rulePartitions {
	sorted := append([]intern.Handle(nil), vars...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })
	if len(sorted) > maxPartitionVariables {
		sorted = sorted[:maxPartitionVariables]
	}
	return &rulePartitions{vars: sorted, partitions: make(map[PartitionKey][]*engineRule)}
}

// assignmentsForRule returns, in partition-variable order, the
// (variable, value) pairs a rule pins via an equality criterion. A
// rule with a NumRange (non-equality) or no criterion at all on a
// given partition variable simply omits that variable, which is what
// makes the rule visible from every partition key whose powerset
// subset agrees with the pins it does make.
func (rp *rulePartitions) assignmentsForRule(criteria []engineCriterion, indices []int) []varAssignment {
	byVar := make(map[intern.Handle]float32, len(indices))
	for _, i := range indices {
		c := criteria[i]
		if c.min == c.max {
			byVar[c.variable] = c.min
		}
	}
	var out []varAssignment
	for _, v := range rp.vars {
		if val, ok := byVar[v]; ok {
			out = append(out, varAssignment{name: v, value: val})
		}
	}
	return out
}

func (rp *rulePartitions) insert(r *engineRule, assignments []varAssignment) {
	key := partitionKeyFor(assignments)
	rp.partitions[key] = append(rp.partitions[key], r)
}

func (rp *rulePartitions) sortAll() {
	for key, rules := range rp.partitions {
		sorted := append([]*engineRule(nil), rules...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].score > sorted[j].score })
		rp.partitions[key] = sorted
	}
}

func (rp *rulePartitions) partition(key PartitionKey) []*engineRule {
	return rp.partitions[key]
}

// keysForQuery scans q for every partition variable present, then
// returns the key for every subset of the assignments found — the
// powerset — since a rule could have pinned any subset of those
// variables and still needs to be reachable.
func (rp *rulePartitions) keysForQuery(q *query) []PartitionKey {
	q.Reset()
	assignments := make([]varAssignment, 0, len(rp.vars))
	for _, v := range rp.vars {
		if val, ok := q.ScanTo(v); ok {
			assignments = append(assignments, varAssignment{name: v, value: val})
		}
	}
	return powersetKeys(assignments)
}

func powersetKeys(assignments []varAssignment) []PartitionKey {
	n := len(assignments)
	keys := make([]PartitionKey, 0, 1<<uint(n))
	subset := make([]varAssignment, 0, n)
	for mask := 0; mask < (1 << uint(n)); mask++ {
		subset = subset[:0]
		for i := 0; i < n; i++ {
			if mask&(1<<uint(i)) != 0 {
				subset = append(subset, assignments[i])
			}
		}
		keys = append(keys, partitionKeyFor(subset))
	}
	return keys
}
