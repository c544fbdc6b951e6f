package respengine

import (
	"sort"

	"github.com/google/uuid"

	"github.com/dialogrules/respengine/encode"
	"github.com/dialogrules/respengine/intern"
)

// CompileOption configures a Compiler using the functional-options
// pattern.
type CompileOption func(*compileConfig)

type compileConfig struct {
	partitionVars []intern.Handle
	moduleName    string
}

// PartitionVars names the variables the compiled Engine buckets rules
// by. Keep this set small — every present partition variable doubles
// the number of partition keys a query has to consider.
func PartitionVars(names ...string) CompileOption {
	return func(c *compileConfig) {
		for _, n := range names {
			c.partitionVars = append(c.partitionVars, intern.Intern(n))
		}
	}
}

// ModuleName records a label for the Compiler's definitions. The label
// is stored in the Compiler's configuration only; it does not appear in
// any CompileError or in CompileReport output. (The script package
// labels its diagnostics with each Source's Name instead.)
func ModuleName(name string) CompileOption {
	return func(c *compileConfig) { c.moduleName = name }
}

// Compiler accumulates named criteria, rules, and response groups and
// resolves their cross-references into a compiled Engine. Definitions
// can be added in any order; name resolution happens entirely inside
// Finish.
type Compiler struct {
	cfg compileConfig

	criterionNames []intern.Handle
	criteria       map[intern.Handle]Criterion

	ruleNames []intern.Handle
	rules     map[intern.Handle]Rule

	groupNames []intern.Handle
	groups     map[intern.Handle]ResponseGroup
}

// NewCompiler returns an empty Compiler.
func NewCompiler(opts ...CompileOption) *Compiler {
	c := &Compiler{
		criteria: make(map[intern.Handle]Criterion),
		rules:    make(map[intern.Handle]Rule),
		groups:   make(map[intern.Handle]ResponseGroup),
	}
	for _, opt := range opts {
		opt(&c.cfg)
	}
	return c
}

// AddCriterion registers a named Criterion definition.
func (c *Compiler) AddCriterion(name intern.Handle, crit Criterion) {
	if _, exists := c.criteria[name]; !exists {
		c.criterionNames = append(c.criterionNames, name)
	}
	c.criteria[name] = crit
}

// AddRule registers a named Rule definition.
func (c *Compiler) AddRule(name intern.Handle, rule Rule) {
	if _, exists := c.rules[name]; !exists {
		c.ruleNames = append(c.ruleNames, name)
	}
	c.rules[name] = rule
}

// AddResponseGroup registers a named ResponseGroup definition.
func (c *Compiler) AddResponseGroup(name intern.Handle, group ResponseGroup) {
	if _, exists := c.groups[name]; !exists {
		c.groupNames = append(c.groupNames, name)
	}
	c.groups[name] = group
}

func operationKind(k OperationKind) Kind {
	switch k {
	case OpBoolSet, OpBoolToggle:
		return KindBool
	case OpStrSet:
		return KindStr
	default:
		return KindNum
	}
}

func criterionWeight(c Criterion) float32 {
	if c.Weight > 0 {
		return c.Weight
	}
	return 1
}

func ruleWeight(r Rule) float32 {
	if r.Weight > 0 {
		return r.Weight
	}
	return 1
}

// Finish resolves every name reference, computes each rule's score and
// partition bucket, and — if no CompileError was found — returns a
// ready-to-query Engine alongside the (empty) report. If any
// CompileError was found, the returned Engine is nil.
func (c *Compiler) Finish() (*Engine, *CompileReport) {
	report := &CompileReport{}
	enc := encode.New()

	usages := make(map[intern.Handle][]VariableUsage)

	criteriaIndex := make(map[intern.Handle]int, len(c.criterionNames))
	compiledCriteria := make([]engineCriterion, 0, len(c.criterionNames))
	for _, name := range c.criterionNames {
		crit := c.criteria[name]
		criteriaIndex[name] = len(compiledCriteria)
		compiledCriteria = append(compiledCriteria, compileCriterion(crit, enc))
		usages[crit.Variable] = append(usages[crit.Variable], VariableUsage{
			Location:     LocationCriterion,
			Name:         name,
			InferredType: crit.Predicate.varKind(),
		})
	}

	groupIndex := make(map[intern.Handle]int, len(c.groupNames))
	compiledGroups := make([]engineResponseGroup, 0, len(c.groupNames))
	for _, name := range c.groupNames {
		groupIndex[name] = len(compiledGroups)
		compiled, errs := compileResponseGroup(name, c.groups[name])
		compiledGroups = append(compiledGroups, compiled)
		report.Errors = append(report.Errors, errs...)
	}

	rp := newRulePartitions(c.cfg.partitionVars)

	compiledRules := make([]*engineRule, 0, len(c.ruleNames))
	for _, ruleName := range c.ruleNames {
		rule := c.rules[ruleName]

		seenVars := make(map[intern.Handle]bool, len(rule.Criteria))
		reportedVars := make(map[intern.Handle]bool, len(rule.Criteria))
		var criteriaIdx []int
		var score float32
		ok := true
		for _, critName := range rule.Criteria {
			ci, found := criteriaIndex[critName]
			if !found {
				report.Errors = append(report.Errors, &MissingCriterionError{CriterionName: critName, InRule: ruleName})
				ok = false
				continue
			}
			crit := c.criteria[critName]
			if seenVars[crit.Variable] {
				if !reportedVars[crit.Variable] {
					report.Errors = append(report.Errors, &RepeatedVariableError{CriterionName: critName, InRule: ruleName})
					reportedVars[crit.Variable] = true
				}
				ok = false
				continue
			}
			seenVars[crit.Variable] = true
			criteriaIdx = append(criteriaIdx, ci)
			score += criterionWeight(crit)
		}
		score *= ruleWeight(rule)

		sort.Slice(criteriaIdx, func(i, j int) bool {
			return compiledCriteria[criteriaIdx[i]].variable.Less(compiledCriteria[criteriaIdx[j]].variable)
		})

		var groupIdx []int
		for _, groupName := range rule.ResponseGroups {
			gi, found := groupIndex[groupName]
			if !found {
				report.Errors = append(report.Errors, &MissingResponseGroupError{GroupName: groupName, InRule: ruleName})
				ok = false
				continue
			}
			groupIdx = append(groupIdx, gi)
		}

		instructions := make(map[intern.Handle]instructionEntry, len(rule.Instructions))
		for _, instr := range rule.Instructions {
			instructions[instr.Variable] = instructionEntry{global: instr.Global, op: instr.Operation}
			usages[instr.Variable] = append(usages[instr.Variable], VariableUsage{
				Location:     LocationRule,
				Name:         ruleName,
				InferredType: operationKind(instr.Operation.Kind),
			})
		}

		if !ok {
			continue
		}

		er := &engineRule{
			criteria:       criteriaIdx,
			responseGroups: groupIdx,
			instructions:   instructions,
			score:          score,
			enabled:        true,
		}
		compiledRules = append(compiledRules, er)
		rp.insert(er, rp.assignmentsForRule(compiledCriteria, criteriaIdx))
	}

	for variable, use := range usages {
		kind := use[0].InferredType
		conflict := false
		for _, u := range use[1:] {
			if u.InferredType != kind {
				conflict = true
				break
			}
		}
		if conflict {
			report.Errors = append(report.Errors, &IndeterminateVariableTypeError{Variable: variable, Usages: use})
		}
	}

	if !report.OK() {
		return nil, report
	}

	rp.sortAll()

	engine := &Engine{
		ID:       uuid.New(),
		criteria: compiledCriteria,
		rules:    rp,
		groups:   compiledGroups,
		encoder:  enc,
	}
	return engine, report
}
