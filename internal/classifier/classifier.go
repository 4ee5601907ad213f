// Package classifier evaluates an ordered chain of classification rules
// against an evidence bundle. Rules are plain values implementing
// {priority, predicate, build}; the first match wins and the Unclear
// fallback guarantees the chain is total.
package classifier

import (
	"sort"

	"github.com/surveylens/brandcheck/internal/model"
)

// Context carries request facts the rules need beyond the evidence itself.
type Context struct {
	// CategoryDeclared is true when the caller supplied category context.
	CategoryDeclared bool
	// Category is the declared category, for rationale text.
	Category string
}

// Rule is one classification pattern. Lower priority evaluates first.
// Matches must be side-effect free; Build runs only for the winning rule.
type Rule struct {
	Name     string
	Priority int
	Matches  func(b model.EvidenceBundle, c Context) bool
	Build    func(b model.EvidenceBundle, c Context) model.Classification
}

// Classifier is an immutable, priority-ordered rule chain.
type Classifier struct {
	rules []Rule
}

// New builds a classifier. Rules are sorted by priority; distinct
// priorities are the constructor's contract (DefaultRules satisfies it).
// Adding a rule means appending one entry and one test.
func New(rules ...Rule) *Classifier {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })
	return &Classifier{rules: sorted}
}

// Classify returns the classification from the first matching rule. The
// fallback rule always matches, so exactly one classification is produced
// for every possible bundle, including an all-absent one.
func (c *Classifier) Classify(b model.EvidenceBundle, ctx Context) model.Classification {
	for _, r := range c.rules {
		if r.Matches(b, ctx) {
			cls := r.Build(b, ctx)
			cls.RuleName = r.Name
			cls.ConfidencePercent = model.ClampPercent(cls.ConfidencePercent)
			return cls
		}
	}
	// Unreachable with the fallback rule installed; kept for totality.
	return model.Classification{RuleName: "unclear", Rationale: "no rule matched"}
}

// Rules exposes the chain in evaluation order, for introspection.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}
