package rules

import (
	"strings"

	"github.com/google/uuid"
)

// TimeOfDay selects which half of a user's routine is being viewed.
type TimeOfDay string

const (
	AM TimeOfDay = "AM"
	PM TimeOfDay = "PM"
)

// ParseTimeOfDay accepts "am"/"AM"/"pm"/"PM".
func ParseTimeOfDay(value string) (TimeOfDay, bool) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case string(AM):
		return AM, true
	case string(PM):
		return PM, true
	}
	return "", false
}

// Clause is a single guidance entry inside a rule: the tag it targets and the
// message shown to the user.
type Clause struct {
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// RuleSet holds the three clause lists attached to a category tag.
type RuleSet struct {
	Avoid   []Clause `json:"avoid"`
	UseWith []Clause `json:"usewith"`
	UseWhen []Clause `json:"usewhen"`
}

// RuleLookup resolves a category tag to its rule set. Lookups are exact-match
// only; a missing rule is normal data, not an error.
type RuleLookup interface {
	RuleForTag(tag string) (RuleSet, bool)
}

// ProductInfo is the snapshot of a routine product the engine evaluates.
type ProductInfo struct {
	ID   uuid.UUID
	Name string
	Tags []string
}

// Conflict records one avoid match between two co-present products. Source is
// the product whose rule fired, Comp the product carrying the offending tag.
type Conflict struct {
	SourceID uuid.UUID `json:"source_id"`
	CompID   uuid.UUID `json:"comp_id"`
	Source   string    `json:"source"`
	Comp     string    `json:"comp"`
	Rule     Clause    `json:"rule"`
}

// Advice records one surviving usewith or usewhen clause with its source
// product resolved to a display name.
type Advice struct {
	SourceID uuid.UUID `json:"source_id"`
	Source   string    `json:"source"`
	Tag      string    `json:"tag"`
	Message  string    `json:"message"`
}

// Report is the full compatibility report for one routine.
type Report struct {
	Avoid   []Conflict `json:"avoid"`
	UseWith []Advice   `json:"usewith"`
	UseWhen []Advice   `json:"usewhen"`
}

// Evaluate computes the compatibility report for a routine's products at the
// given time of day. It is a pure function over its inputs: products with no
// tags contribute nothing, tags without rules resolve to no clauses, and a
// product is never checked against itself.
func Evaluate(products []ProductInfo, timeOfDay TimeOfDay, lookup RuleLookup) Report {
	report := Report{
		Avoid:   []Conflict{},
		UseWith: []Advice{},
		UseWhen: []Advice{},
	}
	if len(products) == 0 {
		return report
	}

	names := make(map[uuid.UUID]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	// Per product, the union of clauses across all of its tags' rules.
	avoidBy := make(map[uuid.UUID][]Clause, len(products))
	useWithBy := make(map[uuid.UUID][]Clause, len(products))
	useWhenBy := make(map[uuid.UUID][]Clause, len(products))
	for _, p := range products {
		seen := map[clauseKey]bool{}
		for _, tag := range p.Tags {
			rs, ok := lookup.RuleForTag(tag)
			if !ok {
				continue
			}
			avoidBy[p.ID] = appendClauses(avoidBy[p.ID], rs.Avoid, seen, "avoid")
			useWithBy[p.ID] = appendClauses(useWithBy[p.ID], rs.UseWith, seen, "usewith")
			useWhenBy[p.ID] = appendClauses(useWhenBy[p.ID], rs.UseWhen, seen, "usewhen")
		}
	}

	for _, p := range products {
		// Every ordered pair (p, q) is scanned independently, so a rule that
		// matches in both directions produces both records.
		for _, q := range products {
			if q.ID == p.ID {
				continue
			}
			for _, tag := range q.Tags {
				for _, c := range avoidBy[p.ID] {
					if c.Tag == tag {
						report.Avoid = append(report.Avoid, Conflict{
							SourceID: p.ID,
							CompID:   q.ID,
							Source:   names[p.ID],
							Comp:     names[q.ID],
							Rule:     c,
						})
					}
				}
			}
		}

		// A pending usewith clause is satisfied once any co-product carries
		// its target tag. The survivors are computed with a removal mask over
		// an immutable pending list rather than deleting during iteration.
		pending := useWithBy[p.ID]
		removed := make([]bool, len(pending))
		for _, q := range products {
			if q.ID == p.ID {
				continue
			}
			for _, tag := range q.Tags {
				for i, c := range pending {
					if c.Tag == tag {
						removed[i] = true
					}
				}
			}
		}
		for i, c := range pending {
			if removed[i] {
				continue
			}
			report.UseWith = append(report.UseWith, Advice{
				SourceID: p.ID,
				Source:   names[p.ID],
				Tag:      c.Tag,
				Message:  c.Message,
			})
		}

		// A usewhen clause survives only when its time tag differs from the
		// queried time of day.
		for _, c := range useWhenBy[p.ID] {
			if strings.EqualFold(c.Tag, string(timeOfDay)) {
				continue
			}
			report.UseWhen = append(report.UseWhen, Advice{
				SourceID: p.ID,
				Source:   names[p.ID],
				Tag:      c.Tag,
				Message:  c.Message,
			})
		}
	}

	return report
}

type clauseKey struct {
	kind   string
	clause Clause
}

func appendClauses(dst []Clause, src []Clause, seen map[clauseKey]bool, kind string) []Clause {
	for _, c := range src {
		key := clauseKey{kind: kind, clause: c}
		if seen[key] {
			continue
		}
		seen[key] = true
		dst = append(dst, c)
	}
	return dst
}
