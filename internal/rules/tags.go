package rules

import "strings"

// TagResolver maps an ingredient name to zero or more category tags. Unknown
// ingredients resolve to an empty set, never an error.
type TagResolver interface {
	CategoriesFor(ingredient string) []string
}

// Normalize canonicalizes an ingredient name for lookup: lowercased with
// spaces removed.
func Normalize(ingredient string) string {
	return strings.ReplaceAll(strings.ToLower(ingredient), " ", "")
}

// DeriveTags computes a product's category tag set from its ingredient list.
// Tags are deduplicated and keep first-seen order. Called once at product
// creation; tags are immutable afterwards.
func DeriveTags(ingredients []string, resolver TagResolver) []string {
	seen := map[string]bool{}
	tags := []string{}
	for _, ingredient := range ingredients {
		for _, tag := range resolver.CategoriesFor(ingredient) {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}
