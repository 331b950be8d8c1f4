package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeResolver map[string][]string

func (f fakeResolver) CategoriesFor(ingredient string) []string {
	return f[Normalize(ingredient)]
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "hyaluronicacid", Normalize("Hyaluronic Acid"))
	assert.Equal(t, "retinol", Normalize("retinol"))
	assert.Equal(t, "coppertripeptide-1", Normalize(" Copper Tripeptide-1 "))
}

func TestDeriveTags(t *testing.T) {
	resolver := fakeResolver{
		"retinol":           {"retinol"},
		"ascorbicacid":      {"vitamin_c"},
		"sodiumhyaluronate": {"hyaluronic_acid"},
		"hyaluronicacid":    {"hyaluronic_acid"},
	}

	tags := DeriveTags([]string{"Retinol", "Ascorbic Acid", "Sodium Hyaluronate", "Hyaluronic Acid", "Aqua"}, resolver)

	assert.Equal(t, []string{"retinol", "vitamin_c", "hyaluronic_acid"}, tags)
}

func TestDeriveTagsEmptyIngredients(t *testing.T) {
	tags := DeriveTags(nil, fakeResolver{})
	assert.NotNil(t, tags)
	assert.Empty(t, tags)
}
