package stores

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/glowcheck/internal/database"
	"github.com/example/glowcheck/internal/models"
)

func TestProductFindOrCreateDerivesTagsOnce(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, database.Seed(db))

	store := NewProductStore(db, NewIngredientStore(db))

	input := NewProduct{
		Brand:       "Acme",
		Name:        "Renewal Serum",
		SourceURL:   "https://incidecoder.com/products/renewal-serum",
		Ingredients: []string{"Aqua", "Retinol", "Sodium Hyaluronate"},
	}

	product, created, err := store.FindOrCreate(input)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, []string{"retinol", "hyaluronic_acid"}, []string(product.Tags))

	again, created, err := store.FindOrCreate(input)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, product.ID, again.ID)
}

func TestIngredientCategoriesForNormalizesNames(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, database.Seed(db))

	store := NewIngredientStore(db)

	assert.Equal(t, []string{"vitamin_c"}, []string(store.CategoriesFor("Ascorbic Acid")))
	assert.Empty(t, store.CategoriesFor("Aqua"))
}

func TestIngredientSnapshotServesLookups(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, database.Seed(db))

	snapshot, err := NewIngredientStore(db).Snapshot()
	require.NoError(t, err)

	assert.Equal(t, []string{"bha"}, snapshot.CategoriesFor("Salicylic Acid"))
	assert.Empty(t, snapshot.CategoriesFor("Aqua"))
}

func TestRuleStoreDecodesSeededRules(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, database.Seed(db))

	store := NewRuleStore(db)

	rs, ok := store.RuleForTag("retinol")
	require.True(t, ok)
	assert.NotEmpty(t, rs.Avoid)
	assert.NotEmpty(t, rs.UseWith)
	require.Len(t, rs.UseWhen, 1)
	assert.Equal(t, "PM", rs.UseWhen[0].Tag)

	_, ok = store.RuleForTag("hyaluronic_acid")
	assert.False(t, ok)

	snapshot, err := store.Snapshot()
	require.NoError(t, err)
	fromSnapshot, ok := snapshot.RuleForTag("retinol")
	require.True(t, ok)
	assert.Equal(t, rs, fromSnapshot)
}

func TestSeedIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, database.Seed(db))
	require.NoError(t, database.Seed(db))

	var ingredients, rules int64
	require.NoError(t, db.Model(&models.IngredientCategory{}).Count(&ingredients).Error)
	require.NoError(t, db.Model(&models.Rule{}).Count(&rules).Error)

	var again models.IngredientCategory
	require.NoError(t, db.Where("ingredient = ?", "retinol").First(&again).Error)

	assert.Equal(t, int64(19), ingredients)
	assert.Equal(t, int64(8), rules)
}
