package stores

import (
	"gorm.io/gorm"

	"github.com/example/glowcheck/internal/models"
	"github.com/example/glowcheck/internal/rules"
)

// IngredientStore resolves ingredient names to category tags from the
// read-only reference table.
type IngredientStore struct {
	db *gorm.DB
}

// NewIngredientStore constructs IngredientStore.
func NewIngredientStore(db *gorm.DB) *IngredientStore {
	return &IngredientStore{db: db}
}

// CategoriesFor returns the category tags for an ingredient name, or an empty
// set when the ingredient is unknown. Names are normalized before lookup.
func (s *IngredientStore) CategoriesFor(ingredient string) []string {
	var entry models.IngredientCategory
	if err := s.db.Where("ingredient = ?", rules.Normalize(ingredient)).First(&entry).Error; err != nil {
		return nil
	}
	return entry.Tags
}

// IngredientSnapshot is an in-memory copy of the ingredient-category map,
// keyed by normalized name. It implements rules.TagResolver.
type IngredientSnapshot map[string][]string

// Snapshot loads the whole reference table into memory.
func (s *IngredientStore) Snapshot() (IngredientSnapshot, error) {
	var entries []models.IngredientCategory
	if err := s.db.Find(&entries).Error; err != nil {
		return nil, err
	}
	snapshot := make(IngredientSnapshot, len(entries))
	for _, entry := range entries {
		snapshot[entry.Ingredient] = entry.Tags
	}
	return snapshot, nil
}

// CategoriesFor implements rules.TagResolver over the snapshot.
func (snap IngredientSnapshot) CategoriesFor(ingredient string) []string {
	return snap[rules.Normalize(ingredient)]
}
