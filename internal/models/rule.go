package models

import (
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// IngredientCategory maps a normalized ingredient name to its category tags.
// Read-only reference data, loaded by the database seeder.
type IngredientCategory struct {
	BaseModel
	Ingredient string         `gorm:"uniqueIndex" json:"ingredient"`
	Tags       pq.StringArray `gorm:"type:text[]" json:"tags"`
}

// Rule stores the guidance attached to one category tag. The three clause
// lists are JSON arrays of {tag, message} objects.
type Rule struct {
	BaseModel
	Tag     string         `gorm:"uniqueIndex" json:"tag"`
	Avoid   datatypes.JSON `json:"avoid"`
	UseWith datatypes.JSON `json:"usewith"`
	UseWhen datatypes.JSON `json:"usewhen"`
}
