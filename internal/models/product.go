package models

import "github.com/lib/pq"

// Product is a skincare product created on first reference by any user.
// Ingredients keep their listing order; Tags are derived once at creation from
// the ingredient-category map and never recomputed.
type Product struct {
	BaseModel
	Brand       string         `json:"brand"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	SourceURL   string         `gorm:"uniqueIndex" json:"source_url"`
	ImageURL    string         `json:"image"`
	Ingredients pq.StringArray `gorm:"type:text[]" json:"ingredients"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
}
