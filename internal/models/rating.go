package models

import "github.com/google/uuid"

// UserRating is a user's current rating for a product. Exactly one row per
// (user, product); resubmissions replace it instead of accumulating.
type UserRating struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_product_rating" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_product_rating" json:"product_id"`
	SkinType  SkinType  `json:"skin_type"`
	Rating    int       `json:"rating"`
}

// CommunityRating is the running aggregate for a product within one skin-type
// bucket. AverageRating is always round(total/count, 2) while count > 0.
type CommunityRating struct {
	BaseModel
	ProductID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_product_skin" json:"product_id"`
	SkinType      SkinType  `gorm:"uniqueIndex:idx_product_skin" json:"skin_type"`
	TotalRating   int       `json:"totalRating"`
	RatingCount   int       `json:"ratingCount"`
	AverageRating float64   `json:"averageRating"`
}
