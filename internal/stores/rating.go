package stores

import (
	"errors"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/glowcheck/internal/models"
)

// RatingStatus reports which submit path a rating took.
type RatingStatus string

const (
	RatingNew     RatingStatus = "new"
	RatingUpdated RatingStatus = "updated"
)

// RatingStore maintains per-user ratings and the community aggregates they
// roll up into.
type RatingStore struct {
	db *gorm.DB
}

// NewRatingStore constructs RatingStore.
func NewRatingStore(db *gorm.DB) *RatingStore {
	return &RatingStore{db: db}
}

// RatingSummary is one skin-type bucket of a product's community rating.
type RatingSummary struct {
	TotalRating   int     `json:"totalRating"`
	RatingCount   int     `json:"ratingCount"`
	AverageRating float64 `json:"averageRating"`
}

// SubmitRating records a user's rating for a product within their skin-type
// bucket. A first-time rating increments the bucket count; a resubmission
// replaces the previous contribution, leaving the count unchanged. Returns
// which case occurred and the bucket's new average.
func (s *RatingStore) SubmitRating(productID uuid.UUID, skinType models.SkinType, userID uuid.UUID, rating int) (RatingStatus, float64, error) {
	var (
		status  RatingStatus
		average float64
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		status, average, txErr = submitRatingTx(tx, productID, skinType, userID, rating)
		return txErr
	})
	if err != nil {
		return "", 0, err
	}
	return status, average, nil
}

// GetCommunityRatings returns every skin-type bucket for a product. A product
// with no ratings yields an empty map, never an error.
func (s *RatingStore) GetCommunityRatings(productID uuid.UUID) (map[models.SkinType]RatingSummary, error) {
	var aggregates []models.CommunityRating
	if err := s.db.Where("product_id = ?", productID).Find(&aggregates).Error; err != nil {
		return nil, err
	}

	summaries := make(map[models.SkinType]RatingSummary, len(aggregates))
	for _, agg := range aggregates {
		summaries[agg.SkinType] = RatingSummary{
			TotalRating:   agg.TotalRating,
			RatingCount:   agg.RatingCount,
			AverageRating: agg.AverageRating,
		}
	}
	return summaries, nil
}

// submitRatingTx runs the rating state machine inside the caller's
// transaction so routine-level and community-level writes commit together.
func submitRatingTx(tx *gorm.DB, productID uuid.UUID, skinType models.SkinType, userID uuid.UUID, rating int) (RatingStatus, float64, error) {
	var prior models.UserRating
	err := lockForUpdate(tx).Where("user_id = ? AND product_id = ?", userID, productID).First(&prior).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry := models.UserRating{
			UserID:    userID,
			ProductID: productID,
			SkinType:  skinType,
			Rating:    rating,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return "", 0, err
		}
		average, err := adjustAggregate(tx, productID, skinType, rating, 0, 1)
		if err != nil {
			return "", 0, err
		}
		return RatingNew, average, nil

	case err != nil:
		return "", 0, err
	}

	if prior.SkinType != skinType {
		// The user's skin type changed since the prior rating; move the
		// contribution to the new bucket.
		if _, err := adjustAggregate(tx, productID, prior.SkinType, 0, prior.Rating, -1); err != nil {
			return "", 0, err
		}
		if err := tx.Model(&prior).Updates(map[string]interface{}{"rating": rating, "skin_type": skinType}).Error; err != nil {
			return "", 0, err
		}
		average, err := adjustAggregate(tx, productID, skinType, rating, 0, 1)
		if err != nil {
			return "", 0, err
		}
		return RatingUpdated, average, nil
	}

	if err := tx.Model(&prior).Update("rating", rating).Error; err != nil {
		return "", 0, err
	}
	average, err := adjustAggregate(tx, productID, skinType, rating, prior.Rating, 0)
	if err != nil {
		return "", 0, err
	}
	return RatingUpdated, average, nil
}

// adjustAggregate applies (add - subtract) to a bucket's total and countDelta
// to its count, then recomputes the stored average. The bucket row is locked
// for the duration of the transaction so concurrent submissions serialize.
func adjustAggregate(tx *gorm.DB, productID uuid.UUID, skinType models.SkinType, add, subtract, countDelta int) (float64, error) {
	var agg models.CommunityRating
	err := lockForUpdate(tx).Where("product_id = ? AND skin_type = ?", productID, skinType).First(&agg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		agg = models.CommunityRating{ProductID: productID, SkinType: skinType}
	} else if err != nil {
		return 0, err
	}

	agg.TotalRating += add - subtract
	agg.RatingCount += countDelta
	agg.AverageRating = roundAverage(agg.TotalRating, agg.RatingCount)

	if err := tx.Save(&agg).Error; err != nil {
		return 0, err
	}
	return agg.AverageRating, nil
}

// lockForUpdate adds SELECT ... FOR UPDATE on dialects that support it.
// SQLite serializes writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func roundAverage(total, count int) float64 {
	if count <= 0 {
		return 0
	}
	return math.Round(float64(total)/float64(count)*100) / 100
}
