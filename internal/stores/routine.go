package stores

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/glowcheck/internal/models"
	"github.com/example/glowcheck/internal/rules"
)

// RoutineStore manages the per-user, per-time-of-day product sets.
type RoutineStore struct {
	db *gorm.DB
}

// NewRoutineStore constructs RoutineStore.
func NewRoutineStore(db *gorm.DB) *RoutineStore {
	return &RoutineStore{db: db}
}

// Add puts a product into the user's routine with a zero rating. Adding a
// product that is already present is a no-op; the return value reports
// whether a new entry was created.
func (s *RoutineStore) Add(userID uuid.UUID, timeOfDay rules.TimeOfDay, productID uuid.UUID) (bool, error) {
	var existing models.RoutineEntry
	err := s.db.Where("user_id = ? AND time_of_day = ? AND product_id = ?", userID, timeOfDay, productID).
		First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	entry := models.RoutineEntry{
		UserID:    userID,
		TimeOfDay: timeOfDay,
		ProductID: productID,
		Rating:    0,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes a routine entry. A missing entry is reported as
// gorm.ErrRecordNotFound.
func (s *RoutineStore) Remove(userID uuid.UUID, timeOfDay rules.TimeOfDay, productID uuid.UUID) error {
	result := s.db.Where("user_id = ? AND time_of_day = ? AND product_id = ?", userID, timeOfDay, productID).
		Delete(&models.RoutineEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns the user's routine entries in insertion order with products
// preloaded. An unknown user is reported as gorm.ErrRecordNotFound.
func (s *RoutineStore) List(userID uuid.UUID, timeOfDay rules.TimeOfDay) ([]models.RoutineEntry, error) {
	var user models.User
	if err := s.db.Select("id").First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	var entries []models.RoutineEntry
	if err := s.db.Preload("Product").
		Where("user_id = ? AND time_of_day = ?", userID, timeOfDay).
		Order("created_at asc").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// UpdateRating replaces the routine entry's rating and drives the community
// aggregate in the same transaction, so the two writes commit or roll back
// together. Returns the community submit status and the bucket's new average.
func (s *RoutineStore) UpdateRating(userID uuid.UUID, timeOfDay rules.TimeOfDay, productID uuid.UUID, rating int, skinType models.SkinType) (RatingStatus, float64, error) {
	var (
		status  RatingStatus
		average float64
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.RoutineEntry{}).
			Where("user_id = ? AND time_of_day = ? AND product_id = ?", userID, timeOfDay, productID).
			Update("rating", rating)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var txErr error
		status, average, txErr = submitRatingTx(tx, productID, skinType, userID, rating)
		return txErr
	})
	if err != nil {
		return "", 0, err
	}
	return status, average, nil
}
