package models

import (
	"github.com/google/uuid"

	"github.com/example/glowcheck/internal/rules"
)

// RoutineEntry is one product in a user's AM or PM routine. Entries are
// unique per (user, time of day, product); creation time defines routine
// order.
type RoutineEntry struct {
	BaseModel
	UserID    uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_routine_entry" json:"user_id"`
	TimeOfDay rules.TimeOfDay `gorm:"type:varchar(2);uniqueIndex:idx_routine_entry" json:"time_of_day"`
	ProductID uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_routine_entry" json:"product_id"`
	Product   *Product        `json:"product,omitempty"`
	Rating    int             `json:"rating"`
}
