package models

import "strings"

// SkinType is the fixed skin-type enumeration used for community ratings.
type SkinType string

const (
	SkinOily        SkinType = "oily"
	SkinDry         SkinType = "dry"
	SkinNormal      SkinType = "normal"
	SkinCombination SkinType = "combination"
	SkinSensitive   SkinType = "sensitive"
)

// SkinTypes lists every valid skin type.
var SkinTypes = []SkinType{SkinOily, SkinDry, SkinNormal, SkinCombination, SkinSensitive}

// ParseSkinType validates a raw skin-type value.
func ParseSkinType(value string) (SkinType, bool) {
	candidate := SkinType(strings.ToLower(strings.TrimSpace(value)))
	for _, st := range SkinTypes {
		if st == candidate {
			return st, true
		}
	}
	return "", false
}

// User represents an authenticated account holder.
type User struct {
	BaseModel
	Email          string         `gorm:"uniqueIndex" json:"email"`
	DisplayName    string         `json:"display_name"`
	PasswordHash   string         `json:"-"`
	SkinType       SkinType       `gorm:"default:normal" json:"skin_type"`
	RoutineEntries []RoutineEntry `json:"routine_entries,omitempty"`
}
