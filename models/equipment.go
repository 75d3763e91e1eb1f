package models

import "gorm.io/gorm"

// Equipment categories as reported by the catalog and the scan pipeline.
const (
	CategoryFreeWeights = "free_weights"
	CategoryMachines    = "machines"
	CategoryCable       = "cable"
	CategoryCardio      = "cardio"
	CategoryBodyweight  = "bodyweight"
	CategoryOther       = "other"
)

type Equipment struct {
	gorm.Model
	Name     string `gorm:"not null"`
	Category string `gorm:"not null;default:other"`
}

// UserEquipment links a user to a piece of equipment they own or can access,
// optionally at a specific gym. One row per (user, equipment) pair.
type UserEquipment struct {
	gorm.Model
	UserID      uint `gorm:"not null;uniqueIndex:idx_user_equipment"`
	EquipmentID uint `gorm:"not null;uniqueIndex:idx_user_equipment"`
	GymID       *uint

	Equipment Equipment
}
