package models

import "gorm.io/gorm"

type Exercise struct {
	gorm.Model
	Name        string `gorm:"not null"`
	MuscleGroup string // comma-delimited, e.g. "Chest, Triceps, Shoulders"
	Category    string // "compound" | "isolation" | "machine" | "bodyweight"
	Difficulty  string // "beginner" | "intermediate" | "advanced"

	ExerciseEquipment []ExerciseEquipment
}

// ExerciseEquipment joins exercises to the equipment they use. IsPrimary marks
// gear that is mandatory for the movement rather than an optional variation.
type ExerciseEquipment struct {
	gorm.Model
	ExerciseID  uint `gorm:"not null;index"`
	EquipmentID uint `gorm:"not null"`
	IsPrimary   bool

	Equipment Equipment
}
