package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`
	Name     string

	Age                int
	Height             float64 // cm
	Weight             float64 // kg
	Unit               string  // "metric" | "imperial"
	ExperienceLevel    string  // "beginner" | "intermediate" | "advanced"
	FitnessGoal        string  // "strength" | "muscle_gain" | "fat_loss"
	WorkoutDaysPerWeek int
	SessionDuration    int // minutes
	ProfilePicture     string

	SelectedGymID *uint
	SelectedGym   *Gym

	MFAEnabled    bool
	MFACode       string
	ResetToken    string
	ResetTokenExp time.Time
}
