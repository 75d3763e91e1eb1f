package models

import "gorm.io/gorm"

type WorkoutPlan struct {
	gorm.Model
	UserID    uint   `gorm:"index;not null"`
	SplitType string `gorm:"not null"`
	IsActive  bool   `gorm:"default:true"`

	Days []PlanDay
}

type PlanDay struct {
	gorm.Model
	WorkoutPlanID uint   `gorm:"index;not null"`
	DayNumber     int    `gorm:"not null"` // 1-based position in the week
	DayName       string `gorm:"not null"`
	Focus         string // comma-delimited muscle groups
	IsRestDay     bool

	Exercises []PlanExercise
}

type PlanExercise struct {
	gorm.Model
	PlanDayID  uint `gorm:"index;not null"`
	ExerciseID uint `gorm:"not null"`
	OrderIndex int  // dense, 0-based within the day
	Sets       int
	Reps       string // allows ranges like "8-12"

	Exercise Exercise
}
