package models

import (
	"time"

	"gorm.io/gorm"
)

// WorkoutProgress records completion of one exercise on one date. The natural
// key (user, exercise, workout date) is unique; writes go through an upsert.
type WorkoutProgress struct {
	gorm.Model
	UserID      uint      `gorm:"not null;uniqueIndex:idx_user_exercise_date"`
	ExerciseID  uint      `gorm:"not null;uniqueIndex:idx_user_exercise_date"`
	WorkoutDate time.Time `gorm:"not null;uniqueIndex:idx_user_exercise_date"`

	WorkoutPlanID uint
	DayIndex      int
	WeekNumber    int
	Completed     bool
	CompletedAt   *time.Time
}
