package config

import (
	"fmt"
	"log"

	"fitplan/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectDB(cfg Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Gym{},
		&models.Equipment{},
		&models.UserEquipment{},
		&models.Exercise{},
		&models.ExerciseEquipment{},
		&models.WorkoutPlan{},
		&models.PlanDay{},
		&models.PlanExercise{},
		&models.WorkoutProgress{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	return db
}
