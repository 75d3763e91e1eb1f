package config

import (
	"log"

	"fitplan/models"

	"gorm.io/gorm"
)

type seedExercise struct {
	name        string
	muscleGroup string
	category    string
	difficulty  string
	equipment   []string
}

// Seed populates the gym, equipment and exercise catalogs when empty. Safe to
// run on every startup.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Equipment{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("Seeding catalog...")

	gyms := []models.Gym{
		{Name: "Gold's Gym Venice", Address: "360 Hampton Dr, Venice, CA", Latitude: 33.99, Longitude: -118.47},
		{Name: "Planet Fitness", Address: "123 Main St", Latitude: 34.05, Longitude: -118.25},
	}
	if err := db.Create(&gyms).Error; err != nil {
		return err
	}

	equipment := []models.Equipment{
		{Name: "Barbell", Category: models.CategoryFreeWeights},
		{Name: "Dumbbells", Category: models.CategoryFreeWeights},
		{Name: "Bench Press", Category: models.CategoryFreeWeights},
		{Name: "Squat Rack", Category: models.CategoryFreeWeights},
		{Name: "Cable Machine", Category: models.CategoryCable},
		{Name: "Leg Press", Category: models.CategoryMachines},
		{Name: "Treadmill", Category: models.CategoryCardio},
		{Name: "Pull-up Bar", Category: models.CategoryBodyweight},
	}
	if err := db.Create(&equipment).Error; err != nil {
		return err
	}

	byName := make(map[string]uint, len(equipment))
	for _, eq := range equipment {
		byName[eq.Name] = eq.ID
	}

	exercises := []seedExercise{
		{"Barbell Squat", "Legs, Quads, Glutes", "compound", "intermediate", []string{"Barbell", "Squat Rack"}},
		{"Bench Press", "Chest, Triceps, Shoulders", "compound", "intermediate", []string{"Barbell", "Bench Press"}},
		{"Dumbbell Curl", "Biceps", "isolation", "beginner", []string{"Dumbbells"}},
		{"Cable Fly", "Chest", "isolation", "intermediate", []string{"Cable Machine"}},
		{"Leg Press", "Legs, Quads", "machine", "beginner", []string{"Leg Press"}},
		{"Push-up", "Chest, Triceps", "bodyweight", "beginner", nil},
	}

	for _, se := range exercises {
		ex := models.Exercise{
			Name:        se.name,
			MuscleGroup: se.muscleGroup,
			Category:    se.category,
			Difficulty:  se.difficulty,
		}
		if err := db.Create(&ex).Error; err != nil {
			return err
		}
		for _, eqName := range se.equipment {
			eqID, ok := byName[eqName]
			if !ok {
				continue
			}
			link := models.ExerciseEquipment{
				ExerciseID:  ex.ID,
				EquipmentID: eqID,
				IsPrimary:   true,
			}
			if err := db.Create(&link).Error; err != nil {
				return err
			}
		}
	}

	log.Println("Seeding finished.")
	return nil
}
