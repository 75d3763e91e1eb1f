package services

import (
	"context"
	"fmt"

	"fitplan/models"
	"fitplan/utils"

	"gorm.io/gorm"
)

type ProfileInput struct {
	Name               string  `json:"name"`
	Age                int     `json:"age"`
	Height             float64 `json:"height"`
	Weight             float64 `json:"weight"`
	Unit               string  `json:"unit" binding:"omitempty,oneof=metric imperial"`
	ExperienceLevel    string  `json:"experience_level" binding:"omitempty,oneof=beginner intermediate advanced"`
	FitnessGoal        string  `json:"fitness_goal" binding:"omitempty,oneof=strength muscle_gain fat_loss"`
	WorkoutDaysPerWeek int     `json:"workout_days_per_week" binding:"omitempty,min=1,max=7"`
	SessionDuration    int     `json:"session_duration"`
	ProfilePicture     string  `json:"profile_picture"` // data URI, uploaded to S3
}

type UserService struct {
	db       *gorm.DB
	uploader *utils.S3Uploader // nil disables profile pictures
}

func NewUserService(db *gorm.DB, uploader *utils.S3Uploader) *UserService {
	return &UserService{db: db, uploader: uploader}
}

func (s *UserService) GetProfile(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("SelectedGym").First(&user, userID).Error; err != nil {
		return nil, utils.NewNotFound("User not found")
	}
	return &user, nil
}

// UpdateProfile applies the non-zero fields of input.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input ProfileInput) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, utils.NewNotFound("User not found")
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Age > 0 {
		user.Age = input.Age
	}
	if input.Height > 0 {
		user.Height = input.Height
	}
	if input.Weight > 0 {
		user.Weight = input.Weight
	}
	if input.Unit != "" {
		user.Unit = input.Unit
	}
	if input.ExperienceLevel != "" {
		user.ExperienceLevel = input.ExperienceLevel
	}
	if input.FitnessGoal != "" {
		user.FitnessGoal = input.FitnessGoal
	}
	if input.WorkoutDaysPerWeek > 0 {
		user.WorkoutDaysPerWeek = input.WorkoutDaysPerWeek
	}
	if input.SessionDuration > 0 {
		user.SessionDuration = input.SessionDuration
	}
	if input.ProfilePicture != "" {
		if s.uploader == nil {
			return nil, utils.NewUpstreamError("Image storage not configured")
		}
		url, err := s.uploader.UploadBase64Image(ctx, input.ProfilePicture, "profile-pictures/"+user.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to upload image: %w", err)
		}
		user.ProfilePicture = url
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SelectGym sets the user's home gym.
func (s *UserService) SelectGym(userID, gymID uint) error {
	var gym models.Gym
	if err := s.db.First(&gym, gymID).Error; err != nil {
		return utils.NewNotFound("Gym not found")
	}
	return s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("selected_gym_id", gymID).Error
}
