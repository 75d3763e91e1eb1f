package controllers

import (
	"net/http"

	"fitplan/services"
	"fitplan/utils"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	svc *services.UserService
}

func NewUserController(svc *services.UserService) *UserController {
	return &UserController{svc: svc}
}

func (ctl *UserController) GetProfile(c *gin.Context) {
	userID := c.GetUint("userID")

	user, err := ctl.svc.GetProfile(userID)
	if err != nil {
		c.JSON(utils.StatusOf(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                    user.ID,
		"email":                 user.Email,
		"name":                  user.Name,
		"age":                   user.Age,
		"height":                user.Height,
		"weight":                user.Weight,
		"unit":                  user.Unit,
		"experience_level":      user.ExperienceLevel,
		"fitness_goal":          user.FitnessGoal,
		"workout_days_per_week": user.WorkoutDaysPerWeek,
		"session_duration":      user.SessionDuration,
		"profile_picture":       user.ProfilePicture,
		"selected_gym":          user.SelectedGym,
		"mfa_enabled":           user.MFAEnabled,
	})
}

func (ctl *UserController) UpdateProfile(c *gin.Context) {
	userID := c.GetUint("userID")

	var input services.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := ctl.svc.UpdateProfile(c.Request.Context(), userID, input); err != nil {
		c.JSON(utils.StatusOf(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "profile updated successfully"})
}

func (ctl *UserController) SelectGym(c *gin.Context) {
	userID := c.GetUint("userID")

	var input struct {
		GymID uint `json:"gym_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctl.svc.SelectGym(userID, input.GymID); err != nil {
		c.JSON(utils.StatusOf(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "gym selected"})
}
