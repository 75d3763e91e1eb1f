package controllers

import (
	"log"
	"net/http"
	"time"

	"fitplan/services"
	"fitplan/utils"

	"github.com/gin-gonic/gin"
)

type WorkoutController struct {
	svc *services.WorkoutService
}

func NewWorkoutController(svc *services.WorkoutService) *WorkoutController {
	return &WorkoutController{svc: svc}
}

type GeneratePlanInput struct {
	SplitType    string `json:"split_type" binding:"required,oneof=ppl upper_lower full_body bro_split"`
	EquipmentIDs []uint `json:"equipment_ids"`
}

func (ctl *WorkoutController) GeneratePlan(c *gin.Context) {
	userID := c.GetUint("userID")

	var input GeneratePlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.Printf("Generating workout plan for user %d with split %s", userID, input.SplitType)

	plan, err := ctl.svc.GeneratePlan(userID, input.SplitType, input.EquipmentIDs)
	if err != nil {
		c.JSON(utils.StatusOf(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"plan": plan})
}

func (ctl *WorkoutController) GenerateAIPlan(c *gin.Context) {
	userID := c.GetUint("userID")

	var input struct {
		SplitType string `json:"split_type" binding:"required,oneof=ppl upper_lower full_body bro_split"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := ctl.svc.GenerateAIPlan(c.Request.Context(), userID, input.SplitType)
	if err != nil {
		c.JSON(utils.StatusOf(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"plan": plan})
}

func (ctl *WorkoutController) GetCurrentPlan(c *gin.Context) {
	userID := c.GetUint("userID")

	plan, err := ctl.svc.GetCurrentPlan(userID)
	if err != nil {
		c.JSON(utils.StatusOf(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

func (ctl *WorkoutController) MarkExerciseComplete(c *gin.Context) {
	userID := c.GetUint("userID")

	var input services.ProgressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	progress, err := ctl.svc.MarkExerciseComplete(userID, input)
	if err != nil {
		c.JSON(utils.StatusOf(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": progress})
}

func (ctl *WorkoutController) GetWeeklyProgress(c *gin.Context) {
	userID := c.GetUint("userID")

	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide start and end dates"})
		return
	}

	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date"})
		return
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date"})
		return
	}

	progress, err := ctl.svc.GetWeeklyProgress(userID, startDate, endDate)
	if err != nil {
		c.JSON(utils.StatusOf(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": progress})
}
