package controllers

import (
	"net/http"
	"strconv"

	"fitplan/services"
	"fitplan/utils"

	"github.com/gin-gonic/gin"
)

type GymController struct {
	svc *services.GymService
}

func NewGymController(svc *services.GymService) *GymController {
	return &GymController{svc: svc}
}

type NearbyQuery struct {
	Lat    float64  `form:"lat" binding:"required"`
	Lng    float64  `form:"lng" binding:"required"`
	Radius *float64 `form:"radius"`
}

func (ctl *GymController) GetNearbyGyms(c *gin.Context) {
	var query NearbyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	radius := 5000.0 // meters
	if query.Radius != nil {
		radius = *query.Radius
	}

	gyms, err := ctl.svc.GetNearbyGyms(query.Lat, query.Lng, radius)
	if err != nil {
		c.JSON(utils.StatusOf(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"gyms": gyms})
}

func (ctl *GymController) GetGym(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid gym id"})
		return
	}

	gym, err := ctl.svc.GetGym(uint(id))
	if err != nil {
		c.JSON(utils.StatusOf(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"gym": gym})
}
