package routes

import (
	"net/http"

	"fitplan/controllers"
	"fitplan/middlewares"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Controllers struct {
	Auth      *controllers.AuthController
	User      *controllers.UserController
	Gym       *controllers.GymController
	Equipment *controllers.EquipmentController
	Workout   *controllers.WorkoutController
}

func SetupRouter(db *gorm.DB, jwtSecret []byte, ctl Controllers) *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = 32 << 20

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	protect := middlewares.AuthMiddleware(db, jwtSecret)

	auth := r.Group("/auth")
	{
		auth.POST("/register", ctl.Auth.Register)
		auth.POST("/login", ctl.Auth.Login)
		auth.POST("/verify-mfa", ctl.Auth.VerifyMFA)
		auth.POST("/forgot-password", ctl.Auth.ForgotPassword)
		auth.POST("/reset-password", ctl.Auth.ResetPassword)
	}

	user := r.Group("/user")
	user.Use(protect)
	{
		user.GET("/profile", ctl.User.GetProfile)
		user.PUT("/profile", ctl.User.UpdateProfile)
		user.PUT("/gym", ctl.User.SelectGym)
	}

	gyms := r.Group("/gyms")
	gyms.Use(protect)
	{
		gyms.GET("/nearby", ctl.Gym.GetNearbyGyms)
		gyms.GET("/:id", ctl.Gym.GetGym)
	}

	equipment := r.Group("/equipment")
	{
		equipment.GET("", ctl.Equipment.GetAllEquipment)
		equipment.POST("/scan", protect, ctl.Equipment.ScanEquipment)
		equipment.GET("/user", protect, ctl.Equipment.GetUserEquipment)
		equipment.POST("/user", protect, ctl.Equipment.AddUserEquipment)
	}

	workout := r.Group("/workout-plans")
	workout.Use(protect)
	{
		workout.POST("/generate", ctl.Workout.GeneratePlan)
		workout.POST("/generate-ai", ctl.Workout.GenerateAIPlan)
		workout.GET("/current", ctl.Workout.GetCurrentPlan)
		workout.POST("/progress", ctl.Workout.MarkExerciseComplete)
		workout.GET("/progress/weekly", ctl.Workout.GetWeeklyProgress)
	}

	return r
}
