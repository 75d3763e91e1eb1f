package main

import (
	"context"
	"log"
	"math/rand"
	"time"

	"fitplan/config"
	"fitplan/controllers"
	"fitplan/routes"
	"fitplan/services"
	"fitplan/utils"
)

func main() {
	cfg := config.Load()
	db := config.ConnectDB(cfg)

	if err := config.Seed(db); err != nil {
		log.Fatalf("catalog seeding failed: %v", err)
	}

	ctx := context.Background()

	var uploader *utils.S3Uploader
	if cfg.S3Bucket != "" {
		var err error
		uploader, err = utils.NewS3Uploader(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.CloudFrontURL)
		if err != nil {
			log.Fatalf("S3 init failed: %v", err)
		}
	}

	var mailer *utils.Mailer
	if cfg.SESEmail != "" {
		var err error
		mailer, err = utils.NewMailer(ctx, cfg.AWSRegion, cfg.SESEmail)
		if err != nil {
			log.Fatalf("SES init failed: %v", err)
		}
	}

	ai := services.NewAIService(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	secret := []byte(cfg.JWTSecret)

	ctl := routes.Controllers{
		Auth:      controllers.NewAuthController(services.NewAuthService(db, mailer, secret, rng)),
		User:      controllers.NewUserController(services.NewUserService(db, uploader)),
		Gym:       controllers.NewGymController(services.NewGymService(db)),
		Equipment: controllers.NewEquipmentController(services.NewEquipmentService(db, ai, uploader)),
		Workout:   controllers.NewWorkoutController(services.NewWorkoutService(db, ai, rng)),
	}

	r := routes.SetupRouter(db, secret, ctl)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
