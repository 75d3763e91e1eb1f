package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config gathers every environment setting read at startup. Handles built from
// it (DB pool, AI client, S3, SES) are constructed once in main and passed to
// the components that need them.
type Config struct {
	Port string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	JWTSecret string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	AWSRegion     string
	S3Bucket      string
	CloudFrontURL string
	SESEmail      string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := Config{
		Port:          getenv("PORT", "8080"),
		DBHost:        os.Getenv("DB_HOST"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		DBPort:        getenv("DB_PORT", "5432"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:   getenv("OPENAI_MODEL", "gpt-4o-mini"),
		AWSRegion:     os.Getenv("AWS_REGION"),
		S3Bucket:      os.Getenv("S3_BUCKET"),
		CloudFrontURL: os.Getenv("CLOUDFRONT_URL"),
		SESEmail:      os.Getenv("SES_EMAIL"),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
