package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	ServerPort    string
	GinMode       string
	WebsiteDomain string
	CORSOrigins   string

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenLife    time.Duration
	RefreshTokenLife   time.Duration

	BrevoAPIKey       string
	AdminEmailAddress string
	AdminEmailName    string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "tasker_user"),
		DBPassword: getEnv("DB_PASSWORD", "tasker_pass"),
		DBName:     getEnv("DB_NAME", "tasker_db"),

		ServerPort:    getEnv("SERVER_PORT", "8017"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		WebsiteDomain: getEnv("WEBSITE_DOMAIN", "http://localhost:5173"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "http://localhost:5173"),

		AccessTokenSecret:  getEnv("ACCESS_TOKEN_SECRET_SIGNATURE", "access-token-secret"),
		RefreshTokenSecret: getEnv("REFRESH_TOKEN_SECRET_SIGNATURE", "refresh-token-secret"),
		AccessTokenLife:    getEnvDuration("ACCESS_TOKEN_LIFE", time.Hour),
		RefreshTokenLife:   getEnvDuration("REFRESH_TOKEN_LIFE", 14*24*time.Hour),

		BrevoAPIKey:       getEnv("BREVO_API_KEY", ""),
		AdminEmailAddress: getEnv("ADMIN_EMAIL_ADDRESS", "no-reply@tasker.dev"),
		AdminEmailName:    getEnv("ADMIN_EMAIL_NAME", "Tasker"),

		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3Region:    getEnv("S3_REGION", "eu-west-1"),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("⚠️  Invalid duration in %s, using default %v", key, defaultVal)
		return defaultVal
	}
	return d
}
