package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	ServerPort string

	JWTSecret     string
	SessionSecret string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	ClientOrigin       string
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	cfg := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "teamtrack_user"),
		DBPassword: getEnv("DB_PASSWORD", "teamtrack_pass"),
		DBName:     getEnv("DB_NAME", "teamtrack_db"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionSecret: os.Getenv("SESSION_SECRET"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),
		ClientOrigin:       getEnv("CLIENT_ORIGIN", "http://localhost:3000"),
	}

	// Secrets have no defaults. Refuse to start without them.
	required := map[string]string{
		"JWT_SECRET":           cfg.JWTSecret,
		"SESSION_SECRET":       cfg.SessionSecret,
		"GOOGLE_CLIENT_ID":     cfg.GoogleClientID,
		"GOOGLE_CLIENT_SECRET": cfg.GoogleClientSecret,
	}
	for name, value := range required {
		if value == "" {
			log.Fatalf("❌ Missing required environment variable: %s", name)
		}
	}

	return cfg
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
