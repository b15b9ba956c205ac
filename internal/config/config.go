// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	JWTSecretKey string
	Environment  string

	// Configured demo account. There is no registration flow.
	DemoUsername string
	DemoPassword string

	// Leaf-disease inference endpoint. Leaving the URL unset disables the
	// predict endpoint instead of failing startup.
	ClassifierAPIURL  string
	ClassifierAPIKey  string
	ClassifierTimeout time.Duration
}

// Load reads configuration from environment variables or a .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		JWTSecretKey:      getEnv("JWT_SECRET_KEY", ""),
		Environment:       env,
		DemoUsername:      getEnv("DEMO_USERNAME", "farmer"),
		DemoPassword:      getEnv("DEMO_PASSWORD", "password123"),
		ClassifierAPIURL:  getEnv("CLASSIFIER_API_URL", ""),
		ClassifierAPIKey:  getEnv("CLASSIFIER_API_KEY", ""),
		ClassifierTimeout: time.Duration(getEnvAsInt("CLASSIFIER_TIMEOUT_SECONDS", 30)) * time.Second,
	}

	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.JWTSecretKey == "" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if cfg.DemoPassword == "" {
			missing = append(missing, "DEMO_PASSWORD")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}
	if cfg.JWTSecretKey == "" {
		// Development fallback only; production fails above.
		cfg.JWTSecretKey = "dev-only-secret"
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}
