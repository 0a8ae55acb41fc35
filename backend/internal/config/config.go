package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Server
	Port        string
	FrontendURL string
	StaticDir   string

	// Assets
	AssetManifest string

	// Game Settings
	TargetTPS     int
	SettleDelayMs int
	ThrowPower    int

	// Telemetry
	TelemetryEnabled bool
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		StaticDir:   getEnv("STATIC_DIR", "./frontend/dist"),

		// Assets
		AssetManifest: getEnv("ASSET_MANIFEST", "./assets/manifest.json"),

		// Game Settings
		TargetTPS:     getEnvInt("TARGET_TPS", 20),
		SettleDelayMs: getEnvInt("SETTLE_DELAY_MS", 6000),
		ThrowPower:    getEnvInt("THROW_POWER", 100),

		// Telemetry
		TelemetryEnabled: getEnvBool("TELEMETRY_ENABLED", true),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
