package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Geocoding  GeocodingConfig
	Email      EmailConfig
	Cloudinary CloudinaryConfig
	Settlement SettlementConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type DatabaseConfig struct {
	URL string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type GeocodingConfig struct {
	NominatimURL string
	CountryCode  string
}

type EmailConfig struct {
	ResendAPIKey string
	FromAddress  string
	AppURL       string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// SettlementConfig points at the external payment processor's release
// endpoint. The server only emits the release signal; capture and ledgers
// live on the other side of this URL.
type SettlementConfig struct {
	WebhookURL string
}

var AppConfig *Config

func Load() {
	AppConfig = &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DB_URL", ""),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "change-this-in-production"),
			ExpiryHours: getEnvAsInt("JWT_EXPIRY_HOURS", 24),
		},
		Geocoding: GeocodingConfig{
			NominatimURL: getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org/search"),
			CountryCode:  getEnv("GEOCODING_COUNTRY", "ca"),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			FromAddress:  getEnv("FROM_EMAIL", "ChaletProp <notifications@chaletprop.com>"),
			AppURL:       getEnv("APP_URL", "https://chaletprop.com"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		},
		Settlement: SettlementConfig{
			WebhookURL: getEnv("SETTLEMENT_WEBHOOK_URL", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
