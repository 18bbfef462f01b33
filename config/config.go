package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kraakman/autoservice-backend/pkg/util"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	CORS     CORSConfig
	S3       S3Config
	Redis    RedisConfig
	Google   GoogleConfig
	Mail     MailConfig
	Sync     SyncConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// GoogleConfig holds the Google Places settings for the review sync.
// PlaceID identifies the single dealership location whose reviews we cache.
type GoogleConfig struct {
	PlacesAPIKey string
	PlaceID      string
	BaseURL      string
	Language     string
}

type MailConfig struct {
	ResendAPIKey  string
	BaseURL       string
	From          string
	BusinessEmail string
}

type SyncConfig struct {
	Enabled  bool
	CronSpec string
}

// AdminConfig seeds the initial admin account when the users table is empty.
type AdminConfig struct {
	Email      string
	Password   string
	BcryptCost int
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "autoservice"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key"),
			AccessTokenExpiry:  parseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRY", "15m")),
			RefreshTokenExpiry: parseDuration(getEnv("JWT_REFRESH_TOKEN_EXPIRY", "168h")),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "eu-west-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "autoservice-car-images"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		Google: GoogleConfig{
			PlacesAPIKey: getEnv("GOOGLE_PLACES_API_KEY", ""),
			PlaceID:      getEnv("GOOGLE_PLACE_ID", "ChIJeT_9aSNMz0cR6jgTtpMDCqI"),
			BaseURL:      getEnv("GOOGLE_PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
			Language:     getEnv("GOOGLE_PLACES_LANGUAGE", "nl"),
		},
		Mail: MailConfig{
			ResendAPIKey:  getEnv("RESEND_API_KEY", ""),
			BaseURL:       getEnv("RESEND_BASE_URL", "https://api.resend.com"),
			From:          getEnv("MAIL_FROM", "Auto Service van der Waals <onboarding@resend.dev>"),
			BusinessEmail: getEnv("MAIL_BUSINESS_EMAIL", "info@autoservicevanderwaals.nl"),
		},
		Sync: SyncConfig{
			Enabled:  parseBool(getEnv("REVIEW_SYNC_ENABLED", "true")),
			CronSpec: getEnv("REVIEW_SYNC_CRON", "0 */6 * * *"),
		},
		Admin: AdminConfig{
			Email:      getEnv("ADMIN_EMAIL", ""),
			Password:   getEnv("ADMIN_PASSWORD", ""),
			BcryptCost: parseInt(getEnv("ADMIN_BCRYPT_COST", ""), util.DefaultBcryptCost),
		},
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default 15m", s)
		return 15 * time.Minute
	}
	return duration
}

func parseInt(s string, defaultValue int) int {
	value, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return value
}

func parseBool(s string) bool {
	value, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return value
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
