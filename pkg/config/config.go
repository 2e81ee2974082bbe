package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Auth     AuthConfig
	Store    StoreConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	TimeZone string
	LogLevel string // silent, error, warn, info
}

// AppConfig holds HTTP server configuration
type AppConfig struct {
	Name        string
	Environment string
	Port        string
	CORSOrigins string
}

// AuthConfig holds back-office authentication settings
type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
}

// StoreConfig holds business settings of the two branches
type StoreConfig struct {
	WhatsAppOutlet      string
	WhatsAppSupercentro string
	OrdersPageSize      int
	LowStockThreshold   int
	Location            *time.Location
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// .env es opcional en producción
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	cfg := &Config{
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "dulceria"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			TimeZone: getEnv("DB_TIMEZONE", "America/Bogota"),
			LogLevel: strings.ToLower(getEnv("DB_LOG_LEVEL", "warn")),
		},
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Dulcería API v1.0"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("PORT", "3000"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
			AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		},
		Store: StoreConfig{
			WhatsAppOutlet:      getEnv("WHATSAPP_OUTLET", ""),
			WhatsAppSupercentro: getEnv("WHATSAPP_SUPERCENTRO", ""),
		},
	}

	ttlHours, err := getEnvInt("JWT_TTL_HOURS", 24)
	if err != nil {
		return nil, err
	}
	if ttlHours <= 0 {
		return nil, fmt.Errorf("JWT_TTL_HOURS must be positive, got %d", ttlHours)
	}
	cfg.Auth.TokenTTL = time.Duration(ttlHours) * time.Hour

	if cfg.Store.OrdersPageSize, err = getEnvInt("ORDERS_PAGE_SIZE", 20); err != nil {
		return nil, err
	}
	if cfg.Store.LowStockThreshold, err = getEnvInt("LOW_STOCK_THRESHOLD", 5); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Database.TimeZone)
	if err != nil {
		// Colombia no tiene horario de verano, UTC-5 fijo es equivalente
		log.Printf("Warning: timezone %q unavailable, using UTC-5: %v", cfg.Database.TimeZone, err)
		loc = time.FixedZone("COT", -5*60*60)
	}
	cfg.Store.Location = loc

	if cfg.Auth.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("JWT_SECRET is required when APP_ENV=production")
		}
		log.Println("Warning: JWT_SECRET not set, using development secret")
		cfg.Auth.JWTSecret = "dev-secret-change-in-production"
	}

	return cfg, nil
}

// IsProduction reports whether the app runs with APP_ENV=production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Environment, "production")
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode, c.TimeZone)
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
