package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"skillbook/internal/core/authz"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	Security SecurityConfig
	Redis    RedisConfig
	MinIO    MinIOConfig
	RabbitMQ RabbitMQConfig
	Reminder ReminderConfig
	Admin    AdminConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string // postgres, mysql or memory
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret          string
	AccessTokenMins int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// SecurityConfig holds the access policy and credential settings
type SecurityConfig struct {
	Profile          authz.Profile
	AllowAdminSignup bool
	BcryptCost       int
}

// RedisConfig holds the session store configuration. Sessions are disabled when Addr is empty.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	SessionTTL int // minutes
}

// MinIOConfig holds object storage configuration. Photos go to the database when Endpoint is empty.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// RabbitMQConfig holds the event broker configuration. Events are only logged when URL is empty.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// ReminderConfig holds the course reminder job configuration
type ReminderConfig struct {
	Enabled bool
	Spec    string
	Window  int // hours
}

// AdminConfig holds the credentials used by seed-admin
type AdminConfig struct {
	Username string
	Password string
	Email    string
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only
func FromEnv() (*Config, error) {
	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	security, err := loadSecurityConfig(appMode)
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "8080"),
		Database: loadDatabaseConfig(appMode),
		JWT:      loadJWTConfig(appMode),
		Cookie:   loadCookieConfig(appMode),
		Security: security,
		Redis:    loadRedisConfig(appMode),
		MinIO:    loadMinIOConfig(),
		RabbitMQ: loadRabbitMQConfig(),
		Reminder: loadReminderConfig(),
		Admin:    loadAdminConfig(),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	log.Printf("✅ Configuration loaded successfully [MODE: %s, DB: %s, PROFILE: %s]",
		appMode, config.Database.Driver, config.Security.Profile)
	return config, nil
}

// Validate checks values that would otherwise fail late at startup
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql", "memory":
	default:
		return fmt.Errorf("invalid DB_DRIVER: '%s' (must be 'postgres', 'mysql' or 'memory')", c.Database.Driver)
	}
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return fmt.Errorf("JWT secret is empty")
	}
	if c.IsProd() && c.JWT.Secret == defaultJWTSecret {
		return fmt.Errorf("PROD_JWT_SECRET must be set in production")
	}
	if c.MinIO.Endpoint != "" && c.MinIO.Bucket == "" {
		return fmt.Errorf("MINIO_BUCKET is required when MINIO_ENDPOINT is set")
	}
	return nil
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)
	driver := strings.ToLower(getEnv("DB_DRIVER", "postgres"))

	defaultPort := "5432"
	defaultUser := "postgres"
	if driver == "mysql" {
		defaultPort = "3306"
		defaultUser = "root"
	}

	return DatabaseConfig{
		Driver:   driver,
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", defaultPort),
		User:     getEnv(prefix+"DB_USER", defaultUser),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "skillbook"),
		SSLMode:  getEnv(prefix+"DB_SSLMODE", "disable"),
	}
}

const defaultJWTSecret = "default_secret"

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := modePrefix(mode)

	return JWTConfig{
		Secret:          getEnv(prefix+"JWT_SECRET", defaultJWTSecret),
		AccessTokenMins: getEnvInt("JWT_TTL_MINUTES", 30),
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := modePrefix(mode)

	return CookieConfig{
		Secure:   getEnvBool(prefix+"COOKIE_SECURE", false),
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func loadSecurityConfig(mode string) (SecurityConfig, error) {
	profile, err := authz.ParseProfile(getEnv("SECURITY_PROFILE", string(authz.ProfileStrict)))
	if err != nil {
		return SecurityConfig{}, err
	}

	return SecurityConfig{
		Profile:          profile,
		AllowAdminSignup: getEnvBool("ALLOW_ADMIN_SIGNUP", mode == "dev"),
		BcryptCost:       getEnvInt("BCRYPT_COST", 12),
	}, nil
}

func loadRedisConfig(mode string) RedisConfig {
	prefix := modePrefix(mode)

	return RedisConfig{
		Addr:       getEnv(prefix+"REDIS_ADDR", ""),
		Password:   getEnv(prefix+"REDIS_PASSWORD", ""),
		DB:         getEnvInt("REDIS_DB", 0),
		SessionTTL: getEnvInt("SESSION_TTL_MINUTES", 30),
	}
}

func loadMinIOConfig() MinIOConfig {
	return MinIOConfig{
		Endpoint:  getEnv("MINIO_ENDPOINT", ""),
		AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		SecretKey: getEnv("MINIO_SECRET_KEY", ""),
		Bucket:    getEnv("MINIO_BUCKET", "skillbook-photos"),
		UseSSL:    getEnvBool("MINIO_USE_SSL", false),
	}
}

func loadRabbitMQConfig() RabbitMQConfig {
	return RabbitMQConfig{
		URL:      getEnv("RABBITMQ_URL", ""),
		Exchange: getEnv("RABBITMQ_EXCHANGE", "skillbook.events"),
	}
}

func loadReminderConfig() ReminderConfig {
	return ReminderConfig{
		Enabled: getEnvBool("REMINDER_ENABLED", true),
		Spec:    getEnv("REMINDER_CRON", "0 8 * * *"),
		Window:  getEnvInt("REMINDER_WINDOW_HOURS", 24),
	}
}

func loadAdminConfig() AdminConfig {
	return AdminConfig{
		Username: getEnv("ADMIN_USERNAME", ""),
		Password: getEnv("ADMIN_PASSWORD", ""),
		Email:    getEnv("ADMIN_EMAIL", "admin@skillbook.local"),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// SessionsEnabled reports whether a Redis session store is configured
func (c *Config) SessionsEnabled() bool {
	return c.Redis.Addr != ""
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://skillbook.example.com"
	}
	return origins
}
