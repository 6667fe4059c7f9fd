package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for our application
type Config struct {
	Port            string
	Origin          string
	Environment     string
	JWTSecret       string
	SessionHours    int
	Database        DatabaseConfig
	Mailer          MailerConfig
	Admin           AdminConfig
	ReminderMinutes int
	AppURL          string
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// MailerConfig holds configuration for the transactional email API.
type MailerConfig struct {
	BaseURL   string
	APIKey    string
	FirmEmail string
	FromEmail string
	FromName  string
}

// AdminConfig holds the admin dashboard credentials. PasswordHash takes
// precedence over Password when both are set.
type AdminConfig struct {
	Username     string
	Password     string
	PasswordHash string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "sharma_associates"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	mailerConfig := MailerConfig{
		BaseURL:   getEnv("EMAIL_API_URL", "https://api.resend.com"),
		APIKey:    getEnv("RESEND_API_KEY", ""),
		FirmEmail: getEnv("FIRM_EMAIL", "info@sharmaassociates.co.in"),
		FromEmail: getEnv("FROM_EMAIL", "noreply@sharmaassociates.co.in"),
		FromName:  getEnv("FROM_NAME", "Sharma & Associates"),
	}

	adminConfig := AdminConfig{
		Username:     getEnv("ADMIN_USERNAME", "admin"),
		Password:     getEnv("ADMIN_PASSWORD", ""),
		PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
	}

	sessionHours, err := strconv.Atoi(getEnv("SESSION_EXPIRATION_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_EXPIRATION_HOURS: %w", err)
	}

	reminderMinutes, err := strconv.Atoi(getEnv("REMINDER_INTERVAL_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_INTERVAL_MINUTES: %w", err)
	}

	return &Config{
		Port:            getEnv("PORT", "3001"),
		Origin:          getEnv("ORIGIN", "*"),
		Environment:     getEnv("APP_ENV", "development"),
		JWTSecret:       getEnv("JWT_SECRET", "default_jwt_secret"),
		SessionHours:    sessionHours,
		Database:        dbConfig,
		Mailer:          mailerConfig,
		Admin:           adminConfig,
		ReminderMinutes: reminderMinutes,
		AppURL:          getEnv("APP_URL", "http://localhost:3001"),
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
