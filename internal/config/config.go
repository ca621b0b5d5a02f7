package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

type DB struct {
	Driver     string
	DSN        string
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
}

// ConnString returns the driver-specific connection string. An explicit DSN wins.
func (d DB) ConnString() string {
	if d.DSN != "" {
		return d.DSN
	}

	if d.Driver == DriverSQLite {
		return fmt.Sprintf("file:%s.db?_foreign_keys=on", d.DbNAME)
	}

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.DbHOST,
		d.DbPORT,
		d.DbUSER,
		d.DbPASSWORD,
		d.DbNAME,
		d.DbSSLMODE,
	)
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
	PublicURL  string
}

type GitHub struct {
	ClientID      string
	ClientSecret  string
	CallbackURL   string
	AdminUsername string
}

// Image holds the fallbacks used until the matching settings are stored.
type Image struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

type Log struct {
	Level string
	Env   string
}

type Config struct {
	ServerPort          int
	DB                  DB
	MinIO               MinIO
	GitHub              GitHub
	Image               Image
	Log                 Log
	JWTSecretKey        string
	AccessTokenDuration time.Duration
	MaxUploadSize       int64
	CookieSecure        bool
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return duration
}

func parseMaxUploadSize(value string) int64 {
	size, err := strconv.ParseInt(value, 10, 64)
	if err != nil || size <= 0 {
		return 16 * 1024 * 1024
	}
	return size
}

func LoadDB() DB {
	return DB{
		Driver:     getEnv("DB_DRIVER", DriverPostgres),
		DSN:        getEnv("DB_DSN", ""),
		DbHOST:     getEnv("DB_HOST", "localhost"),
		DbPORT:     getEnv("DB_PORT", "5432"),
		DbUSER:     getEnv("DB_USER", "postgres"),
		DbPASSWORD: getEnv("DB_PASSWORD", "password"),
		DbNAME:     getEnv("DB_NAME", "blogcms"),
		DbSSLMODE:  getEnv("DB_SSLMODE", "disable"),
	}
}

func LoadMinIO() MinIO {
	return MinIO{
		Endpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
		AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		BucketName: getEnv("MINIO_BUCKET_NAME", "images"),
		UseSSL:     getEnvBool("MINIO_USE_SSL", false),
		Region:     getEnv("MINIO_REGION", "us-east-1"),
		PublicURL:  getEnv("MINIO_PUBLIC_URL", ""),
	}
}

func LoadGitHub() GitHub {
	return GitHub{
		ClientID:      getEnv("GITHUB_CLIENT_ID", ""),
		ClientSecret:  getEnv("GITHUB_CLIENT_SECRET", ""),
		CallbackURL:   getEnv("GITHUB_CALLBACK_URL", "http://localhost:8080/auth/github/callback"),
		AdminUsername: getEnv("ADMIN_GITHUB_USERNAME", ""),
	}
}

func LoadImage() Image {
	return Image{
		MaxWidth:  getEnvAsInt("IMAGE_MAX_WIDTH", 1920),
		MaxHeight: getEnvAsInt("IMAGE_MAX_HEIGHT", 1920),
		Quality:   getEnvAsInt("IMAGE_QUALITY", 85),
	}
}

// LoadConfig reads .env if present and then the process environment.
// The returned bool is false when no .env file was found.
func LoadConfig() (*Config, bool) {
	envLoaded := godotenv.Load() == nil

	return &Config{
		ServerPort: getEnvAsInt("SERVER_PORT", 8080),
		DB:         LoadDB(),
		MinIO:      LoadMinIO(),
		GitHub:     LoadGitHub(),
		Image:      LoadImage(),
		Log: Log{
			Level: getEnv("LOG_LEVEL", "info"),
			Env:   getEnv("ENV", "production"),
		},
		JWTSecretKey:        getEnv("JWT_SECRET_KEY", ""),
		AccessTokenDuration: parseDuration(getEnv("ACCESS_TOKEN_DURATION", "24h"), 24*time.Hour),
		MaxUploadSize:       parseMaxUploadSize(getEnv("MAX_UPLOAD_SIZE", "16777216")),
		CookieSecure:        getEnvBool("COOKIE_SECURE", false),
	}, envLoaded
}
