package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	LogLevel    string

	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
	}

	Server struct {
		Port    string
		GinMode string
	}

	Storage struct {
		Backend   string
		BatchSize int
		Timeout   time.Duration
	}

	Mongo struct {
		URI      string
		Database string
	}

	Redis struct {
		URL      string
		LockTTL  time.Duration
		LockWait time.Duration
	}

	Upload struct {
		Backend     string
		Dir         string
		MaxFileSize int64
		PublicURL   string
	}

	MinIO struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		Bucket    string
		UseSSL    bool
		PublicURL string
	}

	CORS struct {
		AllowOrigins string
		AllowMethods string
		AllowHeaders string
	}

	Election struct {
		InstitutionalDomains      []string
		RequireInstitutionalEmail bool
		RequireGeofence           bool
		NormalizeEmail            bool
	}

	// Campus is the geofence used for on-site voting, radius in meters.
	Campus struct {
		Latitude     float64
		Longitude    float64
		RadiusMeters float64
	}
}

// Load loads configuration from environment variables
func Load() *Config {
	_ = godotenv.Load()

	config := &Config{}

	config.Environment = getEnv("APP_ENV", "development")
	config.LogLevel = getEnv("LOG_LEVEL", "info")

	config.DB.Host = getEnv("DB_HOST", "localhost")
	config.DB.Port = getEnv("DB_PORT", "5432")
	config.DB.User = getEnv("DB_USER", "votacion")
	config.DB.Password = getEnv("DB_PASSWORD", "votacion_password")
	config.DB.Name = getEnv("DB_NAME", "votacion_db")
	config.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	config.Server.Port = getEnv("PORT", "8080")
	config.Server.GinMode = getEnv("GIN_MODE", "debug")

	config.Storage.Backend = getEnv("STORAGE_BACKEND", "postgres")
	config.Storage.BatchSize = getEnvAsInt("STORAGE_BATCH_SIZE", 500)
	config.Storage.Timeout = getEnvAsDuration("STORAGE_TIMEOUT", 10*time.Second)

	config.Mongo.URI = getEnv("MONGO_URI", "mongodb://localhost:27017")
	config.Mongo.Database = getEnv("MONGO_DATABASE", "votacion")

	config.Redis.URL = getEnv("REDIS_URL", "")
	config.Redis.LockTTL = getEnvAsDuration("LOCK_TTL", 10*time.Second)
	config.Redis.LockWait = getEnvAsDuration("LOCK_WAIT", 5*time.Second)

	config.Upload.Backend = getEnv("UPLOAD_BACKEND", "local")
	config.Upload.Dir = getEnv("UPLOADS_DIR", "./uploads")
	config.Upload.MaxFileSize = getEnvAsInt64("MAX_FILE_SIZE", 5242880)
	config.Upload.PublicURL = getEnv("UPLOADS_PUBLIC_URL", "/uploads")

	config.MinIO.Endpoint = getEnv("MINIO_ENDPOINT", "localhost:9000")
	config.MinIO.AccessKey = getEnv("MINIO_ACCESS_KEY", "")
	config.MinIO.SecretKey = getEnv("MINIO_SECRET_KEY", "")
	config.MinIO.Bucket = getEnv("MINIO_BUCKET", "candidatos")
	config.MinIO.UseSSL = getEnvAsBool("MINIO_USE_SSL", false)
	config.MinIO.PublicURL = getEnv("MINIO_PUBLIC_URL", "")

	config.CORS.AllowOrigins = getEnv("CORS_ALLOW_ORIGINS", "*")
	config.CORS.AllowMethods = getEnv("CORS_ALLOW_METHODS", "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS")
	config.CORS.AllowHeaders = getEnv("CORS_ALLOW_HEADERS", "Origin,Content-Length,Content-Type,Authorization")

	config.Election.InstitutionalDomains = getEnvAsSlice("ELECTION_INSTITUTIONAL_DOMAINS", []string{"continental.edu.pe", "uc.edu.pe"})
	config.Election.RequireInstitutionalEmail = getEnvAsBool("ELECTION_REQUIRE_INSTITUTIONAL_EMAIL", true)
	config.Election.RequireGeofence = getEnvAsBool("ELECTION_REQUIRE_GEOFENCE", false)
	config.Election.NormalizeEmail = getEnvAsBool("ELECTION_NORMALIZE_EMAIL", true)

	// Universidad Continental, campus Huancayo
	config.Campus.Latitude = getEnvAsFloat("CAMPUS_LAT", -12.047505186140151)
	config.Campus.Longitude = getEnvAsFloat("CAMPUS_LNG", -75.19906082214352)
	config.Campus.RadiusMeters = getEnvAsFloat("CAMPUS_RADIUS_METERS", 1000)

	return config
}

// GetDatabaseURL returns the database connection URL
func (c *Config) GetDatabaseURL() string {
	return "postgres://" + c.DB.User + ":" + c.DB.Password + "@" + c.DB.Host + ":" + c.DB.Port + "/" + c.DB.Name + "?sslmode=" + c.DB.SSLMode
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins splits the CORS origin list
func (c *Config) AllowedOrigins() []string {
	return splitList(c.CORS.AllowOrigins)
}

// AllowedMethods splits the CORS method list
func (c *Config) AllowedMethods() []string {
	return splitList(c.CORS.AllowMethods)
}

// AllowedHeaders splits the CORS header list
func (c *Config) AllowedHeaders() []string {
	return splitList(c.CORS.AllowHeaders)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt64 gets an environment variable as int64 or returns a default value
func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvAsSlice reads a comma separated list
func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		if items := splitList(value); len(items) > 0 {
			return items
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
