package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Feature  FeatureConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	APIVersion         string
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JwtSecret string
}

// FeatureConfig carries the taxonomy enumerations, defaults and seeding
// source for the Feature entity. Built once at startup and passed into
// constructors; services never read the environment themselves.
type FeatureConfig struct {
	ModelName      string
	CollectionName string

	Natures  []string
	Families []string
	Types    []string

	DefaultNature string
	DefaultFamily string
	DefaultType   string

	DefaultContinent string
	DefaultCountry   string

	TaggingEnabled  bool
	TaggingLanguage string

	SeedsPath string
}

// DefaultTier is the fallback member of every taxonomy tier.
const DefaultTier = "Unknown"

var (
	defaultNatures  = []string{"Boundary", "Building", "Highway", "Waterway", "Railway", "Landuse", "Natural", DefaultTier}
	defaultFamilies = []string{"Administrative", "Commercial", "Hospital", "Residential", "School", "Road", "River", DefaultTier}
	defaultTypes    = []string{DefaultTier}
)

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "5000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:5000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			APIVersion:         getEnv("API_VERSION", "v1"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", ""),
		},
		Feature: FeatureConfig{
			ModelName:        getEnv("FEATURE_MODEL_NAME", "Feature"),
			CollectionName:   getEnv("FEATURE_COLLECTION_NAME", "features"),
			Natures:          getEnvAsSlice("FEATURE_NATURES", defaultNatures),
			Families:         getEnvAsSlice("FEATURE_FAMILIES", defaultFamilies),
			Types:            getEnvAsSlice("FEATURE_TYPES", defaultTypes),
			DefaultNature:    getEnv("DEFAULT_FEATURE_NATURE", DefaultTier),
			DefaultFamily:    getEnv("DEFAULT_FEATURE_FAMILY", DefaultTier),
			DefaultType:      getEnv("DEFAULT_FEATURE_TYPE", DefaultTier),
			DefaultContinent: getEnv("DEFAULT_CONTINENT_NAME", "Africa"),
			DefaultCountry:   getEnv("DEFAULT_COUNTRY_NAME", "Tanzania"),
			TaggingEnabled:   getEnvAsBool("FEATURE_TAGGING_ENABLED", true),
			TaggingLanguage:  getEnv("FEATURE_TAGGING_LANGUAGE", "english"),
			SeedsPath:        getEnv("SEEDS_PATH", "seeds"),
		},
	}
}

// HasNature reports whether value belongs to the configured nature tier.
// The configured default is always an accepted member.
func (c FeatureConfig) HasNature(value string) bool {
	return contains(c.Natures, value) || value == c.DefaultNature
}

func (c FeatureConfig) HasFamily(value string) bool {
	return contains(c.Families, value) || value == c.DefaultFamily
}

func (c FeatureConfig) HasType(value string) bool {
	return contains(c.Types, value) || value == c.DefaultType
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsSlice(key string, fallback []string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	parts := strings.Split(strValue, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}
