package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	FileStoreSupabase   = "supabase"
	FileStoreCloudinary = "cloudinary"
)

type Config struct {
	Port              string
	SupabaseURL       string
	SupabaseAnonKey   string
	SupabaseJWTSecret string
	MongoDBURI        string
	MongoDBPassword   string
	MongoDBName       string
	FileStore         string
	StorageBucket     string
	FrontendOrigins   []string
	Environment       string
	LogLevel          string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:              getEnvWithDefault("PORT", "8080"),
		SupabaseURL:       os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:   os.Getenv("SUPABASE_URL_ANON_KEY"),
		SupabaseJWTSecret: os.Getenv("SUPABASE_JWT_SECRET"),
		MongoDBURI:        os.Getenv("MONGODB_URI"),
		MongoDBPassword:   os.Getenv("MONGODB_PASSWORD"),
		MongoDBName:       getEnvWithDefault("MONGODB_DB", "activityportal"),
		FileStore:         strings.ToLower(getEnvWithDefault("FILE_STORE", FileStoreSupabase)),
		StorageBucket:     getEnvWithDefault("STORAGE_BUCKET", "activity-documents"),
		FrontendOrigins:   splitList(getEnvWithDefault("FRONTEND_ORIGIN", "http://localhost:3000")),
		Environment:       getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:          getEnvWithDefault("LOG_LEVEL", "info"),
	}

	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is required")
	}
	if cfg.SupabaseAnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL_ANON_KEY is required")
	}
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	switch cfg.FileStore {
	case FileStoreSupabase, FileStoreCloudinary:
	default:
		return nil, fmt.Errorf("FILE_STORE must be %q or %q, got %q", FileStoreSupabase, FileStoreCloudinary, cfg.FileStore)
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
