package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Catalog sources
const (
	SourceAPI      = "api"
	SourcePostgres = "postgres"
)

// Archive drivers for generated quotes
const (
	ArchiveNone  = "none"
	ArchiveDir   = "dir"
	ArchiveDrive = "drive"
	ArchiveS3    = "s3"
)

// Config is everything the server reads from the environment
type Config struct {
	Env  string
	Port string

	// DatabaseURL is empty when no database is configured
	DatabaseURL string

	APIBaseURL  string
	HTTPTimeout time.Duration

	CatalogSource string
	ChromePath    string
	BrandingFile  string

	Archive ArchiveConfig
}

// ArchiveConfig selects where generated quotes are saved besides the download
type ArchiveConfig struct {
	Driver string
	Dir    string

	DriveFolderID   string
	CredentialsPath string
	CredentialsJSON string

	S3Bucket    string
	S3Prefix    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Env:           getEnv("ENV", "development"),
		Port:          strings.TrimPrefix(getEnv("PORT", "8080"), ":"),
		DatabaseURL:   databaseURL(),
		APIBaseURL:    strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:5000"), "/"),
		HTTPTimeout:   getEnvDuration("HTTP_TIMEOUT", 15*time.Second),
		CatalogSource: strings.ToLower(getEnv("CATALOG_SOURCE", SourceAPI)),
		ChromePath:    os.Getenv("CHROME_PATH"),
		BrandingFile:  os.Getenv("BRANDING_FILE"),
		Archive: ArchiveConfig{
			Driver:          strings.ToLower(getEnv("QUOTE_ARCHIVE", ArchiveNone)),
			Dir:             getEnv("QUOTE_ARCHIVE_DIR", "quotes"),
			DriveFolderID:   os.Getenv("QUOTE_DRIVE_FOLDER_ID"),
			CredentialsPath: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
			CredentialsJSON: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"),
			S3Bucket:        os.Getenv("QUOTE_S3_BUCKET"),
			S3Prefix:        getEnv("QUOTE_S3_PREFIX", "quotes/"),
			S3Region:        os.Getenv("AWS_REGION"),
			S3Endpoint:      os.Getenv("QUOTE_S3_ENDPOINT"),
			S3PathStyle:     strings.EqualFold(os.Getenv("QUOTE_S3_PATH_STYLE"), "true"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the combinations Load cannot default
func (c *Config) Validate() error {
	switch c.CatalogSource {
	case SourceAPI:
		if c.APIBaseURL == "" {
			return fmt.Errorf("API_BASE_URL is required when CATALOG_SOURCE=api")
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("CATALOG_SOURCE=postgres needs DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
		}
	default:
		return fmt.Errorf("invalid CATALOG_SOURCE %q. Valid values: api, postgres", c.CatalogSource)
	}

	switch c.Archive.Driver {
	case ArchiveNone, ArchiveDir:
	case ArchiveDrive:
		if c.Archive.DriveFolderID == "" {
			return fmt.Errorf("QUOTE_DRIVE_FOLDER_ID is required when QUOTE_ARCHIVE=drive")
		}
		if c.Archive.CredentialsPath == "" && c.Archive.CredentialsJSON == "" {
			return fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_APPLICATION_CREDENTIALS_JSON is required when QUOTE_ARCHIVE=drive")
		}
	case ArchiveS3:
		if c.Archive.S3Bucket == "" {
			return fmt.Errorf("QUOTE_S3_BUCKET is required when QUOTE_ARCHIVE=s3")
		}
	default:
		return fmt.Errorf("invalid QUOTE_ARCHIVE %q. Valid values: none, dir, drive, s3", c.Archive.Driver)
	}
	return nil
}

// IsProduction reports whether ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Addr is the listen address, on every interface
func (c *Config) Addr() string {
	return "0.0.0.0:" + c.Port
}

// databaseURL uses DATABASE_URL or builds a DSN from DB_HOST, DB_PORT, DB_USER,
// DB_PASSWORD, DB_NAME and DB_SSLMODE. Returns "" when neither is set.
func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	dbname := os.Getenv("DB_NAME")
	if host == "" || user == "" || dbname == "" {
		return ""
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, getEnv("DB_PORT", "5432"), user, os.Getenv("DB_PASSWORD"), dbname, getEnv("DB_SSLMODE", "disable"))
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("20s") or plain seconds ("20")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
