package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"ENV", "PORT", "DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"API_BASE_URL", "HTTP_TIMEOUT", "CATALOG_SOURCE", "CHROME_PATH", "BRANDING_FILE",
		"QUOTE_ARCHIVE", "QUOTE_ARCHIVE_DIR", "QUOTE_DRIVE_FOLDER_ID", "GOOGLE_APPLICATION_CREDENTIALS",
		"GOOGLE_APPLICATION_CREDENTIALS_JSON", "QUOTE_S3_BUCKET", "QUOTE_S3_PREFIX", "AWS_REGION",
		"QUOTE_S3_ENDPOINT", "QUOTE_S3_PATH_STYLE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "", cfg.DatabaseURL)
	assert.Equal(t, SourceAPI, cfg.CatalogSource)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, ArchiveNone, cfg.Archive.Driver)
	assert.False(t, cfg.IsProduction())
}

func TestLoadBuildsDSNFromParts(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "rta")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "kabinets")
	t.Setenv("PORT", ":9000")
	t.Setenv("HTTP_TIMEOUT", "20")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "host=db port=5432 user=rta password=secret dbname=kabinets sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 20*time.Second, cfg.HTTPTimeout)
}

func TestLoadRejectsBadCombinations(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"postgres without db", map[string]string{"CATALOG_SOURCE": "postgres"}},
		{"unknown source", map[string]string{"CATALOG_SOURCE": "csv"}},
		{"drive without folder", map[string]string{"QUOTE_ARCHIVE": "drive", "GOOGLE_APPLICATION_CREDENTIALS": "/creds.json"}},
		{"drive without credentials", map[string]string{"QUOTE_ARCHIVE": "drive", "QUOTE_DRIVE_FOLDER_ID": "abc"}},
		{"s3 without bucket", map[string]string{"QUOTE_ARCHIVE": "s3"}},
		{"unknown archive", map[string]string{"QUOTE_ARCHIVE": "ftp"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadS3Archive(t *testing.T) {
	clearEnv(t)
	t.Setenv("QUOTE_ARCHIVE", "S3")
	t.Setenv("QUOTE_S3_BUCKET", "rta-quotes")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ArchiveS3, cfg.Archive.Driver)
	assert.Equal(t, "quotes/", cfg.Archive.S3Prefix)
}
