package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_URL_ANON_KEY", "anon")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("FRONTEND_ORIGIN", "http://localhost:3000, https://portal.example.edu ,")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, FileStoreSupabase, cfg.FileStore)
	assert.Equal(t, "activityportal", cfg.MongoDBName)
	assert.Equal(t, []string{"http://localhost:3000", "https://portal.example.edu"}, cfg.FrontendOrigins)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfigRejects(t *testing.T) {
	setRequired(t)
	t.Setenv("FILE_STORE", "s3")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "FILE_STORE")

	t.Setenv("FILE_STORE", "Cloudinary")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, FileStoreCloudinary, cfg.FileStore)

	t.Setenv("MONGODB_URI", "")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "MONGODB_URI")
}
