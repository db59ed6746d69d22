package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DIRECTORY_SOURCE_PATH", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("PORT", "")
	t.Setenv("SERVER_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "network_data.xlsx", cfg.Directory.SourcePath)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 25, cfg.Ranking.MaxResults)
	assert.Equal(t, 60, cfg.Ranking.RegionWeight)
	assert.Equal(t, 30, cfg.Ranking.SpecialtyWeight)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DIRECTORY_SOURCE_PATH", "/data/network.htm")
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("PORT", "9090")
	t.Setenv("RANKING_MAX_RESULTS", "20")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("TYPESENSE_URL", "http://test-typesense:8108")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/network.htm", cfg.Directory.SourcePath)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 20, cfg.Ranking.MaxResults)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "http://test-typesense:8108", cfg.Typesense.URL)
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "bard")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidIntFallsBackToDefault(t *testing.T) {
	t.Setenv("RANKING_REGION_WEIGHT", "sixty")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Ranking.RegionWeight)
}
