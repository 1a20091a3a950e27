package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxprep-dev/taxprep/internal/match"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "lexical", cfg.Matcher.Algorithm)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taxprep.yaml")
	content := "server:\n  address: \":9090\"\nmatcher:\n  algorithm: cosine\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "cosine", cfg.Matcher.Algorithm)

	sim, err := cfg.Matcher.Similarity()
	require.NoError(t, err)
	assert.Equal(t, "cosine", sim.Name())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestMatcherConfig_Similarity(t *testing.T) {
	sim, err := MatcherConfig{}.Similarity()
	require.NoError(t, err)
	assert.IsType(t, match.Lexical{}, sim)

	_, err = MatcherConfig{Algorithm: "neural"}.Similarity()
	assert.Error(t, err)
}
