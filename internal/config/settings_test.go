package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("USE_FAKE_EMBED", "")
	t.Setenv("DOCQA_MESSAGE_STORE", "")

	s, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ServerListenAddr, s.ListenAddr)
	assert.Equal(t, ProviderGoogle, s.Embedding.Provider)
	assert.Equal(t, GoogleEmbeddingModel, s.Embedding.Model)
	assert.Equal(t, DefaultEmbeddingDimension, s.Embedding.Dimension)
	assert.Equal(t, GeminiModelName, s.LLM.Model)
	assert.Equal(t, MessageStoreRedis, s.Storage.MessageStore)
}

func TestLoadSettings_YamlAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docqa.yaml")
	yamlBody := `
listen_addr: ":8080"
llm:
  provider: openai
embedding:
  provider: openai
  dimension: 512
storage:
  message_store: sqlite
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o644))
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("AUTH_TOKEN", "secret")
	t.Setenv("USE_FAKE_EMBED", "")
	t.Setenv("DOCQA_MESSAGE_STORE", "")

	s, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", s.ListenAddr)
	assert.Equal(t, OpenAIModelName, s.LLM.Model)
	assert.Equal(t, OpenAIEmbeddingModel, s.Embedding.Model)
	assert.Equal(t, 512, s.Embedding.Dimension)
	assert.Equal(t, MessageStoreSqlite, s.Storage.MessageStore)
	assert.Equal(t, "secret", s.AuthToken)
	assert.Equal(t, "sk-test", s.APIKeyFor(ProviderOpenAI))
	assert.Empty(t, s.APIKeyFor(ProviderHash))
}

func TestLoadSettings_FakeEmbedForcesHashDimension(t *testing.T) {
	t.Setenv("USE_FAKE_EMBED", "1")

	s, err := LoadSettings("")
	require.NoError(t, err)

	assert.Equal(t, ProviderHash, s.Embedding.Provider)
	assert.Equal(t, HashEmbeddingDimension, s.Embedding.Dimension)
}

func TestLoadSettings_BadYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: [unclosed"), 0o644))

	_, err := LoadSettings(path)
	assert.Error(t, err)
}
