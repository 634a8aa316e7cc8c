package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "GRAPH_API_VERSION", "KNOWLEDGE_TOP_K", "IDENTITY_CACHE_TTL", "PHONE_COUNTRY_CODE", "LOG_JSON", "MONGODB_DATABASE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "v18.0", cfg.GraphAPIVersion)
	assert.Equal(t, 3, cfg.KnowledgeTopK)
	assert.Equal(t, 300*time.Second, cfg.IdentityCacheTTL)
	assert.Equal(t, "91", cfg.PhoneCountryCode)
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, "clinic", cfg.MongoDatabase)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("KNOWLEDGE_TOP_K", "5")
	t.Setenv("IDENTITY_CACHE_TTL", "2m")
	t.Setenv("LOG_JSON", "false")
	t.Setenv("VERIFY_TOKEN", "secret")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 5, cfg.KnowledgeTopK)
	assert.Equal(t, 2*time.Minute, cfg.IdentityCacheTTL)
	assert.False(t, cfg.LogJSON)
	assert.Equal(t, "secret", cfg.VerifyToken)
}

func TestGetEnvHelpersFallBackOnInvalidValues(t *testing.T) {
	t.Setenv("TEST_INT", "abc")
	t.Setenv("TEST_NEG", "-1")
	t.Setenv("TEST_BOOL", "maybe")
	t.Setenv("TEST_DURATION", "soon")
	t.Setenv("TEST_SECONDS", "45")

	assert.Equal(t, 7, GetEnvInt("TEST_INT", 7))
	assert.Equal(t, 7, GetEnvInt("TEST_NEG", 7))
	assert.True(t, GetEnvBool("TEST_BOOL", true))
	assert.Equal(t, time.Minute, GetEnvDuration("TEST_DURATION", time.Minute))
	assert.Equal(t, 45*time.Second, GetEnvDuration("TEST_SECONDS", time.Minute))
}

func TestLoadMessagesDefaults(t *testing.T) {
	messages, err := LoadMessages("")
	require.NoError(t, err)
	assert.Equal(t, DefaultMessages(), messages)
	assert.Equal(t, "need help?", messages.TriggerPhrase)
	assert.Equal(t, "Your name is %s.", messages.UserNameTemplate)
}

func TestLoadMessagesOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.yaml")
	require.NoError(t, os.WriteFile(path, []byte("greeting: \"Hi %s!\"\naudio_failed: \"Could not hear that.\"\n"), 0o600))

	messages, err := LoadMessages(path)

	require.NoError(t, err)
	assert.Equal(t, "Hi %s!", messages.Greeting)
	assert.Equal(t, "Could not hear that.", messages.AudioFailed)
	assert.Equal(t, DefaultMessages().TriggerPhrase, messages.TriggerPhrase)
}

func TestLoadMessagesErrors(t *testing.T) {
	_, err := LoadMessages(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("greeting: [unterminated"), 0o600))

	messages, err := LoadMessages(path)
	assert.Error(t, err)
	assert.Equal(t, DefaultMessages(), messages)
}
