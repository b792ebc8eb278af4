package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("LEDGER_BACKEND", "")
	t.Setenv("LEDGER_DIR", "/tmp/ledgers")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, BackendFile, cfg.Ledger.Backend)
	require.Equal(t, "/tmp/ledgers", cfg.Ledger.Dir)
	require.Equal(t, "documents.jsonl", cfg.Ledger.DocumentsLog)
	require.Equal(t, "votes.jsonl", cfg.Ledger.VotesLog)
	require.Equal(t, 80, cfg.Ledger.PreviewLength)
	require.Equal(t, "5010", cfg.Server.Port)
	require.Equal(t, "ledger:", cfg.Redis.KeyPrefix)
}

func TestLoadConfigRedisBackend(t *testing.T) {
	t.Setenv("LEDGER_BACKEND", "Redis")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("SERVER_ENVIRONMENT", "production")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, BackendRedis, cfg.Ledger.Backend)
	require.Equal(t, "localhost:6380", cfg.Redis.Addr())
	require.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfigRejectsBadCombinations(t *testing.T) {
	t.Setenv("LEDGER_BACKEND", "mongo")
	t.Setenv("MONGODB_URI", "")
	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("LEDGER_BACKEND", "tape")
	_, err = LoadConfig()
	require.Error(t, err)

	t.Setenv("LEDGER_BACKEND", "file")
	t.Setenv("LEDGER_DOCUMENTS_LOG", "ledger.jsonl")
	t.Setenv("LEDGER_VOTES_LOG", "./ledger.jsonl")
	_, err = LoadConfig()
	require.Error(t, err)

	t.Setenv("LEDGER_BACKEND", "memory")
	t.Setenv("LEDGER_PREVIEW_LENGTH", "0")
	_, err = LoadConfig()
	require.Error(t, err)
}
