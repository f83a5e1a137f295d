package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.APIPort)
	assert.Equal(t, 1500*time.Millisecond, cfg.TranslateDebounce)
	assert.Equal(t, "https://api.mymemory.translated.net", cfg.TranslateBaseURL)
	assert.Equal(t, 2*time.Second, cfg.BackfillRetryDelay)
	assert.Equal(t, 64, cfg.EditorMaxFieldsPerConn)
	assert.Contains(t, cfg.DBConnStr, "dbname=grampanchayat")
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("TRANSLATE_DEBOUNCE", "250ms")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("EDITOR_MAX_FIELDS_PER_CONN", "8")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 250*time.Millisecond, cfg.TranslateDebounce)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 8, cfg.EditorMaxFieldsPerConn)
}

func TestParse_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mongo")

	_, err := Parse()
	assert.Error(t, err)
}
