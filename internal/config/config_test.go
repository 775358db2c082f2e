package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123456:test-token")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/society")
	t.Setenv("ADMIN_IDS", "1, 2")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "123456:test-token", cfg.BotToken)
	assert.Equal(t, "postgres://localhost:5432/society", cfg.DatabaseURL)
	assert.Equal(t, []int64{1, 2}, cfg.AdminIDs)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "9090", cfg.ServerPort)
}

func TestLoadRequiresBotToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/society")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOT_TOKEN")
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123456:test-token")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestParseAdminIDs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []int64
	}{
		{"empty", "", nil},
		{"single", "123456", []int64{123456}},
		{"multiple", "1,2,3", []int64{1, 2, 3}},
		{"spaces", " 10 , 20 ", []int64{10, 20}},
		{"skips garbage", "1,abc,2", []int64{1, 2}},
		{"skips negative", "-5,7", []int64{7}},
		{"trailing comma", "42,", []int64{42}},
		{"all garbage", "a,b,c", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAdminIDs(tt.in))
		})
	}
}
