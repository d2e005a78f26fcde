package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestFromEnv(t *testing.T) {
	cfg, err := fromEnv(envOf(map[string]string{
		"JWT_SECRET_KEY":          "secret",
		"ORGANIZER_PASSWORD_HASH": "$2a$10$hash",
		"SERVER_PORT":             "9090",
		"JWT_TTL":                 "30m",
		"CORS_ALLOWED_ORIGINS":    "https://a.example, https://b.example",
	}))
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.DatabaseURL)
	assert.False(t, cfg.ArchiveEnabled())
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := fromEnv(envOf(map[string]string{
		"JWT_SECRET_KEY":          "secret",
		"ORGANIZER_PASSWORD_HASH": "hash",
		"R2_ACCOUNT_ID":           "acc",
		"R2_ACCESS_KEY_ID":        "key",
		"R2_SECRET_ACCESS_KEY":    "s",
		"R2_BUCKET_NAME":          "b",
		"R2_PUBLIC_BASE_URL":      "https://cdn.example",
	}))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 12*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.ArchiveEnabled())
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"missing secret", map[string]string{"ORGANIZER_PASSWORD_HASH": "h"}},
		{"missing password", map[string]string{"JWT_SECRET_KEY": "s"}},
		{"bad port", map[string]string{"JWT_SECRET_KEY": "s", "ORGANIZER_PASSWORD_HASH": "h", "SERVER_PORT": "http"}},
		{"port range", map[string]string{"JWT_SECRET_KEY": "s", "ORGANIZER_PASSWORD_HASH": "h", "SERVER_PORT": "70000"}},
		{"bad ttl", map[string]string{"JWT_SECRET_KEY": "s", "ORGANIZER_PASSWORD_HASH": "h", "JWT_TTL": "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fromEnv(envOf(tt.vars))
			assert.Error(t, err)
		})
	}
	_, err := fromEnv(envOf(nil))
	assert.ErrorIs(t, err, ErrMissingSetting)
}

func TestLoadPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
presets:
  beach-cup:
    system: group_phase
    number_of_courts: 3
    sets_per_match: 1
    points_per_set: 15
    teams_per_group: 4
    follow_up: knockout
    third_place_match: true
    start_time: "10:00"
    break_minutes: 5
`), 0o600))

	presets, err := LoadPresets(path)
	require.NoError(t, err)
	require.Contains(t, presets, "beach-cup")
	p := presets["beach-cup"]
	assert.Equal(t, "group_phase", p.System)
	assert.Equal(t, 3, p.NumberOfCourts)
	assert.Equal(t, "knockout", p.FollowUp)
	assert.True(t, p.ThirdPlaceMatch)
	assert.Equal(t, "10:00", p.StartTime)

	empty, err := LoadPresets("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ParsePresets([]byte("presets: [1, 2"))
	assert.Error(t, err)
}
