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
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.False(t, cfg.EnvFileLoaded)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "http://localhost:5000", cfg.RobotBaseURL)
	assert.Equal(t, 100, cfg.AnimationSteps)
	assert.Equal(t, 10*time.Millisecond, cfg.AnimationInterval)
	assert.Equal(t, 1.0, cfg.ZoomLevel)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Zero(t, cfg.PollInterval)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ROBOT_BASE_URL", "http://robot.local:5000/")
	t.Setenv("ZOOM_LEVEL", "1.5")
	t.Setenv("MAP_POLL_INTERVAL", "2s")
	t.Setenv("CANVAS_WIDTH", "640")
	t.Setenv("ROBOT_SERVICE_ENABLED", "false")
	t.Setenv("SEED_OBSTACLES", "8")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "http://robot.local:5000", cfg.RobotBaseURL)
	assert.Equal(t, 1.5, cfg.ZoomLevel)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, 640, cfg.CanvasWidth)
	assert.False(t, cfg.RobotServiceEnabled)
	assert.Equal(t, 8, cfg.SeedObstacles)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ANIMATION_STEPS=20\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("ANIMATION_STEPS") })

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.EnvFileLoaded)
	assert.Equal(t, 20, cfg.AnimationSteps)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero zoom", "ZOOM_LEVEL", "0"},
		{"tiny zoom", "ZOOM_LEVEL", "0.000001"},
		{"huge zoom", "ZOOM_LEVEL", "50"},
		{"non-numeric zoom", "ZOOM_LEVEL", "big"},
		{"bad duration", "ANIMATION_INTERVAL", "fast"},
		{"negative steps", "ANIMATION_STEPS", "-1"},
		{"negative seed count", "SEED_OBSTACLES", "-3"},
		{"unknown driver", "DB_DRIVER", "oracle"},
		{"mysql without credentials", "DB_DRIVER", "mysql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}

func TestMySQLDSN(t *testing.T) {
	cfg := Default()
	cfg.MySQLUser = "panel"
	cfg.MySQLPassword = "secret"
	cfg.MySQLHost = "db"
	cfg.MySQLDatabase = "robot"

	assert.Equal(t, "panel:secret@tcp(db:3306)/robot?charset=utf8mb4&parseTime=True&loc=Local", cfg.MySQLDSN())
}
