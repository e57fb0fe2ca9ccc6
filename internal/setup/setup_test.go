package setup

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toffan/running/internal/config"
	"github.com/toffan/running/internal/garmin"
)

func testConfig(baseURL string) *config.Config {
	cfg := &config.Config{LogLevel: "warn"}
	cfg.Garmin.BaseURL = baseURL
	cfg.Garmin.Timeout = 5 * time.Second
	cfg.Running.SavePolicy = "skip"
	cfg.Running.Targets = "suppress"
	return cfg
}

func TestClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		assert.Equal(t, "/workout-service/workouts", r.URL.Path)
		fmt.Fprint(w, `[{"workoutId":7,"workoutName":"Tempo run 1"}]`)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Running.CacheDir = t.TempDir()
	c, err := Client(cfg, garmin.Credentials{Token: "abc"}, nil, zerolog.Nop())
	require.NoError(t, err)

	index, err := c.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string][]int64{"Tempo run 1": {7}}, index)
}

func TestClientInvalidConfig(t *testing.T) {
	cfg := testConfig("http://localhost")
	cfg.Running.SavePolicy = "maybe"
	_, err := Client(cfg, garmin.Credentials{Token: "abc"}, nil, zerolog.Nop())
	assert.Error(t, err)

	cfg = testConfig("http://localhost")
	cfg.Running.Targets = "pace"
	_, err = Serializer(cfg)
	assert.Error(t, err)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(&buf, zerolog.WarnLevel)
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestSaveEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	require.NoError(t, SaveEnv(path, map[string]string{
		"GARMIN_TOKEN_FILE": "token.txt",
		"LOG_LEVEL":         "info",
	}))
	require.NoError(t, SaveEnv(path, map[string]string{
		"GARMIN_COOKIES_FILE": "cookies.txt",
		"LOG_LEVEL":           "",
	}))

	env, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"GARMIN_TOKEN_FILE":   "token.txt",
		"GARMIN_COOKIES_FILE": "cookies.txt",
	}, env)
}
