package config

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/FlowDomain/NutriLog/models"
	"github.com/FlowDomain/NutriLog/utils"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestLoad_Defaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir())) // no .env here
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("JWT_TTL_HOURS", "")
	t.Setenv("AWS_REGION", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("OTEL_EXPORTER", "")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 72*time.Hour, cfg.JWT.TTL)
	assert.False(t, cfg.AWS.Enabled())
	assert.Contains(t, cfg.DB.DSN(), "sslmode=disable")
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "none", cfg.OTelExporter)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	assert.ErrorContains(t, err, "JWT_SECRET is required")

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("LOG_LEVEL", "chatty")
	_, err = Load()
	assert.ErrorContains(t, err, "invalid log level")

	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("OTEL_EXPORTER", "jaeger")
	_, err = Load()
	assert.ErrorContains(t, err, "OTEL_EXPORTER")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:3000"},
		splitList(" https://app.example.com, ,http://localhost:3000 "))
	assert.Nil(t, splitList(""))
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JWT_TTL_HOURS=5\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("LOG_LEVEL", "")
	// godotenv never overrides variables that are already set, so clear it first
	t.Setenv("JWT_TTL_HOURS", "")
	require.NoError(t, os.Unsetenv("JWT_TTL_HOURS"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Hour, cfg.JWT.TTL)
}

func TestLoadGrading(t *testing.T) {
	cfg, err := LoadGrading("")
	require.NoError(t, err)
	assert.Equal(t, utils.DefaultGradingConfig(), cfg)

	path := filepath.Join(t.TempDir(), "grading.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
penalty_factor: 1.5
thresholds:
  a: 90
default_targets:
  carbs: 50
  protein: 25
  fats: 25
`), 0o600))

	cfg, err = LoadGrading(path)
	require.NoError(t, err)
	assert.Equal(t, 1.5, cfg.PenaltyFactor)
	assert.Equal(t, 15.0, cfg.FeedbackThreshold)
	assert.Equal(t, utils.GradeThresholds{A: 90, B: 70, C: 50}, cfg.Thresholds)
	assert.Equal(t, models.MacroTargets{Carbs: 50, Protein: 25, Fats: 25}, cfg.DefaultTargets)

	_, err = LoadGrading(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseGrading_Invalid(t *testing.T) {
	_, err := parseGrading([]byte("penalty_factor: 0\n"))
	assert.ErrorContains(t, err, "penalty_factor")

	_, err = parseGrading([]byte("thresholds:\n  b: 95\n"))
	assert.ErrorContains(t, err, "thresholds")

	_, err = parseGrading([]byte("default_targets:\n  carbs: 0\n"))
	assert.ErrorContains(t, err, "default_targets")

	_, err = parseGrading([]byte("penalty_factor: [1, 2]\n"))
	assert.ErrorContains(t, err, "parsing grading config")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "warn")
	log.Info("hidden")
	log.Warn("shown", "k", 1)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}

func TestNewRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err := NewRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	assert.True(t, mr.Exists("k"))

	_, err = NewRedis(context.Background(), "not-a-url")
	assert.ErrorContains(t, err, "invalid REDIS_URL")
}

func TestInitTracing(t *testing.T) {
	shutdown, err := InitTracing("none", io.Discard)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	var buf bytes.Buffer
	shutdown, err = InitTracing("stdout", &buf)
	require.NoError(t, err)
	_, span := otel.Tracer("test").Start(context.Background(), "probe")
	span.End()
	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"Name":"probe"`)

	_, err = InitTracing("zipkin", io.Discard)
	assert.Error(t, err)
}
