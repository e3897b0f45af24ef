package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/rinex-station-meta/internal/domain"
	"github.com/couchcryptid/rinex-station-meta/internal/report"
)

const defaultTopic = "rinex-station-records"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "input", cfg.InputDir)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Empty(t, cfg.OutputBasename)
	assert.Empty(t, cfg.PlateLabel)
	assert.Equal(t, domain.DefaultPlateRotation, cfg.PlateRotation)
	assert.Equal(t, "1", cfg.ClusterCode)
	assert.Equal(t, domain.LastMatch, cfg.MatchPolicy)
	assert.Empty(t, cfg.AliasFile)
	assert.Equal(t, 4, cfg.ParseWorkers)
	assert.Equal(t, 5*time.Second, cfg.HeaderReadTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.MetricsTextfile)
	assert.Empty(t, cfg.HTTPAddr)
	assert.Zero(t, cfg.RerunInterval)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, defaultTopic, cfg.KafkaTopic)
	assert.False(t, cfg.KafkaEnabled())
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("INPUT_DIR", "/data/rinex")
	t.Setenv("OUTPUT_DIR", "/data/out")
	t.Setenv("OUTPUT_BASENAME", "2025")
	t.Setenv("PLATE_LABEL", "EURA")
	t.Setenv("PLATE_POLE_MAS", "0.1, 0.2, 0.3")
	t.Setenv("CLUSTER_CODE", "2")
	t.Setenv("HEADER_MATCH_POLICY", "first")
	t.Setenv("ALIAS_FILE", "aliases.yaml")
	t.Setenv("PARSE_WORKERS", "8")
	t.Setenv("HEADER_READ_TIMEOUT", "2s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("METRICS_TEXTFILE", "/var/lib/node_exporter/rnxmeta.prom")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("RERUN_INTERVAL", "1h")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_TOPIC", "stations")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/rinex", cfg.InputDir)
	assert.Equal(t, "/data/out", cfg.OutputDir)
	assert.Equal(t, "2025", cfg.OutputBasename)
	assert.Equal(t, "EURA", cfg.PlateLabel)
	assert.Equal(t, domain.PlateRotationMas(0.1, 0.2, 0.3), cfg.PlateRotation)
	assert.Equal(t, "2", cfg.ClusterCode)
	assert.Equal(t, domain.FirstMatch, cfg.MatchPolicy)
	assert.Equal(t, "aliases.yaml", cfg.AliasFile)
	assert.Equal(t, 8, cfg.ParseWorkers)
	assert.Equal(t, 2*time.Second, cfg.HeaderReadTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "/var/lib/node_exporter/rnxmeta.prom", cfg.MetricsTextfile)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, time.Hour, cfg.RerunInterval)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "stations", cfg.KafkaTopic)
	assert.True(t, cfg.KafkaEnabled())
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"PLATE_POLE_MAS", "1,2"},
		{"PLATE_POLE_MAS", "a,b,c"},
		{"HEADER_MATCH_POLICY", "middle"},
		{"PARSE_WORKERS", "0"},
		{"PARSE_WORKERS", "65"},
		{"PARSE_WORKERS", "many"},
		{"HEADER_READ_TIMEOUT", "-1s"},
		{"HEADER_READ_TIMEOUT", "soon"},
		{"SHUTDOWN_TIMEOUT", "not-a-duration"},
		{"RERUN_INTERVAL", "-5m"},
		{"LOG_LEVEL", "verbose"},
		{"LOG_FORMAT", "xml"},
		{"CLUSTER_CODE", "12"},
		{"CLUSTER_CODE", "numbers"},
		{"SHUTDOWN_TIMEOUT", "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_KafkaBrokerList(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " a:9092 , ,b:9092,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled())

	t.Setenv("KAFKA_BROKERS", " , ")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.KafkaEnabled())
}

func TestLoad_BlankValuesUseDefaults(t *testing.T) {
	t.Setenv("INPUT_DIR", "   ")
	t.Setenv("CLUSTER_CODE", " ")
	t.Setenv("KAFKA_TOPIC", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "input", cfg.InputDir)
	assert.Equal(t, "1", cfg.ClusterCode)
	assert.Equal(t, defaultTopic, cfg.KafkaTopic)
}

func TestLoad_ClusterFromNumber(t *testing.T) {
	t.Setenv("CLUSTER_CODE", "number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, report.ClusterFromNumber, cfg.ClusterCode)
}

func TestValidate(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Error(t, cfg.Validate(), "base filename is unset")

	cfg.OutputBasename = "2025"
	require.NoError(t, cfg.Validate())

	cfg.OutputBasename = "out/2025"
	require.Error(t, cfg.Validate())

	cfg.OutputBasename = "2025"
	cfg.InputDir = ""
	require.Error(t, cfg.Validate())
}

func TestLoadAliases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("aliases:\n  - name: chum\n    number: 12345M001\n  - name: ABCD01\n    number: 99999S002\n"), 0o600))

	aliases, err := LoadAliases(path)
	require.NoError(t, err)

	number, ok := aliases.Lookup("CHUM")
	assert.True(t, ok)
	assert.Equal(t, "12345M001", number)

	number, ok = aliases.Lookup("ABCD")
	assert.True(t, ok)
	assert.Equal(t, "99999S002", number)

	_, ok = aliases.Lookup("ZZZZ")
	assert.False(t, ok)
}

func TestLoadAliases_EmptyPath(t *testing.T) {
	aliases, err := LoadAliases("")
	require.NoError(t, err)
	assert.Empty(t, aliases)
}

func TestLoadAliases_Invalid(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadAliases(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("aliases: [name: x"), 0o600))
	_, err = LoadAliases(bad)
	require.Error(t, err)

	incomplete := filepath.Join(dir, "incomplete.yaml")
	require.NoError(t, os.WriteFile(incomplete, []byte("aliases:\n  - name: CHUM\n"), 0o600))
	_, err = LoadAliases(incomplete)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry 1")
}
