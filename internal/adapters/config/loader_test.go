package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dsget/internal/adapters/config"
	"go.trai.ch/dsget/internal/core/domain"
	"go.trai.ch/dsget/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	return config.NewLoader(log).WithEnvFile(filepath.Join(t.TempDir(), "missing.env"))
}

// unsetEnv clears key for the duration of the test and restores it afterwards.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	unsetEnv(t, domain.EndpointEnvVar)

	settings, err := newLoader(t).Load(filepath.Join(t.TempDir(), "dsget.yaml"))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestLoad_EmptyPathYieldsDefaults(t *testing.T) {
	unsetEnv(t, domain.EndpointEnvVar)

	settings, err := newLoader(t).Load("")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestLoad_Success(t *testing.T) {
	unsetEnv(t, domain.EndpointEnvVar)

	content := `
endpoint: https://hub.example.com/
target_dir: /srv/datasets
max_workers: 3
timeout: 90s
log_level: debug
log_format: json
`
	path := writeFile(t, t.TempDir(), "dsget.yaml", content)

	settings, err := newLoader(t).Load(path)
	require.NoError(t, err)
	assert.Equal(t, domain.Settings{
		Endpoint:   "https://hub.example.com",
		TargetDir:  "/srv/datasets",
		MaxWorkers: 3,
		Timeout:    90 * time.Second,
		LogLevel:   domain.LogLevelDebug,
		LogFormat:  domain.LogFormatJSON,
	}, settings)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	unsetEnv(t, domain.EndpointEnvVar)

	path := writeFile(t, t.TempDir(), "dsget.yaml", "target_dir: out\n")

	settings, err := newLoader(t).Load(path)
	require.NoError(t, err)
	assert.Equal(t, "out", settings.TargetDir)
	assert.Equal(t, domain.DefaultEndpoint, settings.Endpoint)
	assert.Equal(t, domain.DefaultMaxWorkers, settings.MaxWorkers)
	assert.Equal(t, domain.DefaultTimeout, settings.Timeout)
}

func TestLoad_ZeroTimeoutDisablesLimit(t *testing.T) {
	unsetEnv(t, domain.EndpointEnvVar)

	path := writeFile(t, t.TempDir(), "dsget.yaml", "timeout: 0s\n")

	settings, err := newLoader(t).Load(path)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), settings.Timeout)
}

func TestLoad_EndpointFromEnvironment(t *testing.T) {
	t.Setenv(domain.EndpointEnvVar, "https://mirror.example.org")

	settings, err := newLoader(t).Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://mirror.example.org", settings.Endpoint)
}

func TestLoad_EnvironmentEndpointTrailingSlash(t *testing.T) {
	t.Setenv(domain.EndpointEnvVar, "https://mirror.example.org//")

	settings, err := newLoader(t).Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://mirror.example.org", settings.Endpoint)
}

func TestLoad_FileEndpointWinsOverEnvironment(t *testing.T) {
	t.Setenv(domain.EndpointEnvVar, "https://mirror.example.org")
	path := writeFile(t, t.TempDir(), "dsget.yaml", "endpoint: https://file.example.org\n")

	settings, err := newLoader(t).Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://file.example.org", settings.Endpoint)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "dsget.yaml", "target_dir: [unclosed\n")

	_, err := newLoader(t).Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative workers", "max_workers: -1\n"},
		{"unknown format", "log_format: xml\n"},
		{"malformed timeout", "timeout: soon\n"},
		{"negative timeout", "timeout: -5s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "dsget.yaml", tt.content)

			_, err := newLoader(t).Load(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidConfig), "expected ErrInvalidConfig, got %v", err)
		})
	}
}

func TestLoad_DotEnvPopulatesToken(t *testing.T) {
	unsetEnv(t, domain.TokenEnvVar)
	unsetEnv(t, domain.EndpointEnvVar)

	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "HF_TOKEN=from-dotenv\n")

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()

	_, err := config.NewLoader(log).WithEnvFile(envPath).Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", os.Getenv(domain.TokenEnvVar))
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	t.Setenv(domain.TokenEnvVar, "from-shell")

	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "HF_TOKEN=from-dotenv\n")

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()

	_, err := config.NewLoader(log).WithEnvFile(envPath).Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-shell", os.Getenv(domain.TokenEnvVar))
}
