package config

import (
	"os"
	"path/filepath"
	"testing"

	"killport-go/internal/owner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"KILLPORT_CONFIG", "KILLPORT_SILENT", "KILLPORT_DEBUG", "KILLPORT_LOG_LEVEL", "KILLPORT_LSOF", "KILLPORT_NETSTAT"} {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
silent: true
interactive: true
debug_log: /tmp/killport.log
tools:
  lsof: /usr/sbin/lsof
`)

	cfg, resolved, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, resolved)
	assert.True(t, cfg.Silent)
	assert.True(t, cfg.Interactive)
	assert.Equal(t, "/tmp/killport.log", cfg.DebugLog)
	assert.Equal(t, "/usr/sbin/lsof", cfg.Tools.Lsof)
	assert.Equal(t, "netstat", cfg.Tools.Netstat, "unset tools keep their default")
}

func TestLoadConfig_MissingDefaultIsFine(t *testing.T) {
	clearEnv(t)

	cfg, resolved, err := LoadConfig("")
	require.NoError(t, err)
	assert.Empty(t, resolved)
	assert.Equal(t, Defaults(), *cfg)
}

func TestLoadConfig_DefaultLocation(t *testing.T) {
	clearEnv(t)
	writeFile(t, DefaultPath(), "silent: true\n")

	cfg, resolved, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPath(), resolved)
	assert.True(t, cfg.Silent)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	_, _, err := LoadConfig(missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration file not found")

	t.Setenv("KILLPORT_CONFIG", missing)
	_, _, err = LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_BadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "silent: [\n")

	_, _, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "silent: false\ntools:\n  netstat: netstat.exe\n")
	t.Setenv("KILLPORT_CONFIG", path)
	t.Setenv("KILLPORT_SILENT", "1")
	t.Setenv("KILLPORT_DEBUG", "/var/tmp/kp.log")
	t.Setenv("KILLPORT_LSOF", "/opt/bin/lsof")
	t.Setenv("KILLPORT_NETSTAT", `C:\netstat.exe`)

	cfg, resolved, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, path, resolved)
	assert.True(t, cfg.Silent)
	assert.Equal(t, "/var/tmp/kp.log", cfg.DebugLog)
	assert.Equal(t, "/opt/bin/lsof", cfg.Tools.Lsof)
	assert.Equal(t, `C:\netstat.exe`, cfg.Tools.Netstat)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/xdg")
	assert.Equal(t, filepath.Join("/custom/xdg", "killport", "config.yaml"), DefaultPath())

	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".config", "killport", "config.yaml"), DefaultPath())
}

func TestDefaults_ToolsMatchResolverDefaults(t *testing.T) {
	tools := owner.DefaultTools()
	cfg := Defaults()
	assert.Equal(t, tools.Lsof, cfg.Tools.Lsof)
	assert.Equal(t, tools.Netstat, cfg.Tools.Netstat)
}

func TestLoadConfig_LogLevel(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "log_level: info\n")

	cfg, _, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)

	t.Setenv("KILLPORT_LOG_LEVEL", "warn")
	cfg, _, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfig_InvalidLogLevel(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "log_level: loud\n")

	_, _, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid log_level "loud"`)
}
