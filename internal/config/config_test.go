package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(envConfigPath, "")
	t.Setenv("RFPBUILDER_BACKEND_URL", "")
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, DefaultBackendURL, cfg.Backend.URL)
	require.Zero(t, cfg.Backend.Timeout)
	require.Equal(t, "Executive Summary", cfg.Editor.DefaultHeading)
	require.Equal(t, "professional", cfg.Editor.DefaultTone)
	require.Equal(t, filepath.Join(home, ".local", "state", "rfpbuilder", "rfpbuilder.log"), cfg.Log.Path)
	require.False(t, cfg.Log.Debug)
}

func TestLoadFileAndEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[backend]
url = "http://rfp.internal:9000"
timeout = "15s"

[editor]
default_heading = "Scope of Work"
default_tone = "Concise"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://rfp.internal:9000", cfg.Backend.URL)
	require.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	require.Equal(t, "Scope of Work", cfg.Editor.DefaultHeading)
	require.Equal(t, "concise", cfg.Editor.DefaultTone)

	t.Setenv("RFPBUILDER_BACKEND_URL", "https://rfp.example.com")
	t.Setenv("RFPBUILDER_LOG_DEBUG", "true")
	cfg, err = Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://rfp.example.com", cfg.Backend.URL)
	require.True(t, cfg.Log.Debug)
}

func TestLoadMissingExplicitFileUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, DefaultBackendURL, cfg.Backend.URL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "relative url", cfg: Config{Backend: BackendConfig{URL: "localhost:8000"}, Editor: EditorConfig{DefaultTone: "concise"}}, wantErr: "backend.url"},
		{name: "ftp url", cfg: Config{Backend: BackendConfig{URL: "ftp://host"}, Editor: EditorConfig{DefaultTone: "concise"}}, wantErr: "backend.url"},
		{name: "negative timeout", cfg: Config{Backend: BackendConfig{URL: DefaultBackendURL, Timeout: -time.Second}, Editor: EditorConfig{DefaultTone: "concise"}}, wantErr: "backend.timeout"},
		{name: "bad tone", cfg: Config{Backend: BackendConfig{URL: DefaultBackendURL}, Editor: EditorConfig{DefaultTone: "casual"}}, wantErr: "editor.default_tone"},
		{name: "blank url falls back", cfg: Config{Editor: EditorConfig{DefaultTone: "persuasive"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, DefaultBackendURL, tt.cfg.Backend.URL)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	in := Config{
		Backend: BackendConfig{URL: "http://10.0.0.5:8000", Timeout: 3 * time.Second},
		Log:     LogConfig{Path: "/tmp/rfp.log", Debug: true},
		Editor:  EditorConfig{DefaultHeading: "Pricing", DefaultTone: "persuasive"},
	}
	require.NoError(t, Save(path, in))

	out, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestPathPrecedence(t *testing.T) {
	home := isolate(t)
	require.Equal(t, filepath.Join(home, ".config", "rfpbuilder", "config.toml"), Path(""))

	t.Setenv(envConfigPath, "/etc/rfpbuilder.toml")
	require.Equal(t, "/etc/rfpbuilder.toml", Path(""))
	require.Equal(t, "/tmp/explicit.toml", Path("/tmp/explicit.toml"))
}
