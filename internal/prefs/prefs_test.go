package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/rfpbuilder/internal/api"
)

func TestSaveLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	p, err := Load()
	require.NoError(t, err)
	require.Equal(t, Prefs{}, p)

	require.NoError(t, Save(Prefs{Tone: api.TonePersuasive}))
	p, err = Load()
	require.NoError(t, err)
	require.Equal(t, api.TonePersuasive, p.Tone)
}

func TestLoadDropsUnknownTone(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "rfpbuilder"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rfpbuilder", prefsFile), []byte(`{"tone":"sarcastic"}`), 0o600))

	p, err := Load()
	require.NoError(t, err)
	require.Empty(t, p.Tone)
}

func TestErrorsNameTheFailedStep(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, "rfpbuilder", prefsFile)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	require.NoError(t, os.WriteFile(path, []byte(`{"tone":`), 0o600))
	_, err := Load()
	require.ErrorContains(t, err, "decode prefs")

	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0o755))
	_, err = Load()
	require.ErrorContains(t, err, "read prefs")

	require.NoError(t, os.Mkdir(path+".tmp", 0o755))
	err = Save(Prefs{Tone: api.ToneConcise})
	require.ErrorContains(t, err, "write prefs")
}
