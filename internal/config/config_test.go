package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mt940.yaml")
	cfg := &Config{
		Encoding: "cp852",
		Dialect: DialectConfig{
			MBank:    true,
			Currency: "PLN",
		},
	}

	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dialect: [not a mapping"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	t.Run("default profile adds nothing", func(t *testing.T) {
		assert.Empty(t, Default().Options())
	})

	t.Run("full profile", func(t *testing.T) {
		cfg := &Config{
			Encoding: "latin1",
			Dialect: DialectConfig{
				ASNB:     true,
				Currency: "EUR",
			},
		}
		// encoding, tag override and pipeline override
		assert.Len(t, cfg.Options(), 3)
	})

	t.Run("details joiner only", func(t *testing.T) {
		cfg := &Config{Dialect: DialectConfig{DetailsWithSpace: true}}
		assert.Len(t, cfg.Options(), 1)
	})
}
