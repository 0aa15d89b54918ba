package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeTLSConfig(t *testing.T) {
	t.Run("NoFiles", func(t *testing.T) {
		cfg, err := MakeTLSConfig("", "", "")
		require.NoError(t, err)
		assert.NotNil(t, cfg.RootCAs)
		assert.Empty(t, cfg.Certificates)
	})

	t.Run("MissingCA", func(t *testing.T) {
		_, err := MakeTLSConfig(filepath.Join(t.TempDir(), "nope.pem"), "", "")
		require.Error(t, err)
	})

	t.Run("InvalidCA", func(t *testing.T) {
		ca := filepath.Join(t.TempDir(), "ca.pem")
		require.NoError(t, os.WriteFile(ca, []byte("not a cert"), 0o600))
		_, err := MakeTLSConfig(ca, "", "")
		require.Error(t, err)
	})

	t.Run("MissingKeyPair", func(t *testing.T) {
		dir := t.TempDir()
		_, err := MakeTLSConfig(
			"", filepath.Join(dir, "c.pem"), filepath.Join(dir, "k.pem"),
		)
		require.Error(t, err)
	})
}
