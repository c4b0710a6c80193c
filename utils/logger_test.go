package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogWriter(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		w, closeFn := NewLogWriter("stdout", LogFileOptions{})
		assert.Equal(t, os.Stdout, w)
		assert.NoError(t, closeFn())
	})

	t.Run("rotating file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "review.log")
		w, closeFn := NewLogWriter("file", LogFileOptions{Path: path, MaxSize: 1, MaxBackups: 1, MaxAge: 1})

		_, err := w.Write([]byte("submission recorded\n"))
		require.NoError(t, err)
		require.NoError(t, closeFn())

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "submission recorded\n", string(content))
	})
}
