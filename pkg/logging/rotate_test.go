package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotatingWriter_WritesToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.log")

	w, err := NewRotatingWriter(path)
	require.NoError(t, err)
	defer w.Close()

	n, err := w.Write([]byte("hello\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestRotatingWriter_CreatesParentDirectories(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "deep", "nested", "app.log")

	w, err := NewRotatingWriter(path)
	require.NoError(t, err)
	defer w.Close()

	_, err = os.Stat(filepath.Dir(path))
	require.NoError(t, err)
}

func TestRotatingWriter_RotatesWhenSizeExceeded(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.log")

	w, err := NewRotatingWriter(path, WithMaxSize(10), WithMaxBackups(2))
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Write([]byte("first.....")) // fills the file exactly
	require.NoError(t, err)
	_, err = w.Write([]byte("second")) // forces a rotation
	require.NoError(t, err)

	backup, err := os.ReadFile(path + ".1")
	require.NoError(t, err)
	assert.Equal(t, "first.....", string(backup))

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(current))
}

func TestRotatingWriter_DropsOldestBackup(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.log")

	w, err := NewRotatingWriter(path, WithMaxSize(4), WithMaxBackups(2))
	require.NoError(t, err)
	defer w.Close()

	for _, chunk := range []string{"aaaa", "bbbb", "cccc", "dddd"} {
		_, err = w.Write([]byte(chunk))
		require.NoError(t, err)
	}

	// Only the two newest backups survive.
	backup1, err := os.ReadFile(path + ".1")
	require.NoError(t, err)
	assert.Equal(t, "cccc", string(backup1))

	backup2, err := os.ReadFile(path + ".2")
	require.NoError(t, err)
	assert.Equal(t, "bbbb", string(backup2))

	_, err = os.Stat(path + ".3")
	assert.True(t, os.IsNotExist(err))

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "dddd", string(current))
}

func TestRotatingWriter_AppendsToExistingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte("old "), 0o600))

	w, err := NewRotatingWriter(path)
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Write([]byte("new"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old new", string(data))
}

func TestSetup_FilePathOwnsRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	closer, err := Setup(path, false)
	require.NoError(t, err)
	require.NoError(t, closer.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestSetup_EmptyPathHasNoCloser(t *testing.T) {
	closer, err := Setup("", true)
	require.NoError(t, err)
	assert.Nil(t, closer)
}

func TestRotatingWriter_LargeSingleWrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.log")

	w, err := NewRotatingWriter(path, WithMaxSize(8), WithMaxBackups(1))
	require.NoError(t, err)
	defer w.Close()

	payload := strings.Repeat("x", 20)
	_, err = w.Write([]byte(payload))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, string(data))
}
