package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestReadUpload_PNG(t *testing.T) {
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 16)...)
	path := writeFile(t, "cover.png", png)

	data, ct, err := ReadUpload(path)
	require.NoError(t, err)
	assert.Equal(t, png, data)
	assert.Equal(t, "image/png", ct)
}

func TestReadUpload_Text(t *testing.T) {
	path := writeFile(t, "notes.txt", []byte("hello"))

	_, ct, err := ReadUpload(path)
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", ct)
}

func TestReadUpload_Errors(t *testing.T) {
	_, _, err := ReadUpload(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	_, _, err = ReadUpload(writeFile(t, "empty", nil))
	assert.ErrorContains(t, err, "is empty")

	_, _, err = ReadUpload(writeFile(t, "big", make([]byte, MaxUploadBytes+1)))
	assert.ErrorContains(t, err, "exceeds")
}
