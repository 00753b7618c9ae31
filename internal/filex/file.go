// Package filex reads local files for upload.
package filex

import (
	"fmt"
	"io"
	"net/http"
	"os"
)

// MaxUploadBytes caps files accepted by ReadUpload.
const MaxUploadBytes = 10 << 20

// ReadUpload reads the file at path and sniffs its content type.
// Empty files and files larger than MaxUploadBytes are rejected.
func ReadUpload(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%s is empty", path)
	}
	if len(data) > MaxUploadBytes {
		return nil, "", fmt.Errorf("%s exceeds %d bytes", path, MaxUploadBytes)
	}

	return data, http.DetectContentType(data), nil
}
