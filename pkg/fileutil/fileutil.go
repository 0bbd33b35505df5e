// Package fileutil converts uploaded files into plain encoded payloads
// for transport. There is no binary path to the decisioning service.
package fileutil

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
)

// MaxUploadBytes caps attached documents at 10 MiB.
const MaxUploadBytes = 10 << 20

// EncodeMultipart reads a multipart upload and returns its name,
// declared media type, and base64-encoded contents (no data-URL
// prefix).
func EncodeMultipart(fh *multipart.FileHeader) (fileName, fileType, encoded string, err error) {
	if fh.Size > MaxUploadBytes {
		return "", "", "", fmt.Errorf("file %q exceeds %d byte limit", fh.Filename, MaxUploadBytes)
	}

	f, err := fh.Open()
	if err != nil {
		return "", "", "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes+1))
	if err != nil {
		return "", "", "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return "", "", "", fmt.Errorf("file %q exceeds %d byte limit", fh.Filename, MaxUploadBytes)
	}

	fileType = fh.Header.Get("Content-Type")
	if fileType == "" {
		fileType = mime.TypeByExtension(filepath.Ext(fh.Filename))
	}
	if fileType == "" {
		fileType = "application/octet-stream"
	}

	return fh.Filename, fileType, base64.StdEncoding.EncodeToString(data), nil
}
