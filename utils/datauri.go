package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"
)

var ErrInvalidDataURI = errors.New("invalid base64 data URI")

// ParseDataURI splits "data:<mime>;base64,<payload>" into its content type
// and decoded bytes.
func ParseDataURI(dataURI string) (string, []byte, error) {
	meta, payload, ok := strings.Cut(dataURI, ",")
	if !ok || !strings.HasPrefix(meta, "data:") || !strings.HasSuffix(meta, ";base64") {
		return "", nil, ErrInvalidDataURI
	}
	contentType := strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
	if contentType == "" {
		return "", nil, ErrInvalidDataURI
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return contentType, data, nil
}

// ExtensionFor picks a file extension for an image content type.
func ExtensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	if _, sub, ok := strings.Cut(contentType, "/"); ok {
		return "." + sub
	}
	return ""
}
