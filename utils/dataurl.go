package utils

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrNotDataURL = errors.New("value is not a base64 data URL")

// DecodeDataURL splits a "data:image/png;base64,...." payload into its
// content type and raw bytes. Plain URLs and empty strings return
// ErrNotDataURL so callers can store them untouched.
func DecodeDataURL(value string) (contentType string, data []byte, err error) {
	if !strings.HasPrefix(value, "data:") {
		return "", nil, ErrNotDataURL
	}

	meta, payload, found := strings.Cut(value[len("data:"):], ",")
	if !found {
		return "", nil, ErrNotDataURL
	}

	contentType = strings.TrimSuffix(meta, ";base64")
	if contentType == meta {
		// Only base64-encoded data URLs are accepted.
		return "", nil, ErrNotDataURL
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, ErrNotDataURL
	}
	return contentType, data, nil
}
