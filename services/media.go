package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pabobernando/confused-be/storage"
	"github.com/pabobernando/confused-be/utils"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// resolveMediaPayload stores an inline base64 data URL in object storage and
// returns its public URL. Plain strings (URLs, empty values) pass through
// unchanged, and without an uploader everything passes through.
func resolveMediaPayload(ctx context.Context, uploader storage.FileUploader, prefix, name, payload string) (string, error) {
	if uploader == nil {
		return payload, nil
	}

	contentType, data, err := utils.DecodeDataURL(payload)
	if err != nil {
		if errors.Is(err, utils.ErrNotDataURL) {
			return payload, nil
		}
		return "", err
	}

	key := fmt.Sprintf("%s/%s-%s%s", prefix, slug.Make(name), uuid.NewString()[:8], extensionFor(contentType))
	result, err := uploader.Upload(ctx, key, contentType, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to upload %s payload: %w", prefix, err)
	}
	return result.Location, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		if ext, ok := strings.CutPrefix(contentType, "image/"); ok {
			return "." + ext
		}
		return ""
	}
}
