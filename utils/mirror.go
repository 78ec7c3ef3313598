package utils

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

// MirrorImageToS3 downloads an image URL, uploads it to S3 under the given
// folder prefix, and returns a presigned URL for it. Callers should fall
// back to the original URL when this fails; scraped image links go stale
// but are better than nothing.
func MirrorImageToS3(ctx context.Context, imageURL, folderPrefix string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download image, status: %d", resp.StatusCode)
	}

	filename := filepath.Base(imageURL)
	if idx := strings.Index(filename, "?"); idx >= 0 {
		filename = filename[:idx]
	}
	if filename == "" || filename == "." || filename == "/" || len(filename) > 255 {
		filename = "image.jpg"
	}
	objectKey := fmt.Sprintf("%s/%d_%s", folderPrefix, time.Now().UnixNano(), filename)

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	if _, err := UploadFileToS3(ctx, resp.Body, objectKey, contentType); err != nil {
		return "", err
	}

	return GetPresignedURL(ctx, objectKey)
}
