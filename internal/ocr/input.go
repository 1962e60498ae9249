package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
}

// IsImagePath reports whether path looks like a bill screenshot rather
// than plain text.
func IsImagePath(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// ReadBill loads bill text from path. Image files go through the
// recognizer; anything else is read as already-recognized text.
func ReadBill(ctx context.Context, path string, recognizer Recognizer) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read bill: %w", err)
	}

	if !IsImagePath(path) {
		return string(data), nil
	}

	if recognizer == nil {
		return "", fmt.Errorf("image input %s requires an ocr provider", filepath.Base(path))
	}

	text, err := recognizer.Recognize(ctx, data)
	if err != nil {
		return "", fmt.Errorf("recognize %s: %w", filepath.Base(path), err)
	}
	return text, nil
}
