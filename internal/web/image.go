package web

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	_ "golang.org/x/image/webp"
)

const maxPhotoSize = 20 * 1024 * 1024 // 20 MB

// allowedImageTypes are the upload formats, as named by
// http.DetectContentType. Each one has a decoder registered above.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// allowedImageMIME returns the sniffed MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

// inspectImage checks that data is an accepted format whose header decodes,
// so truncated or disguised uploads never reach the model.
func inspectImage(data []byte) (string, image.Config, error) {
	mimeType, ok := allowedImageMIME(data)
	if !ok {
		return "", image.Config{}, fmt.Errorf("unsupported image format")
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", image.Config{}, fmt.Errorf("failed to decode %s header: %w", mimeType, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return "", image.Config{}, fmt.Errorf("image has no pixels")
	}
	return mimeType, cfg, nil
}
