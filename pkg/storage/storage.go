package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/tair/foodgram/pkg/exceptions"
)

// RecipeImageDir is the key prefix recipe images are stored under
const RecipeImageDir = "recipes"

// URLResolver turns a stored key into a public URL
type URLResolver interface {
	URL(key string) string
}

// ImageStore persists uploaded images and resolves their public URL
type ImageStore interface {
	URLResolver
	Save(ctx context.Context, img Image) (string, error)
	Delete(ctx context.Context, key string) error
}

// Image is a decoded upload
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

var extensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// DecodeDataURI decodes "data:image/<type>;base64,<payload>"
func DecodeDataURI(uri string) (Image, error) {
	invalid := exceptions.InvalidInput("Загруженный файл не является корректным изображением")

	meta, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(meta, "data:") || !strings.HasSuffix(meta, ";base64") {
		return Image{}, invalid
	}

	contentType := strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
	ext, ok := extensions[strings.ToLower(contentType)]
	if !ok {
		return Image{}, invalid
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return Image{}, invalid
	}

	return Image{Data: data, ContentType: contentType, Extension: ext}, nil
}

// NewKey returns a unique object key under dir
func NewKey(dir, ext string) string {
	return path.Join(dir, fmt.Sprintf("%s.%s", uuid.NewString(), ext))
}
