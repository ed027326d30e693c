package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/VDronovVladislav/foodgram-project-react/internal/utils"
)

var (
	AllowImage = []string{"jpg", "png", "gif", "webp", "bmp"}

	ErrExtensionNotAllowed = errors.New("file extension not allowed")
)

// Storage keeps uploaded media. Object keys look like "<folder>/<name>.<ext>".
type Storage interface {
	UploadFile(ctx context.Context, name, ext string, data []byte, folder string, allowed ...string) (string, error)
	GetPublicLinkKey(objectKey string) string
	DeleteFile(ctx context.Context, objectKey string) error
}

// New returns the S3 backend when a bucket is configured and the local disk
// backend otherwise.
func New(ctx context.Context) (Storage, error) {
	if utils.GetConfig("AWS_S3_BUCKET") != "" {
		return NewAwsS3(ctx)
	}
	return NewLocalStorage(utils.GetConfig("MEDIA_ROOT"), mediaBaseURL()), nil
}

func mediaBaseURL() string {
	return strings.TrimRight(utils.GetConfig("APP_URL"), "/") + "/" + strings.Trim(utils.GetConfig("MEDIA_URL"), "/")
}

func objectKey(name, ext, folder string, allowed []string) (string, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if len(allowed) > 0 && !slices.Contains(allowed, ext) {
		return "", fmt.Errorf("%w: %s", ErrExtensionNotAllowed, ext)
	}
	return fmt.Sprintf("%s/%s.%s", strings.Trim(folder, "/"), name, ext), nil
}
