package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"droscher.com/WineCellar/configs"
	"droscher.com/WineCellar/pkg/model"
)

// Store keeps label images. References are opaque to callers: they are only persisted on the
// wine descriptor and handed back to Open or Delete.
type Store interface {
	Save(ctx context.Context, originalName string, data []byte) (string, error)
	Open(ctx context.Context, reference string) (io.ReadCloser, error)
	Delete(ctx context.Context, reference string) error
}

var (
	AllowedExtensions = []string{"png", "jpg", "jpeg"}

	ErrUnknownBackend = errors.New("unknown storage backend")

	unsafeCharacters = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)
)

const fallbackBaseName = "label"

func NewStore(ctx context.Context, conf configs.Storage, logger *zap.Logger) (Store, error) {
	switch conf.Backend {
	case configs.StorageLocal:
		return NewLocalStore(conf.Directory, conf.MaxUploadBytes, logger)
	case configs.StorageS3:
		return NewS3Store(ctx, conf, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, conf.Backend)
	}
}

// Extension returns the lowercased extension of name if it is an allowed label format.
func Extension(name string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))

	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return ext, nil
		}
	}

	return "", fmt.Errorf("%w: label %q must be one of %s", model.ErrValidation, name, strings.Join(AllowedExtensions, ", "))
}

// ContentType is the media type served for a label reference.
func ContentType(reference string) string {
	ext, _ := Extension(reference)
	if ext == "png" {
		return "image/png"
	}

	return "image/jpeg"
}

// GenerateReference builds a collision-resistant file name: the sanitized base name, an
// underscore, 32 hex characters and the lowercased extension.
func GenerateReference(originalName string) (string, error) {
	ext, err := Extension(originalName)
	if err != nil {
		return "", err
	}

	base := filepath.Base(strings.ReplaceAll(originalName, `\`, "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Trim(unsafeCharacters.ReplaceAllString(base, "_"), "._")

	if base == "" {
		base = fallbackBaseName
	}

	return fmt.Sprintf("%s_%s.%s", base, strings.ReplaceAll(uuid.NewString(), "-", ""), ext), nil
}

func checkUpload(originalName string, data []byte, maxBytes int64) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: label %q is empty", model.ErrValidation, originalName)
	}

	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return fmt.Errorf("%w: label %q is %d bytes, limit is %d", model.ErrValidation, originalName, len(data), maxBytes)
	}

	return nil
}

// checkReference rejects anything that is not a bare generated name.
func checkReference(reference string) error {
	if reference == "" || reference != filepath.Base(reference) || strings.HasPrefix(reference, ".") {
		return fmt.Errorf("%w: invalid label reference %q", model.ErrValidation, reference)
	}

	return nil
}
