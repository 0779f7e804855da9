package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"droscher.com/WineCellar/pkg/model"
)

const (
	directoryPerm = 0o755
	filePerm      = 0o644
)

var writeLabel = func(w io.Writer, data []byte) (int, error) {
	return w.Write(data)
}

type LocalStore struct {
	directory string
	maxBytes  int64
	logger    *zap.Logger
}

func NewLocalStore(directory string, maxBytes int64, logger *zap.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(directory, directoryPerm); err != nil {
		return nil, fmt.Errorf("%w: creating label directory: %w", model.ErrStorage, err)
	}

	return &LocalStore{directory: directory, maxBytes: maxBytes, logger: logger}, nil
}

func (l *LocalStore) Save(_ context.Context, originalName string, data []byte) (string, error) {
	if err := checkUpload(originalName, data, l.maxBytes); err != nil {
		return "", err
	}

	reference, err := GenerateReference(originalName)
	if err != nil {
		return "", err
	}

	path := filepath.Join(l.directory, reference)

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	_, err = writeLabel(file, data)
	err = multierr.Append(err, file.Close())

	if err != nil {
		err = multierr.Append(err, os.Remove(path))
		l.logger.Error("error storing label", zap.String("reference", reference), zap.Error(err))

		return "", fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	l.logger.Info("stored label", zap.String("reference", reference), zap.Int("bytes", len(data)))

	return reference, nil
}

func (l *LocalStore) Open(_ context.Context, reference string) (io.ReadCloser, error) {
	if err := checkReference(reference); err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(l.directory, reference))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: label %s", model.ErrNotFound, reference)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	return file, nil
}

func (l *LocalStore) Delete(_ context.Context, reference string) error {
	if err := checkReference(reference); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(l.directory, reference))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	return nil
}
