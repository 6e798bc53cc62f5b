package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/votacion-api/internal/logger"
)

// LocalStore writes images to a directory served under publicURL
type LocalStore struct {
	dir       string
	publicURL string
	log       *log.Logger
}

func NewLocalStore(dir, publicURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &LocalStore{
		dir:       dir,
		publicURL: strings.TrimRight(publicURL, "/"),
		log:       logger.Storage("local_uploads"),
	}, nil
}

// Dir is the directory served as static files
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(name))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	s.log.Debug("image stored", "path", path, "size", size)
	return s.publicURL + "/" + filepath.Base(name), nil
}

func (s *LocalStore) Remove(ctx context.Context, name string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
