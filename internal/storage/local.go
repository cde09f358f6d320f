package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStorage saves uploads to a directory on disk and serves them under
// a URL prefix (the router mounts the directory as static files).
type LocalStorage struct {
	root      string
	urlPrefix string
}

// NewLocalStorage creates a LocalStorage rooted at root, served at urlPrefix
func NewLocalStorage(root, urlPrefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &LocalStorage{root: root, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

// Save stores an uploaded file on disk and returns its public URL
func (s *LocalStorage) Save(file *multipart.FileHeader, dir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := randomName(file.Filename)
	if err := os.MkdirAll(filepath.Join(s.root, dir), 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(filepath.Join(s.root, dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return s.urlPrefix + "/" + dir + "/" + name, nil
}

// SaveBytes stores raw bytes on disk and returns their public URL
func (s *LocalStorage) SaveBytes(data []byte, dir, ext string) (string, error) {
	name := uuid.New().String() + ext
	if err := os.MkdirAll(filepath.Join(s.root, dir), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(s.root, dir, name), data, 0o644); err != nil {
		return "", err
	}
	return s.urlPrefix + "/" + dir + "/" + name, nil
}

// Delete removes a stored file by its public URL
func (s *LocalStorage) Delete(url string) error {
	rel, ok := strings.CutPrefix(url, s.urlPrefix+"/")
	if !ok {
		return nil
	}
	rel = filepath.Clean(rel)
	if rel == "." || strings.HasPrefix(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, rel))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
