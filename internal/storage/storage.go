package storage

import (
	"mime/multipart"
	"path/filepath"

	"github.com/google/uuid"
)

// Storage abstracts where uploaded media ends up. Handlers only deal with
// the returned public URL.
type Storage interface {
	// Save stores an uploaded file under dir and returns its public URL.
	Save(file *multipart.FileHeader, dir string) (string, error)
	// SaveBytes stores raw bytes (e.g. a generated thumbnail) under dir with
	// the given extension and returns its public URL.
	SaveBytes(data []byte, dir, ext string) (string, error)
	// Delete removes a previously stored file by its public URL. Unknown
	// URLs are ignored.
	Delete(url string) error
}

// randomName builds a collision-free file name preserving the original
// extension.
func randomName(original string) string {
	return uuid.New().String() + filepath.Ext(original)
}
