package storage

import (
	"io"
	"os"
	"path/filepath"
)

// PhotoStorage хранит три варианта каждого фото осмотра на диске:
// загруженный оригинал, миниатюру для дашборда и аннотированный
// рендер, создаваемый после анализа.
type PhotoStorage interface {
	Save(path string, data io.Reader) error
	Get(path string) (io.ReadCloser, error)
	Delete(path string) error
	Exists(path string) bool

	OriginalPath(photoID string) string
	ThumbnailPath(photoID string) string
	AnnotatedPath(photoID string) string
	FullPath(path string) string
}

type photoStorage struct {
	basePath string
}

func NewPhotoStorage(basePath string) PhotoStorage {
	return &photoStorage{basePath: basePath}
}

func (s *photoStorage) Save(path string, data io.Reader) error {
	fullPath := filepath.Join(s.basePath, path)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(file, data)
	return err
}

func (s *photoStorage) Get(path string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.basePath, path)
	return os.Open(fullPath)
}

func (s *photoStorage) Delete(path string) error {
	fullPath := filepath.Join(s.basePath, path)
	return os.Remove(fullPath)
}

func (s *photoStorage) Exists(path string) bool {
	fullPath := filepath.Join(s.basePath, path)
	_, err := os.Stat(fullPath)
	return !os.IsNotExist(err)
}

func (s *photoStorage) OriginalPath(photoID string) string {
	return filepath.Join("original", photoID)
}

func (s *photoStorage) ThumbnailPath(photoID string) string {
	return filepath.Join("thumbnail", photoID)
}

func (s *photoStorage) AnnotatedPath(photoID string) string {
	return filepath.Join("annotated", photoID)
}

func (s *photoStorage) FullPath(path string) string {
	return filepath.Join(s.basePath, path)
}
