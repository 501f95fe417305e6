package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

type localStorage struct {
	baseDir string
}

func NewLocalStorage(baseDir string) Storage {
	return &localStorage{baseDir: baseDir}
}

func (l *localStorage) UploadFile(fileName string, file *multipart.FileHeader, dir string, allowedTypes ...string) (string, error) {
	ext, err := checkExtension(file, allowedTypes)
	if err != nil {
		return "", err
	}

	objectKey := filepath.Join(dir, fileName+ext)
	fullPath := filepath.Join(l.baseDir, objectKey)

	if err := os.MkdirAll(filepath.Dir(fullPath), os.ModePerm); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return objectKey, nil
}

func (l *localStorage) DeleteFile(objectKey string) error {
	return os.Remove(filepath.Join(l.baseDir, objectKey))
}

func (l *localStorage) PublicLink(objectKey string) string {
	// Served by the static /uploads route.
	return "/uploads/" + filepath.ToSlash(objectKey)
}
