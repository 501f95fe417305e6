package storage

import (
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"

	"tastebook/internal/utils"
)

// AllowImage is the extension allow-list for recipe and step images.
var AllowImage = []string{".jpg", ".jpeg", ".png", ".webp"}

var ErrFileTypeNotAllowed = errors.New("file type not allowed")

type Storage interface {
	// UploadFile stores the file under dir with the given base name and
	// returns the object key. An extension allow-list is enforced.
	UploadFile(fileName string, file *multipart.FileHeader, dir string, allowedTypes ...string) (string, error)
	DeleteFile(objectKey string) error
	// PublicLink resolves an object key to the URL/path clients reference.
	PublicLink(objectKey string) string
}

// NewStorage picks the configured backend; local disk unless STORAGE_DRIVER
// is "s3".
func NewStorage() Storage {
	if utils.GetConfig("STORAGE_DRIVER") == "s3" {
		return NewAwsS3()
	}
	return NewLocalStorage(utils.GetConfig("UPLOAD_DIR"))
}

func checkExtension(file *multipart.FileHeader, allowedTypes []string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(allowedTypes) == 0 {
		return ext, nil
	}
	for _, allowed := range allowedTypes {
		if ext == allowed {
			return ext, nil
		}
	}
	return "", ErrFileTypeNotAllowed
}
