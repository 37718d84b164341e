package filestorage

import (
	"errors"
	"mime/multipart"
)

// Upload validation errors
var (
	ErrFileTooLarge        = errors.New("file exceeds the maximum upload size")
	ErrUnsupportedFileType = errors.New("file type is not supported")
)

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveFileWithPath stores the upload under subPath and returns its accessible path
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// DeleteFile removes a file previously returned by SaveFileWithPath
	DeleteFile(filePath string) error
}
