package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/greenfield/internal/pkg/logger"
)

// DefaultMaxFileSize bounds a single application document.
const DefaultMaxFileSize int64 = 10 << 20

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath    string // root directory on disk
	urlPrefix   string // public prefix the router serves basePath under
	maxFileSize int64
}

// NewLocalStorage creates the base directory and returns a LocalStorage whose
// returned paths start with urlPrefix (e.g. "/uploads").
func NewLocalStorage(basePath, urlPrefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath:    basePath,
		urlPrefix:   "/" + strings.Trim(urlPrefix, "/"),
		maxFileSize: DefaultMaxFileSize,
	}, nil
}

// SaveFileWithPath saves a file to a specified subdirectory
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("no file uploaded")
	}
	if fileHeader.Size > ls.maxFileSize {
		return "", ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedFileType
	}

	subPath = path.Clean("/" + filepath.ToSlash(subPath))[1:]

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	fullDirPath := filepath.Join(ls.basePath, filepath.FromSlash(subPath))
	if err := os.MkdirAll(fullDirPath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", fullDirPath).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	uniqueFilename := uuid.New().String() + ext
	dstPath := filepath.Join(fullDirPath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, io.LimitReader(file, ls.maxFileSize+1)); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	accessiblePath := path.Join(ls.urlPrefix, subPath, uniqueFilename)
	logger.Info().Str("filename", fileHeader.Filename).Str("accessible_path", accessiblePath).Msg("File saved successfully")
	return accessiblePath, nil
}

// DeleteFile removes a file from the storage filesystem. Missing files are
// not an error.
func (ls *LocalStorage) DeleteFile(filePath string) error {
	physicalPath, err := ls.physicalPath(filePath)
	if err != nil {
		return err
	}

	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

func (ls *LocalStorage) physicalPath(filePath string) (string, error) {
	rel := strings.TrimPrefix(path.Clean("/"+filePath), ls.urlPrefix)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" || rel == "." {
		return "", fmt.Errorf("invalid file path: %s", filePath)
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(rel)), nil
}
