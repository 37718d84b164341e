package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestSaveAndDeleteFile(t *testing.T) {
	base := t.TempDir()
	storage, err := NewLocalStorage(base, "uploads")
	require.NoError(t, err)

	saved, err := storage.SaveFileWithPath(multipartFile(t, "transcript.PDF", []byte("%PDF-1.4")), "applications/7")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(saved, "/uploads/applications/7/"))
	assert.True(t, strings.HasSuffix(saved, ".pdf"))

	onDisk := filepath.Join(base, "applications", "7", filepath.Base(saved))
	_, err = os.Stat(onDisk)
	require.NoError(t, err)

	require.NoError(t, storage.DeleteFile(saved))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, storage.DeleteFile(saved), "deleting twice is not an error")
}

func TestSaveRejectsUnsupportedType(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = storage.SaveFileWithPath(multipartFile(t, "run.sh", []byte("#!/bin/sh")), "x")
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestSaveKeepsSubPathInsideBase(t *testing.T) {
	base := t.TempDir()
	storage, err := NewLocalStorage(base, "/uploads")
	require.NoError(t, err)

	saved, err := storage.SaveFileWithPath(multipartFile(t, "a.png", []byte("png")), "../../etc")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(saved, "/uploads/etc/"))
	_, err = os.Stat(filepath.Join(base, "etc", filepath.Base(saved)))
	assert.NoError(t, err)
}
