package blobservice

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/screenrec/screenrec-server/pkg/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimal EBML header with a webm DocType, enough for mime sniffing
var webmHeader = []byte{0x1A, 0x45, 0xDF, 0xA3, 0x42, 0x82, 0x84, 'w', 'e', 'b', 'm'}

func makeFileHeader(t *testing.T, fileName string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("video", fileName)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	_, fh, err := req.FormFile("video")
	require.NoError(t, err)
	return fh
}

func newTestBlobService(t *testing.T, allowedTypes []string) *BlobService {
	t.Helper()

	appCnf := &config.AppConfig{}
	appCnf.UploadFileSettings.Path = t.TempDir()
	appCnf.UploadFileSettings.PublicPrefix = "/uploads"
	appCnf.UploadFileSettings.AllowedTypes = allowedTypes

	s, err := New(appCnf, logrus.New())
	require.NoError(t, err)
	return s
}

func TestBlobService_SaveAndResolveRoundTrip(t *testing.T) {
	s := newTestBlobService(t, nil)

	content := append(append([]byte{}, webmHeader...), []byte("frame data")...)
	saved, err := s.Save(makeFileHeader(t, "capture.webm", content))
	require.NoError(t, err)

	assert.NotEmpty(t, saved.FileName)
	assert.NotEqual(t, "capture.webm", saved.FileName, "client name must never be reused")
	assert.Equal(t, "/uploads/"+saved.FileName, saved.FilePath)
	assert.Equal(t, int64(len(content)), saved.Size)
	assert.Equal(t, "video/webm", saved.MimeType)

	file, err := s.Resolve(saved.FileName)
	require.NoError(t, err)
	got, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, content, got, "stored bytes must match the upload byte-for-byte")
}

func TestBlobService_DistinctNamesForIdenticalUploads(t *testing.T) {
	s := newTestBlobService(t, nil)

	a, err := s.Save(makeFileHeader(t, "x.webm", webmHeader))
	require.NoError(t, err)
	b, err := s.Save(makeFileHeader(t, "x.webm", webmHeader))
	require.NoError(t, err)

	assert.NotEqual(t, a.FileName, b.FileName)
}

func TestBlobService_RejectsDisallowedType(t *testing.T) {
	s := newTestBlobService(t, []string{"webm", "mp4"})

	_, err := s.Save(makeFileHeader(t, "readme.txt", []byte("just some text")))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileTypeNotAllowed)
}

func TestBlobService_ResolveMissingBlob(t *testing.T) {
	s := newTestBlobService(t, nil)

	saved, err := s.Save(makeFileHeader(t, "x.webm", webmHeader))
	require.NoError(t, err)

	require.NoError(t, s.Remove(saved.FileName))
	_, err = s.Resolve(saved.FileName)
	assert.ErrorIs(t, err, ErrBlobMissing)
}
