package models

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/screenrec/screenrec-server/pkg/config"
	blobservice "github.com/screenrec/screenrec-server/pkg/services/blob"
	dbservice "github.com/screenrec/screenrec-server/pkg/services/db"
	redisservice "github.com/screenrec/screenrec-server/pkg/services/redis"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var webmHeader = []byte{0x1A, 0x45, 0xDF, 0xA3, 0x42, 0x82, 0x84, 'w', 'e', 'b', 'm'}

func makeFileHeader(t *testing.T, content []byte) *multipart.FileHeader {
	t.Helper()

	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("video", "capture.webm")
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

func newTestRecordingModel(t *testing.T) (*RecordingModel, *config.AppConfig) {
	t.Helper()

	appCnf := &config.AppConfig{}
	appCnf.UploadFileSettings.Path = t.TempDir()
	appCnf.UploadFileSettings.PublicPrefix = "/uploads"

	lg := logrus.New()
	ds, err := dbservice.NewFileStore(filepath.Join(t.TempDir(), "recordings.json"), lg)
	require.NoError(t, err)
	blob, err := blobservice.New(appCnf, lg)
	require.NoError(t, err)

	return NewRecordingModel(appCnf, ds, blob, redisservice.New(nil), lg), appCnf
}

func TestRecordingModel_CreateAndFetch(t *testing.T) {
	m, _ := newTestRecordingModel(t)
	ctx := context.Background()

	start := time.Now().UTC()
	res, err := m.CreateRecording(ctx, makeFileHeader(t, webmHeader))
	require.NoError(t, err)
	end := time.Now().UTC()

	assert.NotEmpty(t, res.RecordID)
	assert.Equal(t, "/uploads/"+res.FileName, res.FilePath)

	recordings, err := m.FetchRecordings(ctx)
	require.NoError(t, err)
	require.Len(t, recordings, 1)
	assert.Equal(t, res.FileName, recordings[0].FileName)
	assert.Equal(t, res.FilePath, recordings[0].FilePath)
	assert.False(t, recordings[0].CreatedAt.Before(start))
	assert.False(t, recordings[0].CreatedAt.After(end))
}

func TestRecordingModel_GetRecordingRoundTrip(t *testing.T) {
	m, _ := newTestRecordingModel(t)
	ctx := context.Background()

	content := append(append([]byte{}, webmHeader...), []byte("payload")...)
	res, err := m.CreateRecording(ctx, makeFileHeader(t, content))
	require.NoError(t, err)

	recording, file, err := m.GetRecording(ctx, res.RecordID)
	require.NoError(t, err)
	assert.Equal(t, res.FileName, recording.FileName)
	assert.FileExists(t, file)
}

func TestRecordingModel_GetRecordingNotFound(t *testing.T) {
	m, _ := newTestRecordingModel(t)

	_, _, err := m.GetRecording(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRecordingModel_GetRecordingBlobMissing(t *testing.T) {
	m, _ := newTestRecordingModel(t)
	ctx := context.Background()

	res, err := m.CreateRecording(ctx, makeFileHeader(t, webmHeader))
	require.NoError(t, err)

	// delete the blob behind the store's back
	require.NoError(t, m.blob.Remove(res.FileName))

	_, _, err = m.GetRecording(ctx, res.RecordID)
	assert.ErrorIs(t, err, ErrBlobMissing)
	assert.NotErrorIs(t, err, ErrRecordNotFound)
}
