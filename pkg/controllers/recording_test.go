package controllers

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/screenrec/screenrec-server/pkg/config"
	"github.com/screenrec/screenrec-server/pkg/dbmodels"
	"github.com/screenrec/screenrec-server/pkg/models"
	blobservice "github.com/screenrec/screenrec-server/pkg/services/blob"
	dbservice "github.com/screenrec/screenrec-server/pkg/services/db"
	redisservice "github.com/screenrec/screenrec-server/pkg/services/redis"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var webmHeader = []byte{0x1A, 0x45, 0xDF, 0xA3, 0x42, 0x82, 0x84, 'w', 'e', 'b', 'm'}

func setupApp(t *testing.T) (*fiber.App, dbservice.RecordingStore) {
	t.Helper()

	appCnf := &config.AppConfig{}
	appCnf.UploadFileSettings.Path = t.TempDir()
	appCnf.UploadFileSettings.PublicPrefix = "/uploads"
	appCnf.Logger = logrus.New()

	lg := appCnf.Logger
	ds, err := dbservice.NewFileStore(filepath.Join(t.TempDir(), "recordings.json"), lg)
	require.NoError(t, err)
	blob, err := blobservice.New(appCnf, lg)
	require.NoError(t, err)

	rm := models.NewRecordingModel(appCnf, ds, blob, redisservice.New(nil), lg)
	rc := NewRecordingController(appCnf, rm, lg)
	hc := NewHealthCheckController(ds)

	app := fiber.New()
	app.Static(appCnf.UploadFileSettings.PublicPrefix, appCnf.UploadFileSettings.Path)
	app.Get("/healthCheck", hc.HandleHealthCheck)
	api := app.Group("/api")
	recordings := api.Group("/recordings")
	recordings.Post("/", rc.HandleUploadRecording)
	recordings.Get("/", rc.HandleFetchRecordings)
	recordings.Get("/:id", rc.HandleDownloadRecording)

	return app, ds
}

func uploadRequest(t *testing.T, content []byte) *http.Request {
	t.Helper()

	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("video", "capture.webm")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/recordings", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func TestHandleUploadRecording(t *testing.T) {
	app, _ := setupApp(t)

	resp, err := app.Test(uploadRequest(t, webmHeader))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	res := new(models.CreateRecordingRes)
	decodeBody(t, resp, res)
	assert.NotEmpty(t, res.RecordID)
	assert.NotEmpty(t, res.FileName)
	assert.Equal(t, "/uploads/"+res.FileName, res.FilePath)
	assert.Equal(t, "Upload successful", res.Message)
}

func TestHandleUploadRecording_NoFile(t *testing.T) {
	app, ds := setupApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/recordings", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// no side effects
	recordings, err := ds.ListAll(req.Context())
	require.NoError(t, err)
	assert.Empty(t, recordings)
}

func TestHandleFetchRecordings(t *testing.T) {
	app, _ := setupApp(t)

	resp, err := app.Test(uploadRequest(t, webmHeader))
	require.NoError(t, err)
	uploaded := new(models.CreateRecordingRes)
	decodeBody(t, resp, uploaded)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/recordings", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var recordings []dbmodels.Recording
	decodeBody(t, resp, &recordings)
	require.Len(t, recordings, 1)
	assert.Equal(t, uploaded.FileName, recordings[0].FileName)
	assert.Equal(t, uploaded.FilePath, recordings[0].FilePath)
}

func TestHandleDownloadRecording_RoundTrip(t *testing.T) {
	app, _ := setupApp(t)

	content := append(append([]byte{}, webmHeader...), []byte("frame data")...)
	resp, err := app.Test(uploadRequest(t, content))
	require.NoError(t, err)
	uploaded := new(models.CreateRecordingRes)
	decodeBody(t, resp, uploaded)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/recordings/"+uploaded.RecordID, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, content, got, "downloaded bytes must equal uploaded bytes")

	// blobs stay reachable directly under the public prefix too
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, uploaded.FilePath, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	got, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestHandleDownloadRecording_NotFound(t *testing.T) {
	app, _ := setupApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/recordings/"+uuid.NewString(), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := make(map[string]string)
	decodeBody(t, resp, &body)
	assert.Equal(t, "Not found", body["error"])
}

func TestHandleUploadRecording_Concurrent(t *testing.T) {
	app, _ := setupApp(t)

	const n = 8
	results := make([]models.CreateRecordingRes, n)

	var g errgroup.Group
	for i := 0; i < n; i++ {
		content := append(append([]byte{}, webmHeader...), []byte(fmt.Sprintf("clip-%d", i))...)
		g.Go(func() error {
			resp, err := app.Test(uploadRequest(t, content))
			if err != nil {
				return err
			}
			raw, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			return json.Unmarshal(raw, &results[i])
		})
	}
	require.NoError(t, g.Wait())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/recordings", nil))
	require.NoError(t, err)
	var recordings []dbmodels.Recording
	decodeBody(t, resp, &recordings)
	require.Len(t, recordings, n, "every concurrent upload must survive")

	seen := make(map[string]struct{}, n)
	for _, r := range recordings {
		seen[r.RecordID] = struct{}{}
	}
	assert.Len(t, seen, n)

	for i := 1; i < len(recordings); i++ {
		assert.False(t, recordings[i-1].CreatedAt.Before(recordings[i].CreatedAt))
	}
}

func TestHandleHealthCheck(t *testing.T) {
	app, _ := setupApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthCheck", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
