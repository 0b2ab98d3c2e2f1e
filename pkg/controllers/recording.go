package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/screenrec/screenrec-server/pkg/config"
	"github.com/screenrec/screenrec-server/pkg/models"
	blobservice "github.com/screenrec/screenrec-server/pkg/services/blob"
	"github.com/sirupsen/logrus"
)

// RecordingController holds dependencies for recording-related handlers.
type RecordingController struct {
	AppConfig      *config.AppConfig
	RecordingModel *models.RecordingModel
	logger         *logrus.Entry
}

// NewRecordingController creates a new RecordingController.
func NewRecordingController(appConfig *config.AppConfig, rm *models.RecordingModel, logger *logrus.Logger) *RecordingController {
	return &RecordingController{
		AppConfig:      appConfig,
		RecordingModel: rm,
		logger:         logger.WithField("controller", "recording"),
	}
}

// HandleUploadRecording accepts one multipart upload in the `video` field,
// persists the blob and its metadata row and returns the public fields.
func (rc *RecordingController) HandleUploadRecording(c *fiber.Ctx) error {
	fh, err := c.FormFile("video")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	res, err := rc.RecordingModel.CreateRecording(c.UserContext(), fh)
	if err != nil {
		if errors.Is(err, blobservice.ErrFileTypeNotAllowed) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		rc.logger.WithError(err).Errorln("upload failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save recording",
		})
	}

	return c.JSON(res)
}

// HandleFetchRecordings returns every recording, newest first.
func (rc *RecordingController) HandleFetchRecordings(c *fiber.Ctx) error {
	recordings, err := rc.RecordingModel.FetchRecordings(c.UserContext())
	if err != nil {
		rc.logger.WithError(err).Errorln("fetch failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch recordings",
		})
	}

	return c.JSON(recordings)
}

// HandleDownloadRecording streams the blob behind one recording id.
func (rc *RecordingController) HandleDownloadRecording(c *fiber.Ctx) error {
	recordID := c.Params("id")

	recording, file, err := rc.RecordingModel.GetRecording(c.UserContext(), recordID)
	switch {
	case errors.Is(err, models.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	case errors.Is(err, models.ErrBlobMissing):
		rc.logger.WithField("recordId", recordID).Errorln("metadata row exists but blob is gone")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Recording file is missing",
		})
	case err != nil:
		rc.logger.WithError(err).Errorln("get recording failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch recording",
		})
	}

	if err = c.SendFile(file, true); err != nil {
		return err
	}
	// SendFile guesses the type from the extension; the sniffed type
	// recorded at upload time wins.
	if recording.MimeType != "" {
		c.Set(fiber.HeaderContentType, recording.MimeType)
	}
	return nil
}
