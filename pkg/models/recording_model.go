package models

import (
	"github.com/screenrec/screenrec-server/pkg/config"
	blobservice "github.com/screenrec/screenrec-server/pkg/services/blob"
	dbservice "github.com/screenrec/screenrec-server/pkg/services/db"
	redisservice "github.com/screenrec/screenrec-server/pkg/services/redis"
	"github.com/sirupsen/logrus"
)

// RecordingModel orchestrates the recording intake and query flows on top of
// the blob service and whichever metadata store is configured.
type RecordingModel struct {
	app    *config.AppConfig
	ds     dbservice.RecordingStore
	blob   *blobservice.BlobService
	rs     *redisservice.RedisService
	logger *logrus.Entry
}

func NewRecordingModel(app *config.AppConfig, ds dbservice.RecordingStore, blob *blobservice.BlobService, rs *redisservice.RedisService, logger *logrus.Logger) *RecordingModel {
	if app == nil {
		app = config.GetConfig()
	}

	return &RecordingModel{
		app:    app,
		ds:     ds,
		blob:   blob,
		rs:     rs,
		logger: logger.WithField("model", "recording"),
	}
}
