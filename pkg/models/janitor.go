package models

import (
	"context"
	"os"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/screenrec/screenrec-server/pkg/config"
	blobservice "github.com/screenrec/screenrec-server/pkg/services/blob"
	dbservice "github.com/screenrec/screenrec-server/pkg/services/db"
	"github.com/sirupsen/logrus"
)

// JanitorModel reconciles the one partial-failure mode the intake flow can
// leave behind: a blob on disk with no metadata row. It periodically sweeps
// the upload directory and deletes orphans once they are old enough that no
// in-flight upload can still claim them.
type JanitorModel struct {
	ctx    context.Context
	cancel context.CancelFunc
	app    *config.AppConfig
	ds     dbservice.RecordingStore
	blob   *blobservice.BlobService
	pool   *workerpool.WorkerPool
	logger *logrus.Entry
}

func NewJanitorModel(mainCtx context.Context, app *config.AppConfig, ds dbservice.RecordingStore, blob *blobservice.BlobService, logger *logrus.Logger) *JanitorModel {
	ctx, cancel := context.WithCancel(mainCtx)

	return &JanitorModel{
		ctx:    ctx,
		cancel: cancel,
		app:    app,
		ds:     ds,
		blob:   blob,
		pool:   workerpool.New(2),
		logger: logger.WithField("model", "janitor"),
	}
}

// StartJanitor runs the sweep loop until Shutdown is called. Intended to run
// in its own goroutine.
func (m *JanitorModel) StartJanitor() {
	if !m.app.JanitorSettings.Enabled {
		return
	}
	m.logger.Infoln("janitor starting, sweep interval:", m.app.JanitorSettings.Interval)

	ticker := time.NewTicker(m.app.JanitorSettings.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			m.logger.Infoln("janitor shutdown completed")
			return
		case <-ticker.C:
			m.sweepOrphanBlobs()
		}
	}
}

func (m *JanitorModel) Shutdown() {
	m.cancel()
	m.pool.StopWait()
}

// sweepOrphanBlobs deletes blobs older than min_age that no metadata row
// references.
func (m *JanitorModel) sweepOrphanBlobs() {
	recordings, err := m.ds.ListAll(m.ctx)
	if err != nil {
		m.logger.WithError(err).Errorln("orphan sweep: listing recordings failed")
		return
	}
	known := make(map[string]struct{}, len(recordings))
	for _, r := range recordings {
		known[r.FileName] = struct{}{}
	}

	entries, err := os.ReadDir(m.app.UploadFileSettings.Path)
	if err != nil {
		m.logger.WithError(err).Errorln("orphan sweep: reading upload dir failed")
		return
	}

	checkTime := time.Now().Add(-m.app.JanitorSettings.MinAge)
	for _, et := range entries {
		if et.IsDir() {
			continue
		}
		if _, ok := known[et.Name()]; ok {
			continue
		}
		info, err := et.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(checkTime) {
			// too fresh, may belong to an upload still in flight
			continue
		}

		fileName := et.Name()
		m.pool.Submit(func() {
			m.logger.Infoln("deleting orphan blob:", fileName)
			if err := m.blob.Remove(fileName); err != nil {
				m.logger.WithError(err).Errorln("failed to delete orphan blob:", fileName)
			}
		})
	}
}
