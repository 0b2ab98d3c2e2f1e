package models

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/screenrec/screenrec-server/pkg/dbmodels"
)

// CreateRecordingRes carries the public-facing fields of a freshly created
// recording back to the client.
type CreateRecordingRes struct {
	Message  string `json:"message"`
	RecordID string `json:"id"`
	FileName string `json:"filename"`
	FilePath string `json:"filepath"`
}

// CreateRecording persists the uploaded blob first, then the metadata row.
// The ordering matters: a failure between the two steps can only leave an
// orphan blob behind, never a row pointing at nothing. If the metadata
// insert fails, the just-written blob is removed again best-effort.
func (m *RecordingModel) CreateRecording(ctx context.Context, fh *multipart.FileHeader) (*CreateRecordingRes, error) {
	blob, err := m.blob.Save(fh)
	if err != nil {
		return nil, err
	}

	recording := &dbmodels.Recording{
		RecordID:  uuid.NewString(),
		FileName:  blob.FileName,
		FilePath:  blob.FilePath,
		Size:      blob.Size,
		MimeType:  blob.MimeType,
		CreatedAt: time.Now().UTC(),
	}

	if err = m.ds.Insert(ctx, recording); err != nil {
		if rErr := m.blob.Remove(blob.FileName); rErr != nil {
			m.logger.WithError(rErr).Errorln("failed to remove blob after metadata insert failure:", blob.FileName)
		}
		return nil, fmt.Errorf("failed to save recording metadata: %w", err)
	}

	if err = m.rs.PurgeRecordingsCache(ctx); err != nil {
		m.logger.WithError(err).Warnln("failed to purge recordings cache")
	}

	m.logger.WithField("recordId", recording.RecordID).Infoln("recording created:", recording.FileName)

	return &CreateRecordingRes{
		Message:  "Upload successful",
		RecordID: recording.RecordID,
		FileName: recording.FileName,
		FilePath: recording.FilePath,
	}, nil
}
