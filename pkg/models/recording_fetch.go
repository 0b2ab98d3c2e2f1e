package models

import (
	"context"

	"github.com/screenrec/screenrec-server/pkg/dbmodels"
)

// FetchRecordings returns every recording, newest first. The Redis cache is
// consulted first when one is configured.
func (m *RecordingModel) FetchRecordings(ctx context.Context) ([]dbmodels.Recording, error) {
	cached, err := m.rs.GetCachedRecordings(ctx)
	if err != nil {
		m.logger.WithError(err).Warnln("recordings cache read failed, falling back to store")
	}
	if cached != nil {
		return cached, nil
	}

	recordings, err := m.ds.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if err = m.rs.CacheRecordings(ctx, recordings); err != nil {
		m.logger.WithError(err).Warnln("failed to cache recordings list")
	}

	return recordings, nil
}

// GetRecording resolves one recording and the absolute path of its blob.
// Unknown ids return ErrRecordNotFound; a row whose blob has been deleted
// externally returns ErrBlobMissing instead.
func (m *RecordingModel) GetRecording(ctx context.Context, recordID string) (*dbmodels.Recording, string, error) {
	recording, err := m.ds.GetByID(ctx, recordID)
	if err != nil {
		return nil, "", err
	}
	if recording == nil {
		return nil, "", ErrRecordNotFound
	}

	file, err := m.blob.Resolve(recording.FileName)
	if err != nil {
		return nil, "", err
	}

	return recording, file, nil
}
