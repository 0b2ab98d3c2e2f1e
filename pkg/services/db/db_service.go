package dbservice

import (
	"context"
	"fmt"

	"github.com/screenrec/screenrec-server/pkg/config"
	"github.com/screenrec/screenrec-server/pkg/dbmodels"
	"github.com/sirupsen/logrus"
)

// RecordingStore is the contract every metadata backend implements. The
// backends are interchangeable; which one runs is purely an infrastructure
// choice made in the config file.
type RecordingStore interface {
	// Insert persists a new recording row.
	Insert(ctx context.Context, recording *dbmodels.Recording) error
	// ListAll returns every recording, newest first.
	ListAll(ctx context.Context) ([]dbmodels.Recording, error)
	// GetByID returns the recording for the given public record id.
	// A missing row is (nil, nil), not an error.
	GetByID(ctx context.Context, recordID string) (*dbmodels.Recording, error)
	// Ping verifies the backing medium is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// New opens the metadata store selected by database_info.driver_name.
func New(ctx context.Context, appCnf *config.AppConfig, logger *logrus.Logger) (RecordingStore, error) {
	switch appCnf.DatabaseInfo.DriverName {
	case config.DatabaseDriverMysql:
		return NewMysqlStore(ctx, appCnf, logger)
	case config.DatabaseDriverPostgres:
		return NewPostgresStore(ctx, appCnf, logger)
	case config.DatabaseDriverFile:
		return NewFileStore(appCnf.DatabaseInfo.FilePath, logger)
	default:
		return nil, fmt.Errorf("unknown database driver: %s", appCnf.DatabaseInfo.DriverName)
	}
}
