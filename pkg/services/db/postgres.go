package dbservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/screenrec/screenrec-server/pkg/config"
	"github.com/screenrec/screenrec-server/pkg/dbmodels"
	"github.com/sirupsen/logrus"
)

type postgresStore struct {
	pool   *pgxpool.Pool
	table  string
	logger *logrus.Entry
}

// NewPostgresStore opens a pgx connection pool and ensures the schema exists.
func NewPostgresStore(ctx context.Context, appCnf *config.AppConfig, lg *logrus.Logger) (RecordingStore, error) {
	info := appCnf.DatabaseInfo
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s", info.Username, info.Password, info.Host, info.Port, info.DBName)

	poolCnf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if info.MaxOpenConns != nil && *info.MaxOpenConns > 0 {
		poolCnf.MaxConns = int32(*info.MaxOpenConns)
	}
	if info.ConnMaxLifetime != nil && *info.ConnMaxLifetime > 0 {
		poolCnf.MaxConnLifetime = *info.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCnf)
	if err != nil {
		return nil, err
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	s := &postgresStore{
		pool:   pool,
		table:  config.FormatDBTable("recordings"),
		logger: lg.WithField("service", "database"),
	}
	if err = s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func (s *postgresStore) migrate(ctx context.Context) error {
	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id BIGSERIAL PRIMARY KEY,
		record_id VARCHAR(36) NOT NULL UNIQUE,
		filename VARCHAR(255) NOT NULL,
		filepath VARCHAR(255) NOT NULL,
		size BIGINT NOT NULL DEFAULT 0,
		mime_type VARCHAR(128) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, s.table)

	_, err := s.pool.Exec(ctx, q)
	return err
}

const recordingColumns = `record_id, filename, filepath, size, mime_type, created_at`

func (s *postgresStore) Insert(ctx context.Context, recording *dbmodels.Recording) error {
	q := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`, s.table, recordingColumns)

	return s.pool.QueryRow(ctx, q,
		recording.RecordID,
		recording.FileName,
		recording.FilePath,
		recording.Size,
		recording.MimeType,
		recording.CreatedAt,
	).Scan(&recording.ID)
}

func (s *postgresStore) ListAll(ctx context.Context) ([]dbmodels.Recording, error) {
	q := fmt.Sprintf(`SELECT id, %s FROM %s ORDER BY created_at DESC, id DESC`, recordingColumns, s.table)

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recordings := make([]dbmodels.Recording, 0)
	for rows.Next() {
		var r dbmodels.Recording
		err = rows.Scan(&r.ID, &r.RecordID, &r.FileName, &r.FilePath, &r.Size, &r.MimeType, &r.CreatedAt)
		if err != nil {
			return nil, err
		}
		recordings = append(recordings, r)
	}

	return recordings, rows.Err()
}

func (s *postgresStore) GetByID(ctx context.Context, recordID string) (*dbmodels.Recording, error) {
	q := fmt.Sprintf(`SELECT id, %s FROM %s WHERE record_id = $1`, recordingColumns, s.table)

	r := new(dbmodels.Recording)
	err := s.pool.QueryRow(ctx, q, recordID).
		Scan(&r.ID, &r.RecordID, &r.FileName, &r.FilePath, &r.Size, &r.MimeType, &r.CreatedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, err
	}

	return r, nil
}

func (s *postgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *postgresStore) Close() error {
	s.pool.Close()
	return nil
}
