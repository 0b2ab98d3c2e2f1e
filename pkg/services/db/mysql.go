package dbservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/screenrec/screenrec-server/pkg/config"
	"github.com/screenrec/screenrec-server/pkg/dbmodels"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

type mysqlStore struct {
	db     *gorm.DB
	logger *logrus.Entry
}

// NewMysqlStore opens a GORM-backed MySQL store and ensures the schema exists.
func NewMysqlStore(ctx context.Context, appCnf *config.AppConfig, lg *logrus.Logger) (RecordingStore, error) {
	info := appCnf.DatabaseInfo
	charset := "utf8mb4"
	loc := "UTC"

	if info.Charset != nil && *info.Charset != "" {
		charset = *info.Charset
	}
	if info.Loc != nil && *info.Loc != "" {
		loc = strings.ReplaceAll(*info.Loc, "/", "%2F")
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=%s", info.Username, info.Password, info.Host, info.Port, info.DBName, charset, loc)

	loggerCnf := logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  true,
	}
	if appCnf.Client.Debug {
		loggerCnf.LogLevel = logger.Info
	}
	cnf := &gorm.Config{
		Logger: logger.New(lg, loggerCnf),
	}

	db, err := gorm.Open(mysql.New(mysql.Config{DSN: dsn}), cnf)
	if err != nil {
		return nil, err
	}

	// If read replicas are configured, set up the dbresolver.
	if len(info.Replicas) > 0 {
		lg.Infof("found %d read replicas, configuring dbresolver", len(info.Replicas))
		var replicaDialectors []gorm.Dialector

		for _, r := range info.Replicas {
			// Use primary's settings as default for replicas if not specified.
			if r.Username == "" {
				r.Username = info.Username
			}
			if r.Password == "" {
				r.Password = info.Password
			}
			if r.Port == 0 {
				r.Port = info.Port
			}

			replicaDsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=%s", r.Username, r.Password, r.Host, r.Port, info.DBName, charset, loc)
			replicaDialectors = append(replicaDialectors, mysql.Open(replicaDsn))
		}
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicaDialectors,
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, err
		}
	}

	d, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = d.PingContext(ctx); err != nil {
		return nil, err
	}

	connMaxLifetime := time.Minute * 4
	if info.ConnMaxLifetime != nil && *info.ConnMaxLifetime > 0 {
		connMaxLifetime = *info.ConnMaxLifetime
	}
	maxOpenConns := 10
	if info.MaxOpenConns != nil && *info.MaxOpenConns > 0 {
		maxOpenConns = *info.MaxOpenConns
	}

	// https://github.com/go-sql-driver/mysql?tab=readme-ov-file#important-settings
	d.SetConnMaxLifetime(connMaxLifetime)
	d.SetMaxOpenConns(maxOpenConns)
	d.SetMaxIdleConns(maxOpenConns)

	if err = db.WithContext(ctx).AutoMigrate(&dbmodels.Recording{}); err != nil {
		return nil, err
	}

	return &mysqlStore{
		db:     db,
		logger: lg.WithField("service", "database"),
	}, nil
}

func (s *mysqlStore) Insert(ctx context.Context, recording *dbmodels.Recording) error {
	return s.db.WithContext(ctx).Create(recording).Error
}

func (s *mysqlStore) ListAll(ctx context.Context) ([]dbmodels.Recording, error) {
	recordings := make([]dbmodels.Recording, 0)

	result := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&recordings)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	return recordings, nil
}

func (s *mysqlStore) GetByID(ctx context.Context, recordID string) (*dbmodels.Recording, error) {
	info := new(dbmodels.Recording)
	cond := &dbmodels.Recording{
		RecordID: recordID,
	}

	result := s.db.WithContext(ctx).Where(cond).Take(info)
	switch {
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		return nil, nil
	case result.Error != nil:
		return nil, result.Error
	}

	return info, nil
}

func (s *mysqlStore) Ping(ctx context.Context) error {
	d, err := s.db.DB()
	if err != nil {
		return err
	}
	return d.PingContext(ctx)
}

func (s *mysqlStore) Close() error {
	d, err := s.db.DB()
	if err != nil {
		return err
	}
	return d.Close()
}
