package blobservice

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/screenrec/screenrec-server/pkg/config"
	"github.com/sirupsen/logrus"
)

// ErrBlobMissing is returned when a blob that should exist on disk is gone.
var ErrBlobMissing = errors.New("blob file is missing from storage")

// ErrFileTypeNotAllowed is returned when the detected mime type is not in
// the configured allow list. A client error, no bytes are written.
var ErrFileTypeNotAllowed = errors.New("file type not allowed")

// BlobService writes uploaded binaries into a single flat directory and hands
// out public paths under the configured prefix. Names are random uuids, so
// two uploads can never collide no matter how close together they finish.
type BlobService struct {
	app    *config.AppConfig
	logger *logrus.Entry
}

// SavedBlob describes a blob after it has been written to disk.
type SavedBlob struct {
	FileName string
	FilePath string
	Size     int64
	MimeType string
}

func New(app *config.AppConfig, logger *logrus.Logger) (*BlobService, error) {
	if app == nil {
		app = config.GetConfig()
	}

	// create-if-absent, idempotent
	if err := os.MkdirAll(app.UploadFileSettings.Path, os.ModePerm); err != nil {
		return nil, err
	}

	return &BlobService{
		app:    app,
		logger: logger.WithField("service", "blob"),
	}, nil
}

// Save validates and persists one uploaded file. The stored name is a fresh
// uuid plus the extension the detected mime type reports, never the
// client-supplied name.
func (s *BlobService) Save(fh *multipart.FileHeader) (*SavedBlob, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, err
	}
	ext := strings.Replace(mtype.Extension(), ".", "", 1)
	if err = s.validateMimeType(ext, mtype); err != nil {
		return nil, err
	}

	if _, err = src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("%s.%s", uuid.NewString(), ext)
	dst, err := os.Create(filepath.Join(s.app.UploadFileSettings.Path, fileName))
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		return nil, err
	}

	return &SavedBlob{
		FileName: fileName,
		FilePath: s.app.UploadFileSettings.PublicPrefix + "/" + fileName,
		Size:     size,
		MimeType: mtype.String(),
	}, nil
}

func (s *BlobService) validateMimeType(ext string, mtype *mimetype.MIME) error {
	allowedTypes := s.app.UploadFileSettings.AllowedTypes
	if len(allowedTypes) == 0 {
		return nil
	}

	for _, t := range allowedTypes {
		if ext == t {
			return nil
		}
	}
	if ext == "" {
		return fmt.Errorf("%w: invalid file", ErrFileTypeNotAllowed)
	}
	return fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, mtype.Extension())
}

// Resolve maps a stored file name to its absolute path on disk. A metadata
// row pointing at a vanished file surfaces as ErrBlobMissing, distinct from
// any other I/O failure.
func (s *BlobService) Resolve(fileName string) (string, error) {
	p := filepath.Join(s.app.UploadFileSettings.Path, filepath.Base(fileName))
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return "", ErrBlobMissing
		}
		return "", err
	}
	return p, nil
}

// Remove deletes a stored blob. Used for intake rollback and orphan cleanup.
func (s *BlobService) Remove(fileName string) error {
	err := os.Remove(filepath.Join(s.app.UploadFileSettings.Path, filepath.Base(fileName)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
