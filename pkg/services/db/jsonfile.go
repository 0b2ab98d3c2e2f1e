package dbservice

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/screenrec/screenrec-server/pkg/dbmodels"
	"github.com/sirupsen/logrus"
)

// fileStore keeps the whole record set in a single JSON document. Every
// write rewrites the document through a temp file + rename so readers never
// observe a torn file, and a single mutex serializes writers so concurrent
// inserts cannot lose updates.
type fileStore struct {
	mu     sync.RWMutex
	path   string
	doc    fileDocument
	logger *logrus.Entry
}

type fileDocument struct {
	NextID     int64        `json:"next_id"`
	Recordings []fileRecord `json:"recordings"`
}

type fileRecord struct {
	ID        uint64    `json:"id"`
	RecordID  string    `json:"record_id"`
	FileName  string    `json:"filename"`
	FilePath  string    `json:"filepath"`
	Size      int64     `json:"size"`
	MimeType  string    `json:"mime_type"`
	CreatedAt time.Time `json:"created_at"`
}

// NewFileStore opens the JSON document at path, creating it if absent.
func NewFileStore(path string, lg *logrus.Logger) (RecordingStore, error) {
	s := &fileStore{
		path:   path,
		doc:    fileDocument{NextID: 1},
		logger: lg.WithField("service", "database"),
	}

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if err = os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
			return nil, err
		}
		if err = s.persist(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err = json.Unmarshal(raw, &s.doc); err != nil {
			return nil, fmt.Errorf("corrupt recordings document %s: %w", path, err)
		}
		if s.doc.NextID < 1 {
			s.doc.NextID = 1
		}
	}

	return s, nil
}

// persist rewrites the whole document. Callers must hold the write lock.
func (s *fileStore) persist() error {
	raw, err := json.MarshalIndent(&s.doc, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, raw, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *fileStore) Insert(_ context.Context, recording *dbmodels.Recording) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recording.ID = uint64(s.doc.NextID)
	s.doc.NextID++
	s.doc.Recordings = append(s.doc.Recordings, fileRecord{
		ID:        recording.ID,
		RecordID:  recording.RecordID,
		FileName:  recording.FileName,
		FilePath:  recording.FilePath,
		Size:      recording.Size,
		MimeType:  recording.MimeType,
		CreatedAt: recording.CreatedAt,
	})

	if err := s.persist(); err != nil {
		// roll the in-memory copy back so it stays in sync with the file
		s.doc.Recordings = s.doc.Recordings[:len(s.doc.Recordings)-1]
		s.doc.NextID--
		return err
	}
	return nil
}

func (s *fileStore) ListAll(_ context.Context) ([]dbmodels.Recording, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recordings := make([]dbmodels.Recording, 0, len(s.doc.Recordings))
	for _, r := range s.doc.Recordings {
		recordings = append(recordings, r.toModel())
	}

	// newest first, id as tiebreak for same-timestamp inserts
	sort.Slice(recordings, func(i, j int) bool {
		if recordings[i].CreatedAt.Equal(recordings[j].CreatedAt) {
			return recordings[i].ID > recordings[j].ID
		}
		return recordings[i].CreatedAt.After(recordings[j].CreatedAt)
	})

	return recordings, nil
}

func (s *fileStore) GetByID(_ context.Context, recordID string) (*dbmodels.Recording, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.doc.Recordings {
		if r.RecordID == recordID {
			m := r.toModel()
			return &m, nil
		}
	}
	return nil, nil
}

func (s *fileStore) Ping(_ context.Context) error {
	_, err := os.Stat(s.path)
	return err
}

func (s *fileStore) Close() error {
	return nil
}

func (r fileRecord) toModel() dbmodels.Recording {
	return dbmodels.Recording{
		ID:        r.ID,
		RecordID:  r.RecordID,
		FileName:  r.FileName,
		FilePath:  r.FilePath,
		Size:      r.Size,
		MimeType:  r.MimeType,
		CreatedAt: r.CreatedAt,
	}
}
