package redisservice

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/screenrec/screenrec-server/pkg/dbmodels"
)

const (
	Prefix = "srs:"

	recordingsListKey = Prefix + "recordingsList"
	recordingsListTTL = time.Second * 30
)

// RedisService is a small read cache in front of the metadata store. The
// server runs fine without it; every method is a no-op when no client is
// configured.
type RedisService struct {
	rc *redis.Client
}

func New(rc *redis.Client) *RedisService {
	return &RedisService{
		rc: rc,
	}
}

// GetCachedRecordings returns the cached listing, or (nil, nil) on a miss.
func (s *RedisService) GetCachedRecordings(ctx context.Context) ([]dbmodels.Recording, error) {
	if s == nil || s.rc == nil {
		return nil, nil
	}

	raw, err := s.rc.Get(ctx, recordingsListKey).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, err
	}

	var recordings []dbmodels.Recording
	if err = json.Unmarshal([]byte(raw), &recordings); err != nil {
		// a bad payload is treated as a miss, the next write repairs it
		return nil, nil
	}
	return recordings, nil
}

func (s *RedisService) CacheRecordings(ctx context.Context, recordings []dbmodels.Recording) error {
	if s == nil || s.rc == nil {
		return nil
	}

	raw, err := json.Marshal(recordings)
	if err != nil {
		return err
	}
	return s.rc.Set(ctx, recordingsListKey, raw, recordingsListTTL).Err()
}

// PurgeRecordingsCache drops the cached listing. Called after every insert.
func (s *RedisService) PurgeRecordingsCache(ctx context.Context) error {
	if s == nil || s.rc == nil {
		return nil
	}
	return s.rc.Del(ctx, recordingsListKey).Err()
}
