package models

import (
	"errors"

	blobservice "github.com/screenrec/screenrec-server/pkg/services/blob"
)

var (
	// ErrRecordNotFound means no recording exists for the requested id.
	// A valid query outcome, mapped to 404 at the request boundary.
	ErrRecordNotFound = errors.New("recording not found")

	// ErrBlobMissing means the metadata row exists but the blob is gone
	// from disk, which points at external tampering or partial-failure
	// history rather than a bad request.
	ErrBlobMissing = blobservice.ErrBlobMissing
)
