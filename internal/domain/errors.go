package domain

import "errors"

var (
	// ErrBadRequest signals missing or malformed caller input.
	ErrBadRequest = errors.New("bad request")
	// ErrNotFound signals an unknown document id.
	ErrNotFound = errors.New("document not found")
	// ErrArtifactUnavailable signals a known document whose derived artifacts
	// were never produced (extraction failed or is still pending).
	ErrArtifactUnavailable = errors.New("derived artifact unavailable")
	// ErrDuplicateID signals a registry insert with an id that already exists.
	ErrDuplicateID = errors.New("duplicate document id")
	// ErrAlreadyFinalized signals a second outcome assignment for the same id.
	ErrAlreadyFinalized = errors.New("processing outcome already finalized")
	// ErrStorage signals a durable-write failure during ingestion.
	ErrStorage = errors.New("storage error")
	// ErrSearchEngine signals an abnormal external engine termination.
	ErrSearchEngine = errors.New("search engine error")
)
