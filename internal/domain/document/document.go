package document

import (
	"fmt"
	"time"
)

// MaxNameLength is the maximum accepted original filename length.
const MaxNameLength = 512

// Document is the registry record for one accepted upload (immutable value
// object; the outcome is replaced exactly once by the registry).
type Document struct {
	id           string
	originalName string
	contentType  string
	byteSize     int64
	storagePath  string
	uploadedAt   time.Time
	outcome      Outcome
}

// New validates and creates a Document in the pending state.
// ID and storagePath are assigned by the ingestion pipeline before insert.
func New(id, originalName, contentType string, byteSize int64, storagePath string) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document id is required")
	}
	if originalName == "" {
		return Document{}, fmt.Errorf("original filename is required")
	}
	if len(originalName) > MaxNameLength {
		return Document{}, fmt.Errorf("original filename too long (max %d)", MaxNameLength)
	}
	if byteSize < 0 {
		return Document{}, fmt.Errorf("byte size must be non-negative")
	}
	if storagePath == "" {
		return Document{}, fmt.Errorf("storage path is required")
	}

	return Document{
		id:           id,
		originalName: originalName,
		contentType:  contentType,
		byteSize:     byteSize,
		storagePath:  storagePath,
		uploadedAt:   time.Now().UTC(),
	}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(
	id, originalName, contentType string, byteSize int64, storagePath string,
	uploadedAt time.Time, outcome Outcome,
) Document {
	return Document{
		id:           id,
		originalName: originalName,
		contentType:  contentType,
		byteSize:     byteSize,
		storagePath:  storagePath,
		uploadedAt:   uploadedAt,
		outcome:      outcome,
	}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// OriginalName returns the uploaded filename.
func (d *Document) OriginalName() string { return d.originalName }

// ContentType returns the uploaded MIME type.
func (d *Document) ContentType() string { return d.contentType }

// ByteSize returns the uploaded content size in bytes.
func (d *Document) ByteSize() int64 { return d.byteSize }

// StoragePath returns the location of the persisted original bytes.
func (d *Document) StoragePath() string { return d.storagePath }

// UploadedAt returns the acceptance time.
func (d *Document) UploadedAt() time.Time { return d.uploadedAt }

// Outcome returns the processing outcome (pending until finalized).
func (d *Document) Outcome() Outcome { return d.outcome }

// WithOutcome returns a copy with the outcome set.
// Single-assignment is enforced by the registry, not here.
func (d *Document) WithOutcome(o Outcome) Document {
	c := *d
	c.outcome = o
	return c
}
