package document

import (
	"context"

	domdoc "github.com/kailas-cloud/grepdex/internal/domain/document"
	"github.com/kailas-cloud/grepdex/internal/domain/element"
)

// Registry defines the record-keeping contract for documents.
type Registry interface {
	Insert(ctx context.Context, doc domdoc.Document) error
	Get(ctx context.Context, id string) (domdoc.Document, error)
	List(ctx context.Context) []domdoc.Document
	Count(ctx context.Context) int
	SetOutcome(ctx context.Context, id string, outcome domdoc.Outcome) (domdoc.Document, error)
}

// BlobStore persists original uploads and derived artifacts.
type BlobStore interface {
	SaveOriginal(id, originalName string, data []byte) (string, error)
	RemoveOriginal(path string) error
	WriteText(id, content string) (string, error)
	WriteElements(id string, data []byte) (string, error)
}

// Extractor partitions a stored original into typed elements.
type Extractor interface {
	Extract(ctx context.Context, path, contentType string) ([]element.Element, error)
}
