// Package document implements the ingestion pipeline: accept an upload,
// persist the original, extract typed elements, derive the searchable
// artifacts, and finalize the registry record.
package document

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/grepdex/internal/domain"
	domdoc "github.com/kailas-cloud/grepdex/internal/domain/document"
	"github.com/kailas-cloud/grepdex/internal/domain/element"
	"github.com/kailas-cloud/grepdex/internal/metrics"
)

// Service runs the ingestion pipeline and serves registry reads.
type Service struct {
	registry  Registry
	blobs     BlobStore
	extractor Extractor
	logger    *zap.Logger
}

// New creates a document service.
func New(registry Registry, blobs BlobStore, extractor Extractor, logger *zap.Logger) *Service {
	return &Service{
		registry:  registry,
		blobs:     blobs,
		extractor: extractor,
		logger:    logger,
	}
}

// Ingest accepts one upload. The original is always persisted and registered
// first; extraction failures finalize the record with an error outcome instead
// of failing the request. An error return means nothing was registered.
func (s *Service) Ingest(
	ctx context.Context, originalName, contentType string, data []byte,
) (domdoc.Document, error) {
	start := time.Now()

	if originalName == "" {
		metrics.IngestTotal.WithLabelValues("rejected").Inc()
		return domdoc.Document{}, fmt.Errorf("filename is required: %w", domain.ErrBadRequest)
	}

	id := uuid.NewString()

	storagePath, err := s.blobs.SaveOriginal(id, originalName, data)
	if err != nil {
		metrics.IngestTotal.WithLabelValues("rejected").Inc()
		return domdoc.Document{}, fmt.Errorf("save original: %w: %w", domain.ErrStorage, err)
	}

	doc, err := domdoc.New(id, originalName, contentType, int64(len(data)), storagePath)
	if err != nil {
		s.rollbackOriginal(storagePath)
		metrics.IngestTotal.WithLabelValues("rejected").Inc()
		return domdoc.Document{}, fmt.Errorf("%w: %w", domain.ErrBadRequest, err)
	}

	if err := s.registry.Insert(ctx, doc); err != nil {
		s.rollbackOriginal(storagePath)
		metrics.IngestTotal.WithLabelValues("rejected").Inc()
		return domdoc.Document{}, fmt.Errorf("register document: %w", err)
	}

	metrics.IngestBytes.Add(float64(len(data)))

	outcome := s.process(ctx, id, storagePath, contentType)

	final, err := s.registry.SetOutcome(ctx, id, outcome)
	if err != nil {
		// The record exists and the original is retained; report the
		// finalization failure rather than inventing an outcome.
		return domdoc.Document{}, fmt.Errorf("finalize document %s: %w", id, err)
	}

	metrics.IngestTotal.WithLabelValues(string(outcome.Status())).Inc()
	metrics.IngestDuration.Observe(time.Since(start).Seconds())

	s.logger.Info("Document ingested",
		zap.String("document_id", id),
		zap.String("filename", originalName),
		zap.Int("bytes", len(data)),
		zap.String("outcome", string(outcome.Status())),
		zap.Duration("duration", time.Since(start)),
	)

	return final, nil
}

// process runs extraction and artifact derivation, returning the outcome to
// record. Never fails the request: every failure path maps to an error
// outcome with the reason captured verbatim.
func (s *Service) process(ctx context.Context, id, storagePath, contentType string) domdoc.Outcome {
	elements, err := s.extractor.Extract(ctx, storagePath, contentType)
	if err != nil {
		s.logger.Warn("Extraction failed",
			zap.String("document_id", id),
			zap.Error(err),
		)
		return domdoc.Failed(err.Error())
	}

	markdown := element.RenderMarkdown(elements)
	raw, err := element.MarshalElements(elements)
	if err != nil {
		return domdoc.Failed(err.Error())
	}

	var textPath, elementsPath string
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var werr error
		textPath, werr = s.blobs.WriteText(id, markdown)
		return werr
	})
	g.Go(func() error {
		var werr error
		elementsPath, werr = s.blobs.WriteElements(id, raw)
		return werr
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Artifact write failed",
			zap.String("document_id", id),
			zap.Error(err),
		)
		return domdoc.Failed(err.Error())
	}

	return domdoc.Succeeded(textPath, elementsPath, len(elements), element.Preview(markdown))
}

// rollbackOriginal removes a persisted original whose registration did not
// complete. Best effort: a leaked file is logged, not surfaced.
func (s *Service) rollbackOriginal(path string) {
	if err := s.blobs.RemoveOriginal(path); err != nil {
		s.logger.Warn("Rollback of stored original failed",
			zap.String("path", path),
			zap.Error(err),
		)
	}
}

// Get returns the registry record for an id.
func (s *Service) Get(ctx context.Context, id string) (domdoc.Document, error) {
	if id == "" {
		return domdoc.Document{}, fmt.Errorf("document id is required: %w", domain.ErrBadRequest)
	}
	doc, err := s.registry.Get(ctx, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// List returns all registry records in upload order.
func (s *Service) List(ctx context.Context) []domdoc.Document {
	return s.registry.List(ctx)
}

// Count returns the number of registered documents.
func (s *Service) Count(ctx context.Context) int {
	return s.registry.Count(ctx)
}
