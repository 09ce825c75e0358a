// Package search dispatches queries to the three external engines: pattern
// search over flattened text, filesystem-metadata search over the artifact
// root, and structured queries over element artifacts.
package search

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/grepdex/internal/domain"
	domdoc "github.com/kailas-cloud/grepdex/internal/domain/document"
	domsearch "github.com/kailas-cloud/grepdex/internal/domain/search"
)

// Service coordinates id resolution, scope selection, and engine dispatch.
type Service struct {
	registry   RegistryReader
	patterns   PatternEngine
	metadata   MetadataEngine
	queries    StructuredEngine
	searchRoot string
	logger     *zap.Logger
	queryCache *lru.Cache[string, domsearch.QueryResult]
}

// New creates a search service. searchRoot is the derived-artifact directory
// that corpus-wide searches cover.
func New(
	registry RegistryReader,
	patterns PatternEngine,
	metadata MetadataEngine,
	queries StructuredEngine,
	searchRoot string,
	logger *zap.Logger,
) *Service {
	return &Service{
		registry:   registry,
		patterns:   patterns,
		metadata:   metadata,
		queries:    queries,
		searchRoot: searchRoot,
		logger:     logger,
	}
}

// WithQueryCache enables structured-query result caching. Artifacts are
// write-once, so a cached result never goes stale.
func (s *Service) WithQueryCache(size int) *Service {
	if size > 0 {
		// lru.New only fails for size <= 0.
		s.queryCache, _ = lru.New[string, domsearch.QueryResult](size)
	}
	return s
}

// Pattern runs a pattern search. With a target id the scope narrows to that
// document's flattened-text artifact; otherwise the whole artifact root is
// searched. Zero matches is a successful empty result.
func (s *Service) Pattern(
	ctx context.Context, pattern, targetID string, caseSensitive bool, contextLines int,
) (domsearch.MatchSet, error) {
	if pattern == "" {
		return domsearch.MatchSet{}, fmt.Errorf("pattern is required: %w", domain.ErrBadRequest)
	}
	if contextLines < 0 {
		return domsearch.MatchSet{}, fmt.Errorf("context must be non-negative: %w", domain.ErrBadRequest)
	}

	scope := s.searchRoot
	if targetID != "" {
		doc, err := s.resolveSearchable(ctx, targetID)
		if err != nil {
			return domsearch.MatchSet{}, err
		}
		scope = doc.Outcome().TextPath()
	}

	set, err := s.patterns.Search(ctx, pattern, scope, caseSensitive, contextLines)
	if err != nil {
		return domsearch.MatchSet{}, fmt.Errorf("pattern search: %w", err)
	}

	s.logger.Debug("Pattern search completed",
		zap.String("scope", scope),
		zap.Int("matches", set.Total()),
	)
	return set, nil
}

// Metadata lists artifact paths under the search root matching the filter.
func (s *Service) Metadata(ctx context.Context, f domsearch.MetadataFilter) ([]string, error) {
	paths, err := s.metadata.Find(ctx, s.searchRoot, f)
	if err != nil {
		return nil, fmt.Errorf("metadata search: %w", err)
	}
	return paths, nil
}

// Structured runs a filter program against one document's structured-element
// artifact.
func (s *Service) Structured(ctx context.Context, id, filter string) (domsearch.QueryResult, error) {
	if id == "" {
		return domsearch.QueryResult{}, fmt.Errorf("document id is required: %w", domain.ErrBadRequest)
	}
	if filter == "" {
		return domsearch.QueryResult{}, fmt.Errorf("filter is required: %w", domain.ErrBadRequest)
	}

	doc, err := s.resolveSearchable(ctx, id)
	if err != nil {
		return domsearch.QueryResult{}, err
	}

	key := id + "\x00" + filter
	if s.queryCache != nil {
		if cached, ok := s.queryCache.Get(key); ok {
			return cached, nil
		}
	}

	result, err := s.queries.Query(ctx, doc.Outcome().ElementsPath(), filter)
	if err != nil {
		return domsearch.QueryResult{}, fmt.Errorf("structured query: %w", err)
	}

	if s.queryCache != nil {
		s.queryCache.Add(key, result)
	}
	return result, nil
}

// resolveSearchable returns the record for an id whose artifacts exist.
// Unknown ids map to ErrNotFound, known ids without artifacts (pending or
// failed processing) to ErrArtifactUnavailable.
func (s *Service) resolveSearchable(ctx context.Context, id string) (domdoc.Document, error) {
	doc, err := s.registry.Get(ctx, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("resolve document: %w", err)
	}
	if !doc.Outcome().Succeeded() {
		return domdoc.Document{}, fmt.Errorf(
			"document %s has no derived artifacts: %w", id, domain.ErrArtifactUnavailable,
		)
	}
	return doc, nil
}
