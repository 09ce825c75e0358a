// Package grepdex is the embedded SDK: the same ingestion and search services
// the HTTP server exposes, wired in-process against a local data directory
// and the host's command-line engines.
package grepdex

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/grepdex/internal/repository/blob"
	"github.com/kailas-cloud/grepdex/internal/repository/registry"
	"github.com/kailas-cloud/grepdex/internal/transport/cli"
	"github.com/kailas-cloud/grepdex/internal/transport/findutil"
	"github.com/kailas-cloud/grepdex/internal/transport/jq"
	"github.com/kailas-cloud/grepdex/internal/transport/partition"
	"github.com/kailas-cloud/grepdex/internal/transport/ripgrep"
	documentuc "github.com/kailas-cloud/grepdex/internal/usecase/document"
	searchuc "github.com/kailas-cloud/grepdex/internal/usecase/search"
)

const (
	defaultEngineTimeout  = 30 * time.Second
	defaultExtractTimeout = 2 * time.Minute
)

// Client is the grepdex SDK entry point.
type Client struct {
	docSvc    *documentuc.Service
	searchSvc *searchuc.Service
}

// New creates a client over a local data directory.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		ripgrepBin:     "rg",
		findBin:        "find",
		jqBin:          "jq",
		engineTimeout:  defaultEngineTimeout,
		extractTimeout: defaultExtractTimeout,
		logger:         zap.NewNop(),
	}
	for _, o := range opts {
		o(cfg)
	}

	if cfg.dataDir == "" {
		return nil, errors.New("grepdex: data directory required (use WithDataDir)")
	}

	blobs, err := blob.New(
		filepath.Join(cfg.dataDir, "uploads"),
		filepath.Join(cfg.dataDir, "processed"),
	)
	if err != nil {
		return nil, err
	}

	reg := registry.New()
	runner := cli.NewRunner(cfg.engineTimeout)

	var extractor documentuc.Extractor = partition.NewPlaintext()
	if cfg.extractorCommand != "" {
		extractor = partition.NewExec(
			cfg.extractorCommand, cfg.extractorArgs, cli.NewRunner(cfg.extractTimeout),
		)
	}

	docSvc := documentuc.New(reg, blobs, extractor, cfg.logger)
	searchSvc := searchuc.New(
		reg,
		ripgrep.New(cfg.ripgrepBin, runner),
		findutil.New(cfg.findBin, runner),
		jq.New(cfg.jqBin, runner),
		blobs.ProcessedRoot(),
		cfg.logger,
	)
	if cfg.queryCacheSize > 0 {
		searchSvc = searchSvc.WithQueryCache(cfg.queryCacheSize)
	}

	return &Client{docSvc: docSvc, searchSvc: searchSvc}, nil
}

// Documents returns the document service.
func (c *Client) Documents() *DocumentService {
	return &DocumentService{svc: c.docSvc}
}

// Search returns the search service.
func (c *Client) Search() *SearchService {
	return &SearchService{svc: c.searchSvc}
}

// DocumentService uploads and reads documents.
type DocumentService struct {
	svc *documentuc.Service
}

// Upload ingests one document and returns its record. Extraction failures are
// reported in the record's Status, not as an error.
func (s *DocumentService) Upload(
	ctx context.Context, filename, contentType string, data []byte,
) (Document, error) {
	doc, err := s.svc.Ingest(ctx, filename, contentType, data)
	if err != nil {
		return Document{}, err
	}
	return fromInternalDocument(&doc), nil
}

// Get returns the record for an id.
func (s *DocumentService) Get(ctx context.Context, id string) (Document, error) {
	doc, err := s.svc.Get(ctx, id)
	if err != nil {
		return Document{}, err
	}
	return fromInternalDocument(&doc), nil
}

// List returns all records in upload order.
func (s *DocumentService) List(ctx context.Context) []Document {
	docs := s.svc.List(ctx)
	out := make([]Document, len(docs))
	for i := range docs {
		out[i] = fromInternalDocument(&docs[i])
	}
	return out
}

// SearchService dispatches queries to the command-line engines.
type SearchService struct {
	svc *searchuc.Service
}

// Pattern searches flattened text. An empty DocumentID searches the whole
// corpus; zero matches is a successful empty result.
func (s *SearchService) Pattern(
	ctx context.Context, pattern string, opts *PatternOptions,
) ([]Match, error) {
	if opts == nil {
		opts = &PatternOptions{}
	}
	set, err := s.svc.Pattern(ctx, pattern, opts.DocumentID, opts.CaseSensitive, opts.ContextLines)
	if err != nil {
		return nil, err
	}
	return fromInternalMatches(set.Matches()), nil
}

// Find lists derived-artifact paths matching filesystem-metadata criteria.
func (s *SearchService) Find(ctx context.Context, f MetadataFilter) ([]string, error) {
	return s.svc.Metadata(ctx, f.toInternal())
}

// Query runs a filter program against one document's structured elements.
func (s *SearchService) Query(ctx context.Context, id, filter string) (QueryResult, error) {
	res, err := s.svc.Structured(ctx, id, filter)
	if err != nil {
		return QueryResult{}, err
	}
	return QueryResult{
		Structured: res.Structured(),
		Text:       res.Text(),
	}, nil
}
