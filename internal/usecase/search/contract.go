package search

import (
	"context"

	domdoc "github.com/kailas-cloud/grepdex/internal/domain/document"
	domsearch "github.com/kailas-cloud/grepdex/internal/domain/search"
)

// RegistryReader resolves document ids to registry records.
type RegistryReader interface {
	Get(ctx context.Context, id string) (domdoc.Document, error)
}

// PatternEngine searches flattened-text artifacts for a regular expression.
type PatternEngine interface {
	Search(
		ctx context.Context, pattern, scope string, caseSensitive bool, contextLines int,
	) (domsearch.MatchSet, error)
}

// MetadataEngine lists artifact paths matching filesystem-metadata criteria.
type MetadataEngine interface {
	Find(ctx context.Context, root string, f domsearch.MetadataFilter) ([]string, error)
}

// StructuredEngine runs a filter program against a structured-element artifact.
type StructuredEngine interface {
	Query(ctx context.Context, artifactPath, filter string) (domsearch.QueryResult, error)
}
