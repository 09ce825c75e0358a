package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/grepdex/internal/domain"
	domdoc "github.com/kailas-cloud/grepdex/internal/domain/document"
	domsearch "github.com/kailas-cloud/grepdex/internal/domain/search"
)

// --- Mocks ---

type mockRegistry struct {
	docs map[string]domdoc.Document
}

func (m *mockRegistry) Get(_ context.Context, id string) (domdoc.Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return domdoc.Document{}, domain.ErrNotFound
	}
	return doc, nil
}

type mockPatternEngine struct {
	set domsearch.MatchSet
	err error

	gotPattern string
	gotScope   string
	gotCase    bool
	gotContext int
}

func (m *mockPatternEngine) Search(
	_ context.Context, pattern, scope string, caseSensitive bool, contextLines int,
) (domsearch.MatchSet, error) {
	m.gotPattern = pattern
	m.gotScope = scope
	m.gotCase = caseSensitive
	m.gotContext = contextLines
	return m.set, m.err
}

type mockMetadataEngine struct {
	paths   []string
	err     error
	gotRoot string
	gotF    domsearch.MetadataFilter
}

func (m *mockMetadataEngine) Find(
	_ context.Context, root string, f domsearch.MetadataFilter,
) ([]string, error) {
	m.gotRoot = root
	m.gotF = f
	return m.paths, m.err
}

type mockStructuredEngine struct {
	result domsearch.QueryResult
	err    error

	calls   int
	gotPath string
	gotFlt  string
}

func (m *mockStructuredEngine) Query(
	_ context.Context, artifactPath, filter string,
) (domsearch.QueryResult, error) {
	m.calls++
	m.gotPath = artifactPath
	m.gotFlt = filter
	return m.result, m.err
}

func makeSearchableDoc(t *testing.T, id string) domdoc.Document {
	t.Helper()
	outcome := domdoc.Succeeded("/processed/"+id+".md", "/processed/"+id+".json", 3, "preview")
	return domdoc.Reconstruct(
		id, id+".txt", "text/plain", 10, "/uploads/"+id, time.Now().UTC(), outcome,
	)
}

func makeFailedDoc(t *testing.T, id string) domdoc.Document {
	t.Helper()
	return domdoc.Reconstruct(
		id, id+".txt", "text/plain", 10, "/uploads/"+id, time.Now().UTC(),
		domdoc.Failed("extraction failed"),
	)
}

func newTestService(
	reg *mockRegistry, pe *mockPatternEngine, me *mockMetadataEngine, se *mockStructuredEngine,
) *Service {
	return New(reg, pe, me, se, "/processed", zap.NewNop())
}

// --- Pattern tests ---

func TestPattern_CorpusWideScope(t *testing.T) {
	pe := &mockPatternEngine{set: domsearch.NewMatchSet([]domsearch.Match{
		domsearch.NewMatch("/processed/a.md", 3, "machine learning"),
	})}
	svc := newTestService(&mockRegistry{}, pe, &mockMetadataEngine{}, &mockStructuredEngine{})

	set, err := svc.Pattern(context.Background(), "machine", "", false, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Total() != 1 {
		t.Errorf("total = %d, want 1", set.Total())
	}
	if pe.gotScope != "/processed" {
		t.Errorf("scope = %q, want the artifact root", pe.gotScope)
	}
	if pe.gotPattern != "machine" || pe.gotCase || pe.gotContext != 2 {
		t.Errorf("engine got %q case=%v context=%d", pe.gotPattern, pe.gotCase, pe.gotContext)
	}
}

func TestPattern_TargetNarrowsScope(t *testing.T) {
	reg := &mockRegistry{docs: map[string]domdoc.Document{
		"doc-1": makeSearchableDoc(t, "doc-1"),
	}}
	pe := &mockPatternEngine{}
	svc := newTestService(reg, pe, &mockMetadataEngine{}, &mockStructuredEngine{})

	_, err := svc.Pattern(context.Background(), "x", "doc-1", true, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pe.gotScope != "/processed/doc-1.md" {
		t.Errorf("scope = %q, want the document's text artifact", pe.gotScope)
	}
	if !pe.gotCase {
		t.Error("case sensitivity not forwarded")
	}
}

func TestPattern_UnknownTarget(t *testing.T) {
	svc := newTestService(
		&mockRegistry{}, &mockPatternEngine{}, &mockMetadataEngine{}, &mockStructuredEngine{},
	)

	_, err := svc.Pattern(context.Background(), "x", "missing", false, 0)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPattern_TargetWithoutArtifacts(t *testing.T) {
	reg := &mockRegistry{docs: map[string]domdoc.Document{
		"doc-1": makeFailedDoc(t, "doc-1"),
	}}
	svc := newTestService(reg, &mockPatternEngine{}, &mockMetadataEngine{}, &mockStructuredEngine{})

	_, err := svc.Pattern(context.Background(), "x", "doc-1", false, 0)
	if !errors.Is(err, domain.ErrArtifactUnavailable) {
		t.Fatalf("expected ErrArtifactUnavailable, got %v", err)
	}
}

func TestPattern_Validation(t *testing.T) {
	svc := newTestService(
		&mockRegistry{}, &mockPatternEngine{}, &mockMetadataEngine{}, &mockStructuredEngine{},
	)

	if _, err := svc.Pattern(context.Background(), "", "", false, 0); !errors.Is(err, domain.ErrBadRequest) {
		t.Errorf("empty pattern: expected ErrBadRequest, got %v", err)
	}
	if _, err := svc.Pattern(context.Background(), "x", "", false, -1); !errors.Is(err, domain.ErrBadRequest) {
		t.Errorf("negative context: expected ErrBadRequest, got %v", err)
	}
}

func TestPattern_EngineFailure(t *testing.T) {
	pe := &mockPatternEngine{err: domain.ErrSearchEngine}
	svc := newTestService(&mockRegistry{}, pe, &mockMetadataEngine{}, &mockStructuredEngine{})

	_, err := svc.Pattern(context.Background(), "x", "", false, 0)
	if !errors.Is(err, domain.ErrSearchEngine) {
		t.Fatalf("expected ErrSearchEngine, got %v", err)
	}
}

// --- Metadata tests ---

func TestMetadata_DelegatesWithRoot(t *testing.T) {
	me := &mockMetadataEngine{paths: []string{"/processed/a.md"}}
	svc := newTestService(&mockRegistry{}, &mockPatternEngine{}, me, &mockStructuredEngine{})

	f := domsearch.MetadataFilter{NamePattern: "*.md", TypeFilter: "f"}
	paths, err := svc.Metadata(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 1 || paths[0] != "/processed/a.md" {
		t.Errorf("paths = %v", paths)
	}
	if me.gotRoot != "/processed" || me.gotF != f {
		t.Errorf("engine got root=%q filter=%+v", me.gotRoot, me.gotF)
	}
}

// --- Structured tests ---

func TestStructured_QueriesElementsArtifact(t *testing.T) {
	reg := &mockRegistry{docs: map[string]domdoc.Document{
		"doc-1": makeSearchableDoc(t, "doc-1"),
	}}
	se := &mockStructuredEngine{result: domsearch.StructuredResult([]byte(`["Title"]`))}
	svc := newTestService(reg, &mockPatternEngine{}, &mockMetadataEngine{}, se)

	res, err := svc.Structured(context.Background(), "doc-1", ".[].category")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsStructured() {
		t.Error("expected structured result")
	}
	if se.gotPath != "/processed/doc-1.json" || se.gotFlt != ".[].category" {
		t.Errorf("engine got path=%q filter=%q", se.gotPath, se.gotFlt)
	}
}

func TestStructured_Validation(t *testing.T) {
	svc := newTestService(
		&mockRegistry{}, &mockPatternEngine{}, &mockMetadataEngine{}, &mockStructuredEngine{},
	)

	if _, err := svc.Structured(context.Background(), "", ".x"); !errors.Is(err, domain.ErrBadRequest) {
		t.Errorf("empty id: expected ErrBadRequest, got %v", err)
	}
	if _, err := svc.Structured(context.Background(), "doc-1", ""); !errors.Is(err, domain.ErrBadRequest) {
		t.Errorf("empty filter: expected ErrBadRequest, got %v", err)
	}
}

func TestStructured_UnavailableArtifacts(t *testing.T) {
	reg := &mockRegistry{docs: map[string]domdoc.Document{
		"doc-1": makeFailedDoc(t, "doc-1"),
	}}
	svc := newTestService(reg, &mockPatternEngine{}, &mockMetadataEngine{}, &mockStructuredEngine{})

	_, err := svc.Structured(context.Background(), "doc-1", ".x")
	if !errors.Is(err, domain.ErrArtifactUnavailable) {
		t.Fatalf("expected ErrArtifactUnavailable, got %v", err)
	}
}

func TestStructured_CacheHitSkipsEngine(t *testing.T) {
	reg := &mockRegistry{docs: map[string]domdoc.Document{
		"doc-1": makeSearchableDoc(t, "doc-1"),
	}}
	se := &mockStructuredEngine{result: domsearch.TextResult("3")}
	svc := newTestService(reg, &mockPatternEngine{}, &mockMetadataEngine{}, se).WithQueryCache(16)

	for i := 0; i < 3; i++ {
		res, err := svc.Structured(context.Background(), "doc-1", "length")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Text() != "3" {
			t.Errorf("text = %q", res.Text())
		}
	}
	if se.calls != 1 {
		t.Errorf("engine calls = %d, want 1", se.calls)
	}
}

func TestStructured_FailuresNotCached(t *testing.T) {
	reg := &mockRegistry{docs: map[string]domdoc.Document{
		"doc-1": makeSearchableDoc(t, "doc-1"),
	}}
	se := &mockStructuredEngine{err: domain.ErrSearchEngine}
	svc := newTestService(reg, &mockPatternEngine{}, &mockMetadataEngine{}, se).WithQueryCache(16)

	for i := 0; i < 2; i++ {
		if _, err := svc.Structured(context.Background(), "doc-1", ".bad"); !errors.Is(err, domain.ErrSearchEngine) {
			t.Fatalf("expected ErrSearchEngine, got %v", err)
		}
	}
	if se.calls != 2 {
		t.Errorf("engine calls = %d, want 2 (failures must not be cached)", se.calls)
	}
}
