package document

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/grepdex/internal/domain"
	domdoc "github.com/kailas-cloud/grepdex/internal/domain/document"
	"github.com/kailas-cloud/grepdex/internal/domain/element"
)

// --- Mocks ---

type mockRegistry struct {
	insertErr     error
	getResult     domdoc.Document
	getErr        error
	listDocs      []domdoc.Document
	countResult   int
	setOutcomeErr error

	inserted  []domdoc.Document
	outcomes  map[string]domdoc.Outcome
	setCalled int
	setLastID string
}

func (m *mockRegistry) Insert(_ context.Context, doc domdoc.Document) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, doc)
	return nil
}

func (m *mockRegistry) Get(_ context.Context, _ string) (domdoc.Document, error) {
	return m.getResult, m.getErr
}

func (m *mockRegistry) List(_ context.Context) []domdoc.Document {
	return m.listDocs
}

func (m *mockRegistry) Count(_ context.Context) int {
	return m.countResult
}

func (m *mockRegistry) SetOutcome(_ context.Context, id string, outcome domdoc.Outcome) (domdoc.Document, error) {
	m.setCalled++
	m.setLastID = id
	if m.setOutcomeErr != nil {
		return domdoc.Document{}, m.setOutcomeErr
	}
	if m.outcomes == nil {
		m.outcomes = make(map[string]domdoc.Outcome)
	}
	m.outcomes[id] = outcome
	for _, doc := range m.inserted {
		if doc.ID() == id {
			return doc.WithOutcome(outcome), nil
		}
	}
	return domdoc.Document{}, errors.New("unknown id")
}

type mockBlobStore struct {
	saveErr          error
	writeTextErr     error
	writeElementsErr error

	savedPath    string
	removedPaths []string
	wroteText    string
	wroteRaw     []byte
}

func (m *mockBlobStore) SaveOriginal(id, originalName string, _ []byte) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.savedPath = "/uploads/" + id + "_" + originalName
	return m.savedPath, nil
}

func (m *mockBlobStore) RemoveOriginal(path string) error {
	m.removedPaths = append(m.removedPaths, path)
	return nil
}

func (m *mockBlobStore) WriteText(id, content string) (string, error) {
	if m.writeTextErr != nil {
		return "", m.writeTextErr
	}
	m.wroteText = content
	return "/processed/" + id + ".md", nil
}

func (m *mockBlobStore) WriteElements(id string, data []byte) (string, error) {
	if m.writeElementsErr != nil {
		return "", m.writeElementsErr
	}
	m.wroteRaw = data
	return "/processed/" + id + ".json", nil
}

type mockExtractor struct {
	elements []element.Element
	err      error
}

func (m *mockExtractor) Extract(_ context.Context, _, _ string) ([]element.Element, error) {
	return m.elements, m.err
}

func newTestService(reg *mockRegistry, blobs *mockBlobStore, ext *mockExtractor) *Service {
	return New(reg, blobs, ext, zap.NewNop())
}

// --- Ingest tests ---

func TestIngest_Success(t *testing.T) {
	reg := &mockRegistry{}
	blobs := &mockBlobStore{}
	ext := &mockExtractor{elements: []element.Element{
		{Category: element.Title, Text: "Report"},
		{Category: element.NarrativeText, Text: "Quarterly numbers."},
	}}
	svc := newTestService(reg, blobs, ext)

	doc, err := svc.Ingest(context.Background(), "report.pdf", "application/pdf", []byte("%PDF"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.ID() == "" {
		t.Error("expected a generated id")
	}
	if doc.OriginalName() != "report.pdf" {
		t.Errorf("name = %q", doc.OriginalName())
	}
	if doc.ByteSize() != 4 {
		t.Errorf("byte size = %d, want 4", doc.ByteSize())
	}

	out := doc.Outcome()
	if !out.Succeeded() {
		t.Fatalf("outcome = %q, want success", out.Status())
	}
	if out.ElementCount() != 2 {
		t.Errorf("element count = %d, want 2", out.ElementCount())
	}
	if out.TextPath() != "/processed/"+doc.ID()+".md" {
		t.Errorf("text path = %q", out.TextPath())
	}
	if out.ElementsPath() != "/processed/"+doc.ID()+".json" {
		t.Errorf("elements path = %q", out.ElementsPath())
	}
	if !strings.HasPrefix(out.Preview(), "# Report") {
		t.Errorf("preview = %q", out.Preview())
	}

	if !strings.Contains(blobs.wroteText, "Quarterly numbers.") {
		t.Errorf("text artifact = %q", blobs.wroteText)
	}
	if !strings.Contains(string(blobs.wroteRaw), `"NarrativeText"`) {
		t.Errorf("elements artifact = %s", blobs.wroteRaw)
	}
}

func TestIngest_ExtractionFailureIsErrorOutcome(t *testing.T) {
	reg := &mockRegistry{}
	blobs := &mockBlobStore{}
	ext := &mockExtractor{err: errors.New("unsupported format")}
	svc := newTestService(reg, blobs, ext)

	doc, err := svc.Ingest(context.Background(), "weird.bin", "", []byte{0x1})
	if err != nil {
		t.Fatalf("extraction failure must not fail ingestion: %v", err)
	}

	out := doc.Outcome()
	if out.Status() != domdoc.StatusError {
		t.Fatalf("outcome = %q, want error", out.Status())
	}
	if !strings.Contains(out.ErrMessage(), "unsupported format") {
		t.Errorf("error message = %q", out.ErrMessage())
	}
	if len(blobs.removedPaths) != 0 {
		t.Errorf("original must be retained on extraction failure, removed %v", blobs.removedPaths)
	}
}

func TestIngest_ArtifactWriteFailureIsErrorOutcome(t *testing.T) {
	reg := &mockRegistry{}
	blobs := &mockBlobStore{writeTextErr: errors.New("disk full")}
	ext := &mockExtractor{elements: []element.Element{{Category: element.NarrativeText, Text: "x"}}}
	svc := newTestService(reg, blobs, ext)

	doc, err := svc.Ingest(context.Background(), "a.txt", "text/plain", []byte("x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Outcome().Status() != domdoc.StatusError {
		t.Fatalf("outcome = %q, want error", doc.Outcome().Status())
	}
	if !strings.Contains(doc.Outcome().ErrMessage(), "disk full") {
		t.Errorf("error message = %q", doc.Outcome().ErrMessage())
	}
}

func TestIngest_MissingFilename(t *testing.T) {
	svc := newTestService(&mockRegistry{}, &mockBlobStore{}, &mockExtractor{})

	_, err := svc.Ingest(context.Background(), "", "", []byte("x"))
	if !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestIngest_SaveFailureIsStorageError(t *testing.T) {
	blobs := &mockBlobStore{saveErr: errors.New("read-only filesystem")}
	reg := &mockRegistry{}
	svc := newTestService(reg, blobs, &mockExtractor{})

	_, err := svc.Ingest(context.Background(), "a.txt", "", []byte("x"))
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if len(reg.inserted) != 0 {
		t.Error("nothing must be registered when the original was not persisted")
	}
}

func TestIngest_InsertFailureRollsBackOriginal(t *testing.T) {
	reg := &mockRegistry{insertErr: domain.ErrDuplicateID}
	blobs := &mockBlobStore{}
	svc := newTestService(reg, blobs, &mockExtractor{})

	_, err := svc.Ingest(context.Background(), "a.txt", "", []byte("x"))
	if !errors.Is(err, domain.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if len(blobs.removedPaths) != 1 || blobs.removedPaths[0] != blobs.savedPath {
		t.Errorf("original not rolled back: removed %v, saved %q", blobs.removedPaths, blobs.savedPath)
	}
}

func TestIngest_FinalizeFailureSurfaces(t *testing.T) {
	reg := &mockRegistry{setOutcomeErr: domain.ErrAlreadyFinalized}
	svc := newTestService(reg, &mockBlobStore{}, &mockExtractor{})

	_, err := svc.Ingest(context.Background(), "a.txt", "", []byte("x"))
	if !errors.Is(err, domain.ErrAlreadyFinalized) {
		t.Fatalf("expected ErrAlreadyFinalized, got %v", err)
	}
	if reg.setCalled != 1 || reg.setLastID == "" {
		t.Errorf("finalization attempts = %d (id %q), want exactly one", reg.setCalled, reg.setLastID)
	}
}

// --- Read tests ---

func TestGet_RequiresID(t *testing.T) {
	svc := newTestService(&mockRegistry{}, &mockBlobStore{}, &mockExtractor{})

	_, err := svc.Get(context.Background(), "")
	if !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestGet_PropagatesNotFound(t *testing.T) {
	reg := &mockRegistry{getErr: domain.ErrNotFound}
	svc := newTestService(reg, &mockBlobStore{}, &mockExtractor{})

	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList_DelegatesToRegistry(t *testing.T) {
	doc := domdoc.Reconstruct(
		"id-1", "a.txt", "text/plain", 1, "/uploads/id-1_a.txt", time.Now().UTC(), domdoc.Outcome{},
	)
	reg := &mockRegistry{listDocs: []domdoc.Document{doc}, countResult: 1}
	svc := newTestService(reg, &mockBlobStore{}, &mockExtractor{})

	if got := svc.List(context.Background()); len(got) != 1 || got[0].ID() != "id-1" {
		t.Errorf("list = %+v", got)
	}
	if svc.Count(context.Background()) != 1 {
		t.Error("count = 0, want 1")
	}
}
