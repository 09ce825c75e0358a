// Package chi is the HTTP transport: hand-written handlers over the chi
// router, JSON in and out, sentinel errors mapped to status codes.
package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/grepdex/internal/domain"
	domdoc "github.com/kailas-cloud/grepdex/internal/domain/document"
	domsearch "github.com/kailas-cloud/grepdex/internal/domain/search"
	documentuc "github.com/kailas-cloud/grepdex/internal/usecase/document"
	healthuc "github.com/kailas-cloud/grepdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/grepdex/internal/usecase/search"
	"github.com/kailas-cloud/grepdex/internal/version"
)

// DefaultMaxUploadBytes bounds a single upload when no limit is configured.
const DefaultMaxUploadBytes = 64 << 20

type errorCode string

const (
	codeBadRequest          errorCode = "bad_request"
	codeNotFound            errorCode = "not_found"
	codeArtifactUnavailable errorCode = "artifact_unavailable"
	codeConflict            errorCode = "conflict"
	codeStorageError        errorCode = "storage_error"
	codeSearchEngineError   errorCode = "search_engine_error"
	codeInternalError       errorCode = "internal_error"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the ingestion and search services over HTTP.
type Server struct {
	documents      *documentuc.Service
	search         *searchuc.Service
	health         *healthuc.Service
	logger         *zap.Logger
	maxUploadBytes int64
	errorHandlers  []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	documents *documentuc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		documents:      documents,
		search:         search,
		health:         health,
		logger:         logger,
		maxUploadBytes: DefaultMaxUploadBytes,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrBadRequest, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrArtifactUnavailable, http.StatusNotFound, codeArtifactUnavailable),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrDuplicateID, http.StatusConflict, codeConflict),
		sentinelHandler(domain.ErrStorage, http.StatusInternalServerError, codeStorageError),
		sentinelHandler(domain.ErrSearchEngine, http.StatusInternalServerError, codeSearchEngineError),
	}
	return s
}

// WithMaxUploadBytes bounds the accepted upload size.
func (s *Server) WithMaxUploadBytes(n int64) *Server {
	if n > 0 {
		s.maxUploadBytes = n
	}
	return s
}

// Routes registers all handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.Index)
	r.Post("/upload/", s.Upload)
	r.Get("/files/", s.ListFiles)
	r.Get("/files/{id}", s.GetFile)
	r.Get("/search/pattern/", s.PatternSearch)
	r.Get("/search/find/", s.FindSearch)
	r.Get("/search/query/", s.StructuredQuery)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Index handles GET /.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "grepdex file search API",
		"version": version.Version,
		"endpoints": map[string]string{
			"upload":         "POST /upload/",
			"list_files":     "GET /files/",
			"get_file":       "GET /files/{id}",
			"search_pattern": "GET /search/pattern/",
			"search_find":    "GET /search/find/",
			"search_query":   "GET /search/query/",
		},
	})
}

// Upload handles POST /upload/. The multipart part name is "file".
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "no file provided: "+err.Error())
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "read upload: "+err.Error())
		return
	}

	doc, err := s.documents.Ingest(
		r.Context(), header.Filename, header.Header.Get("Content-Type"), data,
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentToDTO(&doc))
}

// ListFiles handles GET /files/.
func (s *Server) ListFiles(w http.ResponseWriter, r *http.Request) {
	docs := s.documents.List(r.Context())

	files := make([]DocumentResponse, len(docs))
	for i := range docs {
		files[i] = documentToDTO(&docs[i])
	}

	writeJSON(w, http.StatusOK, FileListResponse{Total: len(files), Files: files})
}

// GetFile handles GET /files/{id}.
func (s *Server) GetFile(w http.ResponseWriter, r *http.Request) {
	doc, err := s.documents.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentToDTO(&doc))
}

// PatternSearch handles GET /search/pattern/.
func (s *Server) PatternSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	caseSensitive, err := parseBoolParam(q.Get("case_sensitive"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "case_sensitive must be a boolean")
		return
	}
	contextLines, err := parseIntParam(q.Get("context"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "context must be an integer")
		return
	}

	pattern := q.Get("pattern")
	targetID := q.Get("id")

	set, err := s.search.Pattern(r.Context(), pattern, targetID, caseSensitive, contextLines)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	matches := make([]MatchResponse, set.Total())
	for i, m := range set.Matches() {
		matches[i] = matchToDTO(&m)
	}

	writeJSON(w, http.StatusOK, PatternSearchResponse{
		Pattern:      pattern,
		FileID:       targetID,
		TotalMatches: set.Total(),
		Matches:      matches,
	})
}

// FindSearch handles GET /search/find/.
func (s *Server) FindSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domsearch.MetadataFilter{
		NamePattern: q.Get("name"),
		TypeFilter:  q.Get("type"),
		SizeFilter:  q.Get("size"),
	}

	paths, err := s.search.Metadata(r.Context(), filter)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FindSearchResponse{
		SearchParameters: FindParameters{
			Name: filter.NamePattern,
			Type: filter.TypeFilter,
			Size: filter.SizeFilter,
		},
		Results: paths,
		Count:   len(paths),
	})
}

// StructuredQuery handles GET /search/query/.
func (s *Server) StructuredQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id := q.Get("id")
	filter := q.Get("filter")

	result, err := s.search.Structured(r.Context(), id, filter)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, StructuredQueryResponse{
		FileID: id,
		Filter: filter,
		Result: result.Value(),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": string(report.Status),
		"checks": checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// safeDomainMessage returns the client-facing message. Validation and engine
// failures carry their diagnostic text; everything else collapses to the
// sentinel message so internals never leak.
func safeDomainMessage(err error) string {
	for _, s := range []error{domain.ErrBadRequest, domain.ErrSearchEngine} {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrArtifactUnavailable,
		domain.ErrDuplicateID,
		domain.ErrAlreadyFinalized,
		domain.ErrStorage,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func parseBoolParam(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}

func parseIntParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

// --- DTOs ---

// DocumentResponse is the wire form of a registry record.
type DocumentResponse struct {
	FileID      string          `json:"file_id"`
	Filename    string          `json:"filename"`
	ContentType string          `json:"content_type,omitempty"`
	Size        int64           `json:"size"`
	UploadedAt  time.Time       `json:"uploaded_at"`
	Outcome     OutcomeResponse `json:"processing_result"`
}

// OutcomeResponse is the wire form of a processing outcome.
type OutcomeResponse struct {
	Status         string `json:"status"`
	MarkdownPath   string `json:"markdown_path,omitempty"`
	JSONPath       string `json:"json_path,omitempty"`
	ElementCount   int    `json:"element_count,omitempty"`
	ContentPreview string `json:"content_preview,omitempty"`
	Error          string `json:"error,omitempty"`
}

// FileListResponse is the GET /files/ body.
type FileListResponse struct {
	Total int                `json:"total"`
	Files []DocumentResponse `json:"files"`
}

// MatchResponse is one pattern-search hit.
type MatchResponse struct {
	Path   string                  `json:"path"`
	Line   int                     `json:"line"`
	Text   string                  `json:"text"`
	Before []domsearch.ContextLine `json:"before,omitempty"`
	After  []domsearch.ContextLine `json:"after,omitempty"`
}

// PatternSearchResponse is the GET /search/pattern/ body.
type PatternSearchResponse struct {
	Pattern      string          `json:"pattern"`
	FileID       string          `json:"file_id,omitempty"`
	TotalMatches int             `json:"total_matches"`
	Matches      []MatchResponse `json:"matches"`
}

// FindParameters echoes the metadata criteria back to the caller.
type FindParameters struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
	Size string `json:"size,omitempty"`
}

// FindSearchResponse is the GET /search/find/ body.
type FindSearchResponse struct {
	SearchParameters FindParameters `json:"search_parameters"`
	Results          []string       `json:"results"`
	Count            int            `json:"count"`
}

// StructuredQueryResponse is the GET /search/query/ body.
type StructuredQueryResponse struct {
	FileID string `json:"file_id"`
	Filter string `json:"filter"`
	Result any    `json:"result"`
}

func documentToDTO(doc *domdoc.Document) DocumentResponse {
	return DocumentResponse{
		FileID:      doc.ID(),
		Filename:    doc.OriginalName(),
		ContentType: doc.ContentType(),
		Size:        doc.ByteSize(),
		UploadedAt:  doc.UploadedAt(),
		Outcome:     outcomeToDTO(doc.Outcome()),
	}
}

func outcomeToDTO(o domdoc.Outcome) OutcomeResponse {
	resp := OutcomeResponse{Status: string(o.Status())}
	if o.Succeeded() {
		resp.MarkdownPath = o.TextPath()
		resp.JSONPath = o.ElementsPath()
		resp.ElementCount = o.ElementCount()
		resp.ContentPreview = o.Preview()
	} else {
		resp.Error = o.ErrMessage()
	}
	return resp
}

func matchToDTO(m *domsearch.Match) MatchResponse {
	return MatchResponse{
		Path:   m.Path(),
		Line:   m.Line(),
		Text:   m.Text(),
		Before: m.Before(),
		After:  m.After(),
	}
}
