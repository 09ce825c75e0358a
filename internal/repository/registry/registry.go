// Package registry is the in-memory document registry: the single source of
// truth for which uploads exist and how their processing ended. Durability is
// a deployment concern; the registry holds no I/O and never blocks while a
// lock is held.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/kailas-cloud/grepdex/internal/domain"
	domdoc "github.com/kailas-cloud/grepdex/internal/domain/document"
)

// Registry maps document identity to its record, preserving insertion order
// for listing. All mutations go through Insert and SetOutcome; reads may run
// concurrently with writes on other ids.
type Registry struct {
	mu    sync.RWMutex
	docs  map[string]domdoc.Document
	order []string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{docs: make(map[string]domdoc.Document)}
}

// Insert adds a new record. Fails with ErrDuplicateID if the id is already
// present; the pipeline generates fresh ids so this is a defensive check.
func (r *Registry) Insert(_ context.Context, doc domdoc.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := doc.ID()
	if _, ok := r.docs[id]; ok {
		return fmt.Errorf("insert %s: %w", id, domain.ErrDuplicateID)
	}
	r.docs[id] = doc
	r.order = append(r.order, id)
	return nil
}

// Get returns the record for an id, or ErrNotFound.
func (r *Registry) Get(_ context.Context, id string) (domdoc.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok {
		return domdoc.Document{}, fmt.Errorf("get %s: %w", id, domain.ErrNotFound)
	}
	return doc, nil
}

// List returns all records in insertion order.
func (r *Registry) List(_ context.Context) []domdoc.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domdoc.Document, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.docs[id])
	}
	return out
}

// Count returns the number of registered documents.
func (r *Registry) Count(_ context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// SetOutcome finalizes a record exactly once and returns the updated record.
// Fails with ErrNotFound for unknown ids and ErrAlreadyFinalized when the
// outcome was already assigned. The pipeline calls this once per id, so a
// second call is a programming error, not a user-facing condition.
func (r *Registry) SetOutcome(_ context.Context, id string, outcome domdoc.Outcome) (domdoc.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[id]
	if !ok {
		return domdoc.Document{}, fmt.Errorf("set outcome %s: %w", id, domain.ErrNotFound)
	}
	if doc.Outcome().Finalized() {
		return domdoc.Document{}, fmt.Errorf("set outcome %s: %w", id, domain.ErrAlreadyFinalized)
	}

	final := doc.WithOutcome(outcome)
	r.docs[id] = final
	return final, nil
}
