package services

import (
	"context"
	"sync"
)

// EditorRegistry hands out one live Editor per table so concurrent requests
// against the same table share a single undo history and row state.
type EditorRegistry struct {
	mu      sync.Mutex
	store   TableStore
	opts    []EditorOption
	editors map[string]*Editor
}

func NewEditorRegistry(store TableStore, opts ...EditorOption) *EditorRegistry {
	return &EditorRegistry{
		store:   store,
		opts:    opts,
		editors: make(map[string]*Editor),
	}
}

// Store returns the table store editors are opened against.
func (r *EditorRegistry) Store() TableStore {
	return r.store
}

// Get returns the live editor of tableID, opening it on first use. extra
// options only apply when the editor is opened by this call.
func (r *EditorRegistry) Get(ctx context.Context, tableID string, extra ...EditorOption) (*Editor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ed, ok := r.editors[tableID]; ok {
		return ed, nil
	}
	opts := append(append([]EditorOption{}, r.opts...), extra...)
	ed, err := OpenEditor(ctx, r.store, tableID, opts...)
	if err != nil {
		return nil, err
	}
	r.editors[tableID] = ed
	return ed, nil
}

// Close drops the live editor of tableID together with its undo history. It
// reports whether an editor was open.
func (r *EditorRegistry) Close(tableID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.editors[tableID]
	delete(r.editors, tableID)
	return ok
}

// Len reports how many editors are open.
func (r *EditorRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.editors)
}
