package service

import (
	"sync"

	"github.com/google/uuid"
)

// DocumentLocks serializes workflow transitions per document id. Advance,
// reject, mark-effective, and archive on the same document must never
// interleave; operations on different documents run concurrently.
type DocumentLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewDocumentLocks creates an empty lock table.
func NewDocumentLocks() *DocumentLocks {
	return &DocumentLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// Lock acquires the mutex for docID, creating it on first use, and returns
// the unlock function.
func (d *DocumentLocks) Lock(docID uuid.UUID) func() {
	d.mu.Lock()
	m, ok := d.locks[docID]
	if !ok {
		m = &sync.Mutex{}
		d.locks[docID] = m
	}
	d.mu.Unlock()

	m.Lock()
	return m.Unlock
}
