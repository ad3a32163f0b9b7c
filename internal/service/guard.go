package service

import "sync"

// WriteGuard serializes every mutating sequence through one lock. The fund
// has a single authoritative write path; validation and reporting read
// around it freely.
type WriteGuard struct {
	mu sync.Mutex
}

// NewWriteGuard creates a new WriteGuard
func NewWriteGuard() *WriteGuard {
	return &WriteGuard{}
}

// Lock acquires the write path
func (g *WriteGuard) Lock() {
	g.mu.Lock()
}

// Unlock releases the write path
func (g *WriteGuard) Unlock() {
	g.mu.Unlock()
}
