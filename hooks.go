package codesync

import (
	"sync"
)

// Hook function types for file events
type (
	// FileWrittenHook is called after SyncFile writes a changed file
	FileWrittenHook func(result FileResult)

	// DriftHook is called when AuditFile finds a file out of date
	DriftHook func(result AuditResult)
)

// hooks manages event callbacks. Callbacks may run concurrently when files
// are processed in parallel.
type hooks struct {
	mu            sync.RWMutex
	onFileWritten []FileWrittenHook
	onDrift       []DriftHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnFileWritten registers a callback for when a file is written
func (h *hooks) OnFileWritten(fn FileWrittenHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onFileWritten = append(h.onFileWritten, fn)
}

// OnDrift registers a callback for when a file fails validation
func (h *hooks) OnDrift(fn DriftHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onDrift = append(h.onDrift, fn)
}

func (h *hooks) fileWritten(result FileResult) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onFileWritten {
		hook(result)
	}
}

func (h *hooks) drift(result AuditResult) {
	if result.Valid {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onDrift {
		hook(result)
	}
}
