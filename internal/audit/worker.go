package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hanlinyan-dev/option-pricing/internal/logger"
	"github.com/hanlinyan-dev/option-pricing/internal/models"
)

// DefaultBufferSize is the capacity of the audit channel
const DefaultBufferSize = 100

// ErrChannelFull is returned by Record when the worker is behind
var ErrChannelFull = errors.New("audit channel full")

// ErrClosed is returned by Record after Close
var ErrClosed = errors.New("audit recorder closed")

// Entry is one line of the audit file
type Entry struct {
	Timestamp string               `json:"timestamp"`
	Kind      string               `json:"kind"` // "price", "price_both", "batch"
	Result    models.PricingResult `json:"result"`
}

// Auditor accepts pricing results for the audit trail
type Auditor interface {
	Record(kind string, result models.PricingResult) error
	Close() error
}

// Recorder appends JSON lines to the audit file. A single goroutine owns
// the file; Record never blocks.
type Recorder struct {
	ch     chan Entry
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
	err    error
	now    func() time.Time
}

// NewRecorder opens (or creates) path and starts the worker
func NewRecorder(path string, bufferSize int) (*Recorder, error) {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create audit directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open audit file: %w", err)
	}

	r := &Recorder{
		ch:   make(chan Entry, bufferSize),
		done: make(chan struct{}),
		now:  time.Now,
	}
	go r.worker(f)
	logger.Info.Printf("📝 AUDIT: Recording pricing results to %s", path)
	return r, nil
}

// Record queues a result for the audit file
func (r *Recorder) Record(kind string, result models.PricingResult) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return ErrClosed
	}

	entry := Entry{
		Timestamp: r.now().UTC().Format(time.RFC3339Nano),
		Kind:      kind,
		Result:    result,
	}

	select {
	case r.ch <- entry:
		return nil
	default:
		logger.Warn.Printf("⚠️ AUDIT: Dropped %s entry for batch %s", kind, result.BatchID)
		return ErrChannelFull
	}
}

// Close stops accepting entries, drains the channel and closes the file
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.done
		return r.err
	}
	r.closed = true
	close(r.ch)
	r.mu.Unlock()

	<-r.done
	return r.err
}

// worker processes all audit entries in a single goroutine
func (r *Recorder) worker(f *os.File) {
	defer close(r.done)

	enc := json.NewEncoder(f)
	written := 0
	for entry := range r.ch {
		if err := enc.Encode(entry); err != nil {
			logger.Warn.Printf("⚠️ AUDIT: Failed to write entry: %v", err)
			if r.err == nil {
				r.err = fmt.Errorf("write audit entry: %w", err)
			}
			continue
		}
		written++
		logger.Debug.Printf("📝 AUDIT: Added %s entry for batch %s (total: %d)", entry.Kind, entry.Result.BatchID, written)
	}

	if err := f.Close(); err != nil && r.err == nil {
		r.err = fmt.Errorf("close audit file: %w", err)
	}
}

// Nop discards every entry
type Nop struct{}

func (Nop) Record(string, models.PricingResult) error { return nil }
func (Nop) Close() error                                { return nil }
var _ Auditor = (*Recorder)(nil)
