package databazeknih

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Session fetches URLs. Clone returns a session a single worker may own.
type Session interface {
	Get(ctx context.Context, url string, timeout time.Duration) ([]byte, error)
	Clone() Session
}

// MappingCache remembers sourceId→cover URL and ISBN→sourceId lookups.
type MappingCache interface {
	CacheIdentifierToCoverURL(id, coverURL string) error
	CacheISBNToIdentifier(isbn, id string) error
	CachedCoverURL(id string) (string, bool)
	CachedIdentifierForISBN(isbn string) (string, bool)
}

// ResultSink receives finished records. Put may be called concurrently.
type ResultSink interface {
	Put(record BookRecord)
}

// AbortSignal reports whether the caller asked to stop.
type AbortSignal interface {
	IsSet() bool
}

// QueueSink buffers records in arrival order.
type QueueSink struct {
	mu      sync.Mutex
	records []BookRecord
}

// NewQueueSink returns an empty sink.
func NewQueueSink() *QueueSink {
	return &QueueSink{}
}

func (q *QueueSink) Put(record BookRecord) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.records = append(q.records, record)
}

// Drain returns the buffered records and empties the sink.
func (q *QueueSink) Drain() []BookRecord {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.records
	q.records = nil
	return out
}

// Len returns the number of buffered records.
func (q *QueueSink) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.records)
}

// Abort is an AbortSignal backed by an atomic flag.
type Abort struct {
	flag atomic.Bool
}

// NewAbort returns an unset abort signal.
func NewAbort() *Abort {
	return &Abort{}
}

func (a *Abort) IsSet() bool {
	return a.flag.Load()
}

// Set raises the flag.
func (a *Abort) Set() {
	a.flag.Store(true)
}

// SetOnDone raises the flag when ctx is done. The returned function
// detaches it.
func (a *Abort) SetOnDone(ctx context.Context) (stop func() bool) {
	return context.AfterFunc(ctx, a.Set)
}

// MemoryMappings is an in-process MappingCache.
type MemoryMappings struct {
	mu        sync.RWMutex
	coverURLs map[string]string
	isbnToID  map[string]string
}

// NewMemoryMappings returns an empty MemoryMappings.
func NewMemoryMappings() *MemoryMappings {
	return &MemoryMappings{
		coverURLs: make(map[string]string),
		isbnToID:  make(map[string]string),
	}
}

func (m *MemoryMappings) CacheIdentifierToCoverURL(id, coverURL string) error {
	if id == "" || coverURL == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coverURLs[id] = coverURL
	return nil
}

func (m *MemoryMappings) CacheISBNToIdentifier(isbn, id string) error {
	if isbn == "" || id == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isbnToID[isbn] = id
	return nil
}

func (m *MemoryMappings) CachedCoverURL(id string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.coverURLs[id]
	return u, ok
}

func (m *MemoryMappings) CachedIdentifierForISBN(isbn string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.isbnToID[isbn]
	return id, ok
}
