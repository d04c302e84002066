// Package live maintains the in-memory merged activity feed shown on
// the admin submissions page. Each source publishes a full snapshot of
// its rows; the feed keeps the latest snapshot per source and merges
// them on read, so a refresh from one source can never drop or
// duplicate rows belonging to another.
package live

import (
	"sort"
	"sync"
	"time"
)

// Row is a single entry in the merged feed.
type Row struct {
	Source    string    `json:"source"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"createdAt"`
}

// Feed holds per-source snapshots and fans out change notifications.
type Feed struct {
	mu      sync.RWMutex
	sources map[string][]Row
	subs    map[int]chan []Row
	nextSub int
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{
		sources: make(map[string][]Row),
		subs:    make(map[int]chan []Row),
	}
}

// Publish replaces the snapshot for one source and notifies
// subscribers with the new merged view.
// PRE: source is non-empty; rows all carry that source
// POST: Merged() reflects exactly the rows published per source
func (f *Feed) Publish(source string, rows []Row) {
	f.mu.Lock()
	snapshot := make([]Row, len(rows))
	copy(snapshot, rows)
	f.sources[source] = snapshot
	merged := f.mergedLocked()
	for _, ch := range f.subs {
		select {
		case ch <- merged:
		default:
		}
	}
	f.mu.Unlock()
}

// Merged returns all rows across sources, newest first.
func (f *Feed) Merged() []Row {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.mergedLocked()
}

// mergedLocked concatenates the per-source snapshots and sorts by
// CreatedAt descending. Callers must hold f.mu.
func (f *Feed) mergedLocked() []Row {
	n := 0
	for _, rows := range f.sources {
		n += len(rows)
	}
	merged := make([]Row, 0, n)
	for _, rows := range f.sources {
		merged = append(merged, rows...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged
}

// Subscribe registers for merged-view updates. The returned channel
// receives the full merged slice after every Publish; slow receivers
// miss intermediate updates rather than blocking publishers. Callers
// must invoke the returned unsubscribe function when done.
func (f *Feed) Subscribe() (<-chan []Row, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextSub
	f.nextSub++
	ch := make(chan []Row, 4)
	f.subs[id] = ch
	return ch, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if c, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(c)
		}
	}
}
