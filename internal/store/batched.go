package store

import "sync"

// Batch buffers a snapshot in memory using fake (negative) file IDs so a
// scan can be assembled before anything touches SQLite. CommitBatch writes
// it in one transaction.
//
// Thread safety: the mutex protects fake ID allocation and slice appends.
type Batch struct {
	mu sync.Mutex

	Files    []File
	Provides []Provide
	Requires []Require

	byPath      map[string]int64
	nextFakeID  int64 // starts at -1, decrements
	nextOrdinal int
}

// NewBatch creates an empty Batch.
func NewBatch() *Batch {
	return &Batch{
		byPath:     make(map[string]int64),
		nextFakeID: -1,
	}
}

// AddFile buffers a file record and returns its fake ID. Adding the same
// path twice returns the first ID.
func (b *Batch) AddFile(path string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if id, ok := b.byPath[path]; ok {
		return id
	}
	id := b.nextFakeID
	b.nextFakeID--
	b.byPath[path] = id
	b.Files = append(b.Files, File{ID: id, Path: path})
	return id
}

// AddProvide buffers a declaration of name by the file with the given fake ID.
func (b *Batch) AddProvide(fileID int64, name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Provides = append(b.Provides, Provide{FileID: fileID, Name: name, Ordinal: b.ordinal()})
}

// AddRequire buffers a requirement of name by the file with the given fake ID.
func (b *Batch) AddRequire(fileID int64, name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Requires = append(b.Requires, Require{FileID: fileID, Name: name, Ordinal: b.ordinal()})
}

func (b *Batch) ordinal() int {
	o := b.nextOrdinal
	b.nextOrdinal++
	return o
}
