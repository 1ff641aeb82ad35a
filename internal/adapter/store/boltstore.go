// Package store implements the vector store on BoltDB. Records live in
// memory for brute-force search and are persisted as a whole on Save; Load
// hydrates them back from the configured path.
package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"go.etcd.io/bbolt"

	"imgsim/internal/domain"
	"imgsim/internal/port"
)

var (
	bucketRecords = []byte("records")
	bucketInfo    = []byte("info")

	keyDimension = []byte("dimension")
	keyNextID    = []byte("next_id")
)

// BoltStore is a file-backed vector store with squared-L2 brute-force
// search. Writes are serialized behind a single mutex; concurrent readers
// share a lock.
type BoltStore struct {
	path      string
	dimension int

	mu      sync.RWMutex
	nextID  domain.RecordID
	records map[domain.RecordID]record
}

type record struct {
	vector []float32
	meta   domain.Metadata
}

type storedRecord struct {
	Vector   []float32         `json:"v"`
	Metadata map[string]string `json:"m,omitempty"`
}

// Open creates a store handle bound to a path and dimension. No disk access
// happens until Load or Save.
func Open(path string, dimension int) (*BoltStore, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid store dimension: %d", dimension)
	}
	return &BoltStore{
		path:      path,
		dimension: dimension,
		records:   make(map[domain.RecordID]record),
	}, nil
}

// Load reads all records from the store file. A missing, corrupt or
// dimension-mismatched file yields a StoreLoadError and leaves the store
// empty and usable.
func (s *BoltStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := bbolt.Open(s.path, 0600, &bbolt.Options{
		ReadOnly: true,
		Timeout:  time.Second,
	})
	if err != nil {
		return &domain.StoreLoadError{Path: s.path, Err: err}
	}
	defer db.Close()

	records := make(map[domain.RecordID]record)
	var nextID domain.RecordID

	err = db.View(func(tx *bbolt.Tx) error {
		info := tx.Bucket(bucketInfo)
		if info == nil {
			return fmt.Errorf("missing info bucket")
		}
		dim := info.Get(keyDimension)
		if dim == nil || len(dim) != 4 {
			return fmt.Errorf("missing dimension")
		}
		if got := int(binary.BigEndian.Uint32(dim)); got != s.dimension {
			return fmt.Errorf("dimension mismatch: file has %d, store expects %d", got, s.dimension)
		}
		if raw := info.Get(keyNextID); len(raw) == 4 {
			nextID = domain.RecordID(binary.BigEndian.Uint32(raw))
		}

		b := tx.Bucket(bucketRecords)
		if b == nil {
			return fmt.Errorf("missing records bucket")
		}
		return b.ForEach(func(k, v []byte) error {
			if len(k) != 4 {
				return fmt.Errorf("malformed record key")
			}
			var stored storedRecord
			if err := json.Unmarshal(v, &stored); err != nil {
				return fmt.Errorf("malformed record: %w", err)
			}
			if len(stored.Vector) != s.dimension {
				return fmt.Errorf("record vector has dimension %d, expected %d", len(stored.Vector), s.dimension)
			}
			records[domain.RecordID(binary.BigEndian.Uint32(k))] = record{
				vector: stored.Vector,
				meta:   stored.Metadata,
			}
			return nil
		})
	})
	if err != nil {
		return &domain.StoreLoadError{Path: s.path, Err: err}
	}

	s.records = records
	s.nextID = nextID
	return nil
}

// Save persists all records. The file is written to a temporary sibling and
// renamed into place, so an existing file is either fully replaced or left
// untouched.
func (s *BoltStore) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tmp := s.path + ".tmp"
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return &domain.StoreOperationError{Op: "save", Err: err}
	}

	db, err := bbolt.Open(tmp, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return &domain.StoreOperationError{Op: "save", Err: err}
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		info, err := tx.CreateBucketIfNotExists(bucketInfo)
		if err != nil {
			return err
		}
		if err := info.Put(keyDimension, u32bytes(uint32(s.dimension))); err != nil {
			return err
		}
		if err := info.Put(keyNextID, u32bytes(uint32(s.nextID))); err != nil {
			return err
		}

		b, err := tx.CreateBucketIfNotExists(bucketRecords)
		if err != nil {
			return err
		}
		for id, rec := range s.records {
			data, err := json.Marshal(storedRecord{Vector: rec.vector, Metadata: rec.meta})
			if err != nil {
				return err
			}
			if err := b.Put(u32bytes(uint32(id)), data); err != nil {
				return err
			}
		}
		return nil
	})
	if cerr := db.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return &domain.StoreOperationError{Op: "save", Err: err}
	}

	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return &domain.StoreOperationError{Op: "save", Err: err}
	}
	return nil
}

// Insert adds a vector with metadata and returns the assigned id.
func (s *BoltStore) Insert(vec domain.Embedding, meta domain.Metadata) (domain.RecordID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(vec) != s.dimension {
		return 0, &domain.StoreOperationError{
			Op:  "insert",
			Err: fmt.Errorf("vector dimension mismatch: expected %d, got %d", s.dimension, len(vec)),
		}
	}

	id := s.nextID
	s.nextID++

	stored := make([]float32, len(vec))
	copy(stored, vec)

	// Snapshot the metadata so later caller mutations cannot rewrite the
	// stored record.
	var storedMeta domain.Metadata
	if meta != nil {
		storedMeta = make(domain.Metadata, len(meta))
		for k, v := range meta {
			storedMeta[k] = v
		}
	}

	s.records[id] = record{vector: stored, meta: storedMeta}
	return id, nil
}

// Query returns up to k nearest records by squared Euclidean distance,
// ascending. An empty store yields zero results, not an error.
func (s *BoltStore) Query(vec domain.Embedding, k int, include port.Include) ([]domain.QueryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(vec) != s.dimension {
		return nil, &domain.StoreOperationError{
			Op:  "query",
			Err: fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(vec)),
		}
	}
	if k < 1 {
		return nil, &domain.StoreOperationError{Op: "query", Err: fmt.Errorf("k must be >= 1, got %d", k)}
	}

	type scored struct {
		id       domain.RecordID
		distance float32
		meta     domain.Metadata
	}

	scores := make([]scored, 0, len(s.records))
	for id, rec := range s.records {
		scores = append(scores, scored{
			id:       id,
			distance: squaredL2(vec, rec.vector),
			meta:     rec.meta,
		})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].distance != scores[j].distance {
			return scores[i].distance < scores[j].distance
		}
		return scores[i].id < scores[j].id
	})

	if k > len(scores) {
		k = len(scores)
	}

	results := make([]domain.QueryResult, k)
	for i := 0; i < k; i++ {
		if include&port.IncludeID != 0 {
			results[i].ID = scores[i].id
		}
		if include&port.IncludeDistance != 0 {
			results[i].Distance = scores[i].distance
		}
		if include&port.IncludeMetadata != 0 {
			results[i].Metadata = scores[i].meta
		}
	}
	return results, nil
}

// Each visits every record's id and metadata.
func (s *BoltStore) Each(fn func(id domain.RecordID, meta domain.Metadata)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, rec := range s.records {
		fn(id, rec.meta)
	}
}

// Reset discards all in-memory records. The store file is not touched until
// the next Save.
func (s *BoltStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[domain.RecordID]record)
	s.nextID = 0
}

// Count returns the number of records currently held.
func (s *BoltStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Dimension returns the configured vector dimension.
func (s *BoltStore) Dimension() int {
	return s.dimension
}

// Path returns the file path the store persists to.
func (s *BoltStore) Path() string {
	return s.path
}

func u32bytes(v uint32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return buf[:]
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
