package offline

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketQueue      = []byte("queue")
	bucketDeadLetter = []byte("deadletter")
	bucketCache      = []byte("cache")
	bucketMeta       = []byte("meta")

	keyVersion = []byte("version")
)

// QueuedRequest is a mutating request captured while the network was down,
// waiting to be replayed.
type QueuedRequest struct {
	ID        uint64              `json:"id"`
	URL       string              `json:"url"`
	Method    string              `json:"method"`
	Headers   map[string][]string `json:"headers"`
	Body      []byte              `json:"body"`
	Timestamp time.Time           `json:"timestamp"`
	Attempts  int                 `json:"attempts"`
}

// CacheEntry is a stored response with its expiry deadline. A zero ExpiresAt
// means the entry never expires.
type CacheEntry struct {
	Status    int                 `json:"status"`
	Header    map[string][]string `json:"header"`
	Body      []byte              `json:"body"`
	StoredAt  time.Time           `json:"storedAt"`
	ExpiresAt time.Time           `json:"expiresAt"`
}

// Expired reports whether the entry is past its deadline at the given time.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Store is the durable backing for the offline cache and the retry queue.
// Every operation is a single bbolt transaction, so interleaved appends and
// deletes from concurrent requests never clobber each other.
type Store struct {
	db  *bolt.DB
	log *logrus.Entry
}

// OpenStore opens or creates the store at path. If the stored cache version
// differs from version, the cache bucket is purged and the version updated;
// queued requests survive version changes.
func OpenStore(log *logrus.Logger, path string, version int) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("err opening offline store: %w", err)
	}

	s := &Store{db: db, log: log.WithField("component", "offline")}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketQueue, bucketDeadLetter, bucketCache, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}

		meta := tx.Bucket(bucketMeta)
		want := []byte(fmt.Sprintf("sharma-associates-v%d", version))
		if have := meta.Get(keyVersion); have != nil && string(have) != string(want) {
			s.log.WithField("from", string(have)).WithField("to", string(want)).
				Info("cache version changed, purging cached responses")
			if err := tx.DeleteBucket(bucketCache); err != nil {
				return err
			}
			if _, err := tx.CreateBucket(bucketCache); err != nil {
				return err
			}
		}
		return meta.Put(keyVersion, want)
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("err initializing offline store: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Enqueue appends a request to the retry queue and returns its id.
func (s *Store) Enqueue(req QueuedRequest) (uint64, error) {
	var id uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketQueue)
		var err error
		id, err = b.NextSequence()
		if err != nil {
			return err
		}
		req.ID = id
		data, err := json.Marshal(req)
		if err != nil {
			return err
		}
		return b.Put(itob(id), data)
	})
	if err != nil {
		return 0, fmt.Errorf("err queueing request: %w", err)
	}
	return id, nil
}

// Queued returns the pending requests in insertion order.
func (s *Store) Queued() ([]QueuedRequest, error) {
	var out []QueuedRequest
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketQueue).ForEach(func(_, v []byte) error {
			var req QueuedRequest
			if err := json.Unmarshal(v, &req); err != nil {
				return err
			}
			out = append(out, req)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("err reading queue: %w", err)
	}
	return out, nil
}

// QueueDepth returns the number of pending requests.
func (s *Store) QueueDepth() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketQueue).Stats().KeyN
		return nil
	})
	return n, err
}

// Delete removes a queued request after a successful replay.
func (s *Store) Delete(id uint64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketQueue).Delete(itob(id))
	})
}

// RecordAttempt increments the attempt counter on a queued request. The
// record may have been deleted by a concurrent sweep; that is not an error.
func (s *Store) RecordAttempt(id uint64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketQueue)
		data := b.Get(itob(id))
		if data == nil {
			return nil
		}
		var req QueuedRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return err
		}
		req.Attempts++
		updated, err := json.Marshal(req)
		if err != nil {
			return err
		}
		return b.Put(itob(id), updated)
	})
}

// DeadLetter moves a queued request to the dead-letter bucket.
func (s *Store) DeadLetter(id uint64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		queue := tx.Bucket(bucketQueue)
		data := queue.Get(itob(id))
		if data == nil {
			return nil
		}
		if err := tx.Bucket(bucketDeadLetter).Put(itob(id), data); err != nil {
			return err
		}
		return queue.Delete(itob(id))
	})
}

// DeadLettered returns the requests that exhausted their replay attempts.
func (s *Store) DeadLettered() ([]QueuedRequest, error) {
	var out []QueuedRequest
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDeadLetter).ForEach(func(_, v []byte) error {
			var req QueuedRequest
			if err := json.Unmarshal(v, &req); err != nil {
				return err
			}
			out = append(out, req)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("err reading dead letters: %w", err)
	}
	return out, nil
}

// PutCache stores a response for a URL.
func (s *Store) PutCache(url string, entry CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCache).Put([]byte(url), data)
	})
}

// GetCache returns the cached response for a URL, or nil when there is none.
// An expired entry is deleted on the spot and reported as a miss.
func (s *Store) GetCache(url string, now time.Time) (*CacheEntry, error) {
	var entry *CacheEntry
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCache)
		data := b.Get([]byte(url))
		if data == nil {
			return nil
		}
		var e CacheEntry
		if err := json.Unmarshal(data, &e); err != nil {
			return err
		}
		if e.Expired(now) {
			return b.Delete([]byte(url))
		}
		entry = &e
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("err reading cache for %s: %w", url, err)
	}
	return entry, nil
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
