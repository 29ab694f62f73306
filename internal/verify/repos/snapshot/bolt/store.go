package bolt

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/haukened/ddverify/internal/verify/domain"
	"github.com/haukened/ddverify/internal/verify/gateways/suffixfeed"
)

var (
	bucketBodies   = []byte("bodies")
	bucketMeta     = []byte("meta")
	bucketPointers = []byte("pointers")
	keyLatest      = []byte("latest")
)

// metaHeaderLen is fetched-at (unix nanos) plus size, both big-endian uint64.
// The URL follows as the remaining bytes.
const metaHeaderLen = 16

// boltStore implements suffixfeed.SnapshotStore using bbolt. Bodies are keyed
// by the hex sha256 of their content.
type boltStore struct {
	db *bbolt.DB
}

// New opens (or creates) a Bolt database at path and ensures buckets exist.
func New(path string) (suffixfeed.SnapshotStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketBodies, bucketMeta, bucketPointers} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &boltStore{db: db}, nil
}

func (s *boltStore) Close() error { return s.db.Close() }

// Put stores body under its digest and makes it the latest snapshot. Storing
// an identical body again only refreshes its metadata.
func (s *boltStore) Put(url string, fetchedAt time.Time, body []byte) (domain.SnapshotMeta, error) {
	sum := sha256.Sum256(body)
	meta := domain.SnapshotMeta{
		Digest:    hex.EncodeToString(sum[:]),
		URL:       url,
		FetchedAt: fetchedAt.UTC(),
		Size:      len(body),
	}
	key := []byte(meta.Digest)
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bodies := tx.Bucket(bucketBodies)
		if bodies.Get(key) == nil {
			if err := bodies.Put(key, body); err != nil {
				return err
			}
		}
		if err := tx.Bucket(bucketMeta).Put(key, encodeMeta(meta)); err != nil {
			return err
		}
		return tx.Bucket(bucketPointers).Put(keyLatest, key)
	})
	if err != nil {
		return domain.SnapshotMeta{}, err
	}
	return meta, nil
}

// Latest returns the most recently stored snapshot, or suffixfeed.ErrNoSnapshot.
func (s *boltStore) Latest() (domain.SnapshotMeta, []byte, error) {
	var digest string
	if err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(bucketPointers).Get(keyLatest); v != nil {
			digest = string(v)
		}
		return nil
	}); err != nil {
		return domain.SnapshotMeta{}, nil, err
	}
	if digest == "" {
		return domain.SnapshotMeta{}, nil, suffixfeed.ErrNoSnapshot
	}
	return s.Get(digest)
}

// Get returns the snapshot stored under digest, or suffixfeed.ErrNoSnapshot.
func (s *boltStore) Get(digest string) (domain.SnapshotMeta, []byte, error) {
	var (
		meta domain.SnapshotMeta
		body []byte
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		key := []byte(digest)
		b := tx.Bucket(bucketBodies).Get(key)
		m := tx.Bucket(bucketMeta).Get(key)
		if b == nil || m == nil {
			return suffixfeed.ErrNoSnapshot
		}
		// values are only valid for the life of the transaction
		body = append([]byte(nil), b...)
		var err error
		meta, err = decodeMeta(digest, m)
		return err
	})
	if err != nil {
		return domain.SnapshotMeta{}, nil, err
	}
	return meta, body, nil
}

func encodeMeta(m domain.SnapshotMeta) []byte {
	buf := make([]byte, metaHeaderLen+len(m.URL))
	binary.BigEndian.PutUint64(buf[0:8], uint64(m.FetchedAt.UnixNano()))
	binary.BigEndian.PutUint64(buf[8:16], uint64(m.Size))
	copy(buf[metaHeaderLen:], m.URL)
	return buf
}

func decodeMeta(digest string, v []byte) (domain.SnapshotMeta, error) {
	if len(v) < metaHeaderLen {
		return domain.SnapshotMeta{}, fmt.Errorf("corrupt snapshot metadata for %s", digest)
	}
	return domain.SnapshotMeta{
		Digest:    digest,
		FetchedAt: time.Unix(0, int64(binary.BigEndian.Uint64(v[0:8]))).UTC(),
		Size:      int(binary.BigEndian.Uint64(v[8:16])),
		URL:       string(v[metaHeaderLen:]),
	}, nil
}
