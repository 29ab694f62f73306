package bolt

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"path/filepath"
	"testing"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/haukened/ddverify/internal/verify/gateways/suffixfeed"
)

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "psl.db")
}

func TestBoltStore_EmptyHasNoLatest(t *testing.T) {
	st, err := New(tempDB(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	if _, _, err := st.Latest(); !errors.Is(err, suffixfeed.ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestBoltStore_PutLatestGet(t *testing.T) {
	st, err := New(tempDB(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	first := []byte("com\nuk\nco.uk\n")
	m1, err := st.Put("https://example.test/psl.dat", at, first)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	sum := sha256.Sum256(first)
	if m1.Digest != hex.EncodeToString(sum[:]) || m1.Size != len(first) {
		t.Fatalf("unexpected meta: %+v", m1)
	}

	second := []byte("com\n")
	m2, err := st.Put("https://example.test/psl.dat", at.Add(time.Hour), second)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	meta, body, err := st.Latest()
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if meta.Digest != m2.Digest || string(body) != "com\n" {
		t.Fatalf("latest should be second snapshot, got %+v %q", meta, body)
	}
	if !meta.FetchedAt.Equal(at.Add(time.Hour)) || meta.URL != "https://example.test/psl.dat" {
		t.Fatalf("metadata not round-tripped: %+v", meta)
	}

	meta, body, err = st.Get(m1.Digest)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != string(first) || meta.Size != len(first) {
		t.Fatalf("older snapshot lost: %+v %q", meta, body)
	}

	if _, _, err := st.Get("deadbeef"); !errors.Is(err, suffixfeed.ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot for unknown digest, got %v", err)
	}
}

func TestBoltStore_PersistsAcrossOpen(t *testing.T) {
	path := tempDB(t)
	st, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want, err := st.Put("file:///psl", time.Now(), []byte("org\n"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	st, err = New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	got, body, err := st.Latest()
	if err != nil || got.Digest != want.Digest || string(body) != "org\n" {
		t.Fatalf("reopened store lost snapshot: %+v %q %v", got, body, err)
	}
}

func TestBoltStore_CorruptMeta(t *testing.T) {
	path := tempDB(t)
	st, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m, err := st.Put("u", time.Now(), []byte("com\n"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	bs := st.(*boltStore)
	if err := bs.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMeta).Put([]byte(m.Digest), []byte{1, 2})
	}); err != nil {
		t.Fatalf("corrupting meta: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	if _, _, err := st.Latest(); err == nil {
		t.Fatalf("expected error for corrupt metadata")
	}
}

func TestNew_InvalidPath(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing", "psl.db")); err == nil {
		t.Fatalf("expected error opening db in missing directory")
	}
}
