package suffixfeed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/haukened/ddverify/internal/verify/common/log"
	"github.com/haukened/ddverify/internal/verify/domain"
)

// Dataset sources understood by the fetcher.
const (
	SourceRemote = "remote"
	SourceFile   = "file"
)

const (
	errUnsupportedSource = "unsupported suffix source %q"
	errURLRequired       = "suffix URL is required for the remote source"
	errFileRequired      = "suffix file is required for the file source"
	errFallbackNoStore   = "offline fallback requires a snapshot store"
)

// maxBodyBytes bounds the dataset download. The published list is a few hundred KiB.
// It is a variable so tests can lower it.
var maxBodyBytes int64 = 16 << 20

// ErrNoSnapshot is returned by a SnapshotStore that holds nothing for the request.
var ErrNoSnapshot = errors.New("no stored suffix dataset")

// SnapshotStore is a content-addressed record of fetched datasets.
// Implemented by repos/snapshot/bolt.
type SnapshotStore interface {
	Put(url string, fetchedAt time.Time, body []byte) (domain.SnapshotMeta, error)
	Latest() (domain.SnapshotMeta, []byte, error)
	Get(digest string) (domain.SnapshotMeta, []byte, error)
	Close() error
}

// Fetcher retrieves the public suffix dataset from its configured source.
type Fetcher struct {
	source   string
	url      string
	file     string
	client   *http.Client
	store    SnapshotStore
	fallback bool
	accept   func([]byte) error
	logger   log.Logger
	now      func() time.Time
}

type Options struct {
	// required parameters
	Source string
	URL    string
	File   string
	// Timeout bounds the HTTP request; zero means the transport default.
	Timeout time.Duration
	// Store, when set, records every successful remote fetch.
	Store SnapshotStore
	// OfflineFallback lets the latest stored snapshot stand in for a failed fetch.
	OfflineFallback bool
	// Accept, when set, vets every body before it is stored or returned.
	// A rejected download is handled like a failed one.
	Accept func(body []byte) error
	Logger log.Logger
	// options to inject for testing purposes
	Client *http.Client
	Now    func() time.Time
}

// NewFetcher validates opts and returns a Fetcher.
func NewFetcher(opts Options) (*Fetcher, error) {
	switch opts.Source {
	case SourceRemote:
		if opts.URL == "" {
			return nil, errors.New(errURLRequired)
		}
	case SourceFile:
		if opts.File == "" {
			return nil, errors.New(errFileRequired)
		}
	default:
		return nil, fmt.Errorf(errUnsupportedSource, opts.Source)
	}
	if opts.OfflineFallback && opts.Store == nil {
		return nil, errors.New(errFallbackNoStore)
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNoopLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Fetcher{
		source:   opts.Source,
		url:      opts.URL,
		file:     opts.File,
		client:   opts.Client,
		store:    opts.Store,
		fallback: opts.OfflineFallback,
		accept:   opts.Accept,
		logger:   opts.Logger,
		now:      opts.Now,
	}, nil
}

// Fetch returns the dataset body and a description of where it came from.
// Remote failures wrap domain.ErrFatalNetwork, file failures domain.ErrFatalIO.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, domain.SnapshotMeta, error) {
	if f.source == SourceFile {
		return f.readFile()
	}

	body, err := f.download(ctx)
	if err == nil {
		err = f.vet(f.url, body)
	}
	if err != nil {
		if !f.fallback {
			return nil, domain.SnapshotMeta{}, err
		}
		meta, cached, cerr := f.store.Latest()
		if cerr == nil {
			cerr = f.vet("snapshot "+meta.Digest, cached)
		}
		if cerr != nil {
			return nil, domain.SnapshotMeta{}, fmt.Errorf("%w (offline fallback: %v)", err, cerr)
		}
		f.logger.Warn(map[string]any{
			"url":        f.url,
			"error":      err.Error(),
			"digest":     meta.Digest,
			"fetched_at": meta.FetchedAt.Format(time.RFC3339),
		}, "suffix fetch failed; using stored snapshot")
		return cached, meta, nil
	}

	fetchedAt := f.now()
	if f.store != nil {
		meta, err := f.store.Put(f.url, fetchedAt, body)
		if err != nil {
			// a failed cache write is not fatal
			f.logger.Warn(map[string]any{"error": err.Error()}, "failed to store suffix snapshot")
		} else {
			f.logger.Debug(map[string]any{"digest": meta.Digest, "size": meta.Size}, "suffix snapshot stored")
			return body, meta, nil
		}
	}
	return body, describe(f.url, fetchedAt, body), nil
}

func (f *Fetcher) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrFatalNetwork, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", domain.ErrFatalNetwork, f.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: fetch %s: unexpected status %s", domain.ErrFatalNetwork, f.url, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrFatalNetwork, f.url, err)
	}
	if int64(len(body)) > maxBodyBytes {
		return nil, fmt.Errorf("%w: fetch %s: body exceeds %d bytes", domain.ErrFatalNetwork, f.url, maxBodyBytes)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: fetch %s: empty body", domain.ErrFatalNetwork, f.url)
	}
	f.logger.Info(map[string]any{"url": f.url, "bytes": len(body)}, "suffix dataset fetched")
	return body, nil
}

func (f *Fetcher) readFile() ([]byte, domain.SnapshotMeta, error) {
	body, err := os.ReadFile(f.file)
	if err != nil {
		return nil, domain.SnapshotMeta{}, fmt.Errorf("%w: read suffix file: %v", domain.ErrFatalIO, err)
	}
	info, err := os.Stat(f.file)
	at := f.now()
	if err == nil {
		at = info.ModTime()
	}
	if err := f.vet(f.file, body); err != nil {
		return nil, domain.SnapshotMeta{}, err
	}
	f.logger.Info(map[string]any{"file": f.file, "bytes": len(body)}, "suffix dataset read")
	return body, describe("file://"+f.file, at, body), nil
}

// vet runs the Accept hook, if any, on a body read from origin.
func (f *Fetcher) vet(origin string, body []byte) error {
	if f.accept == nil {
		return nil
	}
	if err := f.accept(body); err != nil {
		return fmt.Errorf("rejected suffix dataset from %s: %w", origin, err)
	}
	return nil
}

func describe(url string, at time.Time, body []byte) domain.SnapshotMeta {
	sum := sha256.Sum256(body)
	return domain.SnapshotMeta{
		Digest:    hex.EncodeToString(sum[:]),
		URL:       url,
		FetchedAt: at.UTC(),
		Size:      len(body),
	}
}
