package sources

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/haukened/ddverify/internal/verify/common/log"
)

// YopmailURL lists the alternate domains Yopmail accepts mail for.
const YopmailURL = "https://yopmail.com/en/domain?d=list"

// Yopmail scrapes Yopmail's published domain list.
type Yopmail struct {
	url    string
	client *http.Client
	logger log.Logger
}

type YopmailOptions struct {
	URL     string
	Timeout time.Duration
	Logger  log.Logger
	// Client is injectable for tests.
	Client *http.Client
}

func NewYopmail(opts YopmailOptions) *Yopmail {
	if opts.URL == "" {
		opts.URL = YopmailURL
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNoopLogger()
	}
	return &Yopmail{url: opts.URL, client: opts.Client, logger: opts.Logger}
}

func (y *Yopmail) Name() string { return "Yopmail" }

// Fetch downloads the page and extracts every domain in its text.
func (y *Yopmail) Fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", y.url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", y.url, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", y.url, err)
	}
	domains := ExtractDomains(doc.Text())
	if len(domains) == 0 {
		y.logger.Warn(map[string]any{"source": y.Name(), "url": y.url}, "no domains found; the page structure may have changed")
	}
	return domains, nil
}

var _ Source = (*Yopmail)(nil)
