// Package scrape is the best-effort fallback source of capability data: it fetches an external
// models page and extracts records from its embedded JSON payload or, failing that, its markup.
package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mikemajara/ai-chatbot/internal/metrics"
	"github.com/mikemajara/ai-chatbot/internal/model"
	"github.com/mikemajara/ai-chatbot/internal/utils/cache"
	"github.com/mikemajara/ai-chatbot/internal/utils/log"
	"golang.org/x/net/html"
)

const (
	DefaultURL       = "https://vercel.com/ai-gateway/models"
	DefaultUserAgent = "Mozilla/5.0 (compatible; capsync/1.0)"
	defaultMaxBody   = 16 << 20
)

// payloadSelectors locate script tags that commonly carry a page's data payload.
var payloadSelectors = []string{
	`script#__NEXT_DATA__`,
	`script[type="application/json"]`,
	`script[type="application/ld+json"]`,
}

// Extract runs the payload strategy and falls back to the markup strategy when it
// produces no records. Errors from both strategies are kept.
func Extract(body []byte) model.ScrapeResult {
	var errs []string
	payloads, err := embeddedPayloads(body)
	if err != nil {
		errs = append(errs, err.Error())
	}
	for _, p := range payloads {
		res := FromPayload(p)
		if len(res.Models) > 0 {
			return res
		}
		errs = append(errs, res.Errors...)
	}
	res := FromMarkup(string(body))
	res.Errors = append(errs, res.Errors...)
	return res
}

// embeddedPayloads decodes the body itself when it is JSON, otherwise every JSON script block.
func embeddedPayloads(body []byte) ([]any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		var v any
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return nil, fmt.Errorf("payload: invalid JSON body: %w", err)
		}
		return []any{v}, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("payload: failed to parse page: %w", err)
	}
	var payloads []any
	var firstErr error
	seen := make(map[*html.Node]struct{})
	for _, sel := range payloadSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			node := s.Get(0)
			if _, ok := seen[node]; ok {
				return
			}
			seen[node] = struct{}{}
			raw := strings.TrimSpace(s.Text())
			if raw == "" {
				return
			}
			var v any
			if err := json.Unmarshal([]byte(raw), &v); err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("payload: invalid JSON in %s: %w", sel, err)
				}
				return
			}
			payloads = append(payloads, v)
		})
	}
	return payloads, firstErr
}

type Option func(*Scraper)

func WithHeader(key, value string) Option {
	return func(s *Scraper) { s.headers.Set(key, value) }
}

// WithCacheTTL sets how long a successfully fetched page is reused; ttl <= 0 fetches every time.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Scraper) { s.cacheTTL = ttl }
}

type Scraper struct {
	url      string
	client   *http.Client
	headers  http.Header
	cacheTTL time.Duration
	maxBody  int64
	// nil when page reuse is disabled
	pages cache.Cache[string, []byte]
}

func NewScraper(url string, client *http.Client, opts ...Option) *Scraper {
	if url == "" {
		url = DefaultURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	s := &Scraper{
		url:      url,
		client:   client,
		headers:  http.Header{},
		cacheTTL: time.Hour,
		maxBody:  defaultMaxBody,
	}
	s.headers.Set("User-Agent", DefaultUserAgent)
	s.headers.Set("Accept", "text/html,application/json;q=0.9,*/*;q=0.8")
	for _, opt := range opts {
		opt(s)
	}
	if s.cacheTTL > 0 {
		s.pages = cache.New[string, []byte](4, s.cacheTTL)
	}
	return s
}

// Scrape fetches the page and extracts records. Transport failures and non-success
// responses come back as a single error entry with no models.
func (s *Scraper) Scrape(ctx context.Context) model.ScrapeResult {
	log.Debugf("scrape %s started", s.url)
	startTime := time.Now()
	defer func() {
		log.Debugf("scrape %s finished, took %s", s.url, time.Since(startTime))
	}()

	body, err := s.fetch(ctx)
	if err != nil {
		metrics.ScrapeErrors.Inc()
		log.Warnf("scrape fetch failed: %v", err)
		return model.ScrapeResult{
			Models:    []model.CapabilityRecord{},
			Errors:    []string{err.Error()},
			Timestamp: time.Now().UTC(),
		}
	}
	res := Extract(body)
	if res.Models == nil {
		res.Models = []model.CapabilityRecord{}
	}
	if res.Errors == nil {
		res.Errors = []string{}
	}
	if len(res.Errors) > 0 {
		metrics.ScrapeErrors.Add(float64(len(res.Errors)))
		log.Infof("scrape extracted %d models with %d errors", len(res.Models), len(res.Errors))
	}
	return res
}

func (s *Scraper) fetch(ctx context.Context) ([]byte, error) {
	if s.pages != nil {
		if body, ok := s.pages.Get(s.url); ok {
			return body, nil
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", s.url, err)
	}
	req.Header = s.headers.Clone()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", s.url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch %s: %s", s.url, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > s.maxBody {
		return nil, fmt.Errorf("page %s exceeds %d bytes", s.url, s.maxBody)
	}
	if s.pages != nil {
		s.pages.Set(s.url, body)
	}
	return body, nil
}

// Source serves a scrape result as a desired source for reconciliation.
type Source struct {
	entries map[string]model.Capability
}

func NewSource(res model.ScrapeResult) *Source {
	s := &Source{entries: make(map[string]model.Capability, len(res.Models))}
	for _, m := range res.Models {
		if _, ok := s.entries[m.ID]; !ok {
			s.entries[m.ID] = m.Capability.Clone()
		}
	}
	return s
}

func (s *Source) Lookup(id string) model.Capability {
	return s.entries[id].Clone()
}

func (s *Source) Has(id string) bool {
	_, ok := s.entries[id]
	return ok
}
