package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aluiziolira/go-scrape-streams/classify"
	"github.com/aluiziolira/go-scrape-streams/config"
	"github.com/aluiziolira/go-scrape-streams/extract"
	"github.com/aluiziolira/go-scrape-streams/models"
	"github.com/aluiziolira/go-scrape-streams/record"
	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"
)

// Skip reasons reported in ScraperResult.SkippedByReason.
const (
	SkipMissingID = "missing_id"
	SkipUpcoming  = "upcoming"
)

// RecordSink receives assembled records in listing order.
type RecordSink interface {
	Process(records ...*models.Record) error
}

// Renderer returns a rendered DOM snapshot of a page.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// Option customises a Scraper.
type Option func(*Scraper)

// WithRenderer enables the rendered-snapshot fallback for counters the raw
// watch page does not carry.
func WithRenderer(r Renderer) Option {
	return func(s *Scraper) {
		s.renderer = r
	}
}

// WithClassifier replaces the default category rules.
func WithClassifier(c *classify.Classifier) Option {
	return func(s *Scraper) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithClock sets the time source used for the run's reference time.
func WithClock(now func() time.Time) Option {
	return func(s *Scraper) {
		if now != nil {
			s.now = now
		}
	}
}

// Scraper fetches a channel listing and each item's watch page, and turns
// them into records.
type Scraper struct {
	cfg        *config.Config
	channel    *url.URL
	collector  *colly.Collector
	classifier *classify.Classifier
	assembler  *record.Assembler
	renderer   Renderer
	limiter    *rate.Limiter
	now        func() time.Time
	Metrics    *Metrics

	requestCount int64
	errorCount   int64
	retryCount   int64

	mu           sync.Mutex
	failedURLs   []string
	errorsByType map[string]int
}

// NewScraper builds a scraper instance configured from cfg.
func NewScraper(cfg *config.Config, opts ...Option) (*Scraper, error) {
	parsed, err := url.Parse(cfg.ChannelURL)
	if err != nil {
		return nil, fmt.Errorf("parse channel url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("channel url must include a host")
	}
	parsed.Path = channelRoot(parsed.Path)
	parsed.RawQuery = ""
	parsed.Fragment = ""

	collectorOpts := []colly.CollectorOption{
		colly.AllowedDomains(parsed.Hostname()),
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	}
	if cfg.MaxBodySize > 0 {
		collectorOpts = append(collectorOpts, colly.MaxBodySize(cfg.MaxBodySize))
	}
	collector := colly.NewCollector(collectorOpts...)

	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = !cfg.RespectRobotsTxt
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		RandomDelay: cfg.RandomDelay,
	}); err != nil {
		return nil, fmt.Errorf("configure rate limits: %w", err)
	}

	s := &Scraper{
		cfg:          cfg,
		channel:      parsed,
		collector:    collector,
		classifier:   classify.NewClassifier(classify.DefaultRules()),
		limiter:      rate.NewLimiter(rate.Every(cfg.DetailDelay), 1),
		now:          time.Now,
		Metrics:      NewMetrics(),
		errorsByType: make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.assembler = record.NewAssembler(s.classifier, parsed)
	return s, nil
}

// channelRoot strips a trailing tab segment so "/@chan/streams" and "/@chan"
// address the same channel.
func channelRoot(path string) string {
	path = strings.TrimSuffix(path, "/")
	for _, tab := range []string{"/streams", "/videos", "/featured", "/live"} {
		if strings.HasSuffix(path, tab) {
			return strings.TrimSuffix(path, tab)
		}
	}
	return path
}

type listingVariant struct {
	url       string
	completed bool
}

// listingVariants are tried in order; the first with tiles wins. Only the
// streams tab is known to list finished broadcasts exclusively.
func (s *Scraper) listingVariants() []listingVariant {
	base := strings.TrimSuffix(s.channel.String(), "/")
	return []listingVariant{
		{url: base + "/streams", completed: true},
		{url: base + "/videos"},
		{url: base},
	}
}

// Run fetches the listing, then each item in listing order, handing one
// record per non-upcoming tile to sink until MaxItems records are emitted.
// Cancelling ctx stops before the next item; records already handed off
// stay with sink.
func (s *Scraper) Run(ctx context.Context, sink RecordSink) (*models.ScraperResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	now := s.now()
	result := &models.ScraperResult{
		StartTime:       time.Now(),
		SkippedByReason: make(map[string]int),
	}

	listingURL, tiles := s.fetchListing(ctx)
	result.ListingURL = listingURL
	result.TilesSeen = len(tiles)

	var runErr error
	for _, tile := range tiles {
		if ctx.Err() != nil {
			slog.Info("run cancelled, skipping remaining tiles")
			break
		}
		if result.TotalCount >= s.cfg.MaxItems {
			break
		}

		if tile.ID == "" {
			s.skip(result, SkipMissingID)
			continue
		}
		status := classify.Liveness(tile, s.cfg.AssumeStreamsAllLive)
		if status == models.StatusUpcoming {
			slog.Debug("skipping upcoming item", slog.String("id", tile.ID))
			s.skip(result, SkipUpcoming)
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			break
		}
		detail, fetched := s.fetchDetail(ctx, tile.ID)
		if !fetched {
			result.DetailFailures++
		}

		rec := s.assembler.Assemble(tile, detail, status, now)
		if err := sink.Process(&rec); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				break
			}
			runErr = fmt.Errorf("hand off record %s: %w", rec.ID, err)
			break
		}
		result.TotalCount++
		s.Metrics.IncItems()
		s.Metrics.ObserveRecord(rec.PublishSource, rec.CategorySource)
		slog.Debug("record emitted",
			slog.String("id", rec.ID),
			slog.String("category", rec.Category),
			slog.String("publish_source", rec.PublishSource),
		)
	}

	result.EndTime = time.Now()
	result.RequestCount = int(atomic.LoadInt64(&s.requestCount))
	result.ErrorCount = int(atomic.LoadInt64(&s.errorCount))
	result.RetryCount = int(atomic.LoadInt64(&s.retryCount))
	result.FailedURLs = s.snapshotFailedURLs()
	result.ErrorsByType = s.snapshotErrors()
	return result, runErr
}

func (s *Scraper) fetchListing(ctx context.Context) (string, []models.ItemTile) {
	for _, variant := range s.listingVariants() {
		if ctx.Err() != nil {
			return "", nil
		}

		page, err := s.fetch(ctx, kindListing, variant.url)
		if err != nil {
			slog.Warn("listing variant unavailable", slog.String("url", variant.url), slog.Any("error", err))
			continue
		}
		data, ok := extract.FromHTML(page.Body, extract.InitialData)
		if !ok {
			slog.Warn("listing has no embedded data", slog.String("url", variant.url))
			continue
		}
		tiles := extract.Tiles(data, variant.completed)
		if len(tiles) == 0 {
			slog.Info("listing variant has no tiles", slog.String("url", variant.url))
			continue
		}

		slog.Info("listing found", slog.String("url", variant.url), slog.Int("tiles", len(tiles)))
		return variant.url, tiles
	}

	slog.Warn("no listing variant produced tiles", slog.String("channel", s.channel.String()))
	return "", nil
}

// fetchDetail returns what the watch page yields, merged with a rendered
// snapshot when counters are still missing and a renderer is configured.
// fetched is false when the watch page itself could not be retrieved.
func (s *Scraper) fetchDetail(ctx context.Context, id string) (*models.ItemDetail, bool) {
	watchURL := s.assembler.WatchURL(id)

	var detail *models.ItemDetail
	page, err := s.fetch(ctx, kindDetail, watchURL)
	if err != nil {
		slog.Warn("detail unavailable", slog.String("id", id), slog.Any("error", err))
	} else {
		detail = extract.Detail(page.Body)
	}

	if s.renderer != nil && detail.NeedsCounters() && ctx.Err() == nil {
		snapshot, err := s.renderer.Render(ctx, watchURL)
		if err != nil {
			s.Metrics.IncSnapshot("failed")
			slog.Warn("rendered snapshot failed", slog.String("id", id), slog.Any("error", err))
		} else {
			s.Metrics.IncSnapshot("merged")
			detail = extract.MergeSnapshot(detail, snapshot)
		}
	}
	return detail, err == nil
}

func (s *Scraper) skip(result *models.ScraperResult, reason string) {
	result.SkippedByReason[reason]++
	s.Metrics.IncSkipped(reason)
}

func (s *Scraper) snapshotFailedURLs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.failedURLs))
	copy(out, s.failedURLs)
	return out
}

func (s *Scraper) snapshotErrors() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.errorsByType))
	for k, v := range s.errorsByType {
		out[k] = v
	}
	return out
}
