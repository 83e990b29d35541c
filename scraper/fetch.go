package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/aluiziolira/go-scrape-streams/models"
	"github.com/gocolly/colly/v2"
)

// Page kinds used as metric labels.
const (
	kindListing = "listing"
	kindDetail  = "detail"
)

// fetch retrieves target, retrying transient failures with capped
// exponential backoff. The returned error is one of the typed transport
// errors when the failure could be classified.
func (s *Scraper) fetch(ctx context.Context, kind, target string) (*models.RawPage, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := s.fetchOnce(kind, target)
		if err == nil {
			return page, nil
		}
		lastErr = err

		if attempt >= s.cfg.MaxRetries || !retryable(err) {
			break
		}
		atomic.AddInt64(&s.retryCount, 1)
		s.Metrics.IncRetries()

		delay := s.backoff(attempt + 1)
		slog.Debug("retrying request",
			slog.String("url", target),
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
		)
		if err := sleepContext(ctx, delay); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.failedURLs = append(s.failedURLs, target)
	s.mu.Unlock()
	return nil, lastErr
}

// fetchOnce issues a single GET through a clone of the base collector. Clones
// share the transport and limits but not callbacks, so each request sees
// only its own handlers.
func (s *Scraper) fetchOnce(kind, target string) (*models.RawPage, error) {
	c := s.collector.Clone()

	var page *models.RawPage
	statusCode := 0

	c.OnRequest(func(r *colly.Request) {
		if s.cfg.AcceptLanguage != "" {
			r.Headers.Set("Accept-Language", s.cfg.AcceptLanguage)
		}
		atomic.AddInt64(&s.requestCount, 1)
		s.Metrics.IncRequest(kind)
	})
	c.OnResponse(func(r *colly.Response) {
		page = &models.RawPage{
			URL:        r.Request.URL.String(),
			Body:       string(r.Body),
			StatusCode: r.StatusCode,
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			statusCode = r.StatusCode
		}
	})

	start := time.Now()
	err := c.Visit(target)
	s.Metrics.ObserveDuration(kind, time.Since(start))

	if err == nil && page == nil {
		err = fmt.Errorf("no response for %s", target)
	}
	if err != nil {
		classified := classifyError(err, statusCode)
		category := errorTypeLabel(classified)

		atomic.AddInt64(&s.errorCount, 1)
		s.mu.Lock()
		s.errorsByType[category]++
		s.mu.Unlock()
		s.Metrics.IncError(category)

		slog.Warn("request error",
			slog.String("url", target),
			slog.String("kind", kind),
			slog.String("category", category),
			slog.Int("status", statusCode),
			slog.Any("error", err),
		)
		return nil, classified
	}
	return page, nil
}

func (s *Scraper) backoff(attempt int) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}

	base := s.cfg.RetryBackoff
	if base <= 0 {
		base = 100 * time.Millisecond
	}

	delay := base * time.Duration(1<<(attempt-1))
	if max := s.cfg.RetryBackoffMax; max > 0 && delay > max {
		delay = max
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func classifyError(err error, statusCode int) error {
	if err == nil && statusCode == 0 {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout{Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout{Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrConnection{Err: err}
	}

	if statusCode != 0 {
		wrapped := err
		if wrapped == nil {
			wrapped = fmt.Errorf("http status %d", statusCode)
		}
		switch {
		case statusCode == http.StatusForbidden:
			return ErrForbidden{Err: wrapped}
		case statusCode == http.StatusNotFound:
			return ErrNotFound{Err: wrapped}
		case statusCode == http.StatusTooManyRequests:
			return ErrRateLimited{Err: wrapped}
		case statusCode >= http.StatusInternalServerError:
			return ErrServer{Status: statusCode, Err: wrapped}
		}
	}

	if err == nil {
		return nil
	}
	return err
}
