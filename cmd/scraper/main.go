package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/aluiziolira/go-scrape-streams/browser"
	"github.com/aluiziolira/go-scrape-streams/classify"
	"github.com/aluiziolira/go-scrape-streams/config"
	"github.com/aluiziolira/go-scrape-streams/models"
	"github.com/aluiziolira/go-scrape-streams/pipeline"
	"github.com/aluiziolira/go-scrape-streams/scraper"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	defaults := config.DefaultConfig()

	configFile := flag.String("config", "", "Optional YAML config file")
	channelURL := flag.String("channel", defaults.ChannelURL, "Channel URL to scrape")
	maxItems := flag.Int("max-items", defaults.MaxItems, "Number of records to emit")
	assumeLive := flag.Bool("assume-live", defaults.AssumeStreamsAllLive, "Treat every streams-tab item as a past broadcast")
	detailDelay := flag.Duration("detail-delay", defaults.DetailDelay, "Minimum interval between watch page fetches")
	randomDelay := flag.Duration("random-delay", defaults.RandomDelay, "Random jitter added to each request")
	timeout := flag.Duration("timeout", defaults.Timeout, "Per-request timeout")
	maxRetries := flag.Int("max-retries", defaults.MaxRetries, "Maximum retry attempts per URL")
	retryBackoff := flag.Duration("retry-backoff", defaults.RetryBackoff, "Initial retry backoff")
	retryBackoffMax := flag.Duration("retry-backoff-max", defaults.RetryBackoffMax, "Maximum retry backoff")
	respectRobots := flag.Bool("respect-robots", defaults.RespectRobotsTxt, "Respect robots.txt directives")
	outputFile := flag.String("output", defaults.OutputFile, "Output file path")
	outputFormat := flag.String("format", defaults.OutputFormat, "Output format: csv, json, dual, or xlsx")
	rulesFile := flag.String("rules", "", "YAML file with category rules")
	renderFallback := flag.Bool("render-fallback", defaults.RenderFallback, "Render watch pages in headless Chrome when counters are missing")
	renderTimeout := flag.Duration("render-timeout", defaults.RenderTimeout, "Timeout for one rendered snapshot")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics listen address (e.g. :9090)")

	flag.Parse()

	cfg := config.DefaultConfig()
	if *configFile != "" {
		if err := cfg.LoadFile(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid environment: %v\n", err)
		os.Exit(1)
	}

	// Only flags given on the command line override file and env values.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "channel":
			cfg.ChannelURL = *channelURL
		case "max-items":
			cfg.MaxItems = *maxItems
		case "assume-live":
			cfg.AssumeStreamsAllLive = *assumeLive
		case "detail-delay":
			cfg.DetailDelay = *detailDelay
		case "random-delay":
			cfg.RandomDelay = *randomDelay
		case "timeout":
			cfg.Timeout = *timeout
		case "max-retries":
			cfg.MaxRetries = *maxRetries
		case "retry-backoff":
			cfg.RetryBackoff = *retryBackoff
		case "retry-backoff-max":
			cfg.RetryBackoffMax = *retryBackoffMax
		case "respect-robots":
			cfg.RespectRobotsTxt = *respectRobots
		case "output":
			cfg.OutputFile = *outputFile
		case "format":
			cfg.OutputFormat = strings.ToLower(*outputFormat)
		case "rules":
			cfg.RulesFile = *rulesFile
		case "render-fallback":
			cfg.RenderFallback = *renderFallback
		case "render-timeout":
			cfg.RenderTimeout = *renderTimeout
		case "v":
			cfg.Verbose = *verbose
		case "metrics-addr":
			cfg.MetricsAddr = *metricsAddr
		}
	})

	logger, level := newLogger(cfg.Verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("scrape failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	slog.Info("starting scrape",
		slog.String("channel", cfg.ChannelURL),
		slog.Int("max_items", cfg.MaxItems),
		slog.String("format", cfg.OutputFormat),
	)

	var opts []scraper.Option
	if cfg.RulesFile != "" {
		rules, err := classify.LoadRules(cfg.RulesFile)
		if err != nil {
			return fmt.Errorf("load rules: %w", err)
		}
		opts = append(opts, scraper.WithClassifier(classify.NewClassifier(rules)))
	}
	if cfg.RenderFallback {
		renderer := browser.NewRenderer(&browser.Config{
			Headless:      true,
			UserAgent:     cfg.UserAgent,
			Timeout:       cfg.RenderTimeout,
			WaitDelay:     2 * time.Second,
			ScrollToLoad:  true,
			DisableImages: true,
		})
		defer renderer.Close()
		opts = append(opts, scraper.WithRenderer(renderer))
	}

	s, err := scraper.NewScraper(cfg, opts...)
	if err != nil {
		return fmt.Errorf("initialising scraper: %w", err)
	}

	writer, err := createWriter(cfg.OutputFormat, cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer func() {
		if err := writer.Close(); err != nil {
			slog.Error("close writer", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, finishing the current item")
	}()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" && s.Metrics != nil {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	// The pipeline outlives ctx so records handed off before a signal are
	// still written.
	p := pipeline.NewPipeline(context.Background(), writer, cfg)
	p.Start(1)
	if cfg.Verbose {
		p.StartMetricsReporting(10 * time.Second)
	}

	startTime := time.Now()
	result, runErr := s.Run(ctx, p)

	if err := p.Close(); err != nil {
		return fmt.Errorf("pipeline shutdown: %w", err)
	}
	if runErr != nil {
		return runErr
	}

	if err := writer.Validate(); err != nil {
		return fmt.Errorf("output validation: %w", err)
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printSummary(result, time.Since(startTime), cfg.OutputFile, p.GetMetrics())
	return nil
}

func createWriter(format, filename string) (pipeline.OutputWriter, error) {
	switch format {
	case "json":
		return pipeline.NewJSONWriter(filename)
	case "csv":
		return pipeline.NewCSVWriter(filename)
	case "dual":
		jsonFilename := strings.TrimSuffix(filename, ".csv") + ".jsonl"
		return pipeline.NewDualWriter(filename, jsonFilename)
	case "xlsx":
		return pipeline.NewExcelWriter(filename)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func printSummary(result *models.ScraperResult, duration time.Duration, outputFile string, metrics map[string]interface{}) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Scrape complete")

	written := int64(0)
	if processed, ok := metrics["processed_records"].(int64); ok {
		written = processed
	}

	listing := result.ListingURL
	if listing == "" {
		listing = "(none)"
	}
	fmt.Printf("  Listing:         %s\n", listing)
	fmt.Printf("  Tiles seen:      %d\n", result.TilesSeen)
	fmt.Printf("  Records written: %d\n", written)
	if len(result.SkippedByReason) > 0 {
		fmt.Printf("  Skipped:         %s\n", formatCounts(result.SkippedByReason))
	}
	fmt.Printf("  Detail failures: %d\n", result.DetailFailures)
	fmt.Printf("  Requests:        %d\n", result.RequestCount)
	fmt.Printf("  Errors:          %d\n", result.ErrorCount)
	fmt.Printf("  Retries:         %d\n", result.RetryCount)
	if len(result.ErrorsByType) > 0 {
		fmt.Printf("  Error types:     %s\n", formatCounts(result.ErrorsByType))
	}
	if valErrors, ok := metrics["validation_errors"].(map[string]int); ok && len(valErrors) > 0 {
		fmt.Printf("  Validation:      %s\n", formatCounts(valErrors))
	}
	fmt.Printf("  Duration:        %v\n", duration.Round(time.Millisecond))
	fmt.Printf("  Output file:     %s\n", outputFile)
	fmt.Println(separator)
}

func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
