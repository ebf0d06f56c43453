package pagination

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Sternrassler/swapi-browser/pkg/client"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Config holds batch fetcher configuration
type Config struct {
	// MaxConcurrency is the maximum number of parallel requests.
	// The public service is small and shared, keep this low.
	MaxConcurrency int
	// Timeout per page fetch
	Timeout time.Duration
}

// DefaultConfig returns a polite default configuration for the public service
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		Timeout:        15 * time.Second,
	}
}

// PageFetcher is implemented by *client.Client.
type PageFetcher interface {
	// FetchPage fetches a single page and returns its raw body + total page count
	FetchPage(ctx context.Context, resource client.Resource, pageNum int) (data []byte, totalPages int, err error)
}

// BatchFetcher handles parallel fetching of every page of a collection
type BatchFetcher struct {
	fetcher PageFetcher
	config  Config
}

// NewBatchFetcher creates a new batch fetcher
func NewBatchFetcher(fetcher PageFetcher, config Config) *BatchFetcher {
	defaults := DefaultConfig()
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = defaults.MaxConcurrency
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}

	return &BatchFetcher{
		fetcher: fetcher,
		config:  config,
	}
}

// FetchAllPages fetches all pages of a collection in parallel.
// The returned slice holds the raw body of page n at index n-1.
// On any failure the whole call fails and no pages are returned.
func (bf *BatchFetcher) FetchAllPages(ctx context.Context, resource client.Resource) ([][]byte, error) {
	start := time.Now()

	firstPageData, totalPages, err := bf.fetcher.FetchPage(ctx, resource, 1)
	if err != nil {
		return nil, fmt.Errorf("fetch first page: %w", err)
	}
	if totalPages < 1 {
		totalPages = 1
	}

	results := make([][]byte, totalPages)
	results[0] = firstPageData

	if totalPages == 1 {
		log.Info().
			Str("resource", string(resource)).
			Int("pages", 1).
			Dur("duration", time.Since(start)).
			Msg("Fetch complete (single page)")
		return results, nil
	}

	log.Info().
		Str("resource", string(resource)).
		Int("total_pages", totalPages).
		Msg("Starting parallel page fetch")

	g, gctx := errgroup.WithContext(ctx)
	pageQueue := make(chan int)

	// Fill page queue (skip page 1, already fetched)
	g.Go(func() error {
		defer close(pageQueue)
		for page := 2; page <= totalPages; page++ {
			select {
			case pageQueue <- page:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var fetched atomic.Int64
	fetched.Store(1)

	workers := min(bf.config.MaxConcurrency, totalPages-1)
	for i := 0; i < workers; i++ {
		workerID := i
		g.Go(func() error {
			return bf.worker(gctx, resource, pageQueue, results, &fetched, totalPages, workerID)
		})
	}

	if err := g.Wait(); err != nil {
		log.Warn().
			Err(err).
			Str("resource", string(resource)).
			Int64("fetched_pages", fetched.Load()).
			Int("total_pages", totalPages).
			Msg("Batch fetch failed")
		return nil, fmt.Errorf("fetch %s pages: %w", resource, err)
	}

	log.Info().
		Str("resource", string(resource)).
		Int("pages", totalPages).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return results, nil
}

// worker processes pages from the queue. Each page index is written by
// exactly one worker.
func (bf *BatchFetcher) worker(ctx context.Context, resource client.Resource, pageQueue <-chan int, results [][]byte, fetched *atomic.Int64, totalPages, workerID int) error {
	pagesProcessed := 0

	for pageNum := range pageQueue {
		if err := ctx.Err(); err != nil {
			log.Debug().
				Int("worker_id", workerID).
				Int("pages_processed", pagesProcessed).
				Msg("Worker stopping (context cancelled)")
			return err
		}

		pageCtx, cancel := context.WithTimeout(ctx, bf.config.Timeout)
		data, _, err := bf.fetcher.FetchPage(pageCtx, resource, pageNum)
		cancel()

		if err != nil {
			log.Warn().
				Err(err).
				Int("worker_id", workerID).
				Int("page", pageNum).
				Msg("Page fetch failed")
			return fmt.Errorf("page %d: %w", pageNum, err)
		}

		results[pageNum-1] = data
		pagesProcessed++

		if n := fetched.Add(1); n%10 == 0 {
			log.Debug().
				Int64("fetched", n).
				Int("total", totalPages).
				Msg("Fetch progress")
		}
	}

	log.Debug().
		Int("worker_id", workerID).
		Int("pages_processed", pagesProcessed).
		Msg("Worker completed")

	return nil
}

// FetchAll fetches every page of a collection and returns the records of all
// pages concatenated in page order.
func FetchAll[T any](ctx context.Context, bf *BatchFetcher, resource client.Resource) ([]T, error) {
	pages, err := bf.FetchAllPages(ctx, resource)
	if err != nil {
		return nil, err
	}

	var records []T
	for i, data := range pages {
		var page client.Page[T]
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, fmt.Errorf("%w: %s page %d: %v", client.ErrDecode, resource, i+1, err)
		}
		records = append(records, page.Results...)
	}
	return records, nil
}
