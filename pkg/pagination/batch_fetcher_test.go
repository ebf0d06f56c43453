package pagination

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Sternrassler/swapi-browser/internal/testutil"
	"github.com/Sternrassler/swapi-browser/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves numbered pages and tracks concurrency.
type fakeFetcher struct {
	totalPages int
	failPage   int
	delay      time.Duration

	mu       sync.Mutex
	calls    []int
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (f *fakeFetcher) FetchPage(ctx context.Context, resource client.Resource, pageNum int) ([]byte, int, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, pageNum)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		}
	}

	if pageNum == f.failPage {
		return nil, 0, errors.New("boom")
	}
	return []byte(fmt.Sprintf("%s-%d", resource, pageNum)), f.totalPages, nil
}

func TestNewBatchFetcher_Defaults(t *testing.T) {
	bf := NewBatchFetcher(&fakeFetcher{}, Config{})

	assert.Equal(t, DefaultConfig().MaxConcurrency, bf.config.MaxConcurrency)
	assert.Equal(t, DefaultConfig().Timeout, bf.config.Timeout)
}

func TestFetchAllPages_OrderedResults(t *testing.T) {
	f := &fakeFetcher{totalPages: 9, delay: 5 * time.Millisecond}
	bf := NewBatchFetcher(f, Config{MaxConcurrency: 3, Timeout: time.Second})

	pages, err := bf.FetchAllPages(context.Background(), client.ResourcePeople)
	require.NoError(t, err)
	require.Len(t, pages, 9)

	for i, data := range pages {
		assert.Equal(t, fmt.Sprintf("people-%d", i+1), string(data))
	}
	assert.LessOrEqual(t, f.maxSeen.Load(), int32(3))
	assert.Len(t, f.calls, 9)
}

func TestFetchAllPages_SinglePage(t *testing.T) {
	f := &fakeFetcher{totalPages: 1}
	bf := NewBatchFetcher(f, DefaultConfig())

	pages, err := bf.FetchAllPages(context.Background(), client.ResourcePlanets)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("planets-1")}, pages)
	assert.Equal(t, []int{1}, f.calls)
}

func TestFetchAllPages_FirstPageError(t *testing.T) {
	f := &fakeFetcher{totalPages: 5, failPage: 1}
	bf := NewBatchFetcher(f, DefaultConfig())

	pages, err := bf.FetchAllPages(context.Background(), client.ResourcePeople)
	require.Error(t, err)
	assert.Nil(t, pages)
	assert.Contains(t, err.Error(), "fetch first page")
}

func TestFetchAllPages_FailsFastWithoutPartialData(t *testing.T) {
	f := &fakeFetcher{totalPages: 20, failPage: 3, delay: 2 * time.Millisecond}
	bf := NewBatchFetcher(f, Config{MaxConcurrency: 2, Timeout: time.Second})

	pages, err := bf.FetchAllPages(context.Background(), client.ResourcePeople)
	require.Error(t, err)
	assert.Nil(t, pages)
	assert.Contains(t, err.Error(), "page 3")
}

func TestFetchAllPages_ContextCancelled(t *testing.T) {
	f := &fakeFetcher{totalPages: 50, delay: 20 * time.Millisecond}
	bf := NewBatchFetcher(f, Config{MaxConcurrency: 2, Timeout: time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	_, err := bf.FetchAllPages(ctx, client.ResourcePeople)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestFetchAll_AgainstMockService(t *testing.T) {
	mock := testutil.NewMockSWAPI()
	defer mock.Close()
	mock.SetCollection("planets", testutil.Planets(23), 0)

	cfg := client.DefaultConfig()
	cfg.BaseURL = mock.URL()
	c, err := client.New(cfg)
	require.NoError(t, err)

	bf := NewBatchFetcher(c, Config{MaxConcurrency: 2})
	planets, err := FetchAll[client.Planet](context.Background(), bf, client.ResourcePlanets)
	require.NoError(t, err)
	require.Len(t, planets, 23)

	for i, p := range planets {
		assert.Equal(t, fmt.Sprintf("Planet %d", i+1), p.Name)
	}
	assert.Equal(t, 3, mock.GetRequestCount())
}
