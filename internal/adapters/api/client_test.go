package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/evemarkets-go/internal/domain/shared"
	"github.com/andrescamacho/evemarkets-go/internal/infrastructure/config"
)

func newTestClient(baseURL string) (*ESIClient, *shared.MockClock) {
	clock := shared.NewMockClock(time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC))
	client := NewESIClientWithConfig(&config.APIConfig{
		BaseURL:   baseURL,
		Timeout:   5 * time.Second,
		PageDelay: 200 * time.Millisecond,
		RateLimit: config.RateLimitConfig{Requests: 1000, Burst: 1000},
		Retry:     config.RetryConfig{MaxAttempts: 2, BackoffBase: 10 * time.Millisecond},
	}, clock)
	return client, clock
}

func writeOrders(w http.ResponseWriter, totalPages int, orderIDs ...int64) {
	if totalPages > 0 {
		w.Header().Set("X-Pages", strconv.Itoa(totalPages))
	}
	orders := make([]map[string]interface{}, len(orderIDs))
	for i, id := range orderIDs {
		orders[i] = map[string]interface{}{
			"order_id":      id,
			"type_id":       34,
			"location_id":   60003760,
			"is_buy_order":  false,
			"price":         10.0,
			"volume_remain": 5,
		}
	}
	json.NewEncoder(w).Encode(orders)
}

func TestFetchRegionOrders_PagesThroughXPages(t *testing.T) {
	var requestedPages []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		requestedPages = append(requestedPages, page)
		switch page {
		case "1":
			writeOrders(w, 3, 1, 2)
		case "2":
			writeOrders(w, 3, 3)
		case "3":
			writeOrders(w, 3, 4)
		default:
			t.Errorf("unexpected page %s", page)
		}
	}))
	defer server.Close()

	client, clock := newTestClient(server.URL)
	start := clock.Now()

	orders, err := client.FetchRegionOrders(context.Background(), 10000002)
	require.NoError(t, err)
	require.Len(t, orders, 4)

	assert.Equal(t, []string{"1", "2", "3"}, requestedPages)
	for _, order := range orders {
		assert.Equal(t, int64(10000002), order.RegionID)
	}
	// One inter-page delay after pages 1 and 2, none after the last
	assert.Equal(t, 400*time.Millisecond, clock.Now().Sub(start))
}

func TestFetchRegionOrders_StopsOnEmptyPage(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		if r.URL.Query().Get("page") == "1" {
			// Header promises more pages than actually have content
			writeOrders(w, 5, 1)
			return
		}
		writeOrders(w, 5)
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL)

	orders, err := client.FetchRegionOrders(context.Background(), 10000002)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestFetchRegionOrders_MissingHeaderMeansSinglePage(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		writeOrders(w, 0, 1, 2)
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL)

	orders, err := client.FetchRegionOrders(context.Background(), 10000002)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestFetchRegionOrders_PageFailureReturnsPartialWithError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			writeOrders(w, 3, 1, 2)
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL)

	orders, err := client.FetchRegionOrders(context.Background(), 10000002)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 2")
	// Accumulated pages are handed back so the caller can log them, but the
	// error forbids reconciling them
	assert.Len(t, orders, 2)
}

func TestGet_RetriesServerErrors(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) < 3 {
			http.Error(w, "server error", http.StatusInternalServerError)
			return
		}
		writeOrders(w, 0, 1)
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL)

	orders, err := client.FetchRegionOrders(context.Background(), 10000002)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&requests))
}

func TestGet_ExhaustsRetriesOnPersistentServerError(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		http.Error(w, "server error", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL)

	_, err := client.FetchRegionOrders(context.Background(), 10000002)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries exceeded")
	// Initial attempt plus two retries
	assert.Equal(t, int32(3), atomic.LoadInt32(&requests))
}

func TestGet_DoesNotRetryClientErrors(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL)

	_, err := client.FetchRegionOrders(context.Background(), 10000002)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestGet_HonorsRetryAfterOn429(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) == 1 {
			w.Header().Set("Retry-After", "7")
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		writeOrders(w, 0, 1)
	}))
	defer server.Close()

	client, clock := newTestClient(server.URL)
	start := clock.Now()

	orders, err := client.FetchRegionOrders(context.Background(), 10000002)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, 7*time.Second, clock.Now().Sub(start))
}

func TestListRegionIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/universe/regions/", r.URL.Path)
		fmt.Fprint(w, "[10000002, 10000043]")
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL)

	ids, err := client.ListRegionIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{10000002, 10000043}, ids)
}

func TestFetchStation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/universe/stations/60003760/", r.URL.Path)
		fmt.Fprint(w, `{"name": "Jita IV - Moon 4", "security": 0.9}`)
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL)

	station, err := client.FetchStation(context.Background(), 60003760)
	require.NoError(t, err)
	assert.Equal(t, "Jita IV - Moon 4", station.Name)
	require.NotNil(t, station.Security)
	assert.Equal(t, 0.9, *station.Security)
}

func TestFetchStation_RejectsNamelessResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL)

	_, err := client.FetchStation(context.Background(), 60003760)
	assert.Error(t, err)
}

func TestParsePagesHeader(t *testing.T) {
	tests := []struct {
		value  string
		pages  int
		wantOK bool
	}{
		{"3", 3, true},
		{"1", 1, true},
		{"", 0, false},
		{"abc", 0, false},
		{"0", 0, false},
		{"-2", 0, false},
	}
	for _, tt := range tests {
		pages, ok := parsePagesHeader(tt.value)
		assert.Equal(t, tt.wantOK, ok, "value %q", tt.value)
		assert.Equal(t, tt.pages, pages, "value %q", tt.value)
	}
}
