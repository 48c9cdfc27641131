package commands

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/andrescamacho/evemarkets-go/internal/application/logging"
	"github.com/andrescamacho/evemarkets-go/internal/application/mediator"
	"github.com/andrescamacho/evemarkets-go/internal/domain/market"
	"github.com/andrescamacho/evemarkets-go/internal/domain/reference"
)

// IngestAllCommand drives ingestion over a set of regions. With an empty
// RegionIDs the full region list is enumerated from the external API.
type IngestAllCommand struct {
	RegionIDs []int64
	Workers   int
}

// RegionReport is the per-region outcome of a batch ingestion run
type RegionReport struct {
	RegionID   int64
	Refreshed  bool
	OrderCount int
	Error      string // empty on success
}

// IngestAllResponse summarizes a batch ingestion run
type IngestAllResponse struct {
	RunID     string
	Refreshed int
	Skipped   int
	Failed    int
	Reports   []RegionReport
}

// IngestAllHandler fans region ingestion out over a bounded worker pool.
// Regions share no mutable state besides the order store, whose per-region
// reconciliation is independently idempotent, so one region's failure never
// aborts the others.
type IngestAllHandler struct {
	ensureFresh *EnsureFreshHandler
	source      market.DataSource
	resolver    reference.Resolver
	workers     int
}

// NewIngestAllHandler creates a new batch ingestion handler
func NewIngestAllHandler(
	ensureFresh *EnsureFreshHandler,
	source market.DataSource,
	resolver reference.Resolver,
	workers int,
) *IngestAllHandler {
	if workers < 1 {
		workers = 1
	}
	return &IngestAllHandler{
		ensureFresh: ensureFresh,
		source:      source,
		resolver:    resolver,
		workers:     workers,
	}
}

// Handle executes the batch ingestion command
func (h *IngestAllHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*IngestAllCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	logger := logging.LoggerFromContext(ctx)

	regionIDs := cmd.RegionIDs
	if len(regionIDs) == 0 {
		// Failing to enumerate regions at all is fatal to the run
		var err error
		regionIDs, err = h.source.ListRegionIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to enumerate regions: %w", err)
		}
	}

	workers := cmd.Workers
	if workers < 1 {
		workers = h.workers
	}

	runID := uuid.NewString()
	logger.Log("INFO", "Starting batch ingestion run", map[string]interface{}{
		"run_id":  runID,
		"regions": len(regionIDs),
		"workers": workers,
	})

	jobs := make(chan int64)
	results := make(chan RegionReport, len(regionIDs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for regionID := range jobs {
				results <- h.ingestRegion(ctx, regionID)
			}
		}()
	}

	for _, regionID := range regionIDs {
		jobs <- regionID
	}
	close(jobs)
	wg.Wait()
	close(results)

	response := &IngestAllResponse{RunID: runID}
	for report := range results {
		response.Reports = append(response.Reports, report)
		switch {
		case report.Error != "":
			response.Failed++
		case report.Refreshed:
			response.Refreshed++
		default:
			response.Skipped++
		}
	}
	sort.Slice(response.Reports, func(i, j int) bool {
		return response.Reports[i].RegionID < response.Reports[j].RegionID
	})

	logger.Log("INFO", "Batch ingestion run finished", map[string]interface{}{
		"run_id":    runID,
		"refreshed": response.Refreshed,
		"skipped":   response.Skipped,
		"failed":    response.Failed,
	})

	return response, nil
}

// ingestRegion runs ensure-fresh for one region, isolating its failure from
// the rest of the batch
func (h *IngestAllHandler) ingestRegion(ctx context.Context, regionID int64) RegionReport {
	// Resolve the region name eagerly so reports and later queries have it
	h.resolver.Region(ctx, regionID)

	response, err := h.ensureFresh.Handle(ctx, &EnsureFreshCommand{RegionID: regionID})
	if err != nil {
		logging.LoggerFromContext(ctx).Log("WARN", "Region ingestion failed, continuing batch", map[string]interface{}{
			"region_id": regionID,
			"error":     err.Error(),
		})
		return RegionReport{RegionID: regionID, Error: err.Error()}
	}

	fresh := response.(*EnsureFreshResponse)
	return RegionReport{
		RegionID:   regionID,
		Refreshed:  fresh.Refreshed,
		OrderCount: fresh.OrderCount,
	}
}
