package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	ingestion "github.com/andrescamacho/evemarkets-go/internal/application/ingestion/commands"
)

// NewIngestCommand creates the ingest command
func NewIngestCommand() *cobra.Command {
	var regions string
	var workers int

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Refresh the cached order books for one or more regions",
		Long: `Refresh the cached order books for one or more regions.

Regions whose cache is still within the freshness window are skipped.
Without --regions, every region known to the market API is ingested.

Examples:
  evemarkets ingest --regions 10000002
  evemarkets ingest --regions 10000002,10000043 --workers 2
  evemarkets ingest`,
		RunE: func(cmd *cobra.Command, args []string) error {
			regionIDs, err := parseRegionIDs(regions)
			if err != nil {
				return err
			}

			application, err := newApp()
			if err != nil {
				return err
			}
			defer application.close()

			ctx := application.contextWithLogger()
			response, err := application.mediator.Send(ctx, &ingestion.IngestAllCommand{
				RegionIDs: regionIDs,
				Workers:   workers,
			})
			if err != nil {
				return fmt.Errorf("ingestion run failed: %w", err)
			}
			result := response.(*ingestion.IngestAllResponse)

			printIngestReport(result)
			if result.Failed > 0 {
				return fmt.Errorf("%d of %d regions failed", result.Failed, len(result.Reports))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&regions, "regions", "",
		"Comma-separated region IDs (default: all regions)")
	cmd.Flags().IntVar(&workers, "workers", 0,
		"Concurrent region workers (default: from config)")

	return cmd
}

// parseRegionIDs splits a comma-separated flag value into region IDs
func parseRegionIDs(value string) ([]int64, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid region ID %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func printIngestReport(result *ingestion.IngestAllResponse) {
	fmt.Printf("Run %s: %d refreshed, %d skipped, %d failed\n\n",
		result.RunID, result.Refreshed, result.Skipped, result.Failed)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REGION\tSTATUS\tORDERS")
	for _, report := range result.Reports {
		status := "refreshed"
		switch {
		case report.Error != "":
			status = "failed: " + report.Error
		case !report.Refreshed:
			status = "fresh"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\n", report.RegionID, status, report.OrderCount)
	}
	w.Flush()
}
