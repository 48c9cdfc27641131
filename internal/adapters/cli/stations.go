package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewStationsCommand creates the stations command with subcommands
func NewStationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stations",
		Short: "Inspect cached station reference data",
		Long: `Inspect cached station reference data.

Station names and security statuses are cached as a side effect of
ingestion, so search results only cover stations seen in ingested
order books.

Examples:
  evemarkets stations search jita
  evemarkets stations search "caldari navy" --limit 5`,
	}

	cmd.AddCommand(newStationsSearchCommand())

	return cmd
}

func newStationsSearchCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <name>",
		Short: "Search cached stations by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nameQuery := strings.Join(args, " ")

			application, err := newApp()
			if err != nil {
				return err
			}
			defer application.close()

			ctx := application.contextWithLogger()
			stations, err := application.store.SearchStations(ctx, nameQuery, limit)
			if err != nil {
				return fmt.Errorf("station search failed: %w", err)
			}

			if len(stations) == 0 {
				fmt.Printf("No cached stations match %q.\n", nameQuery)
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STATION ID\tNAME\tSECURITY")
			for _, station := range stations {
				security := "unknown"
				if station.Security != nil {
					security = fmt.Sprintf("%.1f", *station.Security)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", station.StationID, station.Name, security)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum stations to display")

	return cmd
}
