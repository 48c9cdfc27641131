package cli

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	trading "github.com/andrescamacho/evemarkets-go/internal/application/trading/queries"
)

// NewArbitrageCommand creates the arbitrage command
func NewArbitrageCommand() *cobra.Command {
	var sourceID int64
	var destID int64
	var minProfit float64
	var minMargin float64
	var minSecurity float64
	var sortBy string
	var limit int

	cmd := &cobra.Command{
		Use:   "arbitrage",
		Short: "Scan the cached order books for arbitrage opportunities",
		Long: `Scan the cached order books for cross-station arbitrage opportunities.

For every commodity traded at both ends, the scan pairs the cheapest
sell-side order at the source with the highest buy-side order at the
destination and reports the profit after broker fees and sales tax.
Orders older than the cache freshness window are ignored; run ingest
first to refresh them.

Examples:
  evemarkets arbitrage --source 60003760
  evemarkets arbitrage --source 60003760 --dest 60008494
  evemarkets arbitrage --min-margin 0.1 --sort margin --limit 10
  evemarkets arbitrage --min-security 0.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sortBy != "profit" && sortBy != "margin" && sortBy != "isk-per-minute" {
				return fmt.Errorf("--sort must be one of profit, margin, isk-per-minute")
			}

			application, err := newApp()
			if err != nil {
				return err
			}
			defer application.close()

			query := &trading.FindArbitrageQuery{}
			if cmd.Flags().Changed("source") {
				query.SourceLocationID = &sourceID
			}
			if cmd.Flags().Changed("dest") {
				query.DestLocationID = &destID
			}

			ctx := application.contextWithLogger()
			response, err := application.mediator.Send(ctx, query)
			if err != nil {
				return fmt.Errorf("arbitrage scan failed: %w", err)
			}
			result := response.(*trading.FindArbitrageResponse)

			opportunities := filterOpportunities(result.Opportunities, minProfit, minMargin, minSecurity, cmd.Flags().Changed("min-security"))
			sortOpportunities(opportunities, sortBy)
			if limit > 0 && len(opportunities) > limit {
				opportunities = opportunities[:limit]
			}

			printOpportunities(opportunities, len(result.Skipped))
			return nil
		},
	}

	cmd.Flags().Int64Var(&sourceID, "source", 0,
		"Source station ID to buy at (default: any station)")
	cmd.Flags().Int64Var(&destID, "dest", 0,
		"Destination station ID to sell at (default: any station)")
	cmd.Flags().Float64Var(&minProfit, "min-profit", 0,
		"Minimum total profit in ISK")
	cmd.Flags().Float64Var(&minMargin, "min-margin", 0,
		"Minimum profit margin (e.g. 0.1 for 10%)")
	cmd.Flags().Float64Var(&minSecurity, "min-security", 0,
		"Minimum security status for both stations")
	cmd.Flags().StringVar(&sortBy, "sort", "profit",
		"Sort order: profit, margin or isk-per-minute")
	cmd.Flags().IntVar(&limit, "limit", 20,
		"Maximum opportunities to display (0 for all)")

	return cmd
}

func filterOpportunities(opportunities []*trading.OpportunityDTO, minProfit, minMargin, minSecurity float64, securitySet bool) []*trading.OpportunityDTO {
	filtered := make([]*trading.OpportunityDTO, 0, len(opportunities))
	for _, opp := range opportunities {
		if opp.TotalProfit < minProfit || opp.Margin < minMargin {
			continue
		}
		if securitySet && !meetsSecurity(opp, minSecurity) {
			continue
		}
		filtered = append(filtered, opp)
	}
	return filtered
}

// meetsSecurity requires a known security status at both ends. Stations
// resolved to placeholders have no security data and are filtered out.
func meetsSecurity(opp *trading.OpportunityDTO, minSecurity float64) bool {
	if opp.SourceSecurity == nil || opp.DestSecurity == nil {
		return false
	}
	return *opp.SourceSecurity >= minSecurity && *opp.DestSecurity >= minSecurity
}

func sortOpportunities(opportunities []*trading.OpportunityDTO, sortBy string) {
	sort.SliceStable(opportunities, func(i, j int) bool {
		switch sortBy {
		case "margin":
			return opportunities[i].Margin > opportunities[j].Margin
		case "isk-per-minute":
			return opportunities[i].ISKPerMinute > opportunities[j].ISKPerMinute
		default:
			return opportunities[i].TotalProfit > opportunities[j].TotalProfit
		}
	})
}

func printOpportunities(opportunities []*trading.OpportunityDTO, skippedCount int) {
	if len(opportunities) == 0 {
		fmt.Println("No arbitrage opportunities found.")
		if skippedCount > 0 {
			fmt.Printf("%d commodities were skipped; run with --verbose for details.\n", skippedCount)
		}
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COMMODITY\tFROM\tTO\tBUY\tSELL\tVOL\tPROFIT\tMARGIN\tISK/MIN")
	for _, opp := range opportunities {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%d\t%.2f\t%.1f%%\t%.2f\n",
			opp.Commodity,
			opp.SourceStation,
			opp.DestStation,
			opp.BuyPrice,
			opp.SellPrice,
			opp.Volume,
			opp.TotalProfit,
			opp.Margin*100,
			opp.ISKPerMinute,
		)
	}
	w.Flush()

	fmt.Printf("\n%d opportunities", len(opportunities))
	if skippedCount > 0 {
		fmt.Printf(", %d commodities skipped", skippedCount)
	}
	fmt.Println()
}
