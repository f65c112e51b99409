package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moabtools/moab-apis/serppro"
)

var serviceFlag string

// financeCmd groups the usage-statistics subcommands
var financeCmd = &cobra.Command{
	Use:   "finance",
	Short: "Show API usage statistics",
}

var financeTotalCmd = &cobra.Command{
	Use:   "total",
	Short: "Show the total request count",
	RunE:  runFinanceTotal,
}

var financeStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the request count over a date range",
	RunE:  runFinanceStats,
}

func init() {
	rootCmd.AddCommand(financeCmd)
	financeCmd.AddCommand(financeTotalCmd)
	financeCmd.AddCommand(financeStatsCmd)

	financeTotalCmd.Flags().StringVar(&serviceFlag, "service", "", "limit to one service, e.g. WordstatFrequency")

	financeStatsCmd.Flags().StringVar(&serviceFlag, "service", "", "limit to one service, e.g. WordstatFrequency")
	financeStatsCmd.Flags().StringVar(&startDate, "start-date", "", "start date (YYYY-MM-DD)")
	financeStatsCmd.Flags().StringVar(&endDate, "end-date", "", "end date (YYYY-MM-DD)")
}

func runFinanceTotal(cmd *cobra.Command, args []string) error {
	stats, err := client.FinanceTotal(context.Background(), serppro.ServiceType(serviceFlag))
	if err != nil {
		return err
	}

	fmt.Printf("Total requests: %d\n", stats.RequestCount)
	return nil
}

func runFinanceStats(cmd *cobra.Command, args []string) error {
	stats, err := client.FinanceStatistics(context.Background(), serppro.FinanceStatsRequest{
		ServiceType: serppro.ServiceType(serviceFlag),
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Requests in period: %d\n", stats.RequestCount)
	return nil
}
