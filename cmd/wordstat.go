package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moabtools/moab-apis/filter"
	"github.com/moabtools/moab-apis/serppro"
)

var (
	regionFlag   string
	deviceFlag   string
	taskTypeFlag string
	syntaxFlag   string
	groupingFlag string
	startDate    string
	endDate      string
	concurrency  int
)

// wordstatCmd groups the wordstat subcommands
var wordstatCmd = &cobra.Command{
	Use:   "wordstat",
	Short: "Query Yandex Wordstat keyword data",
}

var frequencyCmd = &cobra.Command{
	Use:   "frequency <query> [query...]",
	Short: "Get the search frequency for one or more queries",
	Long: `Get the wordstat search frequency for one or more queries.

With a single query the call is made directly; with several queries the
lookups run concurrently and results are printed in input order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFrequency,
}

var deepCmd = &cobra.Command{
	Use:   "deep <query>",
	Short: "Get associated and popular phrases for a query",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeep,
}

var historyCmd = &cobra.Command{
	Use:   "history <query>",
	Short: "Get historical frequency data for a query",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(wordstatCmd)
	wordstatCmd.AddCommand(frequencyCmd)
	wordstatCmd.AddCommand(deepCmd)
	wordstatCmd.AddCommand(historyCmd)

	for _, c := range []*cobra.Command{frequencyCmd, deepCmd, historyCmd} {
		c.Flags().StringVarP(&regionFlag, "region", "r", "", "comma-separated region codes, e.g. 225 or 225,213")
		c.Flags().StringVar(&deviceFlag, "device", "All", "device type (All/Desktop/Phone/Tablet)")
	}

	frequencyCmd.Flags().StringVar(&taskTypeFlag, "task-type", "Regular", "task type (Regular/Direct)")
	frequencyCmd.Flags().StringVar(&syntaxFlag, "syntax", "Ws", "query syntax (None/Ws/Quotes/...)")
	frequencyCmd.Flags().IntVar(&concurrency, "concurrency", serppro.DefaultBatchConcurrency, "concurrent lookups for multiple queries")

	deepCmd.Flags().StringVar(&taskTypeFlag, "task-type", "Regular", "task type (Regular/Direct)")
	deepCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression applied to each phrase")
	deepCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")

	historyCmd.Flags().StringVar(&groupingFlag, "grouping", "Month", "time grouping (Day/Week/Month)")
	historyCmd.Flags().StringVar(&startDate, "start-date", "", "start date (YYYY-MM-DD)")
	historyCmd.Flags().StringVar(&endDate, "end-date", "", "end date (YYYY-MM-DD)")
}

func runFrequency(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	requests := make([]serppro.FrequencyRequest, len(args))
	for i, query := range args {
		requests[i] = serppro.FrequencyRequest{
			Query:    query,
			Region:   regionFlag,
			Device:   serppro.Device(deviceFlag),
			TaskType: serppro.TaskType(taskTypeFlag),
			Syntax:   serppro.Syntax(syntaxFlag),
		}
	}

	if len(requests) == 1 {
		resp, err := client.WordstatFrequency(ctx, requests[0])
		if err != nil {
			return err
		}
		fmt.Printf("Frequency: %d\n", resp.Frequency)
		return nil
	}

	results, err := client.BatchFrequency(ctx, requests, concurrency)
	if err != nil {
		return err
	}

	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("%-45s %s\n", "QUERY", "FREQUENCY")
	fmt.Println(strings.Repeat("-", 60))
	for i, resp := range results {
		fmt.Printf("%-45s %d\n", truncate(args[i], 43), resp.Frequency)
	}

	return nil
}

func runDeep(cmd *cobra.Command, args []string) error {
	expression, err := getFilterExpression()
	if err != nil {
		return err
	}

	resp, err := client.WordstatDeep(context.Background(), serppro.DeepRequest{
		Query:    args[0],
		Region:   regionFlag,
		Device:   serppro.Device(deviceFlag),
		TaskType: serppro.TaskType(taskTypeFlag),
	})
	if err != nil {
		return err
	}

	associations, err := filterDeepItems(resp.Associations, expression)
	if err != nil {
		return err
	}
	popular, err := filterDeepItems(resp.Popular, expression)
	if err != nil {
		return err
	}

	printDeepItems("Associations", associations)
	printDeepItems("Popular", popular)

	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	resp, err := client.WordstatHistory(context.Background(), serppro.HistoryRequest{
		Query:     args[0],
		Region:    regionFlag,
		Device:    serppro.Device(deviceFlag),
		Grouping:  serppro.Grouping(groupingFlag),
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		return err
	}

	if len(resp.Items) == 0 {
		fmt.Println("No history data returned.")
		return nil
	}

	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("%-25s %-15s %s\n", "DATE", "FREQUENCY", "% OF ALL REQUESTS")
	fmt.Println(strings.Repeat("-", 60))
	for _, item := range resp.Items {
		fmt.Printf("%-25s %-15d %.4f\n", item.Date, item.Frequency, item.AllRequestsPercentage)
	}

	return nil
}

// filterDeepItems keeps the items matching the expression; an empty
// expression keeps everything.
func filterDeepItems(items []serppro.DeepItem, expression string) ([]serppro.DeepItem, error) {
	if expression == "" {
		return items, nil
	}

	f, err := filter.Compile(expression)
	if err != nil {
		return nil, err
	}

	var kept []serppro.DeepItem
	for _, item := range items {
		ok, err := f.Match(map[string]any{
			"Frequency": item.Frequency,
			"Phrase":    item.Phrase,
		})
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, item)
		}
	}
	return kept, nil
}

func printDeepItems(heading string, items []serppro.DeepItem) {
	fmt.Printf("\n%s (%d):\n", heading, len(items))
	for _, item := range items {
		fmt.Printf("  %-45s %s\n", truncate(item.Phrase, 43), item.Frequency)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
