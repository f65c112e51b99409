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
	searchSystemFlag string
	searchTypeFlag   string
)

// regionCmd groups the region subcommands
var regionCmd = &cobra.Command{
	Use:   "region",
	Short: "Search and verify region codes",
}

var regionYandexCmd = &cobra.Command{
	Use:   "yandex <query>",
	Short: "Search the Yandex region database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegionSearch(args[0], client.RegionYandex)
	},
}

var regionGoogleCmd = &cobra.Command{
	Use:   "google <query>",
	Short: "Search the Google region database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegionSearch(args[0], client.RegionGoogle)
	},
}

var regionCheckCmd = &cobra.Command{
	Use:   "check <code>",
	Short: "Verify a region code or name against one search engine",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegionCheck,
}

func init() {
	rootCmd.AddCommand(regionCmd)
	regionCmd.AddCommand(regionYandexCmd)
	regionCmd.AddCommand(regionGoogleCmd)
	regionCmd.AddCommand(regionCheckCmd)

	for _, c := range []*cobra.Command{regionYandexCmd, regionGoogleCmd, regionCheckCmd} {
		c.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression applied to each region")
		c.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	}

	regionCheckCmd.Flags().StringVar(&searchSystemFlag, "system", "Yandex", "search system (Yandex/Google)")
	regionCheckCmd.Flags().StringVar(&searchTypeFlag, "type", "Code", "lookup type (Name/Code)")
}

func runRegionSearch(query string, lookup func(context.Context, string) ([]serppro.Region, error)) error {
	regions, err := lookup(context.Background(), query)
	if err != nil {
		return err
	}
	return printRegions(regions)
}

func runRegionCheck(cmd *cobra.Command, args []string) error {
	regions, err := client.RegionCheck(context.Background(), args[0],
		serppro.SearchSystem(searchSystemFlag),
		serppro.RegionSearchType(searchTypeFlag),
	)
	if err != nil {
		return err
	}
	return printRegions(regions)
}

func printRegions(regions []serppro.Region) error {
	expression, err := getFilterExpression()
	if err != nil {
		return err
	}

	if expression != "" {
		regions, err = filterRegions(regions, expression)
		if err != nil {
			return err
		}
	}

	if len(regions) == 0 {
		fmt.Println("No regions found.")
		return nil
	}

	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("%-45s %s\n", "NAME", "CODE")
	fmt.Println(strings.Repeat("-", 60))
	for _, region := range regions {
		fmt.Printf("%-45s %s\n", truncate(region.Name, 43), region.Code)
	}

	return nil
}

func filterRegions(regions []serppro.Region, expression string) ([]serppro.Region, error) {
	f, err := filter.Compile(expression)
	if err != nil {
		return nil, err
	}

	var kept []serppro.Region
	for _, region := range regions {
		ok, err := f.Match(map[string]any{
			"Name": region.Name,
			"Code": region.Code,
		})
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, region)
		}
	}
	return kept, nil
}
