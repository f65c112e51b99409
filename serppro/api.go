package serppro

import (
	"context"
)

// API defines the interface for SerpPro operations.
type API interface {
	// WordstatFrequency returns the search frequency for a query.
	WordstatFrequency(ctx context.Context, req FrequencyRequest) (*FrequencyResponse, error)

	// WordstatDeep returns associated and popular phrases for a query.
	WordstatDeep(ctx context.Context, req DeepRequest) (*DeepResponse, error)

	// WordstatHistory returns historical frequency data for a query.
	WordstatHistory(ctx context.Context, req HistoryRequest) (*HistoryResponse, error)

	// RegionYandex searches the Yandex region database.
	RegionYandex(ctx context.Context, query string) ([]Region, error)

	// RegionGoogle searches the Google region database.
	RegionGoogle(ctx context.Context, query string) ([]Region, error)

	// RegionCheck verifies a region code or name against one search engine.
	RegionCheck(ctx context.Context, code string, system SearchSystem, searchType RegionSearchType) ([]Region, error)

	// FinanceTotal returns the total request count.
	FinanceTotal(ctx context.Context, service ServiceType) (*FinanceStats, error)

	// FinanceStatistics returns the request count over a date range.
	FinanceStatistics(ctx context.Context, req FinanceStatsRequest) (*FinanceStats, error)
}
