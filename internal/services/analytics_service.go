package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/core"
)

// AnalyticsService computes the derived monthly and per-category views of
// a user's ledger. Nothing is cached; every call recomputes from the store.
type AnalyticsService struct {
	store AnalyticsStore
}

func NewAnalyticsService(store AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{store: store}
}

func (s *AnalyticsService) ComputeMonthly(ctx context.Context, userID int64, year, month int) (core.MonthlySummary, error) {
	sum, err := s.store.MonthlySummary(ctx, userID, year, month)
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("monthly analytics: %w", err)
	}
	return sum, nil
}

func (s *AnalyticsService) ComputeByCategory(ctx context.Context, userID int64) ([]core.CategoryStats, error) {
	stats, err := s.store.CategoryStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("category analytics: %w", err)
	}
	if stats == nil {
		stats = []core.CategoryStats{}
	}
	return stats, nil
}

// Overview issues the monthly and category reads concurrently and joins
// both before returning. Either failure fails the whole call; no partial
// result is returned.
func (s *AnalyticsService) Overview(ctx context.Context, userID int64, year, month int) (core.AnalyticsOverview, error) {
	var overview core.AnalyticsOverview

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sum, err := s.ComputeMonthly(gctx, userID, year, month)
		if err != nil {
			return err
		}
		overview.Monthly = sum
		return nil
	})
	g.Go(func() error {
		stats, err := s.ComputeByCategory(gctx, userID)
		if err != nil {
			return err
		}
		overview.Categories = stats
		return nil
	})

	if err := g.Wait(); err != nil {
		return core.AnalyticsOverview{}, err
	}
	return overview, nil
}
