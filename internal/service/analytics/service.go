package analytics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/taskpulse/taskpulse-api/internal/domain"
	"github.com/taskpulse/taskpulse-api/internal/store"
)

// StatisticsResult bundles the three statistics reads for one request.
type StatisticsResult struct {
	StatusBreakdown   map[domain.TaskStatus]int
	PriorityBreakdown map[domain.TaskPriority]int
	Completed         []CompletedTask
	TotalTasks        int
}

// UserInsight is the derived-metrics view for one user.
type UserInsight struct {
	Record         AggregateRecord
	CompletionRate float64
	Efficiency     float64
	Projection     float64
}

// InsightsResult combines rollups and completion history into the derived
// metrics for the whole team.
type InsightsResult struct {
	Users                 []UserInsight
	Team                  TeamMetrics
	AverageCompletionTime float64
}

// Service is the top-level analytics facade consumed by the HTTP handlers.
// It owns the aggregator and statistics reads and applies the derived-metrics
// layer on top of them.
type Service struct {
	aggregator *Aggregator
	statistics *Statistics
	users      store.UserStore
	logger     *slog.Logger
}

// NewService creates the analytics service from its collaborators.
func NewService(
	aggregator *Aggregator,
	statistics *Statistics,
	users store.UserStore,
	logger *slog.Logger,
) *Service {
	if aggregator == nil || statistics == nil || users == nil {
		// ALLOW-PANIC: Constructor enforcing required dependencies
		panic("aggregator, statistics and user store are required for analytics Service")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		aggregator: aggregator,
		statistics: statistics,
		users:      users,
		logger:     logger.With(slog.String("component", "analytics_service")),
	}
}

// TeamPerformance computes the per-user rollups for the window across all
// known users. A failure reading users or tasks aborts the whole request.
func (s *Service) TeamPerformance(
	ctx context.Context,
	window domain.TimeWindow,
) ([]AggregateRecord, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, NewAnalyticsError("team performance", "listing users", err)
	}

	return s.aggregator.ComputeRollups(ctx, window, users)
}

// TaskStatistics runs the three statistics reads for the window and derives
// the total task count from the status breakdown.
func (s *Service) TaskStatistics(
	ctx context.Context,
	window domain.TimeWindow,
) (*StatisticsResult, error) {
	statuses, err := s.statistics.StatusBreakdown(ctx, window)
	if err != nil {
		return nil, err
	}

	priorities, err := s.statistics.PriorityBreakdown(ctx, window)
	if err != nil {
		return nil, err
	}

	completed, err := s.statistics.CompletedTaskDetail(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, count := range statuses {
		total += count
	}

	return &StatisticsResult{
		StatusBreakdown:   statuses,
		PriorityBreakdown: priorities,
		Completed:         completed,
		TotalTasks:        total,
	}, nil
}

// Insights runs the rollup and completion-history reads as independent
// concurrent operations, then combines them into the derived metrics.
// If either read fails the whole computation fails; no partial merge.
func (s *Service) Insights(
	ctx context.Context,
	window domain.TimeWindow,
	targetTasks int,
) (*InsightsResult, error) {
	var (
		wg           sync.WaitGroup
		records      []AggregateRecord
		recordsErr   error
		completed    []CompletedTask
		completedErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		records, recordsErr = s.TeamPerformance(ctx, window)
	}()
	go func() {
		defer wg.Done()
		completed, completedErr = s.statistics.CompletedTaskDetail(ctx)
	}()
	wg.Wait()

	if recordsErr != nil {
		return nil, recordsErr
	}
	if completedErr != nil {
		return nil, completedErr
	}

	insights := make([]UserInsight, 0, len(records))
	for _, record := range records {
		insights = append(insights, UserInsight{
			Record:         record,
			CompletionRate: CompletionRate(record),
			Efficiency:     Efficiency(record.UserID, completed, record),
			Projection:     Projection(record.UserID, targetTasks, record, completed),
		})
	}

	return &InsightsResult{
		Users:                 insights,
		Team:                  ComputeTeamMetrics(records),
		AverageCompletionTime: AverageCompletionTime(completed),
	}, nil
}
