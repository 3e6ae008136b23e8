package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-api/internal/models"
	"github.com/noah-isme/tutoring-api/internal/repository"
	appErrors "github.com/noah-isme/tutoring-api/pkg/errors"
)

type statisticsStore interface {
	Summary(ctx context.Context, scope models.Scope, periodID string) (*models.Statistics, error)
}

// StatisticsService aggregates role scoped figures of the active period.
type StatisticsService struct {
	repos   Repos
	stats   statisticsStore
	cache   *CacheService
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
}

// NewStatisticsService constructs a StatisticsService. A ttl of zero uses the cache default.
func NewStatisticsService(repos Repos, stats statisticsStore, cache *CacheService, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *StatisticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatisticsService{repos: repos, stats: stats, cache: cache, metrics: metrics, ttl: ttl, logger: logger}
}

// Summary computes statistics for scope. Without an active period every figure is zero.
func (s *StatisticsService) Summary(ctx context.Context, scope models.Scope) (*models.Statistics, error) {
	active, err := s.repos.Periods.FindActive(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.Statistics{Scope: scope.Key()}, nil
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load active period")
	}
	if scope.Kind == models.ScopeNone {
		return &models.Statistics{PeriodID: active.ID, Scope: scope.Key()}, nil
	}

	key := repository.StatisticsKey(active.ID, scope.Key())
	var cached models.Statistics
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		cached.Cached = true
		return &cached, nil
	}

	start := time.Now()
	stats, err := s.stats.Summary(ctx, scope, active.ID)
	s.metrics.ObserveDBQuery("statistics_summary", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute statistics")
	}
	stats.PeriodID = active.ID
	stats.Scope = scope.Key()
	stats.Cached = false

	if err := s.cache.Set(ctx, key, stats, s.ttl); err != nil {
		s.logger.Debug("statistics not cached", zap.String("key", key), zap.Error(err))
	}
	return stats, nil
}

// GroupSummary computes statistics for the students enrolled in one group.
func (s *StatisticsService) GroupSummary(ctx context.Context, scope models.Scope, groupID string) (*models.Statistics, error) {
	group, err := s.repos.Groups.FindByID(ctx, groupID)
	if err != nil {
		return nil, notFoundOr(err, "group not found", "failed to load group")
	}
	if !groupVisible(scope, group) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "group is outside your scope")
	}
	return s.Summary(ctx, models.GroupScope(groupID))
}
