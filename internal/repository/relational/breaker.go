package relational

import (
	"context"
	"errors"
	"fmt"
	"myMovieRecs/domain"
	"myMovieRecs/pkg/logger"
	"myMovieRecs/pkg/metrics"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

type MovieStore interface {
	FindByShowIDs(ctx context.Context, showIDs []string) ([]domain.MovieTitle, error)
	AverageRating(ctx context.Context, showID string) (float64, bool, error)
}

type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// BreakerMovieRepository fails fast with domain.ErrStoreUnavailable once the
// store has failed FailureThreshold times in a row.
type BreakerMovieRepository struct {
	next MovieStore
	cb   *gobreaker.CircuitBreaker[interface{}]
}

func NewBreakerMovieRepository(next MovieStore, cfg BreakerConfig) *BreakerMovieRepository {
	if cfg.Name == "" {
		cfg.Name = "movie-store"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}

	metrics.StoreBreakerState.Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// a caller giving up is not a store failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Movie store circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			metrics.StoreBreakerState.Set(stateToFloat(to))
		},
	})

	return &BreakerMovieRepository{next: next, cb: cb}
}

func (r *BreakerMovieRepository) FindByShowIDs(ctx context.Context, showIDs []string) ([]domain.MovieTitle, error) {
	res, err := r.cb.Execute(func() (interface{}, error) {
		return r.next.FindByShowIDs(ctx, showIDs)
	})
	if err != nil {
		return nil, r.wrap(err)
	}
	return res.([]domain.MovieTitle), nil
}

type averageResult struct {
	avg float64
	ok  bool
}

func (r *BreakerMovieRepository) AverageRating(ctx context.Context, showID string) (float64, bool, error) {
	res, err := r.cb.Execute(func() (interface{}, error) {
		avg, ok, err := r.next.AverageRating(ctx, showID)
		return averageResult{avg: avg, ok: ok}, err
	})
	if err != nil {
		return 0, false, r.wrap(err)
	}
	out := res.(averageResult)
	return out.avg, out.ok, nil
}

func (r *BreakerMovieRepository) State() string {
	return r.cb.State().String()
}

func (r *BreakerMovieRepository) wrap(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return err
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
