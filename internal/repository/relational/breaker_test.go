//go:build !integration

package relational

import (
	"context"
	"errors"
	"myMovieRecs/domain"
	"testing"
	"time"
)

type flakyStore struct {
	err   error
	calls int
}

func (f *flakyStore) FindByShowIDs(context.Context, []string) ([]domain.MovieTitle, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []domain.MovieTitle{{ShowID: "s1"}}, nil
}

func (f *flakyStore) AverageRating(context.Context, string) (float64, bool, error) {
	f.calls++
	if f.err != nil {
		return 0, false, f.err
	}
	return 4.5, true, nil
}

func TestBreakerPassesResultsThrough(t *testing.T) {
	store := &flakyStore{}
	repo := NewBreakerMovieRepository(store, BreakerConfig{FailureThreshold: 2, OpenTimeout: time.Minute})

	movies, err := repo.FindByShowIDs(context.Background(), []string{"s1"})
	if err != nil || len(movies) != 1 {
		t.Fatalf("FindByShowIDs() = %+v, %v", movies, err)
	}

	avg, ok, err := repo.AverageRating(context.Background(), "s1")
	if err != nil || !ok || avg != 4.5 {
		t.Fatalf("AverageRating() = %v, %v, %v", avg, ok, err)
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	storeErr := errors.New("connection refused")
	store := &flakyStore{err: storeErr}
	repo := NewBreakerMovieRepository(store, BreakerConfig{FailureThreshold: 2, OpenTimeout: time.Minute})

	for i := 0; i < 2; i++ {
		_, err := repo.FindByShowIDs(context.Background(), []string{"s1"})
		if !errors.Is(err, storeErr) {
			t.Fatalf("call %d error = %v, want store error", i, err)
		}
	}

	_, err := repo.FindByShowIDs(context.Background(), []string{"s1"})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("error = %v, want ErrStoreUnavailable", err)
	}
	if store.calls != 2 {
		t.Fatalf("store calls = %d, open breaker must not reach the store", store.calls)
	}
	if repo.State() != "open" {
		t.Fatalf("State() = %q, want open", repo.State())
	}
}

func TestBreakerIgnoresCancelledCallers(t *testing.T) {
	store := &flakyStore{err: context.Canceled}
	repo := NewBreakerMovieRepository(store, BreakerConfig{FailureThreshold: 1, OpenTimeout: time.Minute})

	for i := 0; i < 3; i++ {
		if _, _, err := repo.AverageRating(context.Background(), "s1"); !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled", err)
		}
	}
	if repo.State() != "closed" {
		t.Fatalf("State() = %q, want closed", repo.State())
	}
}
