package relational

import (
	"context"
	"database/sql"
	"fmt"
	"myMovieRecs/domain"
	"myMovieRecs/pkg/metrics"
	"time"

	"gorm.io/gorm"
)

// MovieRepository reads movies_titles and movies_ratings. Every call runs on
// its own connection, checked out of the pool and returned before the call
// ends, whatever the outcome.
type MovieRepository struct {
	DB           *gorm.DB
	queryTimeout time.Duration
}

func NewMovieRepository(db *gorm.DB, queryTimeout time.Duration) *MovieRepository {
	return &MovieRepository{
		DB:           db,
		queryTimeout: queryTimeout,
	}
}

type ratingAggregate struct {
	AvgRating sql.NullFloat64 `gorm:"column:avg_rating"`
}

// FindByShowIDs loads all rows whose show_id is in showIDs with one query.
func (r *MovieRepository) FindByShowIDs(ctx context.Context, showIDs []string) ([]domain.MovieTitle, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if len(showIDs) == 0 {
		return []domain.MovieTitle{}, nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var movies []domain.MovieTitle
	err := r.DB.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		return tx.Where("show_id IN ?", showIDs).Find(&movies).Error
	})
	if err != nil {
		metrics.StoreQueries.WithLabelValues("movie_details", "error").Inc()
		return nil, fmt.Errorf("failed to query movies_titles: %w", err)
	}

	metrics.StoreQueries.WithLabelValues("movie_details", "ok").Inc()
	return movies, nil
}

// AverageRating returns the mean rating of showID. ok is false when the
// title has no rating rows.
func (r *MovieRepository) AverageRating(ctx context.Context, showID string) (avg float64, ok bool, err error) {
	if err := ctx.Err(); err != nil {
		return 0, false, fmt.Errorf("context error: %w", err)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var agg ratingAggregate
	err = r.DB.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		return tx.Model(&domain.MovieRating{}).
			Select("AVG(rating) AS avg_rating").
			Where("show_id = ?", showID).
			Scan(&agg).Error
	})
	if err != nil {
		metrics.StoreQueries.WithLabelValues("average_rating", "error").Inc()
		return 0, false, fmt.Errorf("failed to aggregate movies_ratings: %w", err)
	}

	metrics.StoreQueries.WithLabelValues("average_rating", "ok").Inc()
	if !agg.AvgRating.Valid {
		return 0, false, nil
	}
	return agg.AvgRating.Float64, true, nil
}

func (r *MovieRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.queryTimeout)
}
