package enrichment

import (
	"context"
	"fmt"
	"math"
	"myMovieRecs/domain"
	"myMovieRecs/pkg/metrics"
)

const (
	DefaultAverageRating = 3.5
	DefaultDescription   = "No description available"
	DefaultDuration      = "N/A"
	DefaultRating        = "N/A"
)

// MovieRepository contract interface
type MovieRepository interface {
	FindByShowIDs(ctx context.Context, showIDs []string) ([]domain.MovieTitle, error)
	AverageRating(ctx context.Context, showID string) (float64, bool, error)
}

type Service struct {
	movieRepo MovieRepository
}

func NewService(movieRepo MovieRepository) *Service {
	return &Service{movieRepo: movieRepo}
}

// FetchMovieDetails loads the stored rows for showIDs in a single round trip.
// Duplicate ids are sent once. No query is issued for an empty input.
func (s *Service) FetchMovieDetails(ctx context.Context, showIDs []string) (map[string]domain.MovieTitle, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	unique := dedupe(showIDs)
	if len(unique) == 0 {
		return map[string]domain.MovieTitle{}, nil
	}

	rows, err := s.movieRepo.FindByShowIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("fetch movie details: %w", err)
	}

	movies := make(map[string]domain.MovieTitle, len(rows))
	for _, m := range rows {
		movies[m.ShowID] = m
	}

	return movies, nil
}

// AverageRating is the mean stored rating of showID, or DefaultAverageRating
// for a title nobody has rated yet.
func (s *Service) AverageRating(ctx context.Context, showID string) (float64, error) {
	avg, ok, err := s.movieRepo.AverageRating(ctx, showID)
	if err != nil {
		return 0, fmt.Errorf("average rating for %s: %w", showID, err)
	}
	if !ok {
		metrics.RatingFallbacks.Inc()
		return DefaultAverageRating, nil
	}
	return avg, nil
}

// Enrich resolves the average rating of record and shapes it for the response.
func (s *Service) Enrich(ctx context.Context, record domain.MovieRecord, matchScore float64) (domain.EnrichedMovie, error) {
	avg, err := s.AverageRating(ctx, record.RecordShowID())
	if err != nil {
		return domain.EnrichedMovie{}, err
	}
	return Transform(record, avg, matchScore), nil
}

// Transform maps a stored row or a stub onto the response shape, filling
// absent or NULL columns with their defaults.
func Transform(record domain.MovieRecord, averageRating, matchScore float64) domain.EnrichedMovie {
	out := domain.EnrichedMovie{
		MovieID:       record.RecordShowID(),
		Title:         record.RecordTitle(),
		Description:   DefaultDescription,
		Duration:      DefaultDuration,
		Rating:        DefaultRating,
		Year:          0,
		AverageRating: roundOneDecimal(averageRating),
		MatchScore:    matchScore,
	}

	m, stored := record.Stored()
	if !stored {
		metrics.MissingMetadata.Inc()
		return out
	}

	if m.Description != nil {
		out.Description = *m.Description
	}
	if m.Duration != nil {
		out.Duration = *m.Duration
	}
	if m.Rating != nil {
		out.Rating = *m.Rating
	}
	if m.ReleaseYear != nil {
		out.Year = *m.ReleaseYear
	}

	return out
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
