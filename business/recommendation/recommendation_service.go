package recommendation

import (
	"context"
	"fmt"
	"myMovieRecs/domain"
	"myMovieRecs/pkg/logger"
	"myMovieRecs/pkg/metrics"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	kindUser    = "user"
	kindContent = "content"
)

var tracer = otel.Tracer("myMovieRecs/business/recommendation")

type UserIndex interface {
	Lookup(userID string) (domain.UserRecommendationSet, bool)
}

type ContentIndex interface {
	Lookup(showID string) ([]domain.ContentRecommendation, bool)
}

// Enricher contract interface
type Enricher interface {
	FetchMovieDetails(ctx context.Context, showIDs []string) (map[string]domain.MovieTitle, error)
	Enrich(ctx context.Context, record domain.MovieRecord, matchScore float64) (domain.EnrichedMovie, error)
}

type Service struct {
	userIndex    UserIndex
	contentIndex ContentIndex
	enricher     Enricher
}

func NewService(userIndex UserIndex, contentIndex ContentIndex, enricher Enricher) *Service {
	return &Service{
		userIndex:    userIndex,
		contentIndex: contentIndex,
		enricher:     enricher,
	}
}

func (s *Service) GetUserRecommendations(ctx context.Context, userID string) (resp domain.UserRecommendationsResponse, err error) {
	if err := ctx.Err(); err != nil {
		return domain.UserRecommendationsResponse{}, fmt.Errorf("context error: %w", err)
	}

	ctx, span := tracer.Start(ctx, "recommendation.GetUserRecommendations",
		trace.WithAttributes(attribute.String("user.id", userID)))
	start := time.Now()
	defer func() { finish(span, kindUser, start, err) }()

	set, ok := s.userIndex.Lookup(userID)
	if !ok {
		set = domain.EmptyUserRecommendationSet()
	}
	span.SetAttributes(
		attribute.Bool("user.known", ok),
		attribute.Int("recs.top_all", len(set.TopAll)),
		attribute.Int("recs.top_genre", len(set.TopGenre)),
		attribute.Int("recs.second_genre", len(set.SecondGenre)),
	)

	ids := make([]string, 0, len(set.TopAll)+len(set.TopGenre)+len(set.SecondGenre))
	for _, group := range [][]domain.RecommendationEntry{set.TopAll, set.TopGenre, set.SecondGenre} {
		for _, e := range group {
			ids = append(ids, e.ShowID)
		}
	}

	movies, err := s.fetch(ctx, ids)
	if err != nil {
		return domain.UserRecommendationsResponse{}, err
	}

	topAll, err := s.enrichEntries(ctx, set.TopAll, movies, true)
	if err != nil {
		return domain.UserRecommendationsResponse{}, err
	}
	topGenre, err := s.enrichEntries(ctx, set.TopGenre, movies, false)
	if err != nil {
		return domain.UserRecommendationsResponse{}, err
	}
	secondGenre, err := s.enrichEntries(ctx, set.SecondGenre, movies, false)
	if err != nil {
		return domain.UserRecommendationsResponse{}, err
	}

	logger.Debug("User recommendations assembled",
		"request_id", logger.RequestIDFromContext(ctx),
		"user_id", userID,
		"known", ok,
		"titles", len(ids),
	)

	return domain.UserRecommendationsResponse{
		UserID: userID,
		Recommendations: domain.UserRecommendations{
			TopAll:          topAll,
			TopGenre:        topGenre,
			SecondGenre:     secondGenre,
			TopGenreName:    set.TopGenreName,
			SecondGenreName: set.SecondGenreName,
		},
	}, nil
}

func (s *Service) GetContentRecommendations(ctx context.Context, showID string) (resp domain.ContentRecommendationsResponse, err error) {
	if err := ctx.Err(); err != nil {
		return domain.ContentRecommendationsResponse{}, fmt.Errorf("context error: %w", err)
	}

	ctx, span := tracer.Start(ctx, "recommendation.GetContentRecommendations",
		trace.WithAttributes(attribute.String("show.id", showID)))
	start := time.Now()
	defer func() { finish(span, kindContent, start, err) }()

	recs, ok := s.contentIndex.Lookup(showID)
	span.SetAttributes(attribute.Int("recs.count", len(recs)))
	if !ok || len(recs) == 0 {
		return domain.ContentRecommendationsResponse{
			ShowID:          showID,
			Recommendations: []domain.EnrichedMovie{},
		}, nil
	}

	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.RecommendedShowID
	}

	movies, err := s.fetch(ctx, ids)
	if err != nil {
		return domain.ContentRecommendationsResponse{}, err
	}

	out := make([]domain.EnrichedMovie, 0, len(recs))
	for _, r := range recs {
		record := domain.ResolveRecord(movies, r.RecommendedShowID, r.RecommendedTitle)
		m, err := s.enricher.Enrich(ctx, record, 0)
		if err != nil {
			return domain.ContentRecommendationsResponse{}, fmt.Errorf("enrich %s: %w", r.RecommendedShowID, err)
		}
		out = append(out, m)
	}

	logger.Debug("Content recommendations assembled",
		"request_id", logger.RequestIDFromContext(ctx),
		"show_id", showID,
		"titles", len(out),
	)

	return domain.ContentRecommendationsResponse{
		ShowID:          showID,
		Recommendations: out,
	}, nil
}

func (s *Service) fetch(ctx context.Context, ids []string) (map[string]domain.MovieTitle, error) {
	if len(ids) == 0 {
		return map[string]domain.MovieTitle{}, nil
	}

	ctx, span := tracer.Start(ctx, "recommendation.FetchMovieDetails",
		trace.WithAttributes(attribute.Int("titles.requested", len(ids))))
	defer span.End()

	movies, err := s.enricher.FetchMovieDetails(ctx, ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch movie details failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("titles.found", len(movies)))
	return movies, nil
}

// enrichEntries keeps entry order. Only the overall ranking carries its match
// score into the response; genre rankings are served with 0.
func (s *Service) enrichEntries(ctx context.Context, entries []domain.RecommendationEntry, movies map[string]domain.MovieTitle, withScore bool) ([]domain.EnrichedMovie, error) {
	out := make([]domain.EnrichedMovie, 0, len(entries))
	for _, e := range entries {
		score := 0.0
		if withScore {
			score = e.MatchScore
		}

		m, err := s.enricher.Enrich(ctx, domain.ResolveRecord(movies, e.ShowID, e.Title), score)
		if err != nil {
			return nil, fmt.Errorf("enrich %s: %w", e.ShowID, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func finish(span trace.Span, kind string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	metrics.RecommendLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	metrics.RecommendRequests.WithLabelValues(kind, outcome).Inc()
	span.End()
}
