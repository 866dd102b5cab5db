package recindex

import (
	"context"
	"fmt"
	"myMovieRecs/domain"
	"myMovieRecs/pkg/logger"
	"myMovieRecs/pkg/metrics"
)

// UserRowSource yields the flat per-user recommendation table.
type UserRowSource interface {
	ReadUserRows(ctx context.Context) ([]domain.UserRecommendationRow, error)
}

// ContentRowSource yields the flat per-title recommendation table.
type ContentRowSource interface {
	ReadContentRows(ctx context.Context) ([]domain.ContentRecommendationRow, error)
}

// UserIndex maps a user id to its precomputed recommendation set. It is built
// once and only read afterwards, so it is safe for concurrent use.
type UserIndex struct {
	sets map[string]domain.UserRecommendationSet
}

func EmptyUserIndex() *UserIndex {
	return &UserIndex{sets: map[string]domain.UserRecommendationSet{}}
}

func (i *UserIndex) Lookup(userID string) (domain.UserRecommendationSet, bool) {
	set, ok := i.sets[userID]
	return set, ok
}

func (i *UserIndex) Len() int {
	return len(i.sets)
}

// ContentIndex maps a show id to its similar titles, in source order.
type ContentIndex struct {
	recs map[string][]domain.ContentRecommendation
}

func EmptyContentIndex() *ContentIndex {
	return &ContentIndex{recs: map[string][]domain.ContentRecommendation{}}
}

func (i *ContentIndex) Lookup(showID string) ([]domain.ContentRecommendation, bool) {
	recs, ok := i.recs[showID]
	return recs, ok
}

func (i *ContentIndex) Len() int {
	return len(i.recs)
}

// BuildUserIndex groups rows by user and partitions each group by rec_type.
// Each genre label comes from the first row of its partition. Rows with an
// unknown rec_type are dropped.
func BuildUserIndex(rows []domain.UserRecommendationRow) *UserIndex {
	sets := make(map[string]domain.UserRecommendationSet)

	for _, row := range rows {
		set, ok := sets[row.UserID]
		if !ok {
			set = domain.EmptyUserRecommendationSet()
		}

		entry := domain.RecommendationEntry{
			ShowID:     row.ShowID,
			Title:      row.Title,
			MatchScore: row.MatchScore,
		}

		switch row.RecType {
		case domain.RecTypeTopAll:
			set.TopAll = append(set.TopAll, entry)
		case domain.RecTypeTopGenre:
			if len(set.TopGenre) == 0 {
				set.TopGenreName = genreOrNone(row.GenreName)
			}
			set.TopGenre = append(set.TopGenre, entry)
		case domain.RecTypeSecondGenre:
			if len(set.SecondGenre) == 0 {
				set.SecondGenreName = genreOrNone(row.GenreName)
			}
			set.SecondGenre = append(set.SecondGenre, entry)
		default:
			continue
		}

		sets[row.UserID] = set
	}

	return &UserIndex{sets: sets}
}

// BuildContentIndex groups rows by show id, keeping source order.
func BuildContentIndex(rows []domain.ContentRecommendationRow) *ContentIndex {
	recs := make(map[string][]domain.ContentRecommendation)
	for _, row := range rows {
		recs[row.ShowID] = append(recs[row.ShowID], domain.ContentRecommendation{
			RecommendedShowID: row.RecommendedShowID,
			RecommendedTitle:  row.RecommendedTitle,
		})
	}
	return &ContentIndex{recs: recs}
}

func LoadUserIndex(ctx context.Context, src UserRowSource) (*UserIndex, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	rows, err := src.ReadUserRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load user recommendations: %w", err)
	}
	logger.Debug("User recommendation rows read", "rows", len(rows), "head", head(rows))

	return BuildUserIndex(rows), nil
}

func LoadContentIndex(ctx context.Context, src ContentRowSource) (*ContentIndex, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	rows, err := src.ReadContentRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load content recommendations: %w", err)
	}
	logger.Debug("Content recommendation rows read", "rows", len(rows), "head", head(rows))

	return BuildContentIndex(rows), nil
}

// LoadUserIndexOrEmpty never fails: a source that cannot be read leaves the
// service running with an empty index.
func LoadUserIndexOrEmpty(ctx context.Context, src UserRowSource) *UserIndex {
	idx, err := LoadUserIndex(ctx, src)
	if err != nil {
		logger.Warn("Serving empty user recommendation index", "error", err)
		idx = EmptyUserIndex()
	} else {
		logger.Info("Loaded user recommendation index", "users", idx.Len())
	}

	metrics.IndexEntries.WithLabelValues("user").Set(float64(idx.Len()))
	return idx
}

func LoadContentIndexOrEmpty(ctx context.Context, src ContentRowSource) *ContentIndex {
	idx, err := LoadContentIndex(ctx, src)
	if err != nil {
		logger.Warn("Serving empty content recommendation index", "error", err)
		idx = EmptyContentIndex()
	} else {
		logger.Info("Loaded content recommendation index", "shows", idx.Len())
	}

	metrics.IndexEntries.WithLabelValues("content").Set(float64(idx.Len()))
	return idx
}

const headRows = 5

// head is the leading sample of rows logged at debug level after a load.
func head[T any](rows []T) []T {
	if len(rows) > headRows {
		return rows[:headRows]
	}
	return rows
}

func genreOrNone(name string) string {
	if name == "" {
		return domain.NoGenre
	}
	return name
}
