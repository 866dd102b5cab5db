package precomputed

import (
	"context"
	"fmt"
	"math"
	"myMovieRecs/domain"
	"path/filepath"
	"strconv"
	"strings"
)

// Source reads one of the precomputed recommendation tables.
type Source interface {
	ReadUserRows(ctx context.Context) ([]domain.UserRecommendationRow, error)
	ReadContentRows(ctx context.Context) ([]domain.ContentRecommendationRow, error)
}

var (
	userColumns    = []string{"user_id", "rec_type", "show_id", "title", "match_score", "genre_name"}
	contentColumns = []string{"show_id", "recommended_show_id", "recommended_title"}
)

// Open picks a reader from the file extension.
func Open(path string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return &CSVSource{Path: path}, nil
	case ".parquet":
		return &ParquetSource{Path: path}, nil
	default:
		return nil, fmt.Errorf("unsupported recommendation source %q: want .csv or .parquet", path)
	}
}

// NormalizeID trims an identifier and renders integral float literals as
// integers, so "42.0" exported from a numeric column matches "42".
func NormalizeID(raw string) string {
	id := strings.TrimSpace(raw)
	if !strings.ContainsAny(id, ".eE") {
		return id
	}
	f, err := strconv.ParseFloat(id, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return id
	}
	return strconv.FormatInt(int64(f), 10)
}

func parseScore(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid match_score %q: %w", raw, err)
	}
	return f, nil
}
