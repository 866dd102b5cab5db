package precomputed

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"myMovieRecs/domain"
	"os"
	"strings"
)

type CSVSource struct {
	Path string
}

func (s *CSVSource) ReadUserRows(ctx context.Context) ([]domain.UserRecommendationRow, error) {
	var rows []domain.UserRecommendationRow
	err := s.each(ctx, userColumns, func(line int, get func(string) string) error {
		score, err := parseScore(get("match_score"))
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, domain.UserRecommendationRow{
			UserID:     NormalizeID(get("user_id")),
			RecType:    strings.TrimSpace(get("rec_type")),
			ShowID:     NormalizeID(get("show_id")),
			Title:      get("title"),
			MatchScore: score,
			GenreName:  strings.TrimSpace(get("genre_name")),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *CSVSource) ReadContentRows(ctx context.Context) ([]domain.ContentRecommendationRow, error) {
	var rows []domain.ContentRecommendationRow
	err := s.each(ctx, contentColumns, func(_ int, get func(string) string) error {
		rows = append(rows, domain.ContentRecommendationRow{
			ShowID:            NormalizeID(get("show_id")),
			RecommendedShowID: NormalizeID(get("recommended_show_id")),
			RecommendedTitle:  get("recommended_title"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// each opens the file, resolves the required columns from the header and
// calls fn for every data record.
func (s *CSVSource) each(ctx context.Context, required []string, fn func(line int, get func(string) string) error) error {
	f, err := os.Open(s.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	reader := csv.NewReader(bufio.NewReader(f))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("read header of %s: empty file", s.Path)
		}
		return fmt.Errorf("read header of %s: %w", s.Path, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return fmt.Errorf("%s: missing column %q", s.Path, col)
		}
	}

	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context error: %w", err)
		}

		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("read %s: %w", s.Path, err)
		}

		get := func(col string) string {
			i := index[col]
			if i >= len(rec) {
				return ""
			}
			return rec[i]
		}
		if err := fn(line, get); err != nil {
			return fmt.Errorf("%s: %w", s.Path, err)
		}
	}
}
