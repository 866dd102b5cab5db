package precomputed

import (
	"context"
	"database/sql"
	"fmt"
	"myMovieRecs/domain"
	"os"
	"strings"

	// DuckDB driver - reads the Parquet exports produced by the offline job
	_ "github.com/duckdb/duckdb-go/v2"
)

// ParquetSource reads a Parquet table through an in-memory DuckDB instance.
type ParquetSource struct {
	Path string
}

func (s *ParquetSource) ReadUserRows(ctx context.Context) ([]domain.UserRecommendationRow, error) {
	query := fmt.Sprintf(`
		SELECT CAST(user_id AS VARCHAR), CAST(rec_type AS VARCHAR), CAST(show_id AS VARCHAR),
		       CAST(title AS VARCHAR), CAST(match_score AS DOUBLE), CAST(genre_name AS VARCHAR)
		FROM read_parquet(%s, file_row_number = true)
		ORDER BY file_row_number`, quoteLiteral(s.Path))

	var rows []domain.UserRecommendationRow
	err := s.query(ctx, query, func(r *sql.Rows) error {
		var userID, recType, showID, title, genre sql.NullString
		var score sql.NullFloat64
		if err := r.Scan(&userID, &recType, &showID, &title, &score, &genre); err != nil {
			return err
		}
		rows = append(rows, domain.UserRecommendationRow{
			UserID:     NormalizeID(userID.String),
			RecType:    strings.TrimSpace(recType.String),
			ShowID:     NormalizeID(showID.String),
			Title:      title.String,
			MatchScore: score.Float64,
			GenreName:  strings.TrimSpace(genre.String),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ParquetSource) ReadContentRows(ctx context.Context) ([]domain.ContentRecommendationRow, error) {
	query := fmt.Sprintf(`
		SELECT CAST(show_id AS VARCHAR), CAST(recommended_show_id AS VARCHAR), CAST(recommended_title AS VARCHAR)
		FROM read_parquet(%s, file_row_number = true)
		ORDER BY file_row_number`, quoteLiteral(s.Path))

	var rows []domain.ContentRecommendationRow
	err := s.query(ctx, query, func(r *sql.Rows) error {
		var showID, recID, recTitle sql.NullString
		if err := r.Scan(&showID, &recID, &recTitle); err != nil {
			return err
		}
		rows = append(rows, domain.ContentRecommendationRow{
			ShowID:            NormalizeID(showID.String),
			RecommendedShowID: NormalizeID(recID.String),
			RecommendedTitle:  recTitle.String,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ParquetSource) query(ctx context.Context, query string, scan func(*sql.Rows) error) error {
	if _, err := os.Stat(s.Path); err != nil {
		return fmt.Errorf("open %s: %w", s.Path, err)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("read_parquet %s: %w", s.Path, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scan %s: %w", s.Path, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s: %w", s.Path, err)
	}
	return nil
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
