//go:build !integration

package precomputed

import (
	"context"
	"database/sql"
	"fmt"
	"myMovieRecs/domain"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestNormalizeID(t *testing.T) {
	tests := map[string]string{
		"42":     "42",
		" 42 ":   "42",
		"42.0":   "42",
		"1e3":    "1000",
		"42.5":   "42.5",
		"s123":   "s123",
		"s1.0":   "s1.0",
		"":       "",
		"-7.000": "-7",
	}
	for in, want := range tests {
		if got := NormalizeID(in); got != want {
			t.Errorf("NormalizeID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOpenByExtension(t *testing.T) {
	if src, err := Open("recs.CSV"); err != nil {
		t.Fatalf("Open(csv) error = %v", err)
	} else if _, ok := src.(*CSVSource); !ok {
		t.Fatalf("Open(csv) = %T, want *CSVSource", src)
	}
	if src, err := Open("recs.parquet"); err != nil {
		t.Fatalf("Open(parquet) error = %v", err)
	} else if _, ok := src.(*ParquetSource); !ok {
		t.Fatalf("Open(parquet) = %T, want *ParquetSource", src)
	}
	if _, err := Open("recommender.sav"); err == nil {
		t.Fatal("Open(sav) should fail")
	}
}

func TestCSVSourceReadUserRows(t *testing.T) {
	// columns deliberately out of order
	path := writeFile(t, "users.csv", "rec_type,user_id,show_id,title,genre_name,match_score\n"+
		"top_all,1.0,s10,Alpha,,0.91\n"+
		"top_genre,1.0,s11,\"Beta, The\",Drama,\n"+
		"second_genre,2,s12,Gamma,Comedy,0.5\n")

	rows, err := (&CSVSource{Path: path}).ReadUserRows(context.Background())
	if err != nil {
		t.Fatalf("ReadUserRows() error = %v", err)
	}

	want := []domain.UserRecommendationRow{
		{UserID: "1", RecType: "top_all", ShowID: "s10", Title: "Alpha", MatchScore: 0.91},
		{UserID: "1", RecType: "top_genre", ShowID: "s11", Title: "Beta, The", GenreName: "Drama"},
		{UserID: "2", RecType: "second_genre", ShowID: "s12", Title: "Gamma", MatchScore: 0.5, GenreName: "Comedy"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %+v\nwant %+v", rows, want)
	}
}

func TestCSVSourceReadContentRows(t *testing.T) {
	path := writeFile(t, "content.csv", "show_id,recommended_show_id,recommended_title\n"+
		"s1,s2,Two\n"+
		"s1,s3,Three\n")

	rows, err := (&CSVSource{Path: path}).ReadContentRows(context.Background())
	if err != nil {
		t.Fatalf("ReadContentRows() error = %v", err)
	}
	want := []domain.ContentRecommendationRow{
		{ShowID: "s1", RecommendedShowID: "s2", RecommendedTitle: "Two"},
		{ShowID: "s1", RecommendedShowID: "s3", RecommendedTitle: "Three"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %+v\nwant %+v", rows, want)
	}
}

func TestCSVSourceErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty file", content: ""},
		{name: "missing column", content: "user_id,rec_type,show_id,title,match_score\n1,top_all,s1,A,0.1\n"},
		{name: "bad score", content: "user_id,rec_type,show_id,title,match_score,genre_name\n1,top_all,s1,A,high,\n"},
		{name: "broken quoting", content: "user_id,rec_type,show_id,title,match_score,genre_name\n1,top_all,s1,\"A,0.1,\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "users.csv", tt.content)
			if _, err := (&CSVSource{Path: path}).ReadUserRows(context.Background()); err == nil {
				t.Fatal("expected an error")
			}
		})
	}

	missing := &CSVSource{Path: filepath.Join(t.TempDir(), "nope.csv")}
	if _, err := missing.ReadUserRows(context.Background()); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestCSVSourceHonoursCancellation(t *testing.T) {
	path := writeFile(t, "content.csv", "show_id,recommended_show_id,recommended_title\ns1,s2,Two\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := (&CSVSource{Path: path}).ReadContentRows(ctx); err == nil {
		t.Fatal("expected a context error")
	}
}

func writeParquet(t *testing.T, name, selectSQL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)

	db, err := sql.Open("duckdb", "")
	if err != nil {
		t.Fatalf("open duckdb: %v", err)
	}
	defer db.Close()

	copySQL := fmt.Sprintf("COPY (%s) TO %s (FORMAT PARQUET)", selectSQL, quoteLiteral(path))
	if _, err := db.Exec(copySQL); err != nil {
		t.Fatalf("write parquet: %v", err)
	}
	return path
}

func TestParquetSourceReadUserRows(t *testing.T) {
	path := writeParquet(t, "users.parquet", `
		SELECT * FROM (VALUES
			(7.0, 'top_all', 's1', 'One', 0.8, NULL),
			(7.0, 'top_genre', 's2', 'Two', NULL, 'Horror'),
			(8.0, 'top_all', 's3', 'Three', 0.4, NULL)
		) AS t(user_id, rec_type, show_id, title, match_score, genre_name)`)

	rows, err := (&ParquetSource{Path: path}).ReadUserRows(context.Background())
	if err != nil {
		t.Fatalf("ReadUserRows() error = %v", err)
	}
	want := []domain.UserRecommendationRow{
		{UserID: "7", RecType: "top_all", ShowID: "s1", Title: "One", MatchScore: 0.8},
		{UserID: "7", RecType: "top_genre", ShowID: "s2", Title: "Two", GenreName: "Horror"},
		{UserID: "8", RecType: "top_all", ShowID: "s3", Title: "Three", MatchScore: 0.4},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %+v\nwant %+v", rows, want)
	}
}

func TestParquetSourceReadContentRows(t *testing.T) {
	path := writeParquet(t, "content.parquet", `
		SELECT * FROM (VALUES ('s1', 's2', 'Two'), ('s1', 's3', 'Three'))
		AS t(show_id, recommended_show_id, recommended_title)`)

	rows, err := (&ParquetSource{Path: path}).ReadContentRows(context.Background())
	if err != nil {
		t.Fatalf("ReadContentRows() error = %v", err)
	}
	if len(rows) != 2 || rows[0].RecommendedShowID != "s2" || rows[1].RecommendedTitle != "Three" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestParquetSourceMissingFile(t *testing.T) {
	src := &ParquetSource{Path: filepath.Join(t.TempDir(), "missing.parquet")}
	if _, err := src.ReadContentRows(context.Background()); err == nil {
		t.Fatal("expected an error")
	}
}
