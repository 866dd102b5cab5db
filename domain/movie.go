package domain

// CREATE TABLE movies_titles (
//     show_id       TEXT PRIMARY KEY,
//     type          TEXT,
//     title         TEXT,
//     director      TEXT,
//     country       TEXT,
//     release_year  INTEGER,
//     rating        TEXT,
//     duration      TEXT,
//     description   TEXT
//     ...
// );
//
// Columns not mapped here are selected and ignored.

type MovieTitle struct {
	ShowID      string  `gorm:"column:show_id;primaryKey"`
	Title       *string `gorm:"column:title"`
	Description *string `gorm:"column:description"`
	Duration    *string `gorm:"column:duration"`
	Rating      *string `gorm:"column:rating"`
	ReleaseYear *int    `gorm:"column:release_year"`
}

func (MovieTitle) TableName() string {
	return "movies_titles"
}

// CREATE TABLE movies_ratings (
//     user_id  TEXT,
//     show_id  TEXT,
//     rating   REAL
// );

type MovieRating struct {
	UserID string  `gorm:"column:user_id"`
	ShowID string  `gorm:"column:show_id;index"`
	Rating float64 `gorm:"column:rating"`
}

func (MovieRating) TableName() string {
	return "movies_ratings"
}

// MovieRecord is either a full movies_titles row or a stub built from a
// recommendation entry when the store has no row for it.
type MovieRecord interface {
	RecordShowID() string
	RecordTitle() string
	Stored() (MovieTitle, bool)
}

func (m MovieTitle) RecordShowID() string { return m.ShowID }

func (m MovieTitle) RecordTitle() string {
	if m.Title == nil {
		return ""
	}
	return *m.Title
}

func (m MovieTitle) Stored() (MovieTitle, bool) { return m, true }

// StubMovie stands in for a title missing from movies_titles.
type StubMovie struct {
	ShowID string
	Title  string
}

func (s StubMovie) RecordShowID() string { return s.ShowID }

func (s StubMovie) RecordTitle() string { return s.Title }

func (s StubMovie) Stored() (MovieTitle, bool) { return MovieTitle{}, false }

// ResolveRecord returns the stored row for showID when present, otherwise a
// stub carrying the recommendation's own title. A stored row with a NULL
// title borrows fallbackTitle.
func ResolveRecord(movies map[string]MovieTitle, showID, fallbackTitle string) MovieRecord {
	m, ok := movies[showID]
	if !ok {
		return StubMovie{ShowID: showID, Title: fallbackTitle}
	}
	if m.Title == nil {
		title := fallbackTitle
		m.Title = &title
	}
	return m
}

// EnrichedMovie is the public shape of one recommended title.
type EnrichedMovie struct {
	MovieID       string  `json:"movieId"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Duration      string  `json:"duration"`
	Rating        string  `json:"rating"`
	Year          int     `json:"year"`
	AverageRating float64 `json:"averageRating"`
	MatchScore    float64 `json:"matchScore"`
}
