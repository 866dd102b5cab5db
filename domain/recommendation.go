package domain

import "errors"

const (
	RecTypeTopAll      = "top_all"
	RecTypeTopGenre    = "top_genre"
	RecTypeSecondGenre = "second_genre"

	// NoGenre labels a genre category that has no entries.
	NoGenre = "None"
)

var ErrStoreUnavailable = errors.New("movie store unavailable")

// UserRecommendationRow is one row of the precomputed per-user table.
type UserRecommendationRow struct {
	UserID     string
	RecType    string
	ShowID     string
	Title      string
	MatchScore float64
	GenreName  string
}

// ContentRecommendationRow is one row of the precomputed per-title table.
type ContentRecommendationRow struct {
	ShowID            string
	RecommendedShowID string
	RecommendedTitle  string
}

type RecommendationEntry struct {
	ShowID     string
	Title      string
	MatchScore float64
}

type UserRecommendationSet struct {
	TopAll          []RecommendationEntry
	TopGenre        []RecommendationEntry
	SecondGenre     []RecommendationEntry
	TopGenreName    string
	SecondGenreName string
}

// EmptyUserRecommendationSet is served for users missing from the index.
func EmptyUserRecommendationSet() UserRecommendationSet {
	return UserRecommendationSet{
		TopAll:          []RecommendationEntry{},
		TopGenre:        []RecommendationEntry{},
		SecondGenre:     []RecommendationEntry{},
		TopGenreName:    NoGenre,
		SecondGenreName: NoGenre,
	}
}

type ContentRecommendation struct {
	RecommendedShowID string
	RecommendedTitle  string
}

type UserRecommendations struct {
	TopAll          []EnrichedMovie `json:"top_all"`
	TopGenre        []EnrichedMovie `json:"top_genre"`
	SecondGenre     []EnrichedMovie `json:"second_genre"`
	TopGenreName    string          `json:"top_genre_name"`
	SecondGenreName string          `json:"second_genre_name"`
}

type UserRecommendationsResponse struct {
	UserID          string              `json:"user_id"`
	Recommendations UserRecommendations `json:"recommendations"`
}

type ContentRecommendationsResponse struct {
	ShowID          string          `json:"show_id"`
	Recommendations []EnrichedMovie `json:"recommendations"`
}
