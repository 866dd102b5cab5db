//go:build !integration

package router

import (
	"context"
	"myMovieRecs/domain"
	"myMovieRecs/internal/rest"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

type recordingService struct {
	userCalls, contentCalls int
}

func (s *recordingService) GetUserRecommendations(_ context.Context, userID string) (domain.UserRecommendationsResponse, error) {
	s.userCalls++
	return domain.UserRecommendationsResponse{UserID: userID}, nil
}

func (s *recordingService) GetContentRecommendations(_ context.Context, showID string) (domain.ContentRecommendationsResponse, error) {
	s.contentCalls++
	return domain.ContentRecommendationsResponse{ShowID: showID, Recommendations: []domain.EnrichedMovie{}}, nil
}

func TestRecommendationRoutes(t *testing.T) {
	svc := &recordingService{}
	e := echo.New()
	SetupRecommendationRoutes(e.Group("/api"), rest.NewRecommendationHandler(svc, time.Second))
	SetupMetricsRoutes(e)

	for _, target := range []string{"/api/recommendations/42", "/api/recommendations/content/s1", "/metrics"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d", target, rec.Code)
		}
	}

	if svc.userCalls != 1 || svc.contentCalls != 1 {
		t.Fatalf("user calls = %d, content calls = %d; want 1 each", svc.userCalls, svc.contentCalls)
	}
}
