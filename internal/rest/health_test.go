//go:build !integration

package rest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type fixedSize int

func (s fixedSize) Len() int { return int(s) }

type fixedState string

func (s fixedState) State() string { return string(s) }

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		state      string
		wantStatus string
	}{
		{"closed breaker", "closed", `"status":"ok"`},
		{"open breaker", "open", `"status":"degraded"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.JSONSerializer = JSONSerializer{}
			h := NewHealthHandler("1.0.0", fixedSize(3), fixedSize(7), fixedState(tt.state))
			e.GET("/health", h.Health)

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			body := rec.Body.String()
			for _, want := range []string{tt.wantStatus, `"user_index_entries":3`, `"content_index_entries":7`} {
				if !strings.Contains(body, want) {
					t.Fatalf("body %s missing %s", body, want)
				}
			}
		})
	}
}
