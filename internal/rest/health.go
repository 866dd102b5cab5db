package rest

import (
	"net/http"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	HealthHandler struct {
		version      string
		userIndex    Sizer
		contentIndex Sizer
		store        BreakerStater
	}

	Sizer interface {
		Len() int
	}

	BreakerStater interface {
		State() string
	}

	HealthStatus struct {
		Status              string `json:"status"`
		Version             string `json:"version"`
		UserIndexEntries    int    `json:"user_index_entries"`
		ContentIndexEntries int    `json:"content_index_entries"`
		StoreBreaker        string `json:"store_breaker,omitempty"`
	}
)

func NewHealthHandler(version string, userIndex, contentIndex Sizer, store BreakerStater) *HealthHandler {
	return &HealthHandler{
		version:      version,
		userIndex:    userIndex,
		contentIndex: contentIndex,
		store:        store,
	}
}

// GET /health
func (h *HealthHandler) Health(c echo.Context) error {
	status := HealthStatus{
		Status:              "ok",
		Version:             h.version,
		UserIndexEntries:    h.userIndex.Len(),
		ContentIndexEntries: h.contentIndex.Len(),
	}
	if h.store != nil {
		status.StoreBreaker = h.store.State()
		if status.StoreBreaker == "open" {
			status.Status = "degraded"
		}
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(status))
}
