package middleware

import (
	"errors"
	"myMovieRecs/pkg/logger"
	"net/http"

	"github.com/labstack/echo/v4"
)

type errorBody struct {
	Message string `json:"message"`
}

// ErrorHandler renders every unhandled error as {"message": ...}. Internal
// details never reach the client on a 5xx.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
		if he.Internal != nil {
			err = he.Internal
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("Unhandled request error",
			"request_id", logger.RequestIDFromContext(c.Request().Context()),
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
		message = http.StatusText(code)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, errorBody{Message: message})
	}
	if writeErr != nil {
		logger.Error("Failed to write error response", "error", writeErr)
	}
}
