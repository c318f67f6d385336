package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/OFFIS-RIT/constellation/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/constellation/backend/pkg/graph"
	"github.com/OFFIS-RIT/constellation/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Kind      string `json:"kind,omitempty"`
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func requestID(c echo.Context) string {
	if cc, ok := c.(*middleware.AppContext); ok {
		return cc.RequestID
	}
	return ""
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg, RequestID: requestID(c)})
}

// graphError writes err with the status code matching its kind.
func graphError(c echo.Context, err error) error {
	res := errorResponse{Error: err.Error(), RequestID: requestID(c)}
	if kind, ok := graph.KindOf(err); ok {
		res.Kind = string(kind)
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, graph.ErrInternalSource):
		res.Kind = "internal_error"
	case graph.IsParseError(err):
		status = http.StatusBadRequest
	case graph.IsValidationError(err):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
		res.Kind = "timeout"
	case errors.Is(err, context.Canceled):
		// nginx's "client closed request"
		status = 499
	}

	if status >= http.StatusInternalServerError {
		logger.Error("[Server] Graph request failed", "request_id", res.RequestID, "err", err)
	}
	return c.JSON(status, res)
}
