package middleware

import (
	"github.com/OFFIS-RIT/constellation/backend/pkg/logger"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// RequestIDMiddleware tags every request with an id, reusing a valid
// incoming X-Request-ID. It must run after AppContextMiddleware.
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Request().Header.Get(echo.HeaderXRequestID)
		if id == "" || len(id) > 64 {
			generated, err := gonanoid.New()
			if err != nil {
				logger.Warn("[Server] Failed to generate request id", "err", err)
			}
			id = generated
		}

		c.Response().Header().Set(echo.HeaderXRequestID, id)
		if cc, ok := c.(*AppContext); ok {
			cc.RequestID = id
		}
		return next(c)
	}
}
