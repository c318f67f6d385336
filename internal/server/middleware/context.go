package middleware

import (
	"github.com/OFFIS-RIT/constellation/backend/pkg/graph"

	"github.com/labstack/echo/v4"
)

type App struct {
	Graphs *graph.GraphClient
}

type AppContext struct {
	echo.Context
	App       *App
	RequestID string
}

func AppContextMiddleware(graphs *graph.GraphClient) echo.MiddlewareFunc {
	app := &App{Graphs: graphs}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{Context: c, App: app}
			return next(cc)
		}
	}
}
