package routes

import (
	"net/http"

	"github.com/OFFIS-RIT/constellation/backend/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

func GetGraphHandler(c echo.Context) error {
	type getGraphParams struct {
		Topic string `query:"topic" validate:"required,max=200"`
	}

	params := new(getGraphParams)
	if err := c.Bind(params); err != nil {
		return badRequest(c, "Invalid request params")
	}
	if err := c.Validate(params); err != nil {
		return badRequest(c, "Invalid request params")
	}

	graphs := c.(*middleware.AppContext).App.Graphs
	g, err := graphs.FetchGraph(c.Request().Context(), params.Topic)
	if err != nil {
		return graphError(c, err)
	}

	return c.JSON(http.StatusOK, g)
}

func GetTemplatesHandler(c echo.Context) error {
	type getTemplatesResponse struct {
		Templates []string `json:"templates"`
	}

	graphs := c.(*middleware.AppContext).App.Graphs
	return c.JSON(http.StatusOK, getTemplatesResponse{
		Templates: graphs.Templates().Keys(),
	})
}
