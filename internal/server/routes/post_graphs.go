package routes

import (
	"io"
	"net/http"

	"github.com/OFFIS-RIT/constellation/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/constellation/backend/pkg/common"

	"github.com/labstack/echo/v4"
)

// maxRawResponse bounds the body accepted by the validate endpoint.
const maxRawResponse = 1 << 20

func FetchGraphsHandler(c echo.Context) error {
	type fetchGraphsBody struct {
		Topics []string `json:"topics" validate:"required,min=1,max=20,dive,required,max=200"`
	}

	type fetchGraphsResponse struct {
		Graphs []*common.Graph `json:"graphs"`
	}

	data := new(fetchGraphsBody)
	if err := c.Bind(data); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(data); err != nil {
		return badRequest(c, "Invalid request body")
	}

	graphs := c.(*middleware.AppContext).App.Graphs
	res, err := graphs.FetchGraphs(c.Request().Context(), data.Topics)
	if err != nil {
		return graphError(c, err)
	}

	return c.JSON(http.StatusOK, fetchGraphsResponse{Graphs: res})
}

func GenerateGraphHandler(c echo.Context) error {
	type generateGraphBody struct {
		Topic string `json:"topic" validate:"required,max=200"`
	}

	type generateGraphResponse struct {
		Source string        `json:"source"`
		Graph  *common.Graph `json:"graph"`
	}

	data := new(generateGraphBody)
	if err := c.Bind(data); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(data); err != nil {
		return badRequest(c, "Invalid request body")
	}

	graphs := c.(*middleware.AppContext).App.Graphs
	g, source, err := graphs.GenerateGraphWithFallback(c.Request().Context(), data.Topic)
	if err != nil {
		return graphError(c, err)
	}

	return c.JSON(http.StatusOK, generateGraphResponse{Source: source, Graph: g})
}

// ValidateGraphHandler parses an untrusted model response from the raw
// request body.
func ValidateGraphHandler(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxRawResponse+1))
	if err != nil {
		return badRequest(c, "Failed to read request body")
	}
	if len(body) > maxRawResponse {
		return c.JSON(http.StatusRequestEntityTooLarge, errorResponse{
			Error:     "Request body too large",
			RequestID: requestID(c),
		})
	}

	graphs := c.(*middleware.AppContext).App.Graphs
	g, err := graphs.Parse(string(body))
	if err != nil {
		return graphError(c, err)
	}

	return c.JSON(http.StatusOK, g)
}
