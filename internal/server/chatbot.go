package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"
)

type converseRequest struct {
	Message string `json:"message"`
}

type converseResponse struct {
	Response string            `json:"response"`
	Products []productResponse `json:"products"`
}

// converse forwards one authenticated message to the dialogue engine. The
// engine never fails upward, so this always answers 200 with a
// conversational payload, whether or not products matched.
func (s *Server) converse(c *echo.Context) error {
	claims, err := s.requireAuth(c)
	if err != nil {
		return err
	}

	var req converseRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}

	reply := s.engine.Converse(c.Request().Context(), claims.Subject, req.Message)

	return c.JSON(http.StatusOK, converseResponse{
		Response: reply.Text,
		Products: toProductResponses(reply.Products),
	})
}
