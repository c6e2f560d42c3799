package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dcamacho/rbm-gateway/internal/repository"
	echo "github.com/labstack/echo/v4"
)

func listEventsHandler(events repository.EventsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit := 50
		offset := 0
		if v := c.QueryParam("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
				limit = n
			}
		}
		if v := c.QueryParam("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}

		classification := strings.TrimSpace(c.QueryParam("classification"))

		evs, err := events.ListRecent(c.Request().Context(), classification, limit, offset)
		if err != nil {
			c.Logger().Errorf("clickhouse events list failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"limit":   limit,
			"offset":  offset,
			"count":   len(evs),
			"results": evs,
		})
	}
}
