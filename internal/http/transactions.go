package http

import (
	"net/http"
	"strconv"

	"github.com/dcamacho/rbm-gateway/internal/repository"
	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

func listTransactionsHandler(repo repository.TransactionsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit := 100
		if v := c.QueryParam("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
				limit = n
			}
		}

		txs, err := repo.List(c.Request().Context(), limit)
		if err != nil {
			log.Errorf("transactions list failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"limit":   limit,
			"count":   len(txs),
			"results": txs,
		})
	}
}
