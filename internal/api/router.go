package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"

	"market-research-agent/internal/pipeline"
	"market-research-agent/internal/store"
)

// RegisterRoutes wires the health check, the manual run trigger and
// the run history onto the hertz server.
func RegisterRoutes(h *server.Hertz, runner *pipeline.Runner, st *store.Store) {
	h.GET("/healthz", func(_ context.Context, c *app.RequestContext) {
		c.JSON(http.StatusOK, map[string]bool{"ok": true})
	})

	h.POST("/api/v1/run", func(ctx context.Context, c *app.RequestContext) {
		if runner == nil {
			c.JSON(http.StatusInternalServerError, map[string]any{
				"success": false,
				"error":   "runner not configured",
			})
			return
		}

		result := runner.RunOnce(ctx)
		status := http.StatusOK
		if !result.Success {
			status = http.StatusInternalServerError
		}
		c.JSON(status, result)
	})

	h.GET("/api/v1/runs", func(_ context.Context, c *app.RequestContext) {
		if st == nil {
			c.JSON(http.StatusInternalServerError, map[string]any{
				"ok":    false,
				"error": "store not configured",
			})
			return
		}

		limit, err := parseLimit(string(c.Query("limit")))
		if err != nil {
			c.JSON(http.StatusBadRequest, map[string]any{
				"ok":    false,
				"error": err.Error(),
			})
			return
		}

		items, err := st.RecentRuns(limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, map[string]any{
				"ok":    false,
				"error": err.Error(),
			})
			return
		}
		if items == nil {
			items = []store.RunRecord{}
		}
		c.JSON(http.StatusOK, map[string]any{
			"ok":    true,
			"items": items,
		})
	})
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 20, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid limit")
	}
	if v > 200 {
		return 200, nil
	}
	return v, nil
}
