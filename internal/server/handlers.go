// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/serp-analyzer/internal/analyze"
	"github.com/pdiddy/serp-analyzer/pkg/types"
)

// HealthMessage is the body of the health endpoint.
const HealthMessage = "Academic SERP Analyzer API is running"

type handlers struct {
	analyzer Analyzer
}

// analyze handles POST /api/search/analyze.
func (h *handlers) analyze(c *gin.Context) {
	logger := requestLogger(c)

	var req types.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	if req.MaxResults <= 0 {
		req.MaxResults = types.DefaultMaxResults
	}

	report, err := h.analyzer.Analyze(c.Request.Context(), req.Query, req.MaxResults)
	if err != nil {
		if errors.Is(err, analyze.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
			return
		}
		logger.Error("analysis failed", "query", req.Query, "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, report)
}

// health handles GET /api/search/health.
func (h *handlers) health(c *gin.Context) {
	c.String(http.StatusOK, HealthMessage)
}
