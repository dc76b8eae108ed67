package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"aegisd/internal/models"
)

// ParsePaginationParams extracts page and limit from query parameters
func ParsePaginationParams(c *gin.Context) models.PaginationParams {
	pageStr := c.DefaultQuery("page", "1")
	limitStr := c.DefaultQuery("limit", "10")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = 10
	}

	// Enforce a sensible max limit to prevent abuse
	if limit > 1000 {
		limit = 1000
	}

	return models.PaginationParams{
		Page:  page,
		Limit: limit,
	}
}

func requireLicenseKey(c *gin.Context) (string, bool) {
	key := c.GetHeader("X-License-Key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_parameters", "message": "X-License-Key header is required"})
		return "", false
	}
	return key, true
}
