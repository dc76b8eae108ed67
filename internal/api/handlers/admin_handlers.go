package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"aegisd/internal/license"
	"aegisd/internal/models"
	"aegisd/internal/store"
)

type provisionRequest struct {
	LicenseKey string `json:"license_key" binding:"required"`
	Tier       string `json:"tier" binding:"required"`
	ExpiryDate string `json:"expiry_date"`
}

// ProvisionHandler handles POST /admin/licenses. Operators register a signed
// license key here before customers can activate it.
func ProvisionHandler(activations store.ActivationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req provisionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_parameters", "message": err.Error()})
			return
		}

		tier, err := license.ParseEdition(req.Tier)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_tier", "message": err.Error()})
			return
		}

		var expiry *time.Time
		if req.ExpiryDate != "" {
			t, err := time.Parse(license.DateLayout, req.ExpiryDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_date", "message": "expiry_date must be YYYY-MM-DD"})
				return
			}
			expiry = &t
		}

		now := time.Now()
		binding := &models.ActivationBinding{
			ID:         uuid.New(),
			LicenseKey: req.LicenseKey,
			Tier:       tier,
			ExpiryDate: expiry,
			Status:     models.BindingStatusActive,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if err := activations.Provision(c.Request.Context(), binding); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				c.JSON(http.StatusConflict, gin.H{"error": "duplicate_license", "message": "License key already provisioned"})
				return
			}
			slog.Error("Failed to provision license", "error", err, "key", req.LicenseKey)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to provision license"})
			return
		}

		slog.Info("License provisioned", "key", binding.LicenseKey, "tier", binding.Tier)
		c.JSON(http.StatusCreated, binding)
	}
}

// ListActivationsHandler handles GET /admin/licenses. With an X-License-Key
// header it returns that single binding; otherwise a paginated list.
func ListActivationsHandler(activations store.ActivationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-License-Key")
		if key != "" {
			binding, err := activations.Lookup(c.Request.Context(), key)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					c.JSON(http.StatusNotFound, gin.H{"error": "license_not_found", "message": "License key not found"})
					return
				}
				slog.Error("Failed to get activation", "error", err, "key", key)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to get license"})
				return
			}
			c.JSON(http.StatusOK, binding)
			return
		}

		pagination := ParsePaginationParams(c)
		bindings, totalCount, err := activations.List(c.Request.Context(), pagination)
		if err != nil {
			slog.Error("Failed to list activations", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to list licenses"})
			return
		}
		if bindings == nil {
			bindings = []models.ActivationBinding{}
		}

		totalPages := 0
		if pagination.Limit > 0 {
			totalPages = (totalCount + pagination.Limit - 1) / pagination.Limit
		}

		c.JSON(http.StatusOK, models.PaginatedList[models.ActivationBinding]{
			Items:      bindings,
			TotalCount: totalCount,
			Page:       pagination.Page,
			Limit:      pagination.Limit,
			TotalPages: totalPages,
		})
	}
}

// RevokeHandler handles DELETE /admin/licenses. Revocation is terminal:
// there is no API transition out of REVOKED.
func RevokeHandler(activations store.ActivationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := requireLicenseKey(c)
		if !ok {
			return
		}

		if err := activations.Revoke(c.Request.Context(), key); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "license_not_found", "message": "License key not found"})
				return
			}
			slog.Error("Failed to revoke license", "error", err, "key", key)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to revoke license"})
			return
		}

		slog.Info("License revoked", "key", key)
		c.JSON(http.StatusOK, gin.H{"message": "License revoked"})
	}
}

// ReleaseHandler handles POST /admin/licenses/release, clearing the hardware
// slot so a customer can move to a new machine. Operator-only; the public
// API never unbinds.
func ReleaseHandler(activations store.ActivationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := requireLicenseKey(c)
		if !ok {
			return
		}

		if err := activations.Release(c.Request.Context(), key); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "license_not_found", "message": "License key not found or not active"})
				return
			}
			slog.Error("Failed to release activation", "error", err, "key", key)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to release license"})
			return
		}

		slog.Info("Hardware binding released", "key", key)
		c.JSON(http.StatusOK, gin.H{"message": "Hardware binding released"})
	}
}

// GetActivationLogsHandler handles GET /admin/logs.
func GetActivationLogsHandler(logStore store.LogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		pagination := ParsePaginationParams(c)
		logs, totalCount, err := logStore.ListActivationLogs(c.Request.Context(), c.Query("license_key"), pagination)
		if err != nil {
			slog.Error("Failed to list activation logs", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to list logs"})
			return
		}
		if logs == nil {
			logs = []models.ActivationLog{}
		}

		totalPages := 0
		if pagination.Limit > 0 {
			totalPages = (totalCount + pagination.Limit - 1) / pagination.Limit
		}

		c.JSON(http.StatusOK, models.PaginatedList[models.ActivationLog]{
			Items:      logs,
			TotalCount: totalCount,
			Page:       pagination.Page,
			Limit:      pagination.Limit,
			TotalPages: totalPages,
		})
	}
}
