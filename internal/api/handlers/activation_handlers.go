package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"aegisd/internal/hwid"
	"aegisd/internal/models"
	"aegisd/internal/service"
	"aegisd/internal/store"
	"aegisd/internal/token"
)

type activationRequest struct {
	LK string `json:"lk" binding:"required"`
	HW string `json:"hw" binding:"required"`
}

// ActivateHandler handles POST /activate. It is the one operation allowed to
// consume a license's single hardware slot; everything before the bind is
// validation that must not mutate state.
func ActivateHandler(activations store.ActivationStore, issuer *token.Issuer, logStore store.LogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		handleActivation(c, activations, issuer, logStore, "activate", true)
	}
}

// CheckStatusHandler handles POST /check_status. Identical validation and
// expiry/mismatch checks as activate, but it never performs a first-time
// bind: unbound licenses pass through untouched, and a fresh session token
// is issued on success. Safe to poll.
func CheckStatusHandler(activations store.ActivationStore, issuer *token.Issuer, logStore store.LogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		handleActivation(c, activations, issuer, logStore, "check_status", false)
	}
}

func handleActivation(c *gin.Context, activations store.ActivationStore, issuer *token.Issuer, logStore store.LogStore, action string, bind bool) {
	logEntry := &models.ActivationLog{
		ID:        uuid.New(),
		Action:    action,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		CreatedAt: time.Now(),
	}
	defer func() {
		logEntry.StatusCode = c.Writer.Status()
		service.AsyncLogActivation(c.Request.Context(), logStore, logEntry)
	}()

	var req activationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logEntry.ErrorKind = "missing_parameters"
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_parameters", "message": "lk and hw required"})
		return
	}
	logEntry.LicenseKey = req.LK
	logEntry.HardwareID = req.HW

	// Malformed hardware ids are rejected before any store access.
	if !hwid.Validate(req.HW) {
		logEntry.ErrorKind = "invalid_hw"
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_hw", "message": "Hardware ID format is invalid"})
		return
	}

	binding, err := activations.Lookup(c.Request.Context(), req.LK)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logEntry.ErrorKind = "license_not_found"
			c.JSON(http.StatusNotFound, gin.H{"error": "license_not_found", "message": "License key not found"})
			return
		}
		slog.Error("Failed to look up activation", "error", err, "key", req.LK)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to look up license"})
		return
	}

	if binding.Status == models.BindingStatusRevoked {
		logEntry.ErrorKind = "license_revoked"
		c.JSON(http.StatusForbidden, gin.H{"error": "license_revoked", "message": "This license has been revoked"})
		return
	}
	if binding.Status == models.BindingStatusExpired {
		logEntry.ErrorKind = "license_expired"
		c.JSON(http.StatusForbidden, gin.H{"error": "license_expired", "message": "This license has expired"})
		return
	}

	// Expiry is evaluated lazily at request time and persisted. A nil expiry
	// date is a lifetime license and never expires.
	if binding.Expires() && binding.ExpiryDate.Before(time.Now()) {
		if err := activations.MarkExpired(c.Request.Context(), req.LK); err != nil {
			slog.Error("Failed to mark license expired", "error", err, "key", req.LK)
		}
		logEntry.ErrorKind = "license_expired"
		c.JSON(http.StatusForbidden, gin.H{"error": "license_expired", "message": "This license has expired"})
		return
	}

	if bind {
		// Idempotent when re-activating with the same hardware id; the store
		// serializes racing first-time binds so only one machine wins.
		if err := activations.Bind(c.Request.Context(), req.LK, req.HW); err != nil {
			switch {
			case errors.Is(err, store.ErrHardwareMismatch):
				logEntry.ErrorKind = "hardware_mismatch"
				c.JSON(http.StatusForbidden, gin.H{"error": "hardware_mismatch", "message": "This license is already bound to another machine"})
			case errors.Is(err, store.ErrNotActive):
				logEntry.ErrorKind = "license_expired"
				c.JSON(http.StatusForbidden, gin.H{"error": "license_expired", "message": "This license has expired"})
			case errors.Is(err, store.ErrNotFound):
				logEntry.ErrorKind = "license_not_found"
				c.JSON(http.StatusNotFound, gin.H{"error": "license_not_found", "message": "License key not found"})
			default:
				slog.Error("Failed to bind activation", "error", err, "key", req.LK)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to activate license"})
			}
			return
		}
	} else if binding.HardwareID != nil && *binding.HardwareID != req.HW {
		logEntry.ErrorKind = "hardware_mismatch"
		c.JSON(http.StatusForbidden, gin.H{"error": "hardware_mismatch", "message": "This license is bound to a different machine"})
		return
	}

	sessionToken, err := issuer.Issue(req.LK, binding.Tier)
	if err != nil {
		slog.Error("Failed to issue session token", "error", err, "key", req.LK)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to issue token"})
		return
	}

	response := gin.H{
		"success":     true,
		"tier":        binding.Tier,
		"expiry_date": formatExpiry(binding.ExpiryDate),
		"token":       sessionToken,
	}
	if bind {
		response["message"] = "License activated successfully"
	} else {
		response["message"] = "License is valid"
		response["status"] = binding.Status
	}

	c.JSON(http.StatusOK, response)
}

func formatExpiry(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}
