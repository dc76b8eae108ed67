package service

import (
	"context"
	"log/slog"

	"aegisd/internal/models"
	"aegisd/internal/store"
)

// AsyncLogActivation records an activation attempt without blocking the
// request path. The database write happens on a detached context so a slow
// audit table never delays the response.
func AsyncLogActivation(ctx context.Context, logStore store.LogStore, entry *models.ActivationLog) {
	slog.Info("Activation request",
		"action", entry.Action,
		"key", entry.LicenseKey,
		"hw", entry.HardwareID,
		"error_kind", entry.ErrorKind,
		"ip", entry.IPAddress,
		"status", entry.StatusCode,
	)

	go func() {
		if err := logStore.CreateActivationLog(context.Background(), entry); err != nil {
			slog.Error("Failed to create activation log", "error", err, "key", entry.LicenseKey)
		}
	}()
}
