package settings

import (
	"context"
	"log/slog"
)

// Notifier is the platform notification scheduler. Real implementations
// live in the mobile shell; the CLI uses LogNotifier.
type Notifier interface {
	// RequestPermission asks the user to allow notifications.
	RequestPermission(ctx context.Context) (bool, error)

	// Schedule replaces the pending reminder with cfg, or cancels it when
	// cfg is disabled.
	Schedule(ctx context.Context, cfg ReminderConfig) error
}

// LogNotifier grants permission and only logs schedules.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) RequestPermission(context.Context) (bool, error) {
	return true, nil
}

func (n LogNotifier) Schedule(_ context.Context, cfg ReminderConfig) error {
	if !cfg.Enabled {
		n.Logger.Info("reminder cancelled")
		return nil
	}
	n.Logger.Info("reminder scheduled", "hour", cfg.Hour, "minute", cfg.Minute, "days", cfg.Days)
	return nil
}
