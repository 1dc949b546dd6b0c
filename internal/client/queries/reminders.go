package queries

import (
	"context"
	"errors"
	"fmt"

	"github.com/dm0114/capacitor-push-prototype/internal/client/querycache"
	"github.com/dm0114/capacitor-push-prototype/internal/client/settings"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
	svc "github.com/dm0114/capacitor-push-prototype/internal/domain/services/workspace"
)

// ErrPermissionDenied is returned when enabling reminders and the platform
// refuses notification permission.
var ErrPermissionDenied = errors.New("notification permission denied")

// ReminderStore persists the reminder configuration locally.
type ReminderStore interface {
	LoadReminder(ctx context.Context) (settings.ReminderConfig, error)
	SaveReminder(ctx context.Context, cfg settings.ReminderConfig) error
}

// Reminders manages the local reminder configuration through the cache.
type Reminders struct {
	queries  *Client
	store    ReminderStore
	notifier settings.Notifier
}

// NewReminders binds the store and notifier to the query client.
func (c *Client) NewReminders(store ReminderStore, notifier settings.Notifier) *Reminders {
	return &Reminders{queries: c, store: store, notifier: notifier}
}

// Config reads the configuration. Local data never goes stale by age.
func (r *Reminders) Config(ctx context.Context) (settings.ReminderConfig, error) {
	opts := r.queries.cache.Defaults()
	opts.StaleTime = querycache.StaleForever
	opts.Retry = 0
	return querycache.Fetch(ctx, r.queries.cache, ReminderConfigKey, opts, r.store.LoadReminder)
}

// Update merges patch into the stored configuration, asks for permission
// when reminders get switched on, saves and reschedules.
func (r *Reminders) Update(ctx context.Context, patch settings.ReminderPatch) (settings.ReminderConfig, error) {
	current, err := r.store.LoadReminder(ctx)
	if err != nil {
		return current, err
	}
	updated := patch.Apply(current)

	if updated.Enabled && !current.Enabled {
		granted, err := r.notifier.RequestPermission(ctx)
		if err != nil {
			return current, fmt.Errorf("request notification permission: %w", err)
		}
		if !granted {
			return current, ErrPermissionDenied
		}
	}

	if err := r.store.SaveReminder(ctx, updated); err != nil {
		return current, err
	}
	// The saved configuration is cached even when scheduling fails.
	r.queries.cache.SetData(ReminderConfigKey, updated)

	if err := r.notifier.Schedule(ctx, updated); err != nil {
		return updated, fmt.Errorf("schedule reminder: %w", err)
	}
	return updated, nil
}

// Toggle flips Enabled.
func (r *Reminders) Toggle(ctx context.Context) (settings.ReminderConfig, error) {
	current, err := r.store.LoadReminder(ctx)
	if err != nil {
		return current, err
	}
	enabled := !current.Enabled
	return r.Update(ctx, settings.ReminderPatch{Enabled: &enabled})
}

// CreateReflectionPage creates today's reflection page at the root.
func (r *Reminders) CreateReflectionPage(ctx context.Context) (*models.Page, error) {
	title := r.queries.now().Format("2006-01-02") + " Reflection"
	icon := "📝"
	return r.queries.CreatePage(ctx, &svc.CreatePageRequest{
		Title: &title,
		Icon:  &icon,
	})
}
