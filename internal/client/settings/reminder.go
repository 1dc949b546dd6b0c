package settings

import (
	"context"
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/dm0114/capacitor-push-prototype/internal/domain"
)

// ReminderKey is the single storage key of the reminder configuration.
const ReminderKey = "arkilo_reminder_config"

// ReminderConfig is the daily reflection reminder. Days use 0=Sunday..6=Saturday.
type ReminderConfig struct {
	Enabled bool   `json:"enabled"`
	Hour    int    `json:"hour"`
	Minute  int    `json:"minute"`
	Days    []int  `json:"days"`
	Title   string `json:"title"`
	Body    string `json:"body"`
}

// DefaultReminderConfig is disabled, weekdays at 21:00.
func DefaultReminderConfig() ReminderConfig {
	return ReminderConfig{
		Enabled: false,
		Hour:    21,
		Minute:  0,
		Days:    []int{1, 2, 3, 4, 5},
		Title:   "How was your day?",
		Body:    "Take a moment to look back on today",
	}
}

// Validate checks the time and weekday ranges.
func (c ReminderConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Hour, validation.Min(0), validation.Max(23)),
		validation.Field(&c.Minute, validation.Min(0), validation.Max(59)),
		validation.Field(&c.Days, validation.Each(validation.Min(0), validation.Max(6))),
	)
}

// ReminderPatch is a partial update; nil fields keep their value.
type ReminderPatch struct {
	Enabled *bool
	Hour    *int
	Minute  *int
	Days    []int
	Title   *string
	Body    *string
}

// Apply returns cfg with the patch written over it.
func (p ReminderPatch) Apply(cfg ReminderConfig) ReminderConfig {
	if p.Enabled != nil {
		cfg.Enabled = *p.Enabled
	}
	if p.Hour != nil {
		cfg.Hour = *p.Hour
	}
	if p.Minute != nil {
		cfg.Minute = *p.Minute
	}
	if p.Days != nil {
		cfg.Days = append([]int(nil), p.Days...)
	}
	if p.Title != nil {
		cfg.Title = *p.Title
	}
	if p.Body != nil {
		cfg.Body = *p.Body
	}
	return cfg
}

// LoadReminder returns the stored configuration laid over the defaults.
// A missing or unreadable blob yields the defaults.
func (s *Store) LoadReminder(ctx context.Context) (ReminderConfig, error) {
	cfg := DefaultReminderConfig()
	raw, ok, err := s.Get(ctx, ReminderKey)
	if err != nil {
		return cfg, err
	}
	if !ok {
		return cfg, nil
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		s.logger.Warn("stored reminder config unreadable, using defaults", "error", err)
		return DefaultReminderConfig(), nil
	}
	return cfg, nil
}

// SaveReminder validates and stores the configuration.
func (s *Store) SaveReminder(ctx context.Context, cfg ReminderConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode reminder config: %w", err)
	}
	return s.Set(ctx, ReminderKey, raw)
}
