package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dm0114/capacitor-push-prototype/internal/client/queries"
	"github.com/dm0114/capacitor-push-prototype/internal/client/settings"
)

func (a *app) reminders() *queries.Reminders {
	return a.queries.NewReminders(a.store, settings.LogNotifier{Logger: a.logger})
}

func newReminderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminder",
		Short: "Configure the daily reflection reminder",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the reminder settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := a.reminders().Config(cmd.Context())
				if err != nil {
					return err
				}
				renderReminder(a.out, cfg)
				return nil
			},
		},
		&cobra.Command{
			Use:   "toggle",
			Short: "Switch the reminder on or off",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := a.reminders().Toggle(cmd.Context())
				if err != nil {
					return err
				}
				renderReminder(a.out, cfg)
				return nil
			},
		},
		newReminderSetCmd(a),
	)
	return cmd
}

func newReminderSetCmd(a *app) *cobra.Command {
	var (
		hour, minute int
		days         []int
		title, body  string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change the reminder time, days or text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch settings.ReminderPatch
			flags := cmd.Flags()
			if flags.Changed("hour") {
				patch.Hour = &hour
			}
			if flags.Changed("minute") {
				patch.Minute = &minute
			}
			if flags.Changed("days") {
				patch.Days = days
			}
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("body") {
				patch.Body = &body
			}
			cfg, err := a.reminders().Update(cmd.Context(), patch)
			if err != nil {
				return err
			}
			renderReminder(a.out, cfg)
			return nil
		},
	}
	cmd.Flags().IntVar(&hour, "hour", 21, "hour of day, 0-23")
	cmd.Flags().IntVar(&minute, "minute", 0, "minute, 0-59")
	cmd.Flags().IntSliceVar(&days, "days", nil, "weekdays, 0=Sunday..6=Saturday")
	cmd.Flags().StringVar(&title, "title", "", "notification title")
	cmd.Flags().StringVar(&body, "body", "", "notification body")
	return cmd
}

func newReflectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reflect",
		Short: "Create today's reflection page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.reminders().CreateReflectionPage(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "created %s  %s\n", page.ID, pageLabel(*page))
			return nil
		},
	}
}
