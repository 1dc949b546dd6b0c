package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dm0114/capacitor-push-prototype/internal/client/feature"
	"github.com/dm0114/capacitor-push-prototype/internal/client/views"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
)

func newDBCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Work with database pages and their views",
	}
	cmd.AddCommand(
		newDBShowCmd(a),
		newDBAddRowCmd(a),
		newDBSetCmd(a),
		newDBDeleteRowCmd(a),
		newDBMoveCardCmd(a),
		newDBMoveEventCmd(a),
		newDBAddViewCmd(a),
		newDBAddPropertyCmd(a),
	)
	return cmd
}

func newDBShowCmd(a *app) *cobra.Command {
	var viewID string

	cmd := &cobra.Command{
		Use:   "show <database-id>",
		Short: "Render the active view of a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			screen, err := feature.NewDatabaseView(a.queries, args[0], a.logger).Load(cmd.Context(), viewID)
			if err != nil {
				return err
			}
			renderScreen(a.out, screen)
			return nil
		},
	}
	cmd.Flags().StringVar(&viewID, "view", "", "view id (default: first view)")
	return cmd
}

func newDBAddRowCmd(a *app) *cobra.Command {
	var sets []string
	var column, viewID string

	cmd := &cobra.Command{
		Use:   "add-row <database-id>",
		Short: "Append a row, or a card to a board column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db := feature.NewDatabaseView(a.queries, args[0], a.logger)
			screen, err := db.Load(cmd.Context(), viewID)
			if err != nil {
				return err
			}

			var row *models.Row
			if column != "" {
				if screen.Board == nil {
					return errNotA("board", screen)
				}
				row, err = db.AddCard(cmd.Context(), screen.Board, column)
			} else {
				create := views.AppendRow()
				if create.Values, err = parseAssignments(screen.Properties, sets); err != nil {
					return err
				}
				row, err = db.Create(cmd.Context(), create)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "created row %s\n", row.ID)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "property=value, repeatable")
	cmd.Flags().StringVar(&column, "column", "", "board column (option id) for the new card")
	cmd.Flags().StringVar(&viewID, "view", "", "view id")
	return cmd
}

func newDBSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <database-id> <row-id> <property> <value>",
		Short: "Edit one cell",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			db := feature.NewDatabaseView(a.queries, args[0], a.logger)
			props, err := a.queries.Properties(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			prop, ok := lookupProperty(props, args[2])
			if !ok {
				return fmt.Errorf("unknown property %q", args[2])
			}
			value, err := parseValue(prop, args[3])
			if err != nil {
				return err
			}
			return db.EditCell(cmd.Context(), args[1], prop.ID, value)
		},
	}
}

func newDBDeleteRowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-row <database-id> <row-id>",
		Short: "Delete a row",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return feature.NewDatabaseView(a.queries, args[0], a.logger).DeleteRow(cmd.Context(), args[1])
		},
	}
}

func newDBMoveCardCmd(a *app) *cobra.Command {
	var viewID string

	cmd := &cobra.Command{
		Use:   "move-card <database-id> <row-id> <column-or-card-id>",
		Short: "Drop a board card onto a column or another card",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			db := feature.NewDatabaseView(a.queries, args[0], a.logger)
			screen, err := db.Load(cmd.Context(), viewID)
			if err != nil {
				return err
			}
			if screen.Board == nil {
				return errNotA("board", screen)
			}

			over := args[2]
			for _, c := range screen.Board.Columns {
				if c.ID == over {
					over = c.DropID()
					break
				}
			}
			moved, err := db.DropCard(cmd.Context(), screen.Board, args[1], over)
			if err != nil {
				return err
			}
			if !moved {
				fmt.Fprintln(a.out, "nothing to move")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&viewID, "view", "", "board view id")
	return cmd
}

func newDBMoveEventCmd(a *app) *cobra.Command {
	var viewID string

	cmd := &cobra.Command{
		Use:   "move-event <database-id> <row-id> <YYYY-MM-DD>",
		Short: "Reschedule a calendar entry",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := time.Parse(views.DateLayout, args[2])
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", args[2], err)
			}
			db := feature.NewDatabaseView(a.queries, args[0], a.logger)
			screen, err := db.Load(cmd.Context(), viewID)
			if err != nil {
				return err
			}
			if screen.Calendar == nil {
				return errNotA("calendar", screen)
			}
			return db.MoveEvent(cmd.Context(), screen.Calendar, args[1], day)
		},
	}
	cmd.Flags().StringVar(&viewID, "view", "", "calendar view id")
	return cmd
}

func newDBAddViewCmd(a *app) *cobra.Command {
	var typ, groupBy, dateProp string

	cmd := &cobra.Command{
		Use:   "add-view <database-id> [name]",
		Short: "Create a saved view",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			config := map[string]any{}
			if groupBy != "" {
				config[models.ConfigGroupByProperty] = groupBy
			}
			if dateProp != "" {
				config[models.ConfigDateProperty] = dateProp
			}
			view, err := feature.NewDatabaseView(a.queries, args[0], a.logger).
				AddView(cmd.Context(), name, models.ViewType(typ), config)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "created view %s (%s)\n", view.ID, view.Type)
			return nil
		},
	}
	cmd.Flags().StringVar(&typ, "type", string(models.ViewTable), "table, board, calendar, gallery or list")
	cmd.Flags().StringVar(&groupBy, "group-by", "", "select property id grouping a board")
	cmd.Flags().StringVar(&dateProp, "date-property", "", "date property id placing calendar entries")
	return cmd
}

func newDBAddPropertyCmd(a *app) *cobra.Command {
	var typ string
	var options []string

	cmd := &cobra.Command{
		Use:   "add-property <database-id> [name]",
		Short: "Add a column to a database",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			var opts []models.SelectOption
			for i, o := range options {
				opts = append(opts, models.SelectOption{ID: "opt-" + strconv.Itoa(i+1), Name: o, Color: "default"})
			}
			prop, err := feature.NewDatabaseView(a.queries, args[0], a.logger).
				AddProperty(cmd.Context(), name, models.PropertyType(typ), opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "created property %s (%s)\n", prop.ID, prop.Type)
			return nil
		},
	}
	cmd.Flags().StringVar(&typ, "type", string(models.PropertyText), "property type")
	cmd.Flags().StringArrayVar(&options, "option", nil, "select option name, repeatable")
	return cmd
}

func errNotA(kind string, screen *feature.Screen) error {
	if screen.Empty != nil {
		return screen.Empty
	}
	return fmt.Errorf("view %q is a %s view, not a %s", screen.Active.Name, screen.Active.Type, kind)
}

// lookupProperty matches by id first, then by name ignoring case.
func lookupProperty(props []models.Property, key string) (models.Property, bool) {
	for _, p := range props {
		if p.ID == key {
			return p, true
		}
	}
	for _, p := range props {
		if strings.EqualFold(p.Name, key) {
			return p, true
		}
	}
	return models.Property{}, false
}

// parseAssignments turns property=value pairs into row values keyed by
// property id.
func parseAssignments(props []models.Property, pairs []string) (map[string]any, error) {
	values := map[string]any{}
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("expected property=value, got %q", pair)
		}
		prop, ok := lookupProperty(props, key)
		if !ok {
			return nil, fmt.Errorf("unknown property %q", key)
		}
		v, err := parseValue(prop, raw)
		if err != nil {
			return nil, err
		}
		values[prop.ID] = v
	}
	return values, nil
}

// parseValue converts command-line text to the value shape of prop. Select
// values may name an option by id or by name.
func parseValue(prop models.Property, raw string) (any, error) {
	switch prop.Type {
	case models.PropertyNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s expects a number: %w", prop.Name, err)
		}
		return n, nil
	case models.PropertyCheckbox:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s expects true or false: %w", prop.Name, err)
		}
		return b, nil
	case models.PropertyDate:
		if _, err := time.Parse(views.DateLayout, raw); err != nil {
			return nil, fmt.Errorf("%s expects YYYY-MM-DD: %w", prop.Name, err)
		}
		return raw, nil
	case models.PropertySelect:
		for _, o := range prop.Options {
			if o.ID == raw || strings.EqualFold(o.Name, raw) {
				return o.ID, nil
			}
		}
		return nil, errors.New(prop.Name + " has no option " + strconv.Quote(raw))
	}
	return raw, nil
}
