package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dm0114/capacitor-push-prototype/internal/client/feature"
	"github.com/dm0114/capacitor-push-prototype/internal/client/gateway"
)

func newTreeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the page hierarchy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := feature.NewPageTree(a.queries, a.pages, a.logger).Load(cmd.Context())
			if err != nil {
				return err
			}
			renderTree(a.out, view.Tree)
			if len(view.Databases) > 0 {
				fmt.Fprintln(a.out)
				fmt.Fprintln(a.out, "Databases:")
				for _, db := range view.Databases {
					fmt.Fprintf(a.out, "  %s  %s\n", db.ID, pageLabel(db))
				}
			}
			return nil
		},
	}
}

func newPageCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page",
		Short: "Read and edit pages",
	}
	cmd.AddCommand(
		newPageShowCmd(a),
		newPageCreateCmd(a),
		newPageRenameCmd(a),
		newPageMoveCmd(a),
		newPageDeleteCmd(a),
	)
	return cmd
}

func newPageShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <page-id>",
		Short: "Print a page and its blocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.queries.GetPage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			blocks, err := a.queries.GetBlocks(cmd.Context(), page.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, pageLabel(page))
			fmt.Fprintln(a.out)
			renderBlocks(a.out, blocks)
			return nil
		},
	}
}

func newPageCreateCmd(a *app) *cobra.Command {
	var parent string
	var database bool

	cmd := &cobra.Command{
		Use:   "create [title]",
		Short: "Create a page, optionally under a parent",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := feature.NewPage{IsDatabase: database}
			if len(args) == 1 {
				p.Title = args[0]
			}
			if parent != "" {
				p.ParentID = &parent
			}
			page, err := feature.NewPageTree(a.queries, a.pages, a.logger).CreatePage(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "created %s\n", page.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "parent page id")
	cmd.Flags().BoolVar(&database, "database", false, "create a database page")
	return cmd
}

func newPageRenameCmd(a *app) *cobra.Command {
	var icon string

	cmd := &cobra.Command{
		Use:   "rename <page-id> <title>",
		Short: "Change a page title",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			update := gateway.PageUpdate{Title: &args[1]}
			if cmd.Flags().Changed("icon") {
				update.Icon = &icon
			}
			page, err := a.queries.UpdatePage(cmd.Context(), args[0], update)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "renamed %s to %s\n", page.ID, pageLabel(*page))
			return nil
		},
	}
	cmd.Flags().StringVar(&icon, "icon", "", "emoji icon")
	return cmd
}

func newPageMoveCmd(a *app) *cobra.Command {
	var parent string
	var root bool

	cmd := &cobra.Command{
		Use:   "move <page-id>",
		Short: "Move a page under another page or to the root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var target *string
			switch {
			case root && parent != "":
				return errors.New("--parent and --root are exclusive")
			case root:
			case parent != "":
				target = &parent
			default:
				return errors.New("one of --parent or --root is required")
			}

			tree := feature.NewPageTree(a.queries, a.pages, a.logger)
			tree.BeginDrag(args[0])
			page, err := tree.Drop(cmd.Context(), target)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "moved %s\n", page.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "new parent page id")
	cmd.Flags().BoolVar(&root, "root", false, "move to the top level")
	return cmd
}

func newPageDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <page-id>",
		Short: "Archive a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := feature.NewPageTree(a.queries, a.pages, a.logger).DeletePage(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "archived %s\n", args[0])
			return nil
		},
	}
}
