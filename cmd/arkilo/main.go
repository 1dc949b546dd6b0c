// Command arkilo is a terminal client for an Arkilo workspace.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dm0114/capacitor-push-prototype/internal/client/gateway"
	"github.com/dm0114/capacitor-push-prototype/internal/client/queries"
	"github.com/dm0114/capacitor-push-prototype/internal/client/querycache"
	"github.com/dm0114/capacitor-push-prototype/internal/client/settings"
	"github.com/dm0114/capacitor-push-prototype/internal/client/uistate"
	"github.com/dm0114/capacitor-push-prototype/internal/config"
)

// app holds what every command needs once the root pre-run has opened it.
type app struct {
	cfg     *config.ClientConfig
	logger  *slog.Logger
	store   *settings.Store
	api     *gateway.Client
	queries *queries.Client
	pages   *uistate.PageStore
	auth    *uistate.AuthStore
	out     io.Writer
}

func (a *app) open(ctx context.Context) error {
	_ = godotenv.Load()
	a.cfg = config.LoadClient()
	a.logger = config.NewLogger(os.Stderr, false, a.cfg.Debug)

	store, err := settings.Open(settings.Config{Path: a.cfg.DataDir, Logger: a.logger})
	if err != nil {
		return err
	}
	a.store = store

	token := a.cfg.Token
	if token == "" {
		if token, err = store.LoadToken(ctx); err != nil {
			return err
		}
	}

	a.api = gateway.New(a.cfg.APIURL, a.logger, gateway.WithToken(token))
	a.queries = queries.New(querycache.New(a.logger), a.api, a.logger)
	a.pages = uistate.NewPageStore()
	a.auth = uistate.NewAuthStore()
	return nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("close settings store", "error", err)
		}
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "arkilo",
		Short:         "Browse and edit an Arkilo workspace from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.out = cmd.OutOrStdout()
			return a.open(cmd.Context())
		},
	}

	root.AddCommand(
		newTreeCmd(a),
		newPageCmd(a),
		newDBCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newReminderCmd(a),
		newReflectCmd(a),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", gateway.Message(err))
		os.Exit(1)
	}
}
