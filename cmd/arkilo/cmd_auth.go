package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dm0114/capacitor-push-prototype/internal/client/feature"
)

func newLoginCmd(a *app) *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := feature.NewAuth(a.queries, a.auth, a.logger).Login(cmd.Context(), provider)
			if err != nil {
				return err
			}
			if err := a.store.SaveToken(cmd.Context(), a.api.Token()); err != nil {
				return err
			}
			if user != nil {
				fmt.Fprintf(a.out, "signed in as %s <%s>\n", user.Name, user.Email)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "google", "identity provider")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := feature.NewAuth(a.queries, a.auth, a.logger).Logout(cmd.Context())
			if saveErr := a.store.SaveToken(cmd.Context(), ""); saveErr != nil {
				return saveErr
			}
			if err != nil {
				a.logger.Warn("server logout failed", "error", err)
			}
			fmt.Fprintln(a.out, "signed out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			decision, err := feature.NewAuth(a.queries, a.auth, a.logger).Gate(cmd.Context())
			if err != nil {
				return err
			}
			if !decision.Allow {
				fmt.Fprintln(a.out, "not signed in; run `arkilo login`")
				return nil
			}
			fmt.Fprintf(a.out, "%s <%s> (%s)\n", decision.User.Name, decision.User.Email, decision.User.ID)
			return nil
		},
	}
}
