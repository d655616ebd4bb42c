package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dwikikusuma/marki-secure/internal/cart/domain"
	"github.com/dwikikusuma/marki-secure/internal/product/client"
)

func newLoginCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Remember who checks out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := e.session.SignIn(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", user)
			return nil
		},
	}
}

func newLogoutCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.session.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}

func newWhoamiCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the user checkout would act as",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := e.user(cmd.Context(), "")
			if err != nil {
				return err
			}
			if user == "" {
				return errNotSignedIn
			}
			fmt.Fprintln(cmd.OutOrStdout(), user)
			return nil
		},
	}
}

func newVerifyCmd(e *env) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "verify <product-id>",
		Short: "Show what the gateway reports about a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseProductID(args[0])
			if err != nil {
				return err
			}
			who, err := e.user(cmd.Context(), user)
			if err != nil {
				return err
			}

			v, err := client.New(e.cfg.API.BaseURL, e.cfg.API.PurchaseTimeout).Verify(cmd.Context(), int64(id), who)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "look up as this user instead of the signed-in one")
	return cmd
}
