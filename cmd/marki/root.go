package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	cartapp "github.com/dwikikusuma/marki-secure/internal/cart/app"
	"github.com/dwikikusuma/marki-secure/internal/session"
	"github.com/dwikikusuma/marki-secure/pkg/config"
	"github.com/dwikikusuma/marki-secure/pkg/logger"
)

// env is what every subcommand works against, built once per invocation.
type env struct {
	cfg     config.Config
	log     *slog.Logger
	backend cartapp.Backend
	cart    *cartapp.Store
	session *session.Store
	close   func() error
}

func newRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:          "marki",
		Short:        "Cart and batch checkout for MARKI Secure products",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd.Context(), cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if e.close == nil {
				return nil
			}
			return e.close()
		},
	}

	root.AddCommand(
		newCartCmd(e),
		newCheckoutCmd(e),
		newLoginCmd(e),
		newLogoutCmd(e),
		newWhoamiCmd(e),
		newVerifyCmd(e),
	)
	return root
}

func (e *env) setup(ctx context.Context, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.log = logger.New(logger.Options{
		Service: "marki",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
		Output:  cmd.ErrOrStderr(),
	})

	backend, closeFn, err := openBackend(ctx, cfg.Cart)
	if err != nil {
		return err
	}
	e.backend = backend
	e.close = closeFn
	e.cart = cartapp.NewStore(backend, cfg.Cart.Key, e.log)
	e.session = session.NewStore(backend)
	return nil
}

// user resolves who acts: the --user flag, then MARKI_USER, then the stored session.
func (e *env) user(ctx context.Context, flag string) (string, error) {
	override := flag
	if override == "" {
		override = e.cfg.API.User
	}
	return e.session.Resolve(ctx, override)
}

var errNotSignedIn = errors.New("not signed in; run `marki login <email>` or pass --user")
