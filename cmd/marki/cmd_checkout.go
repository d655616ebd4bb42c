package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dwikikusuma/marki-secure/internal/cart/ui"
	checkoutapp "github.com/dwikikusuma/marki-secure/internal/checkout/app"
	"github.com/dwikikusuma/marki-secure/internal/checkout/infra/adapter"
	"github.com/dwikikusuma/marki-secure/internal/checkout/infra/httpapi"
	"github.com/dwikikusuma/marki-secure/pkg/metrics"
)

func newCheckoutCmd(e *env) *cobra.Command {
	var (
		user       string
		metricsOut string
	)

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Purchase every cart item, keeping the ones that fail",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			who, err := e.user(ctx, user)
			if err != nil {
				return err
			}
			if who == "" {
				return errNotSignedIn
			}

			reg := prometheus.NewRegistry()
			svc := checkoutapp.NewService(
				adapter.NewCartStore(e.cart),
				httpapi.NewPurchaser(httpapi.Options{
					BaseURL: e.cfg.API.BaseURL,
					Token:   e.cfg.API.Token,
					Timeout: e.cfg.API.PurchaseTimeout,
				}),
				checkoutapp.WithLogger(e.log),
				checkoutapp.WithRecorder(metrics.NewCheckoutMetrics(reg)),
			)

			out := cmd.OutOrStdout()
			e.cart.Subscribe(ui.NewBadge(out).Listener())

			res, err := svc.Checkout(ctx, who)
			if errors.Is(err, checkoutapp.ErrAuthRequired) {
				return errNotSignedIn
			}
			if res.Attempted() > 0 || err == nil {
				fmt.Fprint(out, checkoutapp.FormatReport(res, e.cfg.API.ReportLimit))
			}

			if metricsOut != "" {
				if werr := metrics.WriteTextfile(reg, metricsOut); werr != nil {
					e.log.Warn("write metrics", slog.String("path", metricsOut), slog.Any("err", werr))
				}
			}
			return err
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "act as this user instead of the signed-in one")
	cmd.Flags().StringVar(&metricsOut, "metrics-out", "", "write checkout metrics to this file (Prometheus text format)")
	return cmd
}
