package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dwikikusuma/marki-secure/internal/cart/domain"
	"github.com/dwikikusuma/marki-secure/internal/cart/ui"
)

func newCartCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and change the local cart",
	}
	cmd.AddCommand(
		newCartListCmd(e),
		newCartAddCmd(e),
		newCartRemoveCmd(e),
		newCartClearCmd(e),
		newCartCountCmd(e),
		newCartExistsCmd(e),
	)
	return cmd
}

func newCartListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cart items in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := e.cart.Read(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "cart is empty")
				return nil
			}
			for _, it := range items {
				fmt.Fprintf(out, "%d\t%s\t%s\n", it.ID, it.Name, it.Serial)
			}
			return nil
		},
	}
}

func newCartAddCmd(e *env) *cobra.Command {
	var item domain.CartItem

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart (no-op if already present)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseProductID(args[0])
			if err != nil {
				return err
			}
			item.ID = id

			e.cart.Subscribe(ui.NewBadge(cmd.OutOrStdout()).Listener())
			return e.cart.Add(cmd.Context(), item)
		},
	}
	cmd.Flags().StringVar(&item.Name, "name", "", "display name")
	cmd.Flags().StringVar(&item.Serial, "serial", "", "serial number")
	cmd.Flags().StringVar(&item.Image, "image", "", "image URL")
	cmd.Flags().StringVar(&item.URL, "url", "", "product page URL")
	return cmd
}

func newCartRemoveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseProductID(args[0])
			if err != nil {
				return err
			}
			e.cart.Subscribe(ui.NewBadge(cmd.OutOrStdout()).Listener())
			return e.cart.Remove(cmd.Context(), id)
		},
	}
}

func newCartClearCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e.cart.Subscribe(ui.NewBadge(cmd.OutOrStdout()).Listener())
			return e.cart.Clear(cmd.Context())
		},
	}
}

func newCartCountCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of cart items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := e.cart.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func newCartExistsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <product-id>",
		Short: "Print whether a product is in the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseProductID(args[0])
			if err != nil {
				return err
			}
			ok, err := e.cart.Exists(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}
}
