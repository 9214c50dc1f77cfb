package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"droneFoodOrdering/models"
)

func (c *cli) cartCmd() *cobra.Command {
	cart := &cobra.Command{Use: "cart", Short: "Show and edit your cart"}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the cart grouped by restaurant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.Cart.Refresh(cmd.Context()); err != nil {
				return describe(err)
			}
			return printCart(cmd.OutOrStdout(), c.app.Cart.Snapshot())
		},
	}

	add := &cobra.Command{
		Use:   "add <restaurant-id> <product-id>",
		Short: "Add one unit of a menu item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rest, err := c.app.Client.GetRestaurant(ctx, args[0])
			if err != nil {
				return describe(err)
			}
			menu, err := c.app.Client.Menu(ctx, args[0])
			if err != nil {
				return describe(err)
			}
			for _, it := range menu {
				if it.ID != args[1] {
					continue
				}
				if err := c.app.Cart.Refresh(ctx); err != nil {
					return describe(err)
				}
				if err := c.app.Cart.AddItem(ctx, it, rest.ID, rest.Name); err != nil {
					return describe(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s. %d item(s) in cart.\n", it.Name, c.app.Cart.TotalQuantity())
				return nil
			}
			return fmt.Errorf("no item %s on the menu of %s", args[1], rest.Name)
		},
	}

	step := func(use, short string, delta int) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <line-id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				if err := c.app.Cart.Refresh(ctx); err != nil {
					return describe(err)
				}
				if err := c.app.Cart.UpdateQuantity(ctx, args[0], delta); err != nil {
					return describe(err)
				}
				return printCart(cmd.OutOrStdout(), c.app.Cart.Snapshot())
			},
		}
	}

	rm := &cobra.Command{
		Use:   "rm <line-id>",
		Short: "Remove a line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.app.Cart.Refresh(ctx); err != nil {
				return describe(err)
			}
			if err := c.app.Cart.RemoveItem(ctx, args[0]); err != nil {
				return describe(err)
			}
			return printCart(cmd.OutOrStdout(), c.app.Cart.Snapshot())
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.Cart.ClearAll(cmd.Context()); err != nil {
				return describe(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared.")
			return nil
		},
	}

	cart.AddCommand(show, add, step("inc", "Add one unit to a line", 1), step("dec", "Take one unit off a line", -1), rm, clearCmd)
	return cart
}

func printCart(w io.Writer, cart models.Cart) error {
	if len(cart.Lines) == 0 {
		_, err := fmt.Fprintln(w, "Cart is empty.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, g := range cart.Groups() {
		fmt.Fprintf(tw, "%s (%s)\t\t\t\n", g.RestaurantName, g.RestaurantID)
		for _, l := range g.Lines {
			fmt.Fprintf(tw, "  %s\t%s\tx%d\t%s\n", l.LineID, l.Name, l.Quantity, l.LineTotal().StringFixed(2))
		}
		fmt.Fprintf(tw, "  subtotal\t\t%d\t%s\n", g.Quantity, g.Subtotal.StringFixed(2))
	}
	fmt.Fprintf(tw, "total\t\t%d\t%s\n", cart.TotalQuantity, cart.Subtotal().StringFixed(2))
	return tw.Flush()
}
