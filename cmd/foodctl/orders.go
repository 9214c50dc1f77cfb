package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"droneFoodOrdering/internal/delivery"
	"droneFoodOrdering/internal/ordering"
	"droneFoodOrdering/models"
)

func (c *cli) orderCmd() *cobra.Command {
	order := &cobra.Command{Use: "order", Short: "Place and follow orders"}
	order.AddCommand(c.placeCmd(), c.listCmd(), c.trackCmd(), c.confirmCmd(), c.cancelCmd(), c.withdrawCmd())
	return order
}

func (c *cli) placeCmd() *cobra.Command {
	var rcpt models.Recipient
	var skipGeocode bool
	cmd := &cobra.Command{
		Use:   "place <restaurant-id>",
		Short: "Order everything in the cart from one restaurant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.app.Cart.Refresh(ctx); err != nil {
				return describe(err)
			}
			group, ok := c.app.Cart.Snapshot().Group(args[0])
			if !ok {
				return fmt.Errorf("nothing from restaurant %s in the cart", args[0])
			}

			req := ordering.PlaceOrderRequest{
				RestaurantID:   group.RestaurantID,
				RestaurantName: group.RestaurantName,
				Lines:          group.Lines,
				Recipient:      rcpt,
			}
			if !skipGeocode && rcpt.Address != "" {
				coords, err := c.app.Client.Geocode(ctx, rcpt.Address)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Could not locate %q (%s); using the default drop-off point.\n", rcpt.Address, describe(err))
				} else {
					req.Coordinates = &coords
				}
			}

			o, err := c.app.Orders.PlaceOrder(ctx, req)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s placed: %d item(s), %s.\n", o.ID, len(o.Items), o.TotalPrice.StringFixed(2))
			return nil
		},
	}
	cmd.Flags().StringVar(&rcpt.Name, "name", "", "recipient name")
	cmd.Flags().StringVar(&rcpt.Phone, "phone", "", "recipient phone")
	cmd.Flags().StringVar(&rcpt.Address, "address", "", "delivery address")
	cmd.Flags().BoolVar(&skipGeocode, "no-geocode", false, "do not look up the address coordinates")
	return cmd
}

func (c *cli) listCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := models.OrderStatus(status)
			if s != "" && !s.Valid() {
				return fmt.Errorf("unknown status %q", status)
			}
			orders, err := c.app.Orders.ListOrders(cmd.Context(), s)
			if err != nil {
				return describe(err)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tRESTAURANT\tSTATUS\tTOTAL\tCREATED")
			for _, o := range orders {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", o.ID, o.RestaurantName, o.Status,
					o.TotalPrice.StringFixed(2), o.CreatedAt.Local().Format(time.DateTime))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only orders with this status")
	return cmd
}

func printProximity(w io.Writer, p delivery.Proximity, err error) {
	switch {
	case err != nil:
		fmt.Fprintf(w, "drone lookup failed: %s\n", describe(err))
	case p.DroneID == "":
		fmt.Fprintln(w, "No drone assigned yet.")
	case p.DistanceMeters == nil:
		fmt.Fprintf(w, "Drone %s: position unknown.\n", p.DroneID)
	case p.CanConfirm:
		fmt.Fprintf(w, "Drone %s is %.0f m away. Run `foodctl order confirm` once you have the food.\n", p.DroneID, *p.DistanceMeters)
	default:
		fmt.Fprintf(w, "Drone %s is %.0f m away.\n", p.DroneID, *p.DistanceMeters)
	}
}

func (c *cli) trackCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "track <order-id>",
		Short: "Show where the drone carrying an order is",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			o, err := c.app.Orders.Find(ctx, args[0])
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s is %s (step %d of %d).\n", o.ID, o.Status, o.Status.Step()+1, len(models.OrderProgression))

			tr := c.app.Tracker(o)
			out := cmd.OutOrStdout()
			if watch {
				err := tr.Watch(ctx, c.app.Config.Delivery.PollInterval, func(p delivery.Proximity, err error) {
					printProximity(out, p, err)
				})
				if err != nil && ctx.Err() != nil {
					return nil
				}
				return err
			}
			p, err := tr.CheckProximity(ctx)
			if errors.Is(err, delivery.ErrNotDelivering) {
				return nil
			}
			printProximity(out, p, err)
			return nil
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "keep polling until the drone is close enough")
	return cmd
}

func (c *cli) confirmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <order-id>",
		Short: "Confirm you received a delivered order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			o, err := c.app.Orders.Find(ctx, args[0])
			if err != nil {
				return describe(err)
			}
			tr := c.app.Tracker(o)
			if _, err := tr.CheckProximity(ctx); err != nil {
				return describe(err)
			}
			if err := tr.ConfirmDelivered(ctx); err != nil {
				if errors.Is(err, delivery.ErrPartialCompletion) {
					return fmt.Errorf("order %s completed, but its drone was not released: %s", o.ID, describe(err))
				}
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s completed. Enjoy your meal.\n", o.ID)
			return nil
		},
	}
}

func (c *cli) cancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Cancel a pending order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			o, err := c.app.Orders.Find(ctx, args[0])
			if err != nil {
				return describe(err)
			}
			if err := c.app.Tracker(o).Cancel(ctx); err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s cancelled.\n", o.ID)
			return nil
		},
	}
}

func (c *cli) withdrawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <order-id>",
		Short: "Delete a pending order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Orders.Withdraw(cmd.Context(), args[0]); err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s deleted.\n", args[0])
			return nil
		},
	}
}
