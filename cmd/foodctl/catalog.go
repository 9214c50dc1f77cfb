package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *cli) restaurantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restaurants [query]",
		Short: "List restaurants, optionally filtered by name",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := c.app.Restaurants(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return describe(err)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tRATING\tOPEN")
			for _, r := range rs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", r.ID, r.Name, r.Rating.StringFixed(1), r.Active)
			}
			return tw.Flush()
		},
	}
}

func (c *cli) menuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu <restaurant-id>",
		Short: "Show a restaurant's menu",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := c.app.Client.Menu(cmd.Context(), args[0])
			if err != nil {
				return describe(err)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPRICE")
			for _, it := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", it.ID, it.Name, it.Price.StringFixed(2))
			}
			return tw.Flush()
		},
	}
}
