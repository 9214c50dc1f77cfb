package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"droneFoodOrdering/internal/geocode"
)

func (c *cli) geocodeCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "geocode [address]",
		Short: "Look up the coordinates of an address",
		Long: "Look up the coordinates of an address. With --watch, addresses are read\n" +
			"line by line from stdin and only the one typed last before a pause is resolved.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if !watch {
				if len(args) == 0 {
					return errors.New("an address is required")
				}
				text := strings.Join(args, " ")
				coords, err := c.app.Client.Geocode(ctx, text)
				if err != nil {
					return describe(err)
				}
				fmt.Fprintf(out, "%s: %.6f, %.6f\n", text, coords.Lat, coords.Lng)
				return nil
			}

			d := c.app.Geocoder(func(r geocode.Result) {
				if r.Err != nil {
					fmt.Fprintf(out, "%s: %s\n", r.Text, describe(r.Err))
					return
				}
				fmt.Fprintf(out, "%s: %.6f, %.6f\n", r.Text, r.Coordinates.Lat, r.Coordinates.Lng)
			})
			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				d.Update(ctx, sc.Text())
			}
			d.Drain()
			d.Stop()
			return sc.Err()
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "read addresses from stdin with debouncing")
	return cmd
}
