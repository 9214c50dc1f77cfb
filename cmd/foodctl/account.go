package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"droneFoodOrdering/internal/remote"
	"droneFoodOrdering/internal/session"
	"droneFoodOrdering/models"
)

// describe turns backend errors into what a user should read.
func describe(err error) error {
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) || errors.Is(err, remote.ErrTransport) {
		return errors.New(remote.UserMessage(err))
	}
	if errors.Is(err, session.ErrNoSession) {
		return errors.New("not signed in; run `foodctl login`")
	}
	return err
}

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and load your cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.app.Login(cmd.Context(), email, password)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s). %d item(s) in cart.\n",
				s.User.Email, s.User.UID, c.app.Cart.TotalQuantity())
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the local cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := session.Require(cmd.Context(), c.app.Sessions)
			if err != nil {
				return describe(err)
			}
			u := s.User
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\nuid:     %s\nphone:   %s\naddress: %s\n", u.Name, u.Email, u.UID, u.Phone, u.Address)
			return nil
		},
	}
}

func (c *cli) registerCmd() *cobra.Command {
	var r models.Registration
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := c.app.Register(cmd.Context(), r)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s). Sign in with `foodctl login`.\n", u.Email, u.UID)
			return nil
		},
	}
	cmd.Flags().StringVar(&r.Name, "name", "", "full name")
	cmd.Flags().StringVar(&r.Email, "email", "", "email")
	cmd.Flags().StringVar(&r.Password, "password", "", "password, at least 6 characters")
	cmd.Flags().StringVar(&r.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&r.Address, "address", "", "delivery address")
	return cmd
}

func (c *cli) profileCmd() *cobra.Command {
	profile := &cobra.Command{Use: "profile", Short: "Manage your profile"}
	var p models.ProfileUpdate
	update := &cobra.Command{
		Use:   "update",
		Short: "Change name, phone and address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := c.app.UpdateProfile(cmd.Context(), p)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile saved: %s, %s, %s\n", u.Name, u.Phone, u.Address)
			return nil
		},
	}
	update.Flags().StringVar(&p.Name, "name", "", "full name")
	update.Flags().StringVar(&p.Phone, "phone", "", "phone number")
	update.Flags().StringVar(&p.Address, "address", "", "delivery address")
	profile.AddCommand(update)
	return profile
}

func (c *cli) passwordCmd() *cobra.Command {
	password := &cobra.Command{Use: "password", Short: "Manage your password"}
	var pc models.PasswordChange
	change := &cobra.Command{
		Use:   "change",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.ChangePassword(cmd.Context(), pc); err != nil {
				return describe(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password changed.")
			return nil
		},
	}
	change.Flags().StringVar(&pc.Old, "old", "", "current password")
	change.Flags().StringVar(&pc.New, "new", "", "new password")
	change.Flags().StringVar(&pc.Confirm, "confirm", "", "new password again")
	password.AddCommand(change)
	return password
}
