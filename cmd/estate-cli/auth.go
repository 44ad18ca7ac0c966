// cmd/estate-cli/auth.go
package main

import (
	"fmt"

	"estate-client/internal/models"
	"estate-client/internal/session"

	"github.com/spf13/cobra"
)

func (c *cli) printSession(st session.State) {
	role := string(st.User.Role)
	if st.IsDemo() {
		role += ", demo (read-only)"
	}
	fmt.Fprintf(c.out, "Signed in as %s <%s> [%s]\n", st.User.Username, st.User.Email, role)
}

func (c *cli) loginCommand() *cobra.Command {
	var req models.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := c.app.API.Login(cmd.Context(), req)
			if err != nil {
				return err
			}
			c.persistSession()
			return c.emit(st.User, func() { c.printSession(st) })
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	return cmd
}

func (c *cli) signupCommand() *cobra.Command {
	var req models.SignupRequest
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := c.app.API.Signup(cmd.Context(), req)
			if err != nil {
				return err
			}
			c.persistSession()
			return c.emit(st.User, func() { c.printSession(st) })
		},
	}
	cmd.Flags().StringVar(&req.Username, "username", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	return cmd
}

func (c *cli) demoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Sign in as the read-only demo reviewer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := c.app.API.DemoLogin(cmd.Context())
			if err != nil {
				return err
			}
			c.persistSession()
			return c.emit(st.User, func() { c.printSession(st) })
		},
	}
}

func (c *cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the saved session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !c.app.Session.IsAuthenticated() {
				fmt.Fprintln(c.out, "Not signed in.")
				return nil
			}
			err := c.app.API.Logout(cmd.Context())
			c.persistSession()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Signed out.")
			return nil
		},
	}
}

func (c *cli) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(*cobra.Command, []string) error {
			st, ok := c.app.Session.Current()
			if !ok {
				fmt.Fprintln(c.out, "Not signed in.")
				return nil
			}
			return c.emit(st.User, func() {
				c.printSession(st)
				if !st.ExpiresAt.IsZero() {
					fmt.Fprintf(c.out, "Session expires %s\n", st.ExpiresAt.Local().Format("2006-01-02 15:04"))
				}
			})
		},
	}
}

func (c *cli) profileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your profile",
	}

	var upd models.ProfileUpdate
	update := &cobra.Command{
		Use:   "update",
		Short: "Change username, email, avatar or password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := c.app.API.UpdateProfile(cmd.Context(), upd)
			if err != nil {
				return err
			}
			return c.emit(u, func() { fmt.Fprintf(c.out, "Profile updated: %s <%s>\n", u.Username, u.Email) })
		},
	}
	update.Flags().StringVar(&upd.Username, "username", "", "new display name")
	update.Flags().StringVar(&upd.Email, "email", "", "new email")
	update.Flags().StringVar(&upd.Avatar, "avatar", "", "avatar image URL")
	update.Flags().StringVar(&upd.Password, "password", "", "new password")
	update.Flags().StringVar(&upd.ConfirmPassword, "confirm-password", "", "repeat the new password")

	var yes bool
	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete your account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete the account without --yes")
			}
			if err := c.app.API.DeleteAccount(cmd.Context()); err != nil {
				return err
			}
			c.persistSession()
			fmt.Fprintln(c.out, "Account deleted.")
			return nil
		},
	}
	del.Flags().BoolVar(&yes, "yes", false, "confirm deletion")

	listings := &cobra.Command{
		Use:   "listings",
		Short: "List your own listings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := c.app.Session.RequireUser("user.listings")
			if err != nil {
				return err
			}
			ls, err := c.app.API.UserListings(cmd.Context(), st.User.ID)
			if err != nil {
				return err
			}
			return c.emit(ls, func() { c.printListings(ls) })
		},
	}

	cmd.AddCommand(update, del, listings)
	return cmd
}
