// Package authcmd implements the login, logout, register and whoami
// subcommands.
package authcmd

import (
	"fmt"
	"syscall"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/firasabed78/culinary--academy/internal/cmdutils"
	"github.com/firasabed78/culinary--academy/internal/domain"
	"github.com/firasabed78/culinary--academy/internal/guard"
	"github.com/firasabed78/culinary--academy/internal/session"
)

func LoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the academy platform",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			app, err := cmdutils.Bootstrap(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}

			app.Sessions.Resolve(cmd.Context())
			if decision := app.Nav.RequireAnonymous(app.Sessions.Snapshot()); decision.Kind == guard.Redirect {
				identity, _ := app.Sessions.Identity()
				fmt.Fprintf(cmd.OutOrStdout(), "Already signed in as %s, continue at %s\n", identity.Email, decision.RedirectTo)
				return nil
			}

			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				raw, err := term.ReadPassword(int(syscall.Stdin))
				fmt.Fprintln(cmd.OutOrStdout())
				if err != nil {
					return oops.In("login").Wrapf(err, "Failed to read the password")
				}
				password = string(raw)
			}

			if err := app.Sessions.SignIn(cmd.Context(), email, password); err != nil {
				snap := app.Sessions.Snapshot()
				return oops.In("login").Wrapf(err, "%s", snap.ErrMessage)
			}

			identity, err := app.Sessions.Identity()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", identity.FullName(), identity.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func LogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and discard the stored credential",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			app, err := cmdutils.Bootstrap(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}

			app.Sessions.SignOut()
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func RegisterCmd() *cobra.Command {
	var in domain.UserCreate
	var role string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			app, err := cmdutils.Bootstrap(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}

			if role != "" {
				parsed, err := domain.ParseRole(role)
				if err != nil {
					return err
				}
				in.Role = parsed
			}

			if err := app.Sessions.Register(cmd.Context(), in); err != nil {
				snap := app.Sessions.Snapshot()
				return oops.In("register").Wrapf(err, "%s", snap.ErrMessage)
			}

			identity, err := app.Sessions.Identity()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered and signed in as %s\n", identity.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "account password")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&role, "role", "", "account role (student, instructor, admin, staff)")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "phone number")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")

	return cmd
}

func ProfileCmd() *cobra.Command {
	var firstName, lastName, phone, address string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update the signed-in profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			app, err := cmdutils.Bootstrap(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			if err := app.RequireAuth(cmd.Context(), "/profile"); err != nil {
				return err
			}

			var update domain.UserUpdate
			var patch session.IdentityPatch
			if cmd.Flags().Changed("first-name") {
				update.FirstName, patch.FirstName = &firstName, &firstName
			}
			if cmd.Flags().Changed("last-name") {
				update.LastName, patch.LastName = &lastName, &lastName
			}
			if cmd.Flags().Changed("phone") {
				update.Phone, patch.Phone = &phone, &phone
			}
			if cmd.Flags().Changed("address") {
				update.Address, patch.Address = &address, &address
			}

			user, err := app.API.UpdateMe(cmd.Context(), update)
			if err != nil {
				return oops.In("profile").Wrapf(err, "Failed to update the profile")
			}

			// keep the session identity current without a revalidation
			app.Sessions.UpdateIdentity(patch)

			fmt.Fprintf(cmd.OutOrStdout(), "Profile updated for %s\n", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&address, "address", "", "address")

	return cmd
}

func WhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			app, err := cmdutils.Bootstrap(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}

			if err := app.RequireAuth(cmd.Context(), "/profile"); err != nil {
				return err
			}

			identity, err := app.Sessions.Identity()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> role=%s active=%t\n",
				identity.FullName(), identity.Email, identity.Role, identity.IsActive)
			return nil
		},
	}
}
