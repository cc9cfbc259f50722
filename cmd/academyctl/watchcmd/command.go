// Package watchcmd implements the notification subcommands, including
// the long-running watch loop.
package watchcmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/firasabed78/culinary--academy/internal/cmdutils"
	"github.com/firasabed78/culinary--academy/internal/domain"
	"github.com/firasabed78/culinary--academy/internal/notify"
)

func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Read and watch notifications",
	}

	cmd.AddCommand(listCmd(), watchCmd(), markReadCmd())

	return cmd
}

func listCmd() *cobra.Command {
	var unreadOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			app, err := cmdutils.Bootstrap(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			if err := app.RequireAuth(cmd.Context(), "/notifications"); err != nil {
				return err
			}

			page, err := app.API.ListNotifications(cmd.Context(), unreadOnly, domain.PageParams{})
			if err != nil {
				return fmt.Errorf("listing notifications: %w", err)
			}

			for _, n := range page.Items {
				marker := " "
				if !n.IsRead {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d %s: %s\n", marker, n.ID, n.Title, n.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unreadOnly, "unread", false, "only unread notifications")

	return cmd
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Poll for new notifications until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			app, err := cmdutils.Bootstrap(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			if err := app.RequireAuth(cmd.Context(), "/notifications"); err != nil {
				return err
			}

			poller := notify.NewPoller(
				app.API,
				app.Sessions,
				app.Cfg.Notifications.PollInterval,
				app.Cfg.Notifications.SeenTTL,
				func(n domain.Notification) {
					fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", n.CreatedAt.Format("15:04"), n.Title, n.Message)
				},
			)

			return poller.Run(cmd.Context())
		},
	}
}

func markReadCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "mark-read [id]",
		Short: "Mark one or all notifications as read",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			app, err := cmdutils.Bootstrap(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			if err := app.RequireAuth(cmd.Context(), "/notifications"); err != nil {
				return err
			}

			if all {
				if err := app.API.MarkAllNotificationsRead(cmd.Context()); err != nil {
					return fmt.Errorf("marking all notifications read: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "All notifications marked read")
				return nil
			}

			if len(args) != 1 {
				return fmt.Errorf("a notification id or --all is required")
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("parsing notification id: %w", err)
			}
			if err := app.API.MarkNotificationRead(cmd.Context(), id); err != nil {
				return fmt.Errorf("marking notification read: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Notification #%d marked read\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "mark every notification read")

	return cmd
}
