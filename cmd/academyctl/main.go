package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	slogctx "github.com/veqryn/slog-context"

	"github.com/firasabed78/culinary--academy/cmd/academyctl/authcmd"
	"github.com/firasabed78/culinary--academy/cmd/academyctl/coursescmd"
	"github.com/firasabed78/culinary--academy/cmd/academyctl/enrollcmd"
	"github.com/firasabed78/culinary--academy/cmd/academyctl/watchcmd"
)

// BuildInfo will be set by the build system
var BuildInfo = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Academy Client Version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), BuildInfo)
	},
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "academyctl",
		Short: "Culinary Academy client",
		Long:  "Terminal client for the culinary academy course-enrollment platform.",
	}

	cmd.PersistentFlags().String("config", "", "path to the config file")

	cmd.AddCommand(
		versionCmd,
		authcmd.LoginCmd(),
		authcmd.LogoutCmd(),
		authcmd.RegisterCmd(),
		authcmd.WhoamiCmd(),
		authcmd.ProfileCmd(),
		coursescmd.Cmd(),
		enrollcmd.EnrollmentsCmd(),
		enrollcmd.PaymentsCmd(),
		watchcmd.Cmd(),
	)

	return cmd
}

func execute() error {
	ctx, cancelOnSignal := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancelOnSignal()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		slogctx.Error(ctx, "Command failed", "error", err)
		return err
	}

	return nil
}

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}
