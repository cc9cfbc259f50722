// Package enrollcmd implements the enrollment and payment subcommands.
package enrollcmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/firasabed78/culinary--academy/internal/cmdutils"
	"github.com/firasabed78/culinary--academy/internal/domain"
)

func EnrollmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrollments",
		Short: "Manage your enrollments",
	}

	cmd.AddCommand(listEnrollmentsCmd(), cancelEnrollmentCmd())

	return cmd
}

func listEnrollmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your enrollments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			app, err := cmdutils.Bootstrap(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			if err := app.RequireAuth(cmd.Context(), "/enrollments"); err != nil {
				return err
			}

			page, err := app.API.ListMyEnrollments(cmd.Context(), domain.PageParams{})
			if err != nil {
				return fmt.Errorf("listing enrollments: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCOURSE\tSTATUS\tSINCE")
			for _, e := range page.Items {
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", e.ID, e.CourseID, e.Status, e.CreatedAt.Format("2006-01-02"))
			}
			return w.Flush()
		},
	}
}

func cancelEnrollmentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel an enrollment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("parsing enrollment id: %w", err)
			}

			cfgPath, _ := cmd.Flags().GetString("config")
			app, err := cmdutils.Bootstrap(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			if err := app.RequireAuth(cmd.Context(), "/enrollments/"+args[0]); err != nil {
				return err
			}

			if err := app.API.CancelEnrollment(cmd.Context(), id); err != nil {
				return fmt.Errorf("cancelling enrollment: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Enrollment #%d cancelled\n", id)
			return nil
		},
	}
}

func PaymentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "Manage your payments",
	}

	cmd.AddCommand(listPaymentsCmd(), createPaymentCmd())

	return cmd
}

func listPaymentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your payments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			app, err := cmdutils.Bootstrap(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			if err := app.RequireAuth(cmd.Context(), "/payments"); err != nil {
				return err
			}

			page, err := app.API.ListPayments(cmd.Context(), domain.PageParams{})
			if err != nil {
				return fmt.Errorf("listing payments: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tENROLLMENT\tAMOUNT\tSTATUS\tMETHOD")
			for _, p := range page.Items {
				fmt.Fprintf(w, "%d\t%d\t%.2f\t%s\t%s\n", p.ID, p.EnrollmentID, p.Amount, p.Status, p.PaymentMethod)
			}
			return w.Flush()
		},
	}
}

func createPaymentCmd() *cobra.Command {
	var in domain.PaymentCreate

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Pay for an enrollment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			app, err := cmdutils.Bootstrap(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			if err := app.RequireAuth(cmd.Context(), "/payments/new"); err != nil {
				return err
			}

			payment, err := app.API.CreatePayment(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("creating payment: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Payment #%d (%.2f) is %s\n", payment.ID, payment.Amount, payment.Status)
			return nil
		},
	}

	cmd.Flags().IntVar(&in.EnrollmentID, "enrollment", 0, "enrollment id")
	cmd.Flags().Float64Var(&in.Amount, "amount", 0, "amount to pay")
	cmd.Flags().StringVar(&in.PaymentMethod, "method", "card", "payment method")
	_ = cmd.MarkFlagRequired("enrollment")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
