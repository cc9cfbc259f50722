// Package coursescmd implements the course browsing and enrollment
// subcommands.
package coursescmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/firasabed78/culinary--academy/internal/cmdutils"
	"github.com/firasabed78/culinary--academy/internal/domain"
)

func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "Browse and manage courses",
	}

	cmd.AddCommand(listCmd(), getCmd(), enrollCmd(), schedulesCmd())

	return cmd
}

func listCmd() *cobra.Command {
	var skip, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List courses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			app, err := cmdutils.Bootstrap(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			if err := app.RequireAuth(cmd.Context(), "/courses"); err != nil {
				return err
			}

			page, err := app.API.ListCourses(cmd.Context(), domain.PageParams{Skip: skip, Limit: limit})
			if err != nil {
				return fmt.Errorf("listing courses: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tPRICE\tCAPACITY\tSTART")
			for _, c := range page.Items {
				fmt.Fprintf(w, "%d\t%s\t%.2f\t%d\t%s\n",
					c.ID, c.Title, c.Price, c.Capacity, c.StartDate.Format("2006-01-02"))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d courses\n", len(page.Items), page.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "number of courses to skip")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of courses")

	return cmd
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("parsing course id: %w", err)
			}

			cfgPath, _ := cmd.Flags().GetString("config")
			app, err := cmdutils.Bootstrap(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			if err := app.RequireAuth(cmd.Context(), "/courses/"+args[0]); err != nil {
				return err
			}

			course, err := app.API.GetCourse(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("getting course: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (#%d)\n%s\nPrice: %.2f, capacity: %d\n%s to %s\n",
				course.Title, course.ID, course.Description, course.Price, course.Capacity,
				course.StartDate.Format("2006-01-02"), course.EndDate.Format("2006-01-02"))
			return nil
		},
	}
}

func enrollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enroll <id>",
		Short: "Enroll in a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("parsing course id: %w", err)
			}

			cfgPath, _ := cmd.Flags().GetString("config")
			app, err := cmdutils.Bootstrap(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			if err := app.RequireAuth(cmd.Context(), "/courses/"+args[0]); err != nil {
				return err
			}

			identity, err := app.Sessions.Identity()
			if err != nil {
				return err
			}

			enrollment, err := app.API.CreateEnrollment(cmd.Context(), domain.EnrollmentCreate{
				StudentID: identity.ID,
				CourseID:  id,
			})
			if err != nil {
				return fmt.Errorf("enrolling: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Enrollment #%d created with status %s\n", enrollment.ID, enrollment.Status)
			return nil
		},
	}
}

func schedulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule <id>",
		Short: "Show the weekly schedule of a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("parsing course id: %w", err)
			}

			cfgPath, _ := cmd.Flags().GetString("config")
			app, err := cmdutils.Bootstrap(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			if err := app.RequireAuth(cmd.Context(), "/courses/"+args[0]+"/schedule"); err != nil {
				return err
			}

			schedules, err := app.API.ListCourseSchedules(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("listing schedules: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DAY\tFROM\tTO\tLOCATION")
			for _, s := range schedules {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.DayOfWeek, s.StartTime, s.EndTime, s.Location)
			}
			return w.Flush()
		},
	}
}
