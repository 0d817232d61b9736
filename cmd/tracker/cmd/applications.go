package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/walletkun/jobapp-tracker/internal/dtos"
	"github.com/walletkun/jobapp-tracker/internal/models"
	"github.com/walletkun/jobapp-tracker/internal/services"
)

func newListCmd(a *app) *cobra.Command {
	var search string
	c := &cobra.Command{
		Use:   "list",
		Short: "List all applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apps, err := a.tracker.FetchApplications(cmd.Context())
			if err != nil {
				return err
			}
			renderApplications(cmd.OutOrStdout(), services.FilterApplications(apps, search))
			return nil
		},
	}
	c.Flags().StringVar(&search, "search", "", "only show applications matching this text")
	return c
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			application, err := a.api.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			renderApplications(cmd.OutOrStdout(), []models.Application{*application})
			return nil
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	var form dtos.ApplicationForm
	c := &cobra.Command{
		Use:   "add",
		Short: "Add a new application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := a.tracker.Submit(cmd.Context(), form)
			if err != nil && created == nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added application %d: %s at %s (%s, %d%%)\n",
				created.ID, created.Position, created.Company, created.Status, created.Progress)
			return err
		},
	}
	c.Flags().StringVar(&form.Company, "company", "", "company name (required)")
	c.Flags().StringVar(&form.Position, "position", "", "position title (required)")
	c.Flags().StringVar(&form.Status, "status", string(models.StatusApplied), "initial status")
	_ = c.MarkFlagRequired("company")
	_ = c.MarkFlagRequired("position")
	return c
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change the status of an application",
		Long:  "Change the status of an application. Progress follows from the status.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			updated, err := a.tracker.UpdateStatus(cmd.Context(), id, args[1])
			if err != nil && updated == nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "application %d is now %s (%d%%)\n", updated.ID, updated.Status, updated.Progress)
			return err
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.tracker.DeleteApplication(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted application %d\n", id)
			return nil
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show application statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.api.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "total applications: %d\n", stats.TotalApplications)

			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"Status", "Count"})
			for _, st := range models.AllStatuses() {
				if n, ok := stats.StatusBreakdown[string(st)]; ok {
					table.Append([]string{st.Label(), strconv.Itoa(n)})
				}
			}
			table.Render()

			if stats.LatestApplication != nil {
				fmt.Fprintf(out, "latest: %s at %s\n", stats.LatestApplication.Position, stats.LatestApplication.Company)
			}
			return nil
		},
	}
}

func newStatusesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "statuses",
		Short: "Print every status with its progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Status", "Progress"})
			for _, sp := range a.tracker.ProgressTable() {
				table.Append([]string{string(sp.Status), fmt.Sprintf("%d%%", sp.Progress)})
			}
			table.Render()
			return nil
		},
	}
}

func renderApplications(w io.Writer, apps []models.Application) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Company", "Position", "Status", "Progress"})
	for _, app := range apps {
		table.Append([]string{
			strconv.FormatUint(uint64(app.ID), 10),
			app.Company,
			app.Position,
			app.Status.Label(),
			fmt.Sprintf("%d%%", app.Progress),
		})
	}
	table.Render()
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid application id %q", s)
	}
	return uint(id), nil
}
