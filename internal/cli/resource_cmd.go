package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/horizon/internal/cli/formatter"
	"github.com/alexanderramin/horizon/internal/domain"
	"github.com/spf13/cobra"
)

func newResourceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resource",
		Aliases: []string{"resources"},
		Short:   "Manage the resource registry",
	}

	cmd.AddCommand(
		newResourceListCmd(app),
		newResourceAddCmd(app),
		newResourceStatusCmd(app),
	)

	return cmd
}

func newResourceListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered resources",
		RunE: func(cmd *cobra.Command, args []string) error {
			resources, err := app.Resources.List(context.Background())
			if err != nil {
				return err
			}
			return render(cmd, app, resources, func() string {
				return formatter.FormatResources(resources)
			})
		},
	}
}

func newResourceAddCmd(app *App) *cobra.Command {
	var id, resType, project string
	var skill int
	var availability float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a developer or analyst",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := &domain.Resource{
				ID:           id,
				Type:         domain.ResourceType(resType),
				SkillLevel:   skill,
				Availability: availability,
			}
			if project != "" {
				r.CurrentProject = &project
			}

			if err := app.Resources.Add(context.Background(), r); err != nil {
				return err
			}

			return render(cmd, app, r, func() string {
				return fmt.Sprintf("Registered %s %s (skill %d, %s available)\n",
					formatter.ResourceTypeBadge(r.Type),
					formatter.Bold(r.ID),
					r.SkillLevel,
					formatter.FormatPercent(r.Availability),
				)
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Resource ID (generated when empty)")
	cmd.Flags().StringVar(&resType, "type", string(domain.ResourceDeveloper), "Resource type: developer or analyst")
	cmd.Flags().IntVar(&skill, "skill", 0, "Skill level, 0 to 10")
	cmd.Flags().Float64Var(&availability, "availability", 1, "Free capacity, 0 to 1")
	cmd.Flags().StringVar(&project, "project", "", "Project the resource is currently on")
	_ = cmd.MarkFlagRequired("skill")

	return cmd
}

func newResourceStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show capacity, utilisation and bottlenecks",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := app.Resources.Status(context.Background())
			if err != nil {
				return err
			}
			return render(cmd, app, status, func() string {
				return formatter.FormatResourceStatus(status)
			})
		},
	}
}
