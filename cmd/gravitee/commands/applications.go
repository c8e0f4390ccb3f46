package commands

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abourdon/gravitee-toolbox-sub000/internal/constants"
)

// NewApplicationsCommand creates the applications command group.
func NewApplicationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "applications",
		Aliases: []string{"apps"},
		Short:   "Manage applications",
		Long:    "List and inspect consumer applications",
	}

	cmd.AddCommand(newApplicationsListCommand())
	cmd.AddCommand(newApplicationsGetCommand())

	return cmd
}

func newApplicationsListCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			it, err := client.Applications().Search(cmd.Context(), name)
			if err != nil {
				return err
			}

			apps, err := it.All()
			if err != nil {
				return err
			}

			switch viper.GetString("output") {
			case constants.FormatJSON:
				return outputJSON(apps)
			case constants.FormatYAML:
				return outputYAML(apps)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Name", "Type", "Owner")

				for _, app := range apps {
					_ = table.Append(app.ID, app.Name, app.Type, ownerName(app.Owner))
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("rendering table: %w", err)
				}

				fmt.Printf("\n%d application(s)\n", len(apps))

				return nil
			}
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "application name regex (case-insensitive)")

	return cmd
}

func newApplicationsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get APP_ID",
		Short: "Display one application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			app, err := client.Applications().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			switch viper.GetString("output") {
			case constants.FormatJSON:
				return outputJSON(app)
			case constants.FormatYAML:
				return outputYAML(app)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")
				_ = table.Append("ID", app.ID)
				_ = table.Append("Name", app.Name)
				_ = table.Append("Description", app.Description)
				_ = table.Append("Type", app.Type)
				_ = table.Append("Status", app.Status)
				_ = table.Append("Owner", ownerName(app.Owner))

				if err := table.Render(); err != nil {
					return fmt.Errorf("rendering table: %w", err)
				}

				return nil
			}
		},
	}
}
