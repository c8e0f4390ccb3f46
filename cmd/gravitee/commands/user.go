package commands

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abourdon/gravitee-toolbox-sub000/internal/constants"
)

// NewUserCommand creates the user command.
func NewUserCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "user",
		Short: "Display the authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			user, err := client.Users().Current(cmd.Context())
			if err != nil {
				return err
			}

			switch viper.GetString("output") {
			case constants.FormatJSON:
				return outputJSON(user)
			case constants.FormatYAML:
				return outputYAML(user)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")
				_ = table.Append("ID", user.ID)
				_ = table.Append("Username", user.Username)
				_ = table.Append("Display Name", user.DisplayName)
				_ = table.Append("Email", user.Email)

				if err := table.Render(); err != nil {
					return fmt.Errorf("rendering table: %w", err)
				}

				return nil
			}
		},
	}
}
