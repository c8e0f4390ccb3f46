package commands

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abourdon/gravitee-toolbox-sub000/internal/constants"
	"github.com/abourdon/gravitee-toolbox-sub000/pkg/apim"
)

// NewAuditCommand creates the audit command group.
func NewAuditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the audit trail",
		Long:  "List control-plane audit events",
	}

	cmd.AddCommand(newAuditListCommand())

	return cmd
}

//nolint:funlen // command wiring is mostly flag declarations
func newAuditListCommand() *cobra.Command {
	var (
		event         string
		referenceType string
		referenceID   string
		size          int
		all           bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audit events",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			query := &apim.AuditQuery{
				Size:          size,
				Event:         event,
				ReferenceType: referenceType,
				ReferenceID:   referenceID,
			}

			var events []apim.AuditEvent

			if all {
				events, err = client.Audit().ListAll(cmd.Context(), query).All()
			} else {
				var page *apim.AuditPage

				page, err = client.Audit().List(cmd.Context(), query)
				if page != nil {
					events = page.Content
				}
			}

			if err != nil {
				return err
			}

			switch viper.GetString("output") {
			case constants.FormatJSON:
				return outputJSON(events)
			case constants.FormatYAML:
				return outputYAML(events)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Date", "Event", "Reference", "User")

				for _, entry := range events {
					_ = table.Append(formatTimestamp(entry.CreatedAt), entry.Event,
						entry.ReferenceType+"/"+entry.ReferenceID, entry.User)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("rendering table: %w", err)
				}

				fmt.Printf("\n%d event(s)\n", len(events))

				return nil
			}
		},
	}

	cmd.Flags().StringVar(&event, "event", "", "event type, e.g. API_UPDATED")
	cmd.Flags().StringVar(&referenceType, "reference-type", "", "reference type, e.g. API")
	cmd.Flags().StringVar(&referenceID, "reference-id", "", "reference id")
	cmd.Flags().IntVar(&size, "size", constants.DefaultPageSize, "page size")
	cmd.Flags().BoolVar(&all, "all", false, "walk every page")

	return cmd
}
