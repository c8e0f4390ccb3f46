package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abourdon/gravitee-toolbox-sub000/internal/constants"
	"github.com/abourdon/gravitee-toolbox-sub000/pkg/apim"
)

// NewSubscriptionsCommand creates the subscriptions command group.
func NewSubscriptionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscriptions",
		Aliases: []string{"subs"},
		Short:   "Manage subscriptions",
		Long:    "List and create subscriptions between applications and API plans",
	}

	cmd.AddCommand(newSubscriptionsListCommand())
	cmd.AddCommand(newSubscriptionsCreateCommand())

	return cmd
}

func newSubscriptionsListCommand() *cobra.Command {
	var apiID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the subscriptions of an API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiID == "" {
				return constants.ErrApiIDRequired
			}

			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			subs, err := client.Subscriptions().ListAll(cmd.Context(), apiID, nil).All()
			if err != nil {
				return err
			}

			return renderSubscriptions(subs)
		},
	}

	cmd.Flags().StringVar(&apiID, "api", "", "API id")

	return cmd
}

//nolint:funlen // command wiring is mostly flag declarations
func newSubscriptionsCreateCommand() *cobra.Command {
	var (
		apiName  string
		appName  string
		planName string
		security string
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Subscribe applications to API plans",
		Long: `Create subscriptions for every application matching --application-name
against every plan matching --plan-name on the API matching --api-name.

The API filter must resolve to exactly one API. The full cross-product is
listed for approval before anything is created.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			api, err := resolveSingleApi(ctx, client, apiName)
			if err != nil {
				return err
			}

			appsIt, err := client.Applications().Search(ctx, appName)
			if err != nil {
				return err
			}

			apps, err := appsIt.All()
			if err != nil {
				return err
			}

			plans, err := client.Plans().Search(ctx, api.ID, planName, security)
			if err != nil {
				return err
			}

			if len(apps) == 0 {
				return fmt.Errorf("%w: no application matches %q", apim.ErrApplicationNotFound, appName)
			}

			if len(plans) == 0 {
				return fmt.Errorf("%w: no plan matches %q", apim.ErrPlanNotFound, planName)
			}

			fmt.Printf("About to create %d subscription(s) on API %s (%s):\n", len(apps)*len(plans), api.Name, api.ID)

			for _, app := range apps {
				for _, plan := range plans {
					fmt.Printf("  - %s -> %s\n", app.Name, plan.Name)
				}
			}

			if !yes && !confirm("Proceed?") {
				return constants.ErrAborted
			}

			created, err := client.Subscriptions().CreateAll(ctx, api.ID, apps, plans)
			if len(created) > 0 {
				fmt.Printf("Created %d subscription(s)\n", len(created))
			}

			if err != nil {
				return err
			}

			return renderSubscriptions(created)
		},
	}

	cmd.Flags().StringVar(&apiName, "api-name", "", "API name regex, must match exactly one API")
	cmd.Flags().StringVar(&appName, "application-name", "", "application name regex")
	cmd.Flags().StringVar(&planName, "plan-name", "", "plan name regex")
	cmd.Flags().StringVar(&security, "plan-security", "", "plan security type (exact, case-insensitive)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the approval prompt")

	return cmd
}

// resolveSingleApi resolves a name pattern to exactly one API, reporting the
// ambiguous candidates otherwise.
func resolveSingleApi(ctx context.Context, client apim.Client, namePattern string) (*apim.Api, error) {
	it, err := client.Apis().Search(ctx, &apim.ApiFilter{Name: namePattern}, nil)
	if err != nil {
		return nil, err
	}

	matches, err := it.All()
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no API matches %q", apim.ErrApiNotFound, namePattern)
	}

	if len(matches) > 1 {
		names := make([]string, 0, len(matches))
		for _, m := range matches {
			names = append(names, fmt.Sprintf("%s (%s)", m.Api.Name, m.Api.ID))
		}

		return nil, &apim.ValidationError{Matches: names, Detail: "filter must resolve to exactly one API"}
	}

	api := matches[0].Api

	return &api, nil
}

// renderSubscriptions is shared by the subscriptions subcommands.
func renderSubscriptions(subs []apim.Subscription) error {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		return outputJSON(subs)
	case constants.FormatYAML:
		return outputYAML(subs)
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("ID", "Application", "Plan", "Status", "Created")

		for _, sub := range subs {
			_ = table.Append(sub.ID, sub.Application, sub.Plan, sub.Status, formatTimestamp(sub.CreatedAt))
		}

		if err := table.Render(); err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}

		fmt.Printf("\n%d subscription(s)\n", len(subs))

		return nil
	}
}
