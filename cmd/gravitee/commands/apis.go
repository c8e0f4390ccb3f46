package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abourdon/gravitee-toolbox-sub000/internal/constants"
	"github.com/abourdon/gravitee-toolbox-sub000/pkg/apim"
)

// NewApisCommand creates the apis command group.
func NewApisCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "apis",
		Aliases: []string{"api"},
		Short:   "Manage APIs",
		Long:    "List, search, export, import and operate APIs",
	}

	cmd.AddCommand(newApisListCommand())
	cmd.AddCommand(newApisGetCommand())
	cmd.AddCommand(newApisExportCommand())
	cmd.AddCommand(newApisImportCommand())
	cmd.AddCommand(newApisUpdateCommand())
	cmd.AddCommand(newApisDeleteCommand())
	cmd.AddCommand(newApisDeployCommand())
	cmd.AddCommand(newApisStartCommand())
	cmd.AddCommand(newApisStopCommand())
	cmd.AddCommand(newApisLogsCommand())
	cmd.AddCommand(newApisQualityCommand())

	return cmd
}

// apiFilterFlags binds one flag per filter dimension; cheap and deep filters
// compose conjunctively.
func apiFilterFlags(cmd *cobra.Command, filter *apim.ApiFilter) {
	cmd.Flags().StringVar(&filter.ID, "id", "", "exact API id")
	cmd.Flags().StringVar(&filter.Name, "name", "", "API name regex (case-insensitive)")
	cmd.Flags().StringVar(&filter.ContextPath, "context-path", "", "context path regex")
	cmd.Flags().StringVar(&filter.PrimaryOwner, "owner", "", "primary owner regex")
	cmd.Flags().StringSliceVar(&filter.States, "state", nil, "lifecycle state (repeatable)")
	cmd.Flags().StringVar(&filter.EndpointGroupName, "endpoint-group", "", "endpoint group name regex")
	cmd.Flags().StringVar(&filter.EndpointName, "endpoint-name", "", "endpoint name regex")
	cmd.Flags().StringVar(&filter.EndpointTarget, "endpoint-target", "", "endpoint target regex")
	cmd.Flags().StringVar(&filter.PlanName, "plan-name", "", "plan name regex")
	cmd.Flags().StringVar(&filter.PlanSecurity, "plan-security", "", "plan security type regex")
	cmd.Flags().StringVar(&filter.PolicyName, "policy-name", "", "policy name regex")
	cmd.Flags().StringVar(&filter.PolicyContent, "policy-content", "", "policy configuration query (gjson path)")
	cmd.Flags().StringVar(&filter.Query, "query", "", "structural query over the raw definition (gjson path)")
}

//nolint:funlen // command wiring is mostly flag declarations
func newApisListCommand() *cobra.Command {
	var (
		filter           apim.ApiFilter
		detailed         bool
		skipDetailErrors bool
		pageSize         int
		delay            time.Duration
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List and search APIs",
		Long: `List APIs, optionally filtered.

Cheap filters (id, name, context-path, owner, state) match the listing
itself. Deep filters (endpoint-*, plan-*, policy-*, query) inspect the full
definition and cost one export fetch per listed API.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			mode := apim.DetailErrorFail
			if skipDetailErrors {
				mode = apim.DetailErrorSkip
			}

			it, err := client.Apis().Search(cmd.Context(), &filter, &apim.SearchOptions{
				PageSize:      pageSize,
				Delay:         delay,
				OnDetailError: mode,
			})
			if err != nil {
				return err
			}

			matches, err := it.All()
			if err != nil {
				return err
			}

			return renderApis(matches, detailed)
		},
	}

	apiFilterFlags(cmd, &filter)
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include full definitions in json/yaml output")
	cmd.Flags().BoolVar(&skipDetailErrors, "skip-detail-errors", false, "treat export fetch failures as non-matches")
	cmd.Flags().IntVar(&pageSize, "page-size", constants.DefaultPageSize, "listing page size")
	cmd.Flags().DurationVar(&delay, "delay", 0, "fixed delay between emitted results")

	return cmd
}

func renderApis(matches []apim.EnrichedApi, detailed bool) error {
	output := viper.GetString("output")

	switch output {
	case constants.FormatJSON, constants.FormatYAML:
		rows := make([]interface{}, 0, len(matches))

		for _, match := range matches {
			if detailed && match.Export != nil {
				rows = append(rows, match.Export.Detail)
			} else {
				rows = append(rows, match.Api)
			}
		}

		if output == constants.FormatJSON {
			return outputJSON(rows)
		}

		return outputYAML(rows)
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("ID", "Name", "Version", "Context Path", "State", "Owner")

		for _, match := range matches {
			_ = table.Append(match.Api.ID, match.Api.Name, match.Api.Version,
				match.Api.ContextPath, match.Api.State, ownerName(match.Api.Owner))
		}

		if err := table.Render(); err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}

		fmt.Printf("\n%d API(s)\n", len(matches))

		return nil
	}
}

func newApisGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get API_ID",
		Short: "Display one API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			api, err := client.Apis().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			switch viper.GetString("output") {
			case constants.FormatJSON:
				return outputJSON(api)
			case constants.FormatYAML:
				return outputYAML(api)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")
				_ = table.Append("ID", api.ID)
				_ = table.Append("Name", api.Name)
				_ = table.Append("Version", api.Version)
				_ = table.Append("Context Path", api.ContextPath)
				_ = table.Append("State", api.State)
				_ = table.Append("Owner", ownerName(api.Owner))
				_ = table.Append("Created", formatTimestamp(api.CreatedAt))
				_ = table.Append("Updated", formatTimestamp(api.UpdatedAt))

				if err := table.Render(); err != nil {
					return fmt.Errorf("rendering table: %w", err)
				}

				return nil
			}
		},
	}
}

func newApisExportCommand() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "export API_ID",
		Short: "Export the full API definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			export, err := client.Apis().Export(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if outputFile != "" {
				if err := os.WriteFile(outputFile, export.Raw, constants.ConfigFilePerm); err != nil {
					return fmt.Errorf("writing export file: %w", err)
				}

				fmt.Printf("Exported API %s to %s\n", args[0], outputFile)

				return nil
			}

			fmt.Println(string(export.Raw))

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "file", "f", "", "write the definition to a file instead of stdout")

	return cmd
}

func newApisImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import an API definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			definition, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading definition file: %w", err)
			}

			if len(definition) == 0 {
				return constants.ErrDefinitionRequired
			}

			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			api, err := client.Apis().Import(cmd.Context(), definition)
			if err != nil {
				return err
			}

			fmt.Printf("Imported API %s (%s)\n", api.Name, api.ID)

			return nil
		},
	}
}

func newApisUpdateCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "update API_ID FILE",
		Short: "Replace an API definition",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			definition, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("reading definition file: %w", err)
			}

			if len(definition) == 0 {
				return constants.ErrDefinitionRequired
			}

			if !yes && !confirm(fmt.Sprintf("Replace the definition of API %s?", args[0])) {
				return constants.ErrAborted
			}

			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			api, err := client.Apis().Update(cmd.Context(), args[0], definition)
			if err != nil {
				return err
			}

			fmt.Printf("Updated API %s (%s)\n", api.Name, api.ID)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func newApisDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete API_ID",
		Short: "Delete an API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force && !confirm(fmt.Sprintf("Really delete API %s?", args[0])) {
				return constants.ErrAborted
			}

			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			if err := client.Apis().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Printf("Deleted API %s\n", args[0])

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")

	return cmd
}

func newApisDeployCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deploy API_ID",
		Short: "Deploy an API to the gateways",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			if err := client.Apis().Deploy(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Printf("Deployed API %s\n", args[0])

			return nil
		},
	}
}

func newApisStartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start API_ID",
		Short: "Start an API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			if err := client.Apis().Start(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Printf("Started API %s\n", args[0])

			return nil
		},
	}
}

func newApisStopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop API_ID",
		Short: "Stop an API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			if err := client.Apis().Stop(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Printf("Stopped API %s\n", args[0])

			return nil
		},
	}
}

//nolint:funlen // command wiring is mostly flag declarations
func newApisLogsCommand() *cobra.Command {
	var (
		size  int
		from  int64
		to    int64
		limit int
	)

	cmd := &cobra.Command{
		Use:   "logs API_ID",
		Short: "Stream gateway logs of an API",
		Long:  "Walk the gateway request logs of an API, oldest first, across pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			it := client.Apis().Logs(cmd.Context(), args[0], &apim.LogsQuery{
				Size: size,
				From: from,
				To:   to,
			})

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Timestamp", "Method", "Path", "Status", "Time (ms)")

			count := 0

			err = it.ForEach(func(entry apim.LogEntry) error {
				_ = table.Append(formatTimestamp(entry.Timestamp), entry.Method,
					entry.Path, strconv.Itoa(entry.Status), strconv.FormatInt(entry.ResponseTime, 10))

				count++
				if limit > 0 && count >= limit {
					return apim.ErrNoMoreItems
				}

				return nil
			})
			if err != nil && !errors.Is(err, apim.ErrNoMoreItems) {
				return err
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("rendering table: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&size, "size", constants.DefaultLogsPageSize, "page size")
	cmd.Flags().Int64Var(&from, "from", 0, "start of the time range (epoch milliseconds)")
	cmd.Flags().Int64Var(&to, "to", 0, "end of the time range (epoch milliseconds)")
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many entries (0 for all)")

	return cmd
}

func newApisQualityCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "quality API_ID",
		Short: "Display the quality score of an API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			score, err := client.Apis().Quality(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			switch viper.GetString("output") {
			case constants.FormatJSON:
				return outputJSON(score)
			case constants.FormatYAML:
				return outputYAML(score)
			default:
				fmt.Printf("Score: %d\n", score.Score)

				for rule, value := range score.Rules {
					fmt.Printf("  %s: %d\n", rule, value)
				}

				return nil
			}
		},
	}
}
