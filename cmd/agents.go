package cmd

import (
	"github.com/iksnae/aza/internal"
	"github.com/iksnae/aza/internal/output"
	"github.com/spf13/cobra"
)

var agentsLegacy bool

var agentTableSpec = output.TableSpec{
	{Header: "ID", Key: "id"},
	{Header: "Name", Key: "name"},
	{Header: "Model", Key: "model"},
	{Header: "Created", Key: "created_at"},
}

var agentsCmd = &cobra.Command{
	Use:     "agents",
	Aliases: []string{"agent"},
	Short:   "List and inspect agents",
	Long: `List and inspect the agents of a project.

By default the current agents API is used. Pass --v1 to read legacy
assistants instead; both are shown with the same columns.`,
}

var agentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List agents",
	Args:  noArgs,
	RunE:  runAgentsList,
}

var agentsShowCmd = &cobra.Command{
	Use:   "show <agentId>",
	Short: "Show one agent as JSON",
	Args:  exactID("agentId"),
	RunE:  runAgentsShow,
}

func init() {
	rootCmd.AddCommand(agentsCmd)
	agentsCmd.AddCommand(agentsListCmd, agentsShowCmd)
	agentsCmd.PersistentFlags().BoolVar(&agentsLegacy, "v1", false, "Use the legacy assistants API")
}

func agentsExplorer() (*internal.Explorer, internal.OutputMode, error) {
	cfg, err := requestConfig()
	if err != nil {
		return nil, "", err
	}
	cfg.Legacy = agentsLegacy
	e, err := newExplorer(cfg)
	if err != nil {
		return nil, "", err
	}
	return e, cfg.OutputMode, nil
}

func runAgentsList(cmd *cobra.Command, args []string) error {
	e, mode, err := agentsExplorer()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	data, err := internal.Fetch(ctx, "Loading agents", func() (any, error) {
		return e.ListAgents(ctx)
	})
	if err != nil {
		return err
	}

	schema := e.Schema()
	out := cmd.OutOrStdout()
	rows := internal.ExtractList(data, schema.CollectionKeys...)
	switch mode {
	case internal.ModeRaw:
		return output.Present(out, mode, rows, nil)
	case internal.ModeTable:
		return output.Present(out, mode, output.Records(schema.NormalizeAgents(data)), agentTableSpec)
	default:
		return output.Present(out, mode, internal.NormalizeTimestamps(rows), nil)
	}
}

func runAgentsShow(cmd *cobra.Command, args []string) error {
	e, mode, err := agentsExplorer()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	data, err := internal.Fetch(ctx, "Loading agent", func() (any, error) {
		return e.GetAgent(ctx, args[0])
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch mode {
	case internal.ModeRaw:
		return output.Present(out, mode, data, nil)
	case internal.ModeYAML:
		return output.Present(out, mode, internal.NormalizeTimestamps(data), nil)
	default:
		// a single agent has no table form
		return output.Present(out, internal.ModeJSON, internal.NormalizeTimestamps(data), nil)
	}
}
