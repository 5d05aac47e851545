package cmd

import (
	"fmt"

	"github.com/iksnae/aza/internal"
	"github.com/iksnae/aza/internal/output"
	"github.com/spf13/cobra"
)

// maxEntryRows caps the output entries table of responses show
const maxEntryRows = 20

var responseTableSpec = output.TableSpec{
	{Header: "ID", Key: "id"},
	{Header: "Status", Key: "status"},
	{Header: "Created", Key: "created_at_pretty"},
	{Header: "Content Preview", Key: "content_preview"},
}

var responseEntrySpec = output.TableSpec{
	{Header: "ID", Key: "id"},
	{Header: "Type", Key: "type"},
	{Header: "Role", Key: "role"},
	{Header: "Content Preview", Key: "content_preview"},
}

var responsesCmd = &cobra.Command{
	Use:     "responses",
	Aliases: []string{"response"},
	Short:   "List and inspect responses",
}

var responsesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List responses with a preview of their output",
	Args:  noArgs,
	RunE:  runResponsesList,
}

var responsesShowCmd = &cobra.Command{
	Use:   "show <responseId>",
	Short: "Show one response",
	Long: `Show one response: a summary of its metadata and token usage, a
table of its output entries and the full output text.`,
	Args: exactID("responseId"),
	RunE: runResponsesShow,
}

func init() {
	rootCmd.AddCommand(responsesCmd)
	responsesCmd.AddCommand(responsesListCmd, responsesShowCmd)
}

func runResponsesList(cmd *cobra.Command, args []string) error {
	cfg, err := requestConfig()
	if err != nil {
		return err
	}
	e, err := newExplorer(cfg)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	data, err := internal.Fetch(ctx, "Loading responses", func() (any, error) {
		return e.ListResponses(ctx)
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rows := internal.ExtractList(data, internal.ResponseKeys...)
	switch cfg.OutputMode {
	case internal.ModeRaw:
		return output.Present(out, cfg.OutputMode, rows, nil)
	case internal.ModeTable:
		normalized, _ := internal.NormalizeTimestamps(rows).([]any)
		return output.Present(out, cfg.OutputMode, internal.WithContentPreview(normalized), responseTableSpec)
	default:
		return output.Present(out, cfg.OutputMode, internal.NormalizeTimestamps(rows), nil)
	}
}

func runResponsesShow(cmd *cobra.Command, args []string) error {
	cfg, err := requestConfig()
	if err != nil {
		return err
	}
	e, err := newExplorer(cfg)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	data, err := internal.Fetch(ctx, "Loading response", func() (any, error) {
		return e.GetResponse(ctx, args[0])
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch cfg.OutputMode {
	case internal.ModeRaw:
		return output.Present(out, cfg.OutputMode, data, nil)
	case internal.ModeJSON, internal.ModeYAML:
		return output.Present(out, cfg.OutputMode, internal.NormalizeTimestamps(data), nil)
	}

	if err := output.PrintKeyValues(out, internal.ResponseSummary(data)); err != nil {
		return err
	}

	entries := internal.ResponseEntries(data)
	if len(entries) > 0 {
		fmt.Fprintln(out)
		shown := entries
		if len(shown) > maxEntryRows {
			shown = shown[:maxEntryRows]
		}
		if err := output.Present(out, internal.ModeTable, output.Records(shown), responseEntrySpec); err != nil {
			return err
		}
		if hidden := len(entries) - len(shown); hidden > 0 {
			fmt.Fprintf(out, "... %d more entries\n", hidden)
		}
	}

	if text := internal.ResponseOutputText(data); text != "" {
		fmt.Fprintf(out, "\nOutput:\n%s\n", text)
	}
	return nil
}
