package cmd

import (
	"fmt"
	"io"

	"github.com/iksnae/aza/internal"
	"github.com/iksnae/aza/internal/output"
	"github.com/spf13/cobra"
)

var (
	showIDs       bool
	showCitations bool
	noWrap        bool
	maxBody       int
	runID         string
)

var conversationTableSpec = output.TableSpec{
	{Header: "ID", Key: "id"},
	{Header: "Created", Key: "created_at_pretty"},
}

var conversationsCmd = &cobra.Command{
	Use:     "conversations",
	Aliases: []string{"conv", "threads"},
	Short:   "List conversations and read transcripts",
}

var conversationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations",
	Args:  noArgs,
	RunE:  runConversationsList,
}

var conversationsShowCmd = &cobra.Command{
	Use:   "show <conversationId>",
	Short: "Print a conversation transcript",
	Long: `Print a conversation as a readable transcript, oldest item first.

Each item shows its time, role and body. Function calls list their
arguments, outputs and errors. Citation and attachment counts follow the
body; --show-citations lists every citation.

With --json or --raw the conversation and its items are printed as two
JSON documents separated by a --- line.`,
	Args: exactID("conversationId"),
	RunE: runConversationsShow,
}

func init() {
	rootCmd.AddCommand(conversationsCmd)
	conversationsCmd.AddCommand(conversationsListCmd, conversationsShowCmd)

	flags := conversationsShowCmd.Flags()
	flags.BoolVar(&showIDs, "show-ids", false, "Include item ids in headers")
	flags.BoolVar(&showCitations, "show-citations", false, "List every citation under its item")
	flags.BoolVar(&noWrap, "no-wrap", false, "Do not wrap bodies at 100 columns")
	flags.IntVar(&maxBody, "max-body", internal.NoTruncation, "Truncate bodies to this many characters (-1 disables)")
	flags.StringVar(&runID, "run-id", "", "Only show items of this run")
}

func runConversationsList(cmd *cobra.Command, args []string) error {
	cfg, err := requestConfig()
	if err != nil {
		return err
	}
	e, err := newExplorer(cfg)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	data, err := internal.Fetch(ctx, "Loading conversations", func() (any, error) {
		return e.ListConversations(ctx)
	})
	if err != nil {
		return err
	}

	rows := internal.ExtractList(data, internal.ConversationKeys...)
	if cfg.OutputMode == internal.ModeRaw {
		return output.Present(cmd.OutOrStdout(), cfg.OutputMode, rows, nil)
	}
	return output.Present(cmd.OutOrStdout(), cfg.OutputMode, internal.NormalizeTimestamps(rows), conversationTableSpec)
}

// transcriptOptions layers the show flags that were set over the defaults
func transcriptOptions(cmd *cobra.Command, opts internal.TranscriptOptions) (internal.TranscriptOptions, error) {
	flags := cmd.Flags()
	if flags.Changed("show-ids") {
		opts.ShowIDs = showIDs
	}
	if flags.Changed("show-citations") {
		opts.ShowCitations = showCitations
	}
	if flags.Changed("no-wrap") {
		opts.NoWrap = noWrap
	}
	if flags.Changed("max-body") {
		if maxBody < internal.NoTruncation {
			return opts, internal.NewUsageError("--max-body must be -1 or greater, got %d", maxBody)
		}
		opts.MaxBody = maxBody
	}
	opts.RunID = runID
	return opts, nil
}

func runConversationsShow(cmd *cobra.Command, args []string) error {
	cfg, err := requestConfig()
	if err != nil {
		return err
	}
	if cfg.Transcript, err = transcriptOptions(cmd, cfg.Transcript); err != nil {
		return err
	}
	e, err := newExplorer(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var detail *internal.ConversationDetail
	err = internal.ShowProgress(ctx, "Loading conversation", func() error {
		var err error
		detail, err = e.ShowConversation(ctx, args[0])
		return err
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch cfg.OutputMode {
	case internal.ModeJSON, internal.ModeRaw:
		return writeConversationDocuments(out, cfg.OutputMode, detail, "\n---\n\n")
	case internal.ModeYAML:
		return writeConversationDocuments(out, cfg.OutputMode,
			&internal.ConversationDetail{
				Conversation: internal.NormalizeTimestamps(detail.Conversation),
				Items:        internal.NormalizeTimestamps(detail.Items),
				ItemsErr:     detail.ItemsErr,
			}, "---\n")
	}

	opts := cfg.Transcript
	opts.Styled = internal.IsTerminal(out)
	return internal.RenderTranscript(out, detail.Transcript(opts.RunID), opts)
}

// writeConversationDocuments prints the conversation and, when they were
// fetched, its items as two documents.
func writeConversationDocuments(w io.Writer, mode internal.OutputMode, detail *internal.ConversationDetail, separator string) error {
	if err := output.Present(w, mode, detail.Conversation, nil); err != nil {
		return err
	}
	if detail.ItemsErr != nil {
		if mode == internal.ModeRaw {
			_, err := fmt.Fprintln(w)
			return err
		}
		return nil
	}
	if mode == internal.ModeRaw {
		separator = "\n" + separator
	}
	if _, err := io.WriteString(w, separator); err != nil {
		return err
	}
	if err := output.Present(w, mode, detail.Items, nil); err != nil {
		return err
	}
	if mode == internal.ModeRaw {
		_, err := fmt.Fprintln(w)
		return err
	}
	return nil
}
