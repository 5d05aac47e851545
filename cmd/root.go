package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/iksnae/aza/config"
	"github.com/iksnae/aza/internal"
	"github.com/spf13/cobra"
)

// Environment variables read when the matching flag is not set
const (
	envProject    = "AZA_PROJECT"
	envAPIVersion = "AZA_API_VERSION"
	envDebug      = "AZA_DEBUG"
)

var (
	projectFlag    string
	apiVersionFlag string
	jsonOutput     bool
	rawOutput      bool
	yamlOutput     bool
	debugFlag      bool
	limitFlag      int
	orderFlag      string
	afterFlag      string
	beforeFlag     string
	configPath     string
	version        string = "dev"
	commit         string = "unknown"
	date           string = "unknown"

	appConfig = &config.Config{}

	newTokenSource = internal.DefaultTokenSource
	clientOptions  []internal.ClientOption
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "aza",
	Short: "Explore agents, conversations and responses of an AI project",
	Long: `A command-line explorer for an AI agent project endpoint.

aza calls the project's REST API with your Azure CLI credentials and prints
the results as tables, JSON, YAML or readable conversation transcripts.

Features:
  • List agents (current and legacy v1 assistants APIs)
  • Read conversations as ordered transcripts with citations
  • Inspect responses with token usage and output text
  • Browse everything from a local web explorer (aza ui)

Quick Start:
  export AZA_PROJECT=https://<resource>.services.ai.azure.com/api/projects/<project>
  aza agents list                          # List agents
  aza conversations show <conversationId>  # Read a transcript
  aza responses list --json                # Raw-ish JSON output

Authentication uses the Azure identity chain (environment, managed identity,
Azure CLI login) unless AZA_TOKEN is set.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		cfg, err := config.Load(path)
		if err != nil {
			return internal.NewUsageError("%v", err)
		}
		appConfig = cfg
		internal.SetVerbose(debugEnabled())
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		internal.PrintError(os.Stderr, fmt.Sprintf("Error: %v", err))
		if internal.KindOf(err) == internal.KindUsage {
			fmt.Fprintln(os.Stderr, "Run 'aza --help' for usage.")
		}
		os.Exit(internal.ExitCode(err))
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&projectFlag, "project", "p", "", "Project endpoint URL (default $AZA_PROJECT)")
	flags.StringVar(&apiVersionFlag, "api-version", "", "api-version sent to every endpoint (default $AZA_API_VERSION, then per resource)")
	flags.BoolVar(&jsonOutput, "json", false, "Print pretty JSON")
	flags.BoolVar(&rawOutput, "raw", false, "Print the upstream payload unmodified")
	flags.BoolVar(&yamlOutput, "yaml", false, "Print YAML")
	flags.BoolVar(&debugFlag, "debug", false, "Log upstream requests and responses to stderr")
	flags.IntVar(&limitFlag, "limit", 0, "Maximum number of records to return")
	flags.StringVar(&orderFlag, "order", "", "Sort order: asc or desc")
	flags.StringVar(&afterFlag, "after", "", "Return records after this id")
	flags.StringVar(&beforeFlag, "before", "", "Return records before this id")
	flags.StringVar(&configPath, "config", "", "Config file (default $AZA_CONFIG or ~/.aza/config.yaml)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return internal.NewUsageError("%v", err)
	})

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

func debugEnabled() bool {
	return debugFlag || os.Getenv(envDebug) == "1" || appConfig.Debug
}

// outputMode resolves the output flags; at most one may be set. Without
// one the config file's output key applies.
func outputMode() (internal.OutputMode, error) {
	var set []string
	var mode internal.OutputMode
	if jsonOutput {
		set = append(set, "--json")
		mode = internal.ModeJSON
	}
	if rawOutput {
		set = append(set, "--raw")
		mode = internal.ModeRaw
	}
	if yamlOutput {
		set = append(set, "--yaml")
		mode = internal.ModeYAML
	}
	switch len(set) {
	case 0:
		return internal.ParseOutputMode(appConfig.Output)
	case 1:
		return mode, nil
	default:
		return "", internal.NewUsageError("%s cannot be combined", strings.Join(set, " and "))
	}
}

// requestConfig builds the immutable per-invocation config. Flags win over
// the environment, which wins over the config file.
func requestConfig() (internal.RequestConfig, error) {
	mode, err := outputMode()
	if err != nil {
		return internal.RequestConfig{}, err
	}

	cfg := internal.RequestConfig{
		Endpoint:           firstNonEmpty(projectFlag, os.Getenv(envProject), appConfig.Project),
		APIVersionOverride: firstNonEmpty(apiVersionFlag, os.Getenv(envAPIVersion), appConfig.APIVersion),
		Pagination: internal.Pagination{
			Limit:  limitFlag,
			Order:  strings.ToLower(strings.TrimSpace(orderFlag)),
			After:  afterFlag,
			Before: beforeFlag,
		},
		OutputMode: mode,
		Transcript: transcriptDefaults(),
		Debug:      debugEnabled(),
	}
	if err := cfg.Validate(); err != nil {
		return internal.RequestConfig{}, err
	}
	return cfg, nil
}

// transcriptDefaults applies the config file over the built-in defaults
func transcriptDefaults() internal.TranscriptOptions {
	opts := internal.DefaultTranscriptOptions()
	t := appConfig.Transcript
	opts.ShowIDs = t.ShowIDs
	opts.ShowCitations = t.ShowCitations
	opts.NoWrap = t.NoWrap
	if t.MaxBody != nil {
		opts.MaxBody = *t.MaxBody
	}
	return opts
}

func newExplorer(cfg internal.RequestConfig) (*internal.Explorer, error) {
	return internal.NewExplorer(cfg, newTokenSource(), clientOptions...)
}

// exactID is the positional validator for show commands
func exactID(name string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
			return internal.NewUsageError("Missing %s", name)
		}
		if len(args) > 1 {
			return internal.NewUsageError("expected one %s, got %d arguments", name, len(args))
		}
		return nil
	}
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return internal.NewUsageError("unexpected argument %q for %q", args[0], cmd.CommandPath())
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
