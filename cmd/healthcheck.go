package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/aza/config"
	"github.com/iksnae/aza/internal"
	"github.com/spf13/cobra"
)

var (
	healthcheckVerbose bool
)

var (
	successStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	warningStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Bold(true)

	infoStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true).
		Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that aza can reach the project endpoint",
	Long: `Check the health of aza by verifying:
  • Config file parsing
  • Project endpoint resolution
  • Access token acquisition
  • One authenticated request to the agents API
  • The web explorer preferences store

This command is useful for debugging credentials and endpoint issues.`,
	Args: noArgs,
	RunE: runHealthcheck,
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckVerbose, "verbose", "v", false, "Show detailed diagnostic information")
}

func runHealthcheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	fmt.Fprintln(out, sectionStyle.Render("🔍 aza Health Check"))
	fmt.Fprintln(out)

	// Step 1: Config file
	fmt.Fprintln(out, infoStyle.Render("Step 1: Reading config..."))
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	fmt.Fprintln(out, successStyle.Render("✅ Config loaded"))
	if healthcheckVerbose {
		fmt.Fprintf(out, "   File: %s\n", path)
		if appConfig.Project != "" {
			fmt.Fprintf(out, "   Project: %s\n", appConfig.Project)
		}
	}
	fmt.Fprintln(out)

	// Step 2: Endpoint
	fmt.Fprintln(out, infoStyle.Render("Step 2: Resolving project endpoint..."))
	cfg, err := requestConfig()
	if err != nil {
		fmt.Fprintln(out, errorStyle.Render("❌ No usable project endpoint:"), err)
		return healthcheckFailed(out, err)
	}
	fmt.Fprintln(out, successStyle.Render("✅ Project endpoint set"))
	if healthcheckVerbose {
		fmt.Fprintf(out, "   Endpoint: %s\n", cfg.Endpoint)
		if cfg.APIVersionOverride != "" {
			fmt.Fprintf(out, "   api-version override: %s\n", cfg.APIVersionOverride)
		}
	}
	fmt.Fprintln(out)

	// Step 3: Token
	fmt.Fprintln(out, infoStyle.Render("Step 3: Acquiring access token..."))
	tokens := newTokenSource()
	token, err := tokens.Token(ctx)
	if err != nil {
		fmt.Fprintln(out, errorStyle.Render("❌ Failed to acquire token:"), err)
		return healthcheckFailed(out, err)
	}
	fmt.Fprintln(out, successStyle.Render("✅ Access token acquired"))
	if healthcheckVerbose {
		fmt.Fprintf(out, "   Source: %T\n", tokens)
		fmt.Fprintf(out, "   Length: %d characters\n", len(token))
	}
	fmt.Fprintln(out)

	// Step 4: Upstream
	fmt.Fprintln(out, infoStyle.Render("Step 4: Calling the agents API..."))
	cfg.Pagination = internal.Pagination{Limit: 1}
	e, err := internal.NewExplorer(cfg, internal.StaticToken(token), clientOptions...)
	if err != nil {
		fmt.Fprintln(out, errorStyle.Render("❌ Failed to build client:"), err)
		return healthcheckFailed(out, err)
	}
	data, err := e.ListAgents(ctx)
	if err != nil {
		fmt.Fprintln(out, errorStyle.Render("❌ Agents request failed:"), err)
		return healthcheckFailed(out, err)
	}
	agents := e.Schema().NormalizeAgents(data)
	fmt.Fprintln(out, successStyle.Render("✅ Agents API reachable"))
	if healthcheckVerbose && len(agents) > 0 {
		fmt.Fprintf(out, "   First agent: %s (ID: %s)\n", agents[0].Name, agents[0].ID)
	}
	fmt.Fprintln(out)

	// Step 5: Preferences store
	fmt.Fprintln(out, infoStyle.Render("Step 5: Checking explorer preferences..."))
	prefsPath, err := prefsLocation()
	exists := false
	if err == nil {
		exists, err = internal.CheckPrefsPath(ctx, prefsPath)
	}
	if err != nil {
		fmt.Fprintln(out, warningStyle.Render("⚠️  Preferences store unavailable:"), err)
		fmt.Fprintln(out, "   aza ui will run without persisted settings")
	} else {
		fmt.Fprintln(out, successStyle.Render("✅ Preferences store ready"))
		if healthcheckVerbose {
			if exists {
				fmt.Fprintf(out, "   Database: %s\n", prefsPath)
			} else {
				fmt.Fprintf(out, "   Database: %s (created on first ui run)\n", prefsPath)
			}
		}
	}
	fmt.Fprintln(out)

	// Summary
	fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
	fmt.Fprintln(out)
	fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
	return nil
}

func healthcheckFailed(out io.Writer, err error) error {
	fmt.Fprintln(out)
	fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
	fmt.Fprintln(out)
	fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
	if internal.KindOf(err) == internal.KindUsage {
		fmt.Fprintln(out, "   • Set --project or AZA_PROJECT, and run 'az login' or set AZA_TOKEN")
	}
	return err
}
