package cmd

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/iksnae/aza/internal"
	"github.com/iksnae/aza/internal/server"
	"github.com/spf13/cobra"
)

var (
	uiPort      int
	uiHost      string
	uiPrefsPath string
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Start the local web explorer",
	Long: `Start the local web explorer.

The explorer serves a browser UI and a JSON API that proxies the project
endpoint with your credentials. The project may be set here (--project,
AZA_PROJECT or the config file) or entered in the browser. The last-used
controls are saved in a small SQLite file (--prefs).

Press Ctrl+C to stop.`,
	Args: noArgs,
	RunE: runUI,
}

func init() {
	rootCmd.AddCommand(uiCmd)
	uiCmd.Flags().IntVar(&uiPort, "port", server.DefaultPort, "Port to listen on (default $PORT, then config, then 4173)")
	uiCmd.Flags().StringVar(&uiHost, "host", "localhost", "Interface to bind")
	uiCmd.Flags().StringVar(&uiPrefsPath, "prefs", "", "Preferences database (default ~/.aza/ui.db)")
}

// uiListenPort resolves the port: flag, then $PORT, then config
func uiListenPort(cmd *cobra.Command) (int, error) {
	port := uiPort
	if !cmd.Flags().Changed("port") {
		if env := os.Getenv("PORT"); env != "" {
			n, err := strconv.Atoi(env)
			if err != nil {
				return 0, internal.NewUsageError("invalid PORT %q", env)
			}
			port = n
		} else if appConfig.UI.Port != 0 {
			port = appConfig.UI.Port
		}
	}
	if port < 0 || port > 65535 {
		return 0, internal.NewUsageError("--port out of range: %d", port)
	}
	return port, nil
}

func prefsLocation() (string, error) {
	if p := firstNonEmpty(uiPrefsPath, appConfig.UI.PrefsPath); p != "" {
		return p, nil
	}
	return internal.DefaultPrefsPath()
}

// uiDefaults is the request config the explorer starts from. Unlike the
// other commands a missing endpoint is allowed here.
func uiDefaults() internal.RequestConfig {
	return internal.RequestConfig{
		Endpoint:           firstNonEmpty(projectFlag, os.Getenv(envProject), appConfig.Project),
		APIVersionOverride: firstNonEmpty(apiVersionFlag, os.Getenv(envAPIVersion), appConfig.APIVersion),
		Transcript:         transcriptDefaults(),
		Debug:              debugEnabled(),
	}
}

func runUI(cmd *cobra.Command, args []string) error {
	port, err := uiListenPort(cmd)
	if err != nil {
		return err
	}

	var prefs *internal.PrefsStore
	if path, err := prefsLocation(); err != nil {
		internal.PrintWarning(cmd.ErrOrStderr(), fmt.Sprintf("Preferences disabled: %v", err))
	} else if prefs, err = internal.OpenPrefsStore(path); err != nil {
		internal.PrintWarning(cmd.ErrOrStderr(), fmt.Sprintf("Preferences disabled: %v", err))
		prefs = nil
	} else {
		defer prefs.Close()
		internal.LogDebug("Preferences stored in %s", path)
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(uiHost, strconv.Itoa(port)))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", port, err)
	}

	srv := server.New(server.Options{
		Defaults:      uiDefaults(),
		Tokens:        newTokenSource(),
		Prefs:         prefs,
		ClientOptions: clientOptions,
	})

	addr := ln.Addr().(*net.TCPAddr)
	internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("aza ui listening on http://%s:%d", uiHost, addr.Port))
	return srv.Serve(cmd.Context(), ln)
}
