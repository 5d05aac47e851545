package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

// progressOut is where the spinner draws
var progressOut io.Writer = os.Stderr

// ShowProgress runs fn while a spinner with message is drawn on a terminal.
// Off a terminal, or when debug logs share stderr, the message is only
// logged at debug level.
func ShowProgress(ctx context.Context, message string, fn func() error) error {
	if !isTerminal(progressOut) || IsVerbose() {
		LogDebug("%s", message)
		return fn()
	}
	return showProgressSimple(ctx, progressOut, message, fn)
}

// Fetch runs one upstream call under a spinner and returns its result
func Fetch(ctx context.Context, message string, fn func() (any, error)) (any, error) {
	return fetchWith(func(call func() error) error {
		return ShowProgress(ctx, message, call)
	}, fn)
}

// fetchWith reads fn's result only after run reports success; on
// cancellation fn may still be running and owns result.
func fetchWith(run func(func() error) error, fn func() (any, error)) (any, error) {
	var result any
	err := run(func() error {
		var err error
		result, err = fn()
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// showProgressSimple uses a simple text-based spinner. The spinner line is
// cleared once fn returns so it never mixes with command output.
func showProgressSimple(ctx context.Context, w io.Writer, message string, fn func() error) error {
	spinnerChars := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	done := make(chan error, 1)
	stop := make(chan struct{})
	spinnerDone := make(chan struct{})

	go func() {
		defer close(spinnerDone)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		i := 0
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				char := spinnerChars[i%len(spinnerChars)]
				fmt.Fprintf(w, "\r%s %s", progressStyle.Render(char), message)
				i++
			}
		}
	}()

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		close(stop)
		<-spinnerDone
		fmt.Fprintf(w, "\r%s\r", strings.Repeat(" ", lipgloss.Width(message)+2))
		return err
	case <-ctx.Done():
		close(stop)
		<-spinnerDone
		return ctx.Err()
	}
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	return isTerminal(w)
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	if isTerminal(w) {
		fmt.Fprintf(w, "%s %s\n", successStyle.Render("✓"), message)
	} else {
		fmt.Fprintln(w, message)
	}
}

// PrintError prints an error message
func PrintError(w io.Writer, message string) {
	if isTerminal(w) {
		fmt.Fprintf(w, "%s %s\n", errorStyle.Render("✗"), message)
	} else {
		fmt.Fprintln(w, message)
	}
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	if isTerminal(w) {
		fmt.Fprintf(w, "%s %s\n", warningStyle.Render("⚠"), message)
	} else {
		fmt.Fprintf(w, "WARNING: %s\n", message)
	}
}
