package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/syntaxcheck/internal/version"
)

// ExitError carries a process exit code out of a command
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func main() {
	os.Exit(run(newRootCmd(), os.Stderr))
}

// run executes cmd and maps its error to an exit code
func run(cmd *cobra.Command, stderr io.Writer) int {
	err := cmd.Execute()
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" {
			fmt.Fprintf(stderr, "Error: %s\n", exitErr.Message)
		}
		return exitErr.Code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

func newRootCmd() *cobra.Command {
	rootCmd := detectCmd()

	rootCmd.AddCommand(fixCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(modelCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				fmt.Fprintln(cmd.OutOrStdout(), version.GetFullVersion())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "syntaxcheck version %s\n", version.GetVersion())
			}
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
	return cmd
}
