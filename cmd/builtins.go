package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/smallshell/smsh/core/builtin"
)

// builtinsCmd shows the commands the shell runs in-process.
var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the shell's builtin commands.",
	RunE: func(cmd *cobra.Command, args []string) error {
		printBuiltins(cmd.OutOrStdout())
		return nil
	},
}

func printBuiltins(w io.Writer) {
	for _, b := range builtin.List() {
		fmt.Fprintf(w, "%-24s %s\n", b.Use, b.Short)
	}
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
