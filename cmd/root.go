package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/smallshell/smsh/core/config"
)

var cfgPath string

func loadConfig() (*config.Configuration, error) {
	return config.Load(afero.NewOsFs(), cfgPath)
}

// rootCmd represents the base command when called without any subcommands.
// Bare "smsh" starts the interactive shell.
var rootCmd = &cobra.Command{
	Use:   "smsh",
	Short: "A small interactive shell",
	Long:  `smsh is a small interactive Unix shell with pipelines and background jobs.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
}
