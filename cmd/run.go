package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/smallshell/smsh/core"
	"github.com/smallshell/smsh/core/logger"
)

var logPath string

// runCmd starts the interactive shell, same as bare "smsh".
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive shell.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(cmd)
	},
}

func runShell(cmd *cobra.Command) error {
	cmd.SilenceUsage = true

	configuration, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.NewNopLogRecorder()
	var logFd *os.File
	if logPath != "" {
		logFd, err = os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return err
		}
		log = logger.NewJsonLinesLogRecorder(logFd)
	}

	sh, err := core.NewShell(configuration, log)
	if err != nil {
		return err
	}

	status := sh.Run()
	if logFd != nil {
		logFd.Close()
	}
	os.Exit(status)
	return nil
}

func init() {
	for _, cmd := range []*cobra.Command{runCmd, rootCmd} {
		cmd.Flags().StringVar(&logPath, "log", "", "append JSON-lines event log to this file")
	}
	rootCmd.AddCommand(runCmd)
}
