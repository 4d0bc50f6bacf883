// Package cli implements the ccextract CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/ccextract/internal/config"
)

var (
	configPath string
	logLevel   string
	plainLog   bool

	cfg    *config.Config
	logger = zap.NewNop()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "ccextract",
	Short: "Convert contacts from iOS backups to vCard files",
	Long: `Reads the address book of an iOS device backup and writes one vCard 4.0
file per contact, plus one per contact group in a "groups" subfolder.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("loglevel") {
			c.LogLevel = logLevel
		}
		if cmd.Flags().Changed("plain") {
			c.Plain = plainLog
		}
		if err := c.Validate(); err != nil {
			return err
		}
		lvl, _ := c.Level()

		cfg = c
		logger = newLogger(lvl, c.Plain, os.Stdout, os.Stderr).With(zap.String("run", newRunID()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Config file")
	RootCmd.PersistentFlags().StringVarP(&logLevel, "loglevel", "l", "INFO", "Log level: DEBUG, INFO, WARNING, ERROR or FATAL")
	RootCmd.PersistentFlags().BoolVar(&plainLog, "plain", false, "Plain log lines without level prefix")
}

func exitErr(msg string, err error) {
	_ = logger.Sync()
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
