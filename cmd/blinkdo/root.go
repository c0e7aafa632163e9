package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sandeepkv93/blinkdo/internal/config"
)

type rootOptions struct {
	viper      *viper.Viper
	configFile string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{viper: config.New()}

	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "A small personal task manager with reminders",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default: config.yaml in the user config dir)")
	flags.String("data-dir", "", "directory holding the task snapshot")
	flags.String("backend", "", "storage backend: json or sqlite")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	_ = opts.viper.BindPFlag(config.KeyDataDir, flags.Lookup("data-dir"))
	_ = opts.viper.BindPFlag(config.KeyBackend, flags.Lookup("backend"))
	_ = opts.viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	addTaskCommands(root, opts)
	addListCommands(root, opts)
	addSettingsCommands(root, opts)
	addDataCommands(root, opts)
	addRun(root, opts)
	return root
}
