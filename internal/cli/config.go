package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/meetnotes/internal/config"
	"github.com/nguyentantai21042004/meetnotes/internal/logger"
)

// readConfig reads the --config file. The default path may be missing; an
// explicitly given one may not.
func readConfig(cmd *cobra.Command, path string) (*config.Config, error) {
	if cmd.Flags().Changed("config") {
		return config.Read(path)
	}
	return config.ReadOptional(path)
}

func newLogger(deps *Dependencies, cfg *config.Config) logger.Logger {
	if deps.LogOutput != nil {
		return logger.NewWithWriter(deps.LogOutput, cfg.Logging.Level, cfg.Logging.Format)
	}
	return logger.NewWithWriter(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
}
