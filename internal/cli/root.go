package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/meetnotes/internal/version"
	"github.com/nguyentantai21042004/meetnotes/pkg/executor"
)

// DefaultConfigPath is read when --config is not given. It may be absent.
const DefaultConfigPath = "config.yaml"

type Dependencies struct {
	Executor executor.Executor
	// LogOutput receives the run log; nil means stdout.
	LogOutput io.Writer
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "meetnotes",
		Short:         "Transcribe multi-speaker meeting recordings and write meeting notes",
		Long:          "Turns a Zoom-style folder of per-participant recordings into one interleaved, timestamped transcript and Markdown meeting notes generated by a local Ollama model.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Full() + "\n")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", DefaultConfigPath, "Config file (.yaml or .toml)")

	rootCmd.AddCommand(NewRunCmd(deps, &configPath))
	rootCmd.AddCommand(NewWatchCmd(deps, &configPath))
	rootCmd.AddCommand(NewDoctorCmd(deps, &configPath))
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version.Full())
		},
	}
}
