package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/meetnotes/internal/config"
	"github.com/nguyentantai21042004/meetnotes/internal/pipeline"
)

type runOptions struct {
	meetingFolder    string
	outputFolder     string
	languageModel    string
	startTime        string
	overwrite        bool
	silenceThreshold float64
	offsetStrategy   string
	strictOffsets    bool
	docx             bool
	think            string
}

func NewRunCmd(deps *Dependencies, configPath *string) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process one meeting folder",
		Long: "Convert, transcribe and interleave every participant's recording of a meeting folder, " +
			"then generate meeting notes.\nAn existing transcript is reused unless --overwrite is set.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			log := newLogger(deps, cfg)
			p, err := pipeline.New(cfg, deps.Executor, log)
			if err != nil {
				return err
			}

			res, err := p.Process(cmd.Context(), opts.meetingFolder)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Transcript: %s\n", res.TranscriptPath)
			fmt.Fprintf(out, "Notes:      %s\n", res.NotesPath)
			if res.DocxPath != "" {
				fmt.Fprintf(out, "DOCX:       %s\n", res.DocxPath)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.meetingFolder, "meeting-folder", "f", "", "Meeting folder containing the \"Audio Record\" folder")
	f.StringVarP(&opts.outputFolder, "output-folder", "o", "", "Folder that receives <meeting name>/ with the results (default \"Transcripts\")")
	f.StringVarP(&opts.languageModel, "language-model", "l", "", "Ollama model used for the notes (default \"gpt-oss:20b\")")
	f.StringVarP(&opts.startTime, "start-time", "s", "", "Meeting start, YYYY-MM-DD HH:MM:SS (default: from the folder name)")
	f.BoolVar(&opts.overwrite, "overwrite", false, "Transcribe again even if a transcript exists")
	f.Float64Var(&opts.silenceThreshold, "silence-threshold", 0.5, "Seconds of silence that split one speaker's turns")
	f.StringVar(&opts.offsetStrategy, "offset-strategy", "", "How recordings are placed on the timeline: padded, static or creation_time")
	f.BoolVar(&opts.strictOffsets, "strict-offsets", false, "Fail instead of assuming zero when a recording offset is unknown")
	f.BoolVar(&opts.docx, "docx", false, "Also write the notes as .docx")
	f.StringVar(&opts.think, "think", "", "Ollama thinking level: low, medium, high, true or false")
	_ = cmd.MarkFlagRequired("meeting-folder")

	return cmd
}

// apply layers the flags the user set over the config file.
func (o *runOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("output-folder") {
		cfg.Paths.Output = o.outputFolder
	}
	if f.Changed("language-model") {
		cfg.Ollama.Model = o.languageModel
	}
	if f.Changed("start-time") {
		cfg.Meeting.StartTime = o.startTime
	}
	if f.Changed("overwrite") {
		cfg.Meeting.Overwrite = o.overwrite
	}
	if f.Changed("silence-threshold") {
		cfg.Meeting.SilenceThreshold = o.silenceThreshold
	}
	if f.Changed("offset-strategy") {
		cfg.Meeting.OffsetStrategy = o.offsetStrategy
	}
	if f.Changed("strict-offsets") {
		cfg.Meeting.StrictOffsets = o.strictOffsets
	}
	if f.Changed("docx") {
		cfg.Output.Docx = o.docx
	}
	if f.Changed("think") {
		cfg.Ollama.Think = o.think
	}
}
