package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"scene-frames/lib"
	"syscall"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Detect scenes and export representative frames",
	Long: `Walk a directory for .mp4 files, detect scene cuts in every distinct asset,
export three JPEG thumbnails per scene and write the frame-to-scene mapping
as JSON.

Files sharing a cpb-aacip GUID are treated as copies of one asset; only the
first one found is processed.`,
	RunE: runExtract,
}

var (
	extractInput      string
	extractOutput     string
	extractImages     string
	extractHTML       string
	extractConfigPath string
	extractVerbose    bool
)

func init() {
	extractCmd.Flags().StringVarP(&extractInput, "input", "i", lib.DefaultInputDir, "Directory to scan for .mp4 files")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", lib.DefaultOutputFile, "Path of the JSON output file")
	extractCmd.Flags().StringVar(&extractImages, "images", lib.DefaultImageDir, "Directory for exported thumbnails")
	extractCmd.Flags().StringVar(&extractHTML, "html", "", "Also write an HTML viewer to this path")
	extractCmd.Flags().StringVarP(&extractConfigPath, "config", "c", "", "YAML config file")
	extractCmd.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "Enable verbose logging")
}

func runExtract(cmd *cobra.Command, args []string) error {
	setupLogging(extractVerbose)

	config, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	slog.Info("Starting scene extraction",
		"input", config.InputDir,
		"output", config.OutputFile,
		"images", config.ImageDir)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := &lib.App{
		Config:   config,
		Progress: progressWriter(),
	}

	if err := app.Run(ctx); err != nil {
		if ctx.Err() != nil {
			slog.Info("Extraction was cancelled, no output written")
		}
		return fmt.Errorf("extraction failed: %w", err)
	}

	slog.Info("Extraction completed successfully")
	return nil
}

// resolveConfig layers explicitly set flags over the config file over defaults.
func resolveConfig(cmd *cobra.Command) (*lib.Config, error) {
	config := lib.DefaultConfig()
	if extractConfigPath != "" {
		loaded, err := lib.LoadConfig(extractConfigPath)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	flags := cmd.Flags()
	if extractConfigPath == "" || flags.Changed("input") {
		config.InputDir = extractInput
	}
	if extractConfigPath == "" || flags.Changed("output") {
		config.OutputFile = extractOutput
	}
	if extractConfigPath == "" || flags.Changed("images") {
		config.ImageDir = extractImages
	}
	if extractConfigPath == "" || flags.Changed("html") {
		config.HTMLFile = extractHTML
	}

	return config, config.Validate()
}

func progressWriter() io.Writer {
	if !isTerminal(os.Stderr) {
		return nil
	}
	return os.Stderr
}
