package cmd

import (
	"fmt"
	"log/slog"
	"scene-frames/lib"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render an HTML viewer from an existing scenes.json",
	RunE:  runReport,
}

var (
	reportInput   string
	reportOutput  string
	reportImages  string
	reportVerbose bool
)

func init() {
	reportCmd.Flags().StringVarP(&reportInput, "input", "i", lib.DefaultOutputFile, "scenes.json to render")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "scenes.html", "Path of the HTML file")
	reportCmd.Flags().StringVar(&reportImages, "images", lib.DefaultImageDir, "Directory holding the exported thumbnails")
	reportCmd.Flags().BoolVarP(&reportVerbose, "verbose", "v", false, "Enable verbose logging")
}

func runReport(cmd *cobra.Command, args []string) error {
	setupLogging(reportVerbose)

	result, err := lib.LoadResultSet(reportInput)
	if err != nil {
		return err
	}

	slog.Info("Rendering viewer", "input", reportInput, "videos", len(result.GUIDs), "frames", len(result.Frames))

	if err := lib.NewReportGenerator(reportImages).GenerateHTML(result, reportOutput); err != nil {
		return fmt.Errorf("report failed: %w", err)
	}
	return nil
}
