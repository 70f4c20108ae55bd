package main

import (
	"fmt"
	"slices"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/i474232898/bike-sharing-dashboard/internal/export"
)

var (
	exportFormat    string
	exportOutputDir string
	exportName      string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the dashboard tables for a date range to a file",
	Long:  `Runs the pipeline once and writes the result as csv, json, yaml or pdf (with charts).`,
	RunE:  runExport,
}

func init() {
	addRangeFlags(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format (csv, json, yaml or pdf)")
	exportCmd.Flags().StringVar(&exportOutputDir, "output-dir", "", "directory for the report (default is the working directory)")
	exportCmd.Flags().StringVar(&exportName, "name", "bike_sharing", "base name of the report file")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if !slices.Contains(export.Formats, exportFormat) {
		return fmt.Errorf("unsupported format %q: want one of %v", exportFormat, export.Formats)
	}

	rt, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = rt.log.Sync() }()

	d, err := rt.selectedDashboard()
	if err != nil {
		return err
	}

	path, err := export.ToFile(d, exportFormat, exportName, exportOutputDir)
	if err != nil {
		return err
	}
	pterm.Success.Printfln("%s report saved to %s", exportFormat, path)
	return nil
}
