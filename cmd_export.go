package main

import (
	"SceneBoard/internal/export"
	"SceneBoard/internal/state"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <board.json> <out.pdf>",
	Short: "Render a saved board to a one-page PDF",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		elements, err := loadBoard(args[0])
		if err != nil {
			return err
		}
		if err := export.WritePDFFile(args[1], elements); err != nil {
			return err
		}
		logger.Infof("exported %d element(s) to %s", len(elements), args[1])
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <board.json>",
	Short: "Print a summary of a saved board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		elements, err := loadBoard(args[0])
		if err != nil {
			return err
		}
		return export.WriteSummary(cmd.OutOrStdout(), elements)
	},
}

// loadBoard reads a saved board the way a window would load it, dropping
// invalid and repeated elements.
func loadBoard(path string) ([]state.Element, error) {
	raw, err := state.LoadFile(path)
	if err != nil {
		return nil, err
	}
	elements := state.Clean(raw)
	if skipped := len(raw) - len(elements); skipped > 0 {
		logger.Warnf("%s: skipped %d invalid or duplicate element(s)", path, skipped)
	}
	return elements, nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(inspectCmd)
}
