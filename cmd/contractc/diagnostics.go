package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"contractc/internal/diag"
	"contractc/internal/diagfmt"
	"contractc/internal/source"
)

// useColor resolves the --color flag against the given stream.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	return resolveColor(colorFlag, func() bool { return isTerminal(f) })
}

func resolveColor(flag string, tty func() bool) (bool, error) {
	switch flag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return tty(), nil
	default:
		return false, fmt.Errorf("invalid color mode %q (must be auto, on or off)", flag)
	}
}

// printDiagnostics writes bag to stderr in the requested format. Nothing
// is printed for an empty bag.
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet, format string) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if quiet && !bag.HasErrors() {
		return nil
	}
	color, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}
	return writeDiagnostics(os.Stderr, bag, fs, format, color)
}

func writeDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, format string, color bool) error {
	switch format {
	case "pretty":
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     color,
			Context:   2,
			ShowNotes: true,
		})
		return nil
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			IncludeNotes:     true,
		})
	case "short":
		_, err := fmt.Fprintln(w, diag.FormatShortDiagnostics(bag.Items(), fs, true))
		return err
	default:
		return fmt.Errorf("unknown diagnostics format: %s", format)
	}
}
