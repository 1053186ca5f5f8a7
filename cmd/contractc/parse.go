package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"contractc/internal/diagfmt"
	"contractc/internal/driver"
)

var errParseFailed = errors.New("expression has errors")

var parseCmd = &cobra.Command{
	Use:   "parse [flags] 'a ==> b'",
	Short: "Parse a single contract expression",
	Long:  `Parse shows how a contract expression groups under ==> without allocating any ids`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "tree", "output format (tree|outline|json)")
	parseCmd.Flags().Bool("guarded", false, "parse the `guard, body` form of after_expiry_if")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	guarded, err := cmd.Flags().GetBool("guarded")
	if err != nil {
		return fmt.Errorf("failed to get guarded flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.ParseExpr(args[0], maxDiagnostics, guarded)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	if err := printDiagnostics(cmd, result.Bag, result.FileSet, "pretty"); err != nil {
		return err
	}
	if !result.Ok() {
		return errParseFailed
	}

	exprs := result.Builder.Exprs
	out := cmd.OutOrStdout()
	switch format {
	case "tree":
		return diagfmt.ExprTree(out, exprs, result.Root, result.FileSet)
	case "outline":
		return diagfmt.FormatExprPretty(out, exprs, result.Root, result.FileSet)
	case "json":
		return diagfmt.FormatExprJSON(out, exprs, result.Root)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
