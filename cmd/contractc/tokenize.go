package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"contractc/internal/diagfmt"
	"contractc/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] unit.toml",
	Short: "Tokenize the contracts of a unit file",
	Long: `Tokenize lexes every contract occurrence of a unit file and prints its tokens.
With --expr the argument is a single contract expression instead of a file.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Bool("expr", false, "treat the argument as a contract expression")
}

type occurrenceTokensJSON struct {
	Item   string                `json:"item"`
	Kind   string                `json:"kind"`
	Index  int                   `json:"index"`
	Tokens []diagfmt.TokenOutput `json:"tokens"`
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	exprMode, err := cmd.Flags().GetBool("expr")
	if err != nil {
		return fmt.Errorf("failed to get expr flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	out := cmd.OutOrStdout()

	if exprMode {
		fs, tokens, bag := driver.TokenizeExpr(args[0], maxDiagnostics)
		if err := printDiagnostics(cmd, bag, fs, "pretty"); err != nil {
			return err
		}
		if format == "json" {
			return diagfmt.FormatTokensJSON(out, tokens)
		}
		return diagfmt.FormatTokensPretty(out, tokens, fs)
	}

	result, err := driver.Tokenize(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	if err := printDiagnostics(cmd, result.Bag, result.FileSet, "pretty"); err != nil {
		return err
	}

	if format == "json" {
		payload := make([]occurrenceTokensJSON, 0, len(result.Occurrences))
		for _, occ := range result.Occurrences {
			payload = append(payload, occurrenceTokensJSON{
				Item:   occ.Item,
				Kind:   occ.Kind.String(),
				Index:  occ.Index,
				Tokens: diagfmt.TokenOutputs(occ.Tokens),
			})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	return printOccurrenceTokens(out, result)
}

func printOccurrenceTokens(w io.Writer, result *driver.TokenizeResult) error {
	for i, occ := range result.Occurrences {
		if i > 0 {
			fmt.Fprintln(w)
		}
		start, _ := result.FileSet.Resolve(occ.Span)
		if _, err := fmt.Fprintf(w, "%s %s #%d (line %d)\n", occ.Item, occ.Kind, occ.Index, start.Line); err != nil {
			return err
		}
		if err := diagfmt.FormatTokensPretty(w, occ.Tokens, result.FileSet); err != nil {
			return err
		}
	}
	if len(result.Occurrences) == 0 {
		_, err := fmt.Fprintln(os.Stderr, "no contracts found")
		return err
	}
	return nil
}
