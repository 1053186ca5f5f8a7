package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"contractc/internal/driver"
	"contractc/internal/emit"
	"contractc/internal/project"
)

var errDesugarFailed = errors.New("desugaring reported errors")

var desugarCmd = &cobra.Command{
	Use:   "desugar [flags] unit.toml|dir",
	Short: "Desugar contract annotations into specification holders",
	Long: `Desugar parses every contract of a unit, assigns specification and expression ids,
and emits the holder items with their assertions. A directory desugars every unit file in it.
Any error diagnostic suppresses output.`,
	Args: cobra.ExactArgs(1),
	RunE: runDesugar,
}

func init() {
	desugarCmd.Flags().String("format", "text", "output format (text|json|msgpack|tree)")
	desugarCmd.Flags().String("diag-format", "pretty", "diagnostics format (pretty|json|short)")
	desugarCmd.Flags().Int("jobs", 0, "max parallel workers (0=config value)")
	desugarCmd.Flags().String("ids", "", "specification id mode (random|deterministic)")
	desugarCmd.Flags().String("namespace", "", "holder name namespace")
	desugarCmd.Flags().Bool("check", false, "verify id and back-reference consistency")
	desugarCmd.Flags().StringP("out", "o", "", "write output to a file (a directory when desugaring a directory)")
}

type desugarFlags struct {
	format     emit.Format
	diagFormat string
	out        string
	timings    bool
}

func runDesugar(cmd *cobra.Command, args []string) error {
	target := args[0]
	info, err := os.Stat(target)
	if err != nil {
		return err
	}

	flags, err := readDesugarFlags(cmd)
	if err != nil {
		return err
	}
	configDir := target
	if !info.IsDir() {
		configDir = filepath.Dir(target)
	}
	opts, err := desugarOptions(cmd, configDir)
	if err != nil {
		return err
	}

	if flags.format.Binary() && flags.out == "" && isTerminal(os.Stdout) {
		return fmt.Errorf("refusing to write %s to a terminal; use --out", flags.format)
	}

	if info.IsDir() {
		return desugarDir(cmd, target, opts, flags)
	}

	res, err := driver.DesugarUnit(cmd.Context(), target, opts)
	if res != nil {
		if perr := printDiagnostics(cmd, res.Bag, res.FileSet, flags.diagFormat); perr != nil {
			return perr
		}
	}
	if err != nil {
		return err
	}
	if res.HasErrors() {
		return errDesugarFailed
	}
	printTimings(cmd, res)

	if flags.out != "" {
		return emit.WriteFile(flags.out, flags.format, res.Bundle())
	}
	return emit.Write(cmd.OutOrStdout(), flags.format, res.Bundle())
}

func desugarDir(cmd *cobra.Command, dir string, opts driver.Options, flags desugarFlags) error {
	results, err := driver.DesugarDir(cmd.Context(), dir, opts)
	if err != nil {
		return err
	}

	failed := 0
	var ok []*driver.DesugarResult
	for _, r := range results {
		if r.Result != nil {
			if perr := printDiagnostics(cmd, r.Result.Bag, r.Result.FileSet, flags.diagFormat); perr != nil {
				return perr
			}
		}
		switch {
		case r.Err != nil:
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Path, r.Err)
			failed++
		case r.Result.HasErrors():
			failed++
		default:
			ok = append(ok, r.Result)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d units", errDesugarFailed, failed, len(results))
	}

	out := cmd.OutOrStdout()
	for i, res := range ok {
		printTimings(cmd, res)
		if flags.out != "" {
			path := filepath.Join(flags.out, outputName(res.Unit.Path, flags.format))
			if err := emit.WriteFile(path, flags.format, res.Bundle()); err != nil {
				return err
			}
			continue
		}
		if i > 0 && !flags.format.Binary() {
			fmt.Fprintln(out)
		}
		if flags.format == emit.FormatText || flags.format == emit.FormatTree {
			fmt.Fprintf(out, "// %s\n", res.Unit.Path)
		}
		if err := emit.Write(out, flags.format, res.Bundle()); err != nil {
			return err
		}
	}
	return nil
}

func readDesugarFlags(cmd *cobra.Command) (desugarFlags, error) {
	var flags desugarFlags

	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return flags, fmt.Errorf("failed to get format flag: %w", err)
	}
	if flags.format, err = emit.ParseFormat(formatStr); err != nil {
		return flags, err
	}

	if flags.diagFormat, err = cmd.Flags().GetString("diag-format"); err != nil {
		return flags, fmt.Errorf("failed to get diag-format flag: %w", err)
	}
	switch flags.diagFormat {
	case "pretty", "json", "short":
	default:
		return flags, fmt.Errorf("unknown diagnostics format: %s", flags.diagFormat)
	}

	if flags.out, err = cmd.Flags().GetString("out"); err != nil {
		return flags, fmt.Errorf("failed to get out flag: %w", err)
	}
	if flags.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return flags, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return flags, nil
}

// desugarOptions loads the project config for dir and applies command-line
// overrides on top of it. Only flags the user actually set override.
func desugarOptions(cmd *cobra.Command, dir string) (driver.Options, error) {
	cfg, err := loadConfig(cmd, dir)
	if err != nil {
		return driver.Options{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("jobs") {
		if cfg.Driver.Jobs, err = flags.GetInt("jobs"); err != nil {
			return driver.Options{}, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if flags.Changed("ids") {
		if cfg.Desugar.IDs, err = flags.GetString("ids"); err != nil {
			return driver.Options{}, fmt.Errorf("failed to get ids flag: %w", err)
		}
	}
	if flags.Changed("namespace") {
		if cfg.Desugar.Namespace, err = flags.GetString("namespace"); err != nil {
			return driver.Options{}, fmt.Errorf("failed to get namespace flag: %w", err)
		}
	}
	if flags.Changed("check") {
		if cfg.Desugar.Check, err = flags.GetBool("check"); err != nil {
			return driver.Options{}, fmt.Errorf("failed to get check flag: %w", err)
		}
	}
	if root := cmd.Root().PersistentFlags(); root.Changed("max-diagnostics") {
		if cfg.Diagnostics.Max, err = root.GetInt("max-diagnostics"); err != nil {
			return driver.Options{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}

	opts, err := driver.OptionsFromConfig(cfg)
	if err != nil {
		return driver.Options{}, err
	}
	opts.EnableTimings, err = cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return opts, nil
}

func loadConfig(cmd *cobra.Command, dir string) (project.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return project.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return project.LoadConfig(path)
	}
	manifest, _, err := project.LoadManifest(dir)
	if err != nil {
		return project.Config{}, err
	}
	return manifest.Config, nil
}

func printTimings(cmd *cobra.Command, res *driver.DesugarResult) {
	if res.Timer == nil {
		return
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if quiet {
		return
	}
	writeTimings(cmd.ErrOrStderr(), res)
}

func writeTimings(w io.Writer, res *driver.DesugarResult) {
	fmt.Fprintf(w, "%s ", res.Unit.Path)
	io.WriteString(w, res.Timer.Summary())
}

var formatExtensions = map[emit.Format]string{
	emit.FormatText:    ".txt",
	emit.FormatJSON:    ".json",
	emit.FormatMsgpack: ".msgpack",
	emit.FormatTree:    ".tree",
}

// outputName maps a unit path to its output file name inside --out.
func outputName(unitPath string, f emit.Format) string {
	base := filepath.Base(unitPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + formatExtensions[f]
}
