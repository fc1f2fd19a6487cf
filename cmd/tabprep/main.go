// Package main provides the tabprep command line.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"tabprep/pkg/config"
	"tabprep/pkg/data"
	"tabprep/pkg/dataprep"
	"tabprep/pkg/logger"
	"tabprep/pkg/pipeline"
	"tabprep/pkg/report"
	"tabprep/pkg/telemetry"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitConfigError  = 1
	ExitRuntimeError = 3
)

var (
	verbose     bool
	quiet       bool
	seqURL      string
	metricsFile string
	format      string

	version = "dev"
	commit  = "unknown"

	closeLogger = func() {}
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout))
}

func execute(args []string, stdout io.Writer) int {
	root := newRootCmd(stdout)
	root.SetArgs(args)
	err := root.Execute()
	closeLogger()
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, config.ErrInvalid):
		return ExitConfigError
	default:
		return ExitRuntimeError
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "tabprep",
		Short: "tabprep - select, strip and one-hot encode CSV tables",
		Long: `tabprep fits a preprocessing pipeline on a CSV file and writes the
encoded table.

A pipeline file lists string steps (select, strip) that run in order
before a one-hot encoder:

  schema_version: v1
  input: data.csv
  output: encoded.csv
  header: true
  steps:
    - kind: select
      positions: [1, 2]
    - kind: strip

Any key can be overridden with TABPREP__<KEY>, e.g. TABPREP__OUTPUT=x.csv.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			} else if quiet {
				level = slog.LevelError
			}
			closeLogger = logger.Setup(level, seqURL)
		},
	}
	root.SetOut(stdout)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors")
	root.PersistentFlags().StringVar(&seqURL, "seq-url", "", "Also ship logs to this Seq server")

	runCmd := &cobra.Command{
		Use:   "run <config-file>",
		Short: "Fit the pipeline on its input and write the encoded table",
		Args:  cobra.ExactArgs(1),
		RunE:  runPipeline,
	}
	runCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")

	vocabCmd := &cobra.Command{
		Use:   "vocab <config-file>",
		Short: "Fit the pipeline and print the learned categories",
		Args:  cobra.ExactArgs(1),
		RunE:  runVocab,
	}
	vocabCmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: yaml or json")

	validateCmd := &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a pipeline file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Load(args[0]); err != nil {
				logger.Error("configuration invalid", "path", args[0], "error", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tabprep %s (%s)\n", version, commit)
		},
	}

	root.AddCommand(runCmd, vocabCmd, validateCmd, versionCmd)
	return root
}

// fitted is the result of loading a config and fitting its pipeline on the input.
type fitted struct {
	cfg     config.Config
	table   *data.Table
	pipe    *pipeline.Pipeline[int8]
	enc     *dataprep.SimpleOneHotEncoder[string]
	metrics *telemetry.Metrics
}

func fit(path string) (*fitted, error) {
	cfg, err := config.Load(path)
	if err != nil {
		logger.Error("configuration invalid", "path", path, "error", err)
		return nil, err
	}

	m := telemetry.New()
	pipe, enc, err := cfg.Build(dataprep.WithUnknownObserver(m.ObserveUnknown))
	if err != nil {
		return nil, err
	}
	pipe.Observe(m.ObserveStep)

	table, err := data.ReadCSVFile(cfg.Input, data.Options{Header: cfg.Header, Comma: cfg.Comma()})
	if err != nil {
		return nil, err
	}
	logger.Info("loaded input", "path", cfg.Input, "rows", table.Frame.R, "columns", table.Frame.C)

	if err := pipe.Fit(table.Frame); err != nil {
		logger.Error("fit failed", "error", err)
		return nil, err
	}
	return &fitted{cfg: cfg, table: table, pipe: pipe, enc: enc, metrics: m}, nil
}

func (f *fitted) inputNames() []string {
	if f.table.Headers != nil {
		return f.table.Headers
	}
	return pipeline.PositionalNames(f.table.Frame.C)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	f, err := fit(args[0])
	if err != nil {
		return err
	}

	out, err := f.pipe.Transform(f.table.Frame)
	if err != nil {
		logger.Error("transform failed", "error", err)
		return err
	}
	schema, err := f.pipe.Schema(f.inputNames())
	if err != nil {
		return err
	}

	write := func(w io.Writer) error {
		return data.WriteCSV(w, f.cfg.Comma(), schema.FeatureNames, out, formatCell)
	}
	if f.cfg.Output == "" || f.cfg.Output == "-" {
		err = write(cmd.OutOrStdout())
	} else {
		err = writeFile(f.cfg.Output, write)
	}
	if err != nil {
		return err
	}
	logger.Info("wrote encoded table", "path", f.cfg.Output, "rows", out.R, "features", out.C)

	if metricsFile != "" {
		if err := f.metrics.WriteTextfile(metricsFile); err != nil {
			logger.Warn("metrics not written", "path", metricsFile, "error", err)
		}
	}
	return nil
}

// writeFile writes to a temporary file next to path and renames it into place
// once write and Close both succeed. On failure path is left untouched.
func writeFile(path string, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}

func runVocab(cmd *cobra.Command, args []string) error {
	f, err := fit(args[0])
	if err != nil {
		return err
	}
	out, err := f.pipe.Transform(f.table.Frame)
	if err != nil {
		return err
	}

	// the encoder sees the columns left by the string steps
	names, err := encoderInputNames(f)
	if err != nil {
		return err
	}
	s, err := report.Summarize(f.enc, out, names)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return report.WriteJSON(cmd.OutOrStdout(), s)
	case "yaml", "":
		return report.WriteYAML(cmd.OutOrStdout(), s)
	}
	return fmt.Errorf("unknown format %q", format)
}

func encoderInputNames(f *fitted) ([]string, error) {
	names := f.inputNames()
	for _, s := range f.cfg.Steps {
		if s.Kind != config.KindSelect {
			continue
		}
		sel := dataprep.NewPositionalSelector[string](dataprep.SelectorConfig{Positions: s.Positions})
		var err error
		if names, err = sel.FeatureNames(names); err != nil {
			return nil, err
		}
	}
	return names, nil
}

func formatCell(v int8) string { return strconv.Itoa(int(v)) }
