package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prismdata/prism/internal/pipeline"
	"github.com/prismdata/prism/pkg/compare"
	"github.com/prismdata/prism/pkg/config"
	"github.com/prismdata/prism/pkg/fingerprint"
	"github.com/prismdata/prism/pkg/logger"
	"github.com/prismdata/prism/pkg/metrics"
	"github.com/prismdata/prism/pkg/models"
	"github.com/prismdata/prism/pkg/schema"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "prism",
		Short: "Prism - streaming statistical fingerprinting engine",
		Long: `Prism computes statistical fingerprints of tabular data in a single
streaming pass: histograms, cardinality estimates, entropy, time-series
decomposition and growth, plus a comparison stage that reduces two
fingerprints to a bounded distance.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Prism v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(newFingerprintCmd())
	root.AddCommand(newCompareCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cliFlags are the configuration overrides shared by the subcommands.
type cliFlags struct {
	configFile  string
	scale       string
	computation string
	query       string
	logLevel    string
	timeout     time.Duration
}

func (f *cliFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configFile, "config", "c", "", "Path to YAML configuration file (optional)")
	cmd.Flags().StringVar(&f.scale, "scale", "", "Time-series scale: raw, day, week or month")
	cmd.Flags().StringVar(&f.computation, "computation", "", "Computation cost ceiling: linear, unbounded or yolo")
	cmd.Flags().StringVar(&f.query, "query", "", "Query cost ceiling: cache, sample, full-scan or joins")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "error", "Log level (debug, info, warn, error)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 5*time.Minute, "Pass timeout")
}

// load builds the engine configuration: file first, flag overrides second.
func (f *cliFlags) load() (*config.Config, error) {
	cfg := config.New()
	if f.configFile != "" {
		if err := config.Load(f.configFile, cfg); err != nil {
			return nil, fmt.Errorf("configuration error: %w", err)
		}
	}
	if f.scale != "" {
		cfg.Scale = f.scale
	}
	if f.computation != "" {
		cfg.Cost.Computation = f.computation
	}
	if f.query != "" {
		cfg.Cost.Query = f.query
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if err := logger.Init(logger.Config{Level: f.logLevel, Encoding: "json"}); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newFingerprintCmd() *cobra.Command {
	var flags cliFlags
	var inputFile, pairColumns, outputFile string

	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Fingerprint every column of a CSV file",
		Long: `Fingerprint reads a CSV file with a header row, infers a semantic type
per column, and folds all rows once into one fingerprint per column.

With --pair, only the named ordered column pair is fingerprinted through the
composite pipeline (time series for datetime+numeric, correlation and
regression for numeric+numeric, grouped for categorical firsts).

Example:
  prism fingerprint --input orders.csv --scale month --computation unbounded
  prism fingerprint --input orders.csv --pair created_at,total`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			return runFingerprint(cfg, flags.timeout, inputFile, pairColumns, outputFile)
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Path to input CSV file (required)")
	_ = cmd.MarkFlagRequired("input")
	cmd.Flags().StringVar(&pairColumns, "pair", "", "Comma-separated ordered column pair to fingerprint together")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write JSON output to file instead of stdout")
	flags.register(cmd)
	return cmd
}

func runFingerprint(cfg *config.Config, timeout time.Duration, inputFile, pairColumns, outputFile string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	table, err := readTable(inputFile, cfg)
	if err != nil {
		return err
	}

	log := logger.Get().With(zap.String("component", "prism-cli"), zap.String("input", inputFile))
	log.Info("loaded table",
		zap.Int("columns", len(table.fields)),
		zap.Int("rows", len(table.rows)))

	fingerprinter := pipeline.NewTableFingerprinter(cfg)

	var out any
	if pairColumns != "" {
		first, second, err := table.pair(pairColumns)
		if err != nil {
			return err
		}
		shape := pipeline.PlanQuery(cfg, first.field, second.field)
		log.Info("planned pair query",
			zap.Int("shape", int(shape.Kind)),
			zap.String("period", shape.Period),
			zap.Int("limit", shape.Limit))

		rows := table.project(first.index, second.index, shape.Limit)
		fp, err := fingerprinter.FingerprintPair(ctx, models.Signature{first.field.Type, second.field.Type}, rows)
		if err != nil {
			return err
		}
		out = fp
	} else {
		rows := table.rows
		if limit := cfg.Cost.SampleLimit(cfg.Query.SampleCap); limit > 0 && len(rows) > limit {
			rows = rows[:limit]
		}
		fps, err := fingerprinter.Fingerprint(ctx, table.fields, rows)
		if err != nil {
			return err
		}
		out = fps
	}

	return writeJSON(outputFile, out)
}

func newCompareCmd() *cobra.Command {
	var flags cliFlags
	var leftFile, rightFile, column, outputFile string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare one column's fingerprint across two CSV files",
		Long: `Compare fingerprints the named column in both input files, extracts each
fingerprint's comparison vector, and reports the elementwise differences plus
the normalized Euclidean distance between them.

Example:
  prism compare --left june.csv --right july.csv --column total`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			return runCompare(cfg, flags.timeout, leftFile, rightFile, column, outputFile)
		},
	}

	cmd.Flags().StringVar(&leftFile, "left", "", "Path to left CSV file (required)")
	cmd.Flags().StringVar(&rightFile, "right", "", "Path to right CSV file (required)")
	cmd.Flags().StringVar(&column, "column", "", "Column to compare (required)")
	_ = cmd.MarkFlagRequired("left")
	_ = cmd.MarkFlagRequired("right")
	_ = cmd.MarkFlagRequired("column")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write JSON output to file instead of stdout")
	flags.register(cmd)
	return cmd
}

func runCompare(cfg *config.Config, timeout time.Duration, leftFile, rightFile, column, outputFile string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	left, err := fingerprintColumn(ctx, cfg, leftFile, column)
	if err != nil {
		return err
	}
	right, err := fingerprintColumn(ctx, cfg, rightFile, column)
	if err != nil {
		return err
	}

	diffs, err := compare.PairwiseDifferences(compare.Vector(left), compare.Vector(right))
	if err != nil {
		metrics.Comparisons.WithLabelValues("error").Inc()
		return err
	}
	distance, err := compare.Distance(compare.Vector(left), compare.Vector(right))
	if err != nil {
		metrics.Comparisons.WithLabelValues("error").Inc()
		return err
	}
	metrics.Comparisons.WithLabelValues("ok").Inc()

	return writeJSON(outputFile, map[string]any{
		"column":      column,
		"left":        left,
		"right":       right,
		"differences": diffs,
		"distance":    distance,
	})
}

func fingerprintColumn(ctx context.Context, cfg *config.Config, file, column string) (fingerprint.Fingerprint, error) {
	table, err := readTable(file, cfg)
	if err != nil {
		return nil, err
	}
	col, err := table.column(column)
	if err != nil {
		return nil, err
	}

	fps, err := pipeline.NewTableFingerprinter(cfg).Fingerprint(ctx, []models.Field{col.field}, table.project(col.index, -1, 0))
	if err != nil {
		return nil, err
	}
	return fps[col.field.Name], nil
}

// table is a fully loaded CSV file with inferred column types.
type table struct {
	fields []models.Field
	rows   []models.Row
}

type columnRef struct {
	index int
	field models.Field
}

func (t *table) column(name string) (columnRef, error) {
	for i, f := range t.fields {
		if f.Name == name {
			return columnRef{index: i, field: f}, nil
		}
	}
	return columnRef{}, fmt.Errorf("column %q not found", name)
}

func (t *table) pair(names string) (first, second columnRef, err error) {
	parts := strings.SplitN(names, ",", 2)
	if len(parts) != 2 {
		return first, second, fmt.Errorf("pair must name two comma-separated columns, got %q", names)
	}
	if first, err = t.column(strings.TrimSpace(parts[0])); err != nil {
		return first, second, err
	}
	second, err = t.column(strings.TrimSpace(parts[1]))
	return first, second, err
}

// project narrows rows to one or two columns, capped to limit rows when
// limit is positive. A second index of -1 selects a single column.
func (t *table) project(i, j, limit int) []models.Row {
	n := len(t.rows)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.Row, n)
	for r := 0; r < n; r++ {
		row := t.rows[r]
		if j < 0 {
			out[r] = models.Row{cellAt(row, i)}
		} else {
			out[r] = models.Row{cellAt(row, i), cellAt(row, j)}
		}
	}
	return out
}

func cellAt(row models.Row, i int) any {
	if i >= len(row) {
		return nil
	}
	return row[i]
}

// readTable loads a CSV file with a header row, coerces each cell to its
// natural Go value, and infers a semantic type tag per column.
func readTable(path string, cfg *config.Config) (*table, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from the CLI user
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var rows []models.Row
	columns := make([][]any, len(header))
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		row := make(models.Row, len(header))
		for i := range header {
			var cell any
			if i < len(record) {
				cell = coerceCell(record[i])
			}
			row[i] = cell
			columns[i] = append(columns[i], cell)
		}
		rows = append(rows, row)
	}

	inferencer := schema.NewInferencer()
	fields := make([]models.Field, len(header))
	for i, name := range header {
		fields[i] = models.Field{
			Name: name,
			Type: inferencer.InferColumn(name, columns[i]),
		}
	}
	return &table{fields: fields, rows: rows}, nil
}

// coerceCell converts a CSV cell to its natural value: empty becomes nil,
// numerics become float64, booleans become bool, everything else stays a
// string.
func coerceCell(s string) any {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return n
	}
	switch strings.ToLower(trimmed) {
	case "true":
		return true
	case "false":
		return false
	}
	return trimmed
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
