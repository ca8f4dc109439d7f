package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	fs "github.com/ungerik/go-fs"

	"github.com/domonda/go-regrid"
	"github.com/domonda/go-regrid/csvtable"
	"github.com/domonda/go-regrid/htmltable"
	"github.com/domonda/go-regrid/indexmap"
	"github.com/domonda/go-regrid/indexmetrics"
)

const (
	renderCmdUse   = "render <csv-file>"
	renderCmdShort = "Apply row and column edits to a CSV file and render it"
	renderArgCount = 1

	// envPrefix is the environment variable prefix for flag values.
	envPrefix = "REGRID"

	metricsNamespace = "regrid"
	headerColumn     = "#"
)

const (
	formatCSV   = "csv"
	formatHTML  = "html"
	formatTable = "table"
)

// ErrUnknownFormat is returned for an unsupported --format.
var ErrUnknownFormat = errors.New("unknown output format (use csv, html or table)")

type renderConfig struct {
	removeRows  string
	insertRows  string
	moveRows    string
	moveCols    string
	hideRows    string
	hideCols    string
	bindHeaders bool
	format      string
	output      string
	metricsFile string
	separator   string
	encoding    string
	verbose     bool
}

// NewRenderCommand creates the render subcommand.
//
// Every flag can also be set by an environment variable
// like REGRID_MOVE_ROWS or by a key of the file passed with --config.
func NewRenderCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   renderCmdUse,
		Short: renderCmdShort,
		Long: `Reads a CSV file into a grid and applies the edits in this order:
remove rows, insert rows, move rows, move columns, hide rows, hide columns.
All indexes are visual indexes of the grid at the time the edit is applied.`,
		Args: cobra.ExactArgs(renderArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newViper(cmd, configFile)
			if err != nil {
				return err
			}
			cfg := loadRenderConfig(v)
			logger := newLogger(cmd.ErrOrStderr(), cfg.verbose)

			return runRender(cmd.Context(), cmd.OutOrStdout(), logger, args[0], cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "config file with flag values")
	flags.String("remove-rows", "", "comma separated rows to remove")
	flags.String("insert-rows", "", "insert empty rows as at:count")
	flags.String("move-rows", "", "move rows as rows:target, like 2,3:0")
	flags.String("move-cols", "", "move columns as columns:target")
	flags.String("hide-rows", "", "comma separated rows to hide")
	flags.String("hide-cols", "", "comma separated columns to hide")
	flags.Bool("bind-headers", false, "add a leading column with the original row numbers")
	flags.StringP("format", "f", formatCSV, "output format: csv, html or table")
	flags.StringP("output", "o", "", "output file instead of stdout")
	flags.String("metrics-file", "", "write Prometheus metrics in text format to this file")
	flags.String("separator", "", "CSV separator, detected if empty")
	flags.String("encoding", "", "CSV encoding, detected if empty")
	flags.BoolP("verbose", "v", false, "log edits at debug level")

	return cmd
}

func newViper(cmd *cobra.Command, configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	err := v.BindPFlags(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		readErr := v.ReadInConfig()
		if readErr != nil {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	return v, nil
}

func loadRenderConfig(v *viper.Viper) renderConfig {
	return renderConfig{
		removeRows:  v.GetString("remove-rows"),
		insertRows:  v.GetString("insert-rows"),
		moveRows:    v.GetString("move-rows"),
		moveCols:    v.GetString("move-cols"),
		hideRows:    v.GetString("hide-rows"),
		hideCols:    v.GetString("hide-cols"),
		bindHeaders: v.GetBool("bind-headers"),
		format:      v.GetString("format"),
		output:      v.GetString("output"),
		metricsFile: v.GetString("metrics-file"),
		separator:   v.GetString("separator"),
		encoding:    v.GetString("encoding"),
		verbose:     v.GetBool("verbose"),
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func runRender(ctx context.Context, stdout io.Writer, logger *slog.Logger, path string, cfg renderConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}

	file := fs.File(path)
	data, err := file.ReadAll()
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	rows, format, err := readCSV(data, cfg)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	logger.Debug("read csv", "file", path, "rows", len(rows), "separator", format.Separator, "encoding", format.Encoding)

	var (
		registry   = prometheus.NewRegistry()
		rowMetrics = indexmetrics.NewCollector(metricsNamespace, "rows")
		colMetrics = indexmetrics.NewCollector(metricsNamespace, "columns")
	)
	registry.MustRegister(rowMetrics, colMetrics)

	grid := regrid.NewGridFromView(
		regrid.NewStringsView(file.Name(), csvtable.RemoveEmptyRows(rows)),
		indexmap.WithLogger(logger),
		indexmap.IfNamed("rows", indexmap.WithObserver(rowMetrics)),
		indexmap.IfNamed("columns", indexmap.WithObserver(colMetrics)),
	)

	var view regrid.View = grid
	if cfg.bindHeaders {
		binding, err := regrid.BindHeaders(grid.RowMapper(), regrid.BindRowsWithHeadersKey)
		if err != nil {
			return err
		}
		view = binding.View(grid, headerColumn)
	}

	err = applyEdits(grid, cfg)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	err = writeView(ctx, &out, view, cfg.format, format)
	if err != nil {
		return err
	}

	if cfg.output != "" {
		err = fs.File(cfg.output).WriteAll(out.Bytes())
		if err != nil {
			return fmt.Errorf("write %s: %w", cfg.output, err)
		}
	} else {
		_, err = stdout.Write(out.Bytes())
		if err != nil {
			return err
		}
	}

	if cfg.metricsFile != "" {
		err = prometheus.WriteToTextfile(cfg.metricsFile, registry)
		if err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	return nil
}

func readCSV(data []byte, cfg renderConfig) ([][]string, *csvtable.Format, error) {
	if cfg.separator == "" && cfg.encoding == "" {
		return csvtable.ReadDetectFormat(data, nil)
	}

	format := csvtable.NewFormat(cfg.separator)
	format.Newline = "\n"
	if cfg.separator == "" {
		format.Separator = ","
	}
	if cfg.encoding != "" {
		format.Encoding = cfg.encoding
	}

	rows, err := csvtable.Read(data, format)

	return rows, format, err
}

func applyEdits(grid *regrid.Grid, cfg renderConfig) error {
	removeRows, err := parseIndexes(cfg.removeRows)
	if err != nil {
		return err
	}
	insertRows, err := parseInsert(cfg.insertRows)
	if err != nil {
		return err
	}
	moveRows, err := parseMove(cfg.moveRows)
	if err != nil {
		return err
	}
	moveCols, err := parseMove(cfg.moveCols)
	if err != nil {
		return err
	}
	hideRows, err := parseIndexes(cfg.hideRows)
	if err != nil {
		return err
	}
	hideCols, err := parseIndexes(cfg.hideCols)
	if err != nil {
		return err
	}

	if len(removeRows) > 0 {
		err = grid.RemoveRows(removeRows...)
		if err != nil {
			return err
		}
	}
	if insertRows != nil {
		err = grid.InsertRows(insertRows.at, insertRows.count)
		if err != nil {
			return err
		}
	}
	if moveRows != nil {
		grid.MoveRows(moveRows.indexes, moveRows.target)
	}
	if moveCols != nil {
		grid.MoveColumns(moveCols.indexes, moveCols.target)
	}
	if len(hideRows) > 0 {
		err = hide(grid.RowMapper(), regrid.HiddenRowsKey, hideRows)
		if err != nil {
			return err
		}
	}
	if len(hideCols) > 0 {
		err = hide(grid.ColumnMapper(), regrid.HiddenColumnsKey, hideCols)
		if err != nil {
			return err
		}
	}

	return nil
}

func hide(mapper *indexmap.IndexMapper, key string, visualIndexes []int) error {
	hidden, err := regrid.NewHiddenIndexes(mapper, key)
	if err != nil {
		return err
	}

	return hidden.HideVisual(visualIndexes...)
}

func writeView(ctx context.Context, dest io.Writer, view regrid.View, outputFormat string, csvFormat *csvtable.Format) error {
	switch outputFormat {
	case formatCSV:
		writer := csvtable.NewWriter().WithHeaderRow(true).WithNewLine("\n")
		if csvFormat.Separator != "" {
			writer = writer.WithDelimiter(rune(csvFormat.Separator[0]))
		}

		return writer.WriteView(ctx, dest, view)

	case formatHTML:
		return htmltable.NewWriter().WithHeaderRow(true).WriteView(ctx, dest, view)

	case formatTable:
		return writePrettyTable(ctx, dest, view)

	default:
		return fmt.Errorf("%q: %w", outputFormat, ErrUnknownFormat)
	}
}

// writePrettyTable renders the view as text table using go-pretty.
func writePrettyTable(ctx context.Context, dest io.Writer, view regrid.View) error {
	columns := view.Columns()

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(view.Title())

	header := make(table.Row, len(columns))
	for i, col := range columns {
		header[i] = col
	}

	tbl.AppendHeader(header)

	for row := range view.NumRows() {
		cells := make(table.Row, len(columns))
		for col := range columns {
			str, _, err := regrid.FormatCell(ctx, view, row, col)
			if err != nil {
				return err
			}
			cells[col] = str
		}

		tbl.AppendRow(cells)
	}

	_, err := fmt.Fprintln(dest, tbl.Render())

	return err
}
