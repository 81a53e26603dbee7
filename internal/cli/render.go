package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/venviro/chartkit/pkg/config"
	"github.com/venviro/chartkit/pkg/errors"
	"github.com/venviro/chartkit/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	kind        string   // chart kind: stacked_percent_bar, horizontal_bar, pie
	scheme      string   // color scheme: default, blue, red, green, spectrum
	categories  []string // category filter, empty means all
	title       string   // title override
	xlabel      string   // x axis label
	ylabel      string   // y axis label
	group       string   // group plotted by pie charts
	formats     string   // comma-separated output formats
	dpi         int      // output resolution
	output      string   // output directory
	filename    string   // filename base override
	timestamp   bool     // append timestamp to filenames
	refresh     bool     // bypass the artifact cache
	noCache     bool     // disable the artifact cache entirely
	interactive bool     // pick kind and scheme interactively
}

// newRenderCmd creates the render command. It reads a dataset JSON file
// (or stdin when the argument is "-"), runs the pipeline, and writes the
// exported files to the output directory.
func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a dataset file to chart images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.kind, "kind", "k", "", "chart kind: stacked_percent_bar, horizontal_bar, pie")
	cmd.Flags().StringVar(&opts.scheme, "scheme", "", "color scheme: default, blue, red, green, spectrum")
	cmd.Flags().StringSliceVar(&opts.categories, "categories", nil, "only plot these categories (comma-separated)")
	cmd.Flags().StringVar(&opts.title, "title", "", "override the chart title")
	cmd.Flags().StringVar(&opts.xlabel, "xlabel", "", "x axis label")
	cmd.Flags().StringVar(&opts.ylabel, "ylabel", "", "y axis label")
	cmd.Flags().StringVar(&opts.group, "group", "", "group plotted by pie charts (default: first group)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): png (default), jpg, pdf, svg (comma-separated)")
	cmd.Flags().IntVar(&opts.dpi, "dpi", 0, "output resolution (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default from config, else current dir)")
	cmd.Flags().StringVar(&opts.filename, "filename", "", "override the output filename base")
	cmd.Flags().BoolVar(&opts.timestamp, "timestamp", true, "append a timestamp to filenames")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when artifacts are cached")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick kind and scheme interactively")

	return cmd
}

func runRender(ctx context.Context, path string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	upload, err := readUpload(path)
	if err != nil {
		return err
	}

	if opts.interactive {
		kind, scheme, err := pickStyle(opts.kind, opts.scheme)
		if err != nil {
			return err
		}
		opts.kind = kind
		opts.scheme = scheme
	}

	popts := pipeline.Options{
		Kind:            opts.kind,
		Scheme:          opts.scheme,
		Categories:      opts.categories,
		Title:           opts.title,
		XLabel:          opts.xlabel,
		YLabel:          opts.ylabel,
		PieGroup:        opts.group,
		DPI:             opts.dpi,
		Filename:        opts.filename,
		AppendTimestamp: opts.timestamp,
		LocalPath:       outputDir(opts.output, cfg),
		Refresh:         opts.refresh,
		Logger:          logger,
	}
	if opts.formats != "" {
		popts.Formats = strings.Split(opts.formats, ",")
	} else if len(cfg.Export.Formats) > 0 {
		popts.Formats = cfg.Export.Formats
	}
	if popts.DPI == 0 {
		popts.DPI = cfg.Export.DPI
	}

	runner := buildRunner(ctx, cfg, opts.noCache, logger)
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, upload, popts)
	if err != nil {
		printError("%s", errors.UserMessage(err))
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s chart", opts.kind))

	printStats(result.Stats.CategoryCount, result.Stats.GroupCount, result.CacheInfo.ArtifactHit)
	for _, w := range result.Warnings {
		printWarning("%s", w)
	}

	failed := result.Failed()
	for _, o := range result.Outcomes {
		if o.Err == nil {
			printFile(o.Path)
		}
	}
	for _, o := range failed {
		printError("%s: %s", o.Format, errors.UserMessage(o.Err))
	}
	if len(failed) == len(result.Outcomes) {
		return fmt.Errorf("all exports failed")
	}

	printSuccess("Exported %d of %d formats", len(result.Outcomes)-len(failed), len(result.Outcomes))
	return nil
}

// readUpload reads the dataset JSON from a file or stdin ("-").
func readUpload(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return data, nil
}

// outputDir resolves the export directory: flag, then config, then cwd.
func outputDir(flag string, cfg config.Config) string {
	if flag != "" {
		return flag
	}
	if cfg.Export.Dir != "" {
		return cfg.Export.Dir
	}
	return "."
}
