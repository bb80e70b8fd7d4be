// Package cmd — export command.
// This is the main command that orchestrates the pipeline:
// load → extract → render → write.
//
// It handles flag validation, renderer selection, and the --only / --all modes.
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/gaurav-prasanna/protpipe/core"
	"github.com/gaurav-prasanna/protpipe/core/annotation"
	"github.com/gaurav-prasanna/protpipe/core/extract"
	"github.com/gaurav-prasanna/protpipe/core/fetch"
	"github.com/gaurav-prasanna/protpipe/core/normalize"
	"github.com/gaurav-prasanna/protpipe/core/output"
	"github.com/gaurav-prasanna/protpipe/core/render"
	"github.com/gaurav-prasanna/protpipe/crawl"
	"github.com/spf13/cobra"
)

// Flag variables.
var (
	flagOnly      bool
	flagAll       bool
	flagXML       bool
	flagJSON      bool
	flagHTML      bool
	flagMarkdown  bool
	flagPDF       bool
	flagOrganism  string
	flagSamples   []string
	flagGenotypes bool
	flagOutputDir string
)

var exportCmd = &cobra.Command{
	Use:   "export <source>",
	Short: "Export an annotation source to the specified output format",
	Long: `Export loads precomputed variant effects from a manifest (YAML or JSON,
local or http/https) or a SQLite annotation store, keeps protein-coding
transcripts with a stop codon, and writes the selected output format.

Examples:
  protpipe export cohort.yaml --xml --organism "Homo sapiens"
  protpipe export annotations.db --json --output_dir ./out
  protpipe export ./manifests --all --xml
  protpipe export https://example.org/annotations/ --all --html`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	// Mode flags.
	exportCmd.Flags().BoolVar(&flagOnly, "only", false, "Export only the given source (default)")
	exportCmd.Flags().BoolVar(&flagAll, "all", false, "Export every source found below the given directory or index URL")

	// Output format flags (mutually exclusive).
	exportCmd.Flags().BoolVar(&flagXML, "xml", false, "Output mzLibProteinDb XML")
	exportCmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")
	exportCmd.Flags().BoolVar(&flagHTML, "html", false, "Output an HTML report")
	exportCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output a Markdown report")
	exportCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output a PDF report")

	// Document flags.
	exportCmd.Flags().StringVar(&flagOrganism, "organism", "", "Scientific organism name (overrides the source)")
	exportCmd.Flags().StringSliceVar(&flagSamples, "samples", nil, "Sample names (overrides the source)")
	exportCmd.Flags().BoolVar(&flagGenotypes, "genotypes", false, "Include per-sample genotypes (not supported)")

	// Output directory.
	exportCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
}

func runExport(cmd *cobra.Command, args []string) error {
	source := args[0]

	// --- Validate flags ---
	if flagGenotypes {
		return core.ErrGenotypesUnsupported
	}
	format, err := resolveFormat()
	if err != nil {
		return err
	}

	renderer, err := selectRenderer(format)
	if err != nil {
		return err
	}

	outputDir := flagOutputDir
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	writer, err := output.New(outputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	fetcher := fetch.New()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if flagAll {
		return runAll(ctx, out, source, fetcher, renderer, writer)
	}
	return runOnly(ctx, out, source, fetcher, renderer, writer)
}

// runOnly exports a single source.
func runOnly(
	ctx context.Context,
	out io.Writer,
	source string,
	fetcher core.Fetcher,
	renderer core.Renderer,
	writer *output.Writer,
) error {
	db, err := loadSource(ctx, source, fetcher)
	if err != nil {
		return err
	}

	path, err := writer.WriteOnly(source, renderer.Extension(), func(w io.Writer) error {
		return renderer.Render(w, db)
	})
	if err != nil {
		return err
	}
	logger.Debug("wrote output", "source", source, "path", path)
	fmt.Fprintf(out, "✓ Written: %s\n", path)
	return nil
}

// runAll discovers every source below root and exports each one.
func runAll(
	ctx context.Context,
	out io.Writer,
	root string,
	fetcher core.Fetcher,
	renderer core.Renderer,
	writer *output.Writer,
) error {
	fmt.Fprintf(out, "Discovering sources in %s...\n", root)

	found, err := crawl.DiscoverAll(ctx, root, fetcher)
	if err != nil {
		return fmt.Errorf("discovering sources: %w", err)
	}

	// Reports from an earlier run into the same tree are not sources.
	ext := renderer.Extension()
	sources := make([]string, 0, len(found))
	for _, source := range found {
		if writer.IsOutput(root, source, ext) {
			fmt.Fprintf(out, "Skipping %s (inside output directory)\n", source)
			continue
		}
		sources = append(sources, source)
	}

	fmt.Fprintf(out, "Found %d sources to export\n", len(sources))

	var errCount int
	written := make(map[string]string, len(sources))
	for i, source := range sources {
		fmt.Fprintf(out, "[%d/%d] Exporting %s\n", i+1, len(sources), source)

		dest, err := writer.PathAll(root, source, ext)
		if err != nil {
			fmt.Fprintf(out, "  ✗ Error: %v\n", err)
			errCount++
			continue
		}
		if prev, ok := written[dest]; ok {
			fmt.Fprintf(out, "  ✗ Error: %s already written from %s\n", dest, prev)
			errCount++
			continue
		}

		db, err := loadSource(ctx, source, fetcher)
		if err != nil {
			fmt.Fprintf(out, "  ✗ Error: %v\n", err)
			errCount++
			continue
		}

		path, err := writer.WriteAll(root, source, ext, func(w io.Writer) error {
			return renderer.Render(w, db)
		})
		if err != nil {
			fmt.Fprintf(out, "  ✗ Write error: %v\n", err)
			errCount++
			continue
		}
		written[dest] = source
		fmt.Fprintf(out, "  ✓ Written: %s\n", path)
	}

	if errCount > 0 {
		return fmt.Errorf("%d/%d sources failed", errCount, len(sources))
	}
	return nil
}

// loadSource loads one source and applies organism and sample overrides:
// flags first, then the source itself, then the config file.
func loadSource(ctx context.Context, source string, fetcher core.Fetcher) (*core.ProteinDB, error) {
	db, err := annotation.Load(ctx, source, fetcher)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", source, err)
	}

	switch {
	case flagOrganism != "":
		db.Organism = flagOrganism
	case db.Organism == "":
		db.Organism = cfg.Organism
	}
	switch {
	case len(flagSamples) > 0:
		db.SampleNames = flagSamples
	case len(db.SampleNames) == 0:
		db.SampleNames = cfg.Samples
	}

	logger.Debug("loaded source",
		"source", source,
		"transcripts", len(db.Transcripts),
		"organism", db.Organism,
	)
	return db, nil
}

// resolveFormat checks that at most one output format flag is set and
// that --only and --all are not both specified. With no format flag the
// config file's format is used.
func resolveFormat() (string, error) {
	// Check mutually exclusive mode flags.
	if flagOnly && flagAll {
		return "", fmt.Errorf("--only and --all are mutually exclusive")
	}

	var formats []string
	for _, f := range []struct {
		set  bool
		name string
	}{
		{flagXML, "xml"},
		{flagJSON, "json"},
		{flagHTML, "html"},
		{flagMarkdown, "markdown"},
		{flagPDF, "pdf"},
	} {
		if f.set {
			formats = append(formats, f.name)
		}
	}

	switch {
	case len(formats) > 1:
		return "", fmt.Errorf("only one output format allowed per run (got %d)", len(formats))
	case len(formats) == 1:
		return formats[0], nil
	case cfg.Format != "":
		return cfg.Format, nil
	}
	return "", fmt.Errorf("%w: exactly one output format is required: --xml, --json, --html, --markdown, or --pdf", core.ErrNoFormat)
}

// selectRenderer creates the Renderer for a format name.
func selectRenderer(format string) (core.Renderer, error) {
	extractor := extract.New(logger)
	switch format {
	case "xml":
		return render.NewXMLRenderer(extractor), nil
	case "json":
		return render.NewJSONRenderer(extractor), nil
	case "html":
		return render.NewHTMLRenderer(extractor), nil
	case "markdown":
		return render.NewMarkdownRenderer(extractor, normalize.New()), nil
	case "pdf":
		return render.NewPDFRenderer(extractor), nil
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrNoFormat, format)
	}
}
