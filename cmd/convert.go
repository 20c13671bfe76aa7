// Package cmd: convert command.
// This is the main command that orchestrates the pipeline:
// fetch → extract → convert → render → write, then optionally publish.
//
// It handles flag validation, renderer selection, store wiring, and the
// single-document / --all modes.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/gaurav-prasanna/townpipe/core"
	"github.com/gaurav-prasanna/townpipe/core/config"
	"github.com/gaurav-prasanna/townpipe/core/convert"
	"github.com/gaurav-prasanna/townpipe/core/extract"
	"github.com/gaurav-prasanna/townpipe/core/fetch"
	"github.com/gaurav-prasanna/townpipe/core/finalize"
	"github.com/gaurav-prasanna/townpipe/core/normalize"
	"github.com/gaurav-prasanna/townpipe/core/output"
	"github.com/gaurav-prasanna/townpipe/core/publish"
	"github.com/gaurav-prasanna/townpipe/core/render"
	"github.com/gaurav-prasanna/townpipe/core/store"
	"github.com/gaurav-prasanna/townpipe/crawl"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Flag variables.
var (
	flagAll       bool
	flagHTML      bool
	flagPDF       bool
	flagMarkdown  bool
	flagJSON      bool
	flagPersist   bool
	flagPublish   bool
	flagStore     string
	flagDB        string
	flagOutputDir string
)

var convertCmd = &cobra.Command{
	Use:   "convert <file|url>",
	Short: "Convert a generator page to the specified output format",
	Long: `Convert loads a Wizardawn settlement page, extracts the town it describes,
and writes it in the specified output format (HTML, JSON, Markdown, or PDF).

With --persist every entity is written to the content store while converting
and the output references stored entities. With --publish the town is
converted for display, written, and then stored.

Examples:
  townpipe convert ./oakvale.html --html
  townpipe convert https://example.org/towns/oakvale.html --json --output_dir ./out
  townpipe convert https://example.org/towns/ --all --markdown
  townpipe convert ./oakvale.html --pdf --publish --store sqlite --db towns.db`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().BoolVar(&flagAll, "all", false, "Treat the argument as an index page and convert every town it links")

	// Output format flags (mutually exclusive).
	convertCmd.Flags().BoolVar(&flagHTML, "html", false, "Output an HTML page")
	convertCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output a PDF handout")
	convertCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown")
	convertCmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")

	// Store flags.
	convertCmd.Flags().BoolVar(&flagPersist, "persist", false, "Store entities while converting")
	convertCmd.Flags().BoolVar(&flagPublish, "publish", false, "Store the town after writing the output")
	convertCmd.Flags().StringVar(&flagStore, "store", "", "Content store driver: memory or sqlite (overrides config)")
	convertCmd.Flags().StringVar(&flagDB, "db", "", "SQLite database path (overrides config)")

	convertCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
}

// pipeline holds everything one invocation needs to process a document.
type pipeline struct {
	fetcher   core.Fetcher
	extractor *extract.Extractor
	converter *convert.Converter
	publisher *publish.Publisher
	store     core.ContentStore
	renderer  core.Renderer
	writer    *output.Writer
	log       *zap.Logger
	out       io.Writer
}

func runConvert(cmd *cobra.Command, args []string) (err error) {
	source := args[0]

	if err := validateFlags(); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Log, flagVerbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	p := &pipeline{
		fetcher:   fetch.New(fetch.WithLogger(log.Named("fetch"))),
		extractor: extract.New(log.Named("extract")),
		renderer:  selectRenderer(cfg),
		log:       log,
		out:       cmd.OutOrStdout(),
	}

	var opts []convert.Option
	opts = append(opts, convert.WithLogger(log.Named("convert")))
	if flagPersist || flagPublish {
		var (
			st         core.ContentStore
			closeStore func() error
		)
		st, closeStore, err = store.Open(cfg.Store)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer func() { err = multierr.Append(err, closeStore()) }()
		p.store = st
		opts = append(opts, convert.WithStore(st))

		norm := normalize.New(cfg.Boilerplate)
		final := finalize.New(norm, cfg.Images.CanonicalHost, cfg.Images.CanonicalBase)
		p.publisher = publish.New(final, cfg.Images.AssetBase, log.Named("publish"))
	}
	if p.converter, err = convert.New(cfg, opts...); err != nil {
		return fmt.Errorf("initializing converter: %w", err)
	}
	if p.writer, err = output.New(flagOutputDir); err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if flagAll {
		return p.runAll(ctx, source)
	}
	return p.process(ctx, source)
}

// runAll discovers every town linked from an index page and processes each.
// A failed town is reported and the batch continues.
func (p *pipeline) runAll(ctx context.Context, indexURL string) error {
	u, err := url.Parse(indexURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("--all needs an http(s) index URL, got %q", indexURL)
	}

	fmt.Fprintf(p.out, "Discovering towns from %s...\n", indexURL)
	docs, err := crawl.Discover(ctx, indexURL, p.fetcher, p.log.Named("crawl"))
	if err != nil {
		return fmt.Errorf("discovering towns: %w", err)
	}
	fmt.Fprintf(p.out, "Found %d towns to convert\n", len(docs))

	var failed int
	for i, doc := range docs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprintf(p.out, "[%d/%d] Converting %s\n", i+1, len(docs), doc)
		if err := p.process(ctx, doc); err != nil {
			p.log.Error("conversion failed", zap.String("source", doc), zap.Error(err))
			fmt.Fprintf(p.out, "  ✗ Error: %v\n", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d/%d towns failed", failed, len(docs))
	}
	return nil
}

// process runs one document through the pipeline.
func (p *pipeline) process(ctx context.Context, source string) error {
	fetched, err := p.fetcher.Fetch(ctx, source)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	body, err := p.extractor.Extract(fetched.HTML)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	res, err := p.converter.Convert(ctx, body, flagPersist)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	city := res.City
	fmt.Fprintf(p.out, "  %s: %d buildings, %d inhabitants\n", displayName(city), len(city.Buildings), len(city.NPCs))

	data, err := p.renderer.Render(res)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	path, err := p.writer.Write(city.Title, source, data, p.renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "  ✓ Written: %s\n", path)

	if flagPublish {
		if err := p.publisher.Publish(ctx, city, p.store); err != nil {
			for _, e := range multierr.Errors(err) {
				p.log.Warn("publish failure", zap.Error(e))
			}
			return fmt.Errorf("publish: %w", err)
		}
		fmt.Fprintf(p.out, "  ✓ Published: city %s\n", city.ID)
	} else if flagPersist {
		fmt.Fprintf(p.out, "  ✓ Stored: city %s\n", city.ID)
	}
	return nil
}

func displayName(c *core.City) string {
	if c.Title == "" {
		return "untitled town"
	}
	return c.Title
}

// loadConfig reads the config file and applies the store flags on top.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if flagStore != "" {
		cfg.Store.Driver = flagStore
	}
	if flagDB != "" {
		cfg.Store.Path = flagDB
		if flagStore == "" {
			cfg.Store.Driver = "sqlite"
		}
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("validating flags: %w", err)
	}
	return cfg, nil
}

// validateFlags checks that exactly one output format is chosen and that
// the store modes are not combined.
func validateFlags() error {
	formatCount := 0
	for _, set := range []bool{flagHTML, flagPDF, flagMarkdown, flagJSON} {
		if set {
			formatCount++
		}
	}
	if formatCount == 0 {
		return errors.New("exactly one output format is required: --html, --json, --markdown, or --pdf")
	}
	if formatCount > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}

	if flagPersist && flagPublish {
		return errors.New("--persist and --publish are mutually exclusive")
	}
	if (flagStore != "" || flagDB != "") && !flagPersist && !flagPublish {
		return errors.New("--store and --db need --persist or --publish")
	}
	return nil
}

// selectRenderer creates the Renderer chosen by the format flags.
func selectRenderer(cfg config.Config) core.Renderer {
	switch {
	case flagJSON:
		return render.NewJSONRenderer()
	case flagMarkdown:
		return render.NewMarkdownRenderer()
	case flagPDF:
		return render.NewPDFRenderer()
	default:
		return render.NewHTMLRenderer(cfg.Images.AssetBase)
	}
}
