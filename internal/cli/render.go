package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/treescope/treescope/pkg/cache"
	"github.com/treescope/treescope/pkg/diagram"
	"github.com/treescope/treescope/pkg/layout"
	"github.com/treescope/treescope/pkg/observability"
	"github.com/treescope/treescope/pkg/render/sink"
	"github.com/treescope/treescope/pkg/tree"
)

// artifactTTL bounds how long rendered artifacts stay in the CLI cache.
const artifactTTL = 7 * 24 * time.Hour

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string   // output file path (or base path for multiple formats)
	formats     []string // output formats: "svg", "json", "png", "pdf"
	engine      string   // layout engine: "tidy" or "graphviz"
	width       float64  // surface width (height always equals width)
	showDigests bool     // render the secondary digest label per node
	noCache     bool     // disable the artifact cache
	configPath  string   // explicit config file path
}

// newRenderCmd creates the render command for generating diagrams.
// It reads a tree from a JSON file and writes one output file per format.
//
// Default settings:
//   - engine: tidy
//   - width: 900px (height equals width)
//   - format: svg
func newRenderCmd() *cobra.Command {
	var formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [tree.json]",
		Short: "Render a tree file to SVG, JSON, PNG, or PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, png, pdf (comma-separated)")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "layout engine: tidy (default), graphviz")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "surface width in pixels (height equals width)")
	cmd.Flags().BoolVar(&opts.showDigests, "digests", false, "show node digests as secondary labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default ./treescope.toml)")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{"svg"}
	}
	return strings.Split(s, ",")
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"svg": true, "json": true, "png": true, "pdf": true}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'svg', 'json', 'png', or 'pdf')", f)
		}
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output has a
// format extension (.svg, .png, etc.), it strips that extension. This is
// used when generating multiple files (e.g., tree.svg, tree.json).
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// runRender loads the tree, applies config and flags, and renders it to
// the requested formats.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	applyRenderFlags(&cfg, opts)

	root, err := tree.ReadFile(input)
	if err != nil {
		return err
	}
	logger.Infof("Loaded tree: %d nodes, depth %d", root.Count(), root.Depth())

	engine, err := layout.ForName(cfg.Diagram.Engine)
	if err != nil {
		return err
	}

	artifacts, err := newArtifactStore(cfg.Cache, opts.noCache)
	if err != nil {
		return err
	}
	defer artifacts.Close()

	d, err := buildDiagram(ctx, engine, cfg, root)
	if err != nil {
		return err
	}

	treeHash, _ := treeHashOf(root)
	base := basePath(opts.output, input)
	cached := true
	for _, format := range opts.formats {
		hit, err := renderFormat(ctx, d, format, base, len(opts.formats) == 1, opts.output, artifacts, treeHash, cfg)
		if err != nil {
			return err
		}
		cached = cached && hit
	}

	printSuccess("Rendered %s", input)
	printStats(root.Count(), root.Count()-1, cached)
	return nil
}

// applyRenderFlags overlays command-line flags onto the loaded config.
func applyRenderFlags(cfg *Config, opts *renderOpts) {
	if opts.engine != "" {
		cfg.Diagram.Engine = opts.engine
	}
	if opts.width > 0 {
		cfg.Width = opts.width
	}
	if opts.showDigests {
		cfg.Diagram.ShowDigests = true
	}
}

// buildDiagram computes the layout inside the inner region and maps it to
// geometry. The surface is square: height equals width.
func buildDiagram(ctx context.Context, engine layout.Engine, cfg Config, root *tree.Node) (diagram.Diagram, error) {
	logger := loggerFromContext(ctx)
	p := newProgress(logger)

	width := cfg.Width
	height := width // square drawing area
	innerW, innerH := cfg.Diagram.InnerSize(width, height)

	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", engine.Name()))
	spin.Start()
	l, err := engine.Layout(ctx, root, innerW, innerH)
	if err != nil {
		spin.StopWithError("Layout failed")
		return diagram.Diagram{}, err
	}
	spin.Stop()

	d := diagram.Build(l, cfg.Diagram)
	p.done(fmt.Sprintf("Laid out %d nodes", len(l.Nodes)))
	return d, nil
}

// renderFormat renders one output format, consulting the artifact cache
// before doing any work. The bool reports whether the artifact came from
// the cache.
func renderFormat(ctx context.Context, d diagram.Diagram, format, base string, single bool, output string, artifacts cache.Cache, treeHash string, cfg Config) (bool, error) {
	logger := loggerFromContext(ctx)

	path := output
	if path == "" || !single {
		path = base + "." + format
	}

	key := cache.ArtifactKey(treeHash, cfg.Diagram.Engine, format, cfg.Diagram.ShowDigests)
	if data, ok, err := artifacts.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "artifact")
		logger.Debugf("Cache hit for %s", format)
		return true, writeOutput(path, data)
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	hooks := observability.Diagram()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()
	data, err := renderBytes(d, format)
	hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	if err != nil {
		return false, err
	}
	logger.Debugf("Generated %s: %d bytes", format, len(data))

	if err := artifacts.Set(ctx, key, data, artifactTTL); err != nil {
		logger.Debugf("Cache write failed: %v", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return false, writeOutput(path, data)
}

// renderBytes dispatches to the sink for the requested format.
func renderBytes(d diagram.Diagram, format string) ([]byte, error) {
	switch format {
	case "svg":
		return sink.RenderSVG(d), nil
	case "json":
		return sink.RenderJSON(d)
	case "png":
		return sink.RenderPNG(d)
	case "pdf":
		return sink.RenderPDF(d)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// writeOutput writes artifact bytes to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	printFile(path)
	return nil
}

// newArtifactStore opens the configured artifact cache backend.
func newArtifactStore(cfg CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Disabled {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return nil, err
	}
	return cache.NewFileCache(dir)
}

// treeHashOf computes the content hash used in artifact cache keys.
func treeHashOf(root *tree.Node) (string, error) {
	data, err := tree.Marshal(root)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
