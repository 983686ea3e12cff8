package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"greg-hacke/jpeg-exif/catalog"
	"greg-hacke/jpeg-exif/config"
	"greg-hacke/jpeg-exif/formats"
	"greg-hacke/jpeg-exif/meta"
	"greg-hacke/jpeg-exif/tags"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// flags holds the parsed command line
type flags struct {
	verbose     bool
	showTables  bool
	asJSON      bool
	segments    bool
	configPath  string
	catalogPath string
	workers     int
	skipUnknown bool
}

// run is main without the process exit. It returns 0 on success, 1 when
// any file failed and 2 on usage errors.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("meta-extract", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: meta-extract [options] <file> [file...]\n\n")
		fmt.Fprintf(stderr, "Extract and display EXIF IFD0 tags from JPEG files\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}

	var f flags
	fs.BoolVar(&f.verbose, "v", false, "Verbose output")
	fs.BoolVar(&f.showTables, "tables", false, "Show the known IFD0 tags")
	fs.BoolVar(&f.asJSON, "json", false, "Print results as JSON")
	fs.BoolVar(&f.segments, "segments", false, "List JPEG segments up to APP1 instead of decoding")
	fs.StringVar(&f.configPath, "config", "", "Configuration file")
	fs.StringVar(&f.catalogPath, "catalog", "", "Record results in this SQLite catalog")
	fs.IntVar(&f.workers, "workers", 0, "Files decoded at once (default from config)")
	fs.BoolVar(&f.skipUnknown, "skip-unknown", false, "Skip unknown tags instead of stopping at the first one")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	// If showing tables, list them and exit
	if f.showTables {
		listTags(stdout)
		return 0
	}

	// Check arguments
	if fs.NArg() < 1 {
		fs.Usage()
		return 2
	}

	log := newLogger(stderr, f.verbose)
	defer log.Sync()

	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			fmt.Fprintf(stderr, "Error loading config: %v\n", err)
			return 2
		}
	}
	if f.workers > 0 {
		cfg.Workers = f.workers
	}
	if f.skipUnknown {
		cfg.SkipUnknownTags = true
	}
	if f.catalogPath != "" {
		cfg.Catalog = f.catalogPath
	}

	if f.segments {
		return listSegments(ctx, fs.Args(), cfg, stdout, stderr)
	}

	var cat *catalog.Catalog
	if cfg.Catalog != "" {
		var err error
		if cat, err = catalog.Open(ctx, cfg.Catalog); err != nil {
			fmt.Fprintf(stderr, "Error opening catalog: %v\n", err)
			return 1
		}
		defer cat.Close()
	}

	results, err := meta.ReadAll(ctx, fs.Args(), cfg.BatchOptions(log))
	if ctx.Err() != nil {
		fmt.Fprintf(stderr, "Interrupted: %v\n", err)
		return 1
	}

	code := 0
	for i, r := range results {
		if r.Err != nil {
			code = 1
			fmt.Fprintf(stderr, "Error reading %s: %v\n", r.Path, r.Err)
		} else if f.asJSON {
			out, err := r.Metadata.ToJSON()
			if err != nil {
				fmt.Fprintf(stderr, "Error encoding %s: %v\n", r.Path, err)
				code = 1
				continue
			}
			fmt.Fprintln(stdout, out)
		} else {
			if len(results) > 1 {
				if i > 0 {
					fmt.Fprintln(stdout)
				}
				fmt.Fprintf(stdout, "=== %s ===\n", r.Path)
			}
			displayFields(stdout, r.Metadata.Tags, f.verbose)
		}

		if cat != nil {
			if err := record(ctx, cat, r); err != nil {
				log.Error("catalog write failed", zap.String("path", r.Path), zap.Error(err))
				code = 1
			}
		}
	}
	return code
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core)
}

func record(ctx context.Context, cat *catalog.Catalog, r meta.Result) error {
	if r.Err != nil {
		return cat.PutFailure(ctx, r.Path, r.Err)
	}
	return cat.Put(ctx, r.Metadata)
}

// listTags prints the known IFD0 tags in ID order
func listTags(w io.Writer) {
	fmt.Fprintln(w, "Known IFD0 tags:")
	for _, def := range tags.All() {
		fmt.Fprintf(w, "  %s  %-9s %s\n", def.IDString(), def.Format, def.Name)
	}
}

// listSegments prints the marker segments of each file
func listSegments(ctx context.Context, paths []string, cfg *config.Config, stdout, stderr io.Writer) int {
	code := 0
	for _, path := range paths {
		segs, err := readSegments(ctx, path, cfg.HeadSize)
		if len(paths) > 1 {
			fmt.Fprintf(stdout, "=== %s ===\n", path)
		}
		for _, s := range segs {
			fmt.Fprintf(stdout, "  %s\n", s)
		}
		if err != nil {
			fmt.Fprintf(stderr, "Error reading %s: %v\n", path, err)
			code = 1
		}
	}
	return code
}

func readSegments(ctx context.Context, path string, headSize int64) ([]formats.Segment, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", formats.ErrSourceRead, err)
	}
	defer file.Close()

	head, err := meta.ReadHead(ctx, file, headSize)
	if err != nil {
		return nil, err
	}
	return formats.Segments(head)
}

// displayFields displays a decoded tag table
func displayFields(w io.Writer, table *formats.Table, verbose bool) {
	if table.Len() == 0 {
		fmt.Fprintln(w, "No metadata found")
		return
	}

	// Find max name length for alignment
	maxLen := 0
	for _, name := range table.Keys() {
		if len(name) > maxLen {
			maxLen = len(name)
		}
	}

	for _, f := range table.Fields() {
		value := f.Value.String()
		if r, ok := f.Value.(formats.Rational); ok && r.Defined() {
			value = fmt.Sprintf("%s (%g)", value, r.Value)
		}
		if !verbose {
			fmt.Fprintf(w, "%-*s : %s\n", maxLen, f.Key, value)
			continue
		}
		def, _ := tags.ByName(f.Key)
		fmt.Fprintf(w, "%-*s [%s] : %s", maxLen, f.Key, def.IDString(), value)
		if def.Description != "" {
			fmt.Fprintf(w, " (%s)", def.Description)
		}
		fmt.Fprintln(w)
	}
}
