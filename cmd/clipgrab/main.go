// Command clipgrab classifies or downloads a single social media video URL.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iconidentify/clipgrab/internal/classifier"
	"github.com/iconidentify/clipgrab/internal/config"
	"github.com/iconidentify/clipgrab/internal/domain"
	"github.com/iconidentify/clipgrab/internal/orchestrator"
	"github.com/iconidentify/clipgrab/internal/storage"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

const usage = `Usage: clipgrab [flags] <url>

Downloads a YouTube, Twitter/X or Instagram video and prints the result as JSON.

Flags:
`

// Exit codes.
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitUnsupported = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	configPath string
	classify   bool
	quality    string
	outDir     string
	timeout    time.Duration
	verbose    bool
	version    bool
	url        string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("clipgrab", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "", "Path to config file")
	fs.BoolVar(&opts.classify, "classify", false, "Only classify the URL, do not download")
	fs.StringVar(&opts.quality, "quality", "", "YouTube quality: highest, lowest, highestvideo, highestaudio, 720p, itag, ...")
	fs.StringVar(&opts.outDir, "out", "", "Output directory (overrides config)")
	fs.DurationVar(&opts.timeout, "timeout", 5*time.Minute, "Overall acquisition timeout")
	fs.BoolVar(&opts.verbose, "v", false, "Debug logging")
	fs.BoolVar(&opts.version, "version", false, "Show version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.version {
		return opts, nil
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errors.New("exactly one URL is required")
	}
	opts.url = fs.Arg(0)
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, "Error:", err)
		return exitUsage
	}

	if opts.version {
		fmt.Fprintf(stdout, "clipgrab %s (built %s)\n", Version, BuildTime)
		return exitOK
	}

	if opts.classify {
		info := classifier.Classify(opts.url)
		if err := printJSON(stdout, info); err != nil {
			fmt.Fprintln(stderr, "Error:", err)
			return exitFailure
		}
		if !info.IsValid {
			return exitUnsupported
		}
		return exitOK
	}

	// Logs go to stderr so stdout stays machine readable.
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return exitFailure
	}
	if opts.outDir != "" {
		cfg.Storage.OutputDir = opts.outDir
	}

	store := storage.NewFileStore(cfg.Storage.OutputDir, logger)
	orch := orchestrator.NewFromConfig(cfg, store, logger)

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	var acquireOpts []orchestrator.Option
	if opts.quality != "" {
		acquireOpts = append(acquireOpts, orchestrator.WithQuality(opts.quality))
	}

	result, err := orch.Acquire(ctx, opts.url, acquireOpts...)
	if err != nil {
		logger.Error("download failed", "url", opts.url, "error", err)
		if errors.Is(err, domain.ErrUnsupportedURL) {
			return exitUnsupported
		}
		return exitFailure
	}

	if err := printJSON(stdout, result); err != nil {
		logger.Error("failed to write result", "error", err)
		return exitFailure
	}
	return exitOK
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
