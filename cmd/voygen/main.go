package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/iamneilroberts/voygen-sub008/bloom"
	"github.com/iamneilroberts/voygen-sub008/chi"
	"github.com/iamneilroberts/voygen-sub008/crawl"
	"github.com/iamneilroberts/voygen-sub008/etree"
	"github.com/iamneilroberts/voygen-sub008/extract"
	"github.com/iamneilroberts/voygen-sub008/fs"
	"github.com/iamneilroberts/voygen-sub008/goquery"
	"github.com/iamneilroberts/voygen-sub008/htmltomarkdown"
	voyhttp "github.com/iamneilroberts/voygen-sub008/http"
	"github.com/iamneilroberts/voygen-sub008/prometheus"
	"github.com/iamneilroberts/voygen-sub008/readability"
	"github.com/iamneilroberts/voygen-sub008/redis"
	"github.com/iamneilroberts/voygen-sub008/rod"
	voyslog "github.com/iamneilroberts/voygen-sub008/slog"
	"github.com/iamneilroberts/voygen-sub008/sqlite"
	"github.com/iamneilroberts/voygen-sub008/trafilatura"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()
	m.Stdin = os.Stdin

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// Stdin is read by commands that accept "-" as a file.
	Stdin io.Reader

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	if m.DB != nil {
		if err := m.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.DB = nil
	}
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("voygen"),
		kong.Description("Extract hotel listings and travel facts from web pages."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'voygen --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd = strings.Fields(kongCtx.Command())[0]
	defer m.Close()

	deps.Logger = newLogger(stderr, cli.Verbose)
	if cli.Out != "" {
		deps.Envelopes = fs.NewEnvelopeStore(cli.Out)
	}

	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set VOYGEN_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	deps.HotelStore = sqlite.NewHotelService(m.DB)
	deps.FactStore = sqlite.NewFactService(m.DB)

	if !needsPages(cmd) {
		return kongCtx.Run(deps)
	}

	if err := m.wirePipeline(cli, deps); err != nil {
		return err
	}

	if cmd == "batch" {
		var newRowSet func() voygen.RowSet
		if cli.Batch.Bloom {
			newRowSet = func() voygen.RowSet {
				return bloom.NewFilter(bloom.DefaultCapacity, bloom.DefaultFPRate)
			}
		}
		deps.Batcher = &crawl.Batcher{
			Source:      deps.Source,
			Extractor:   deps.Hotels,
			RateLimiter: crawl.NewDomainLimiter(cli.Batch.RPS),
			NewRowSet:   newRowSet,
			Concurrency: cli.Batch.Concurrency,
			Logger: func(format string, args ...any) {
				deps.Logger.Warn(fmt.Sprintf(format, args...))
			},
		}
	}

	if cmd == "serve" {
		srv := chi.NewServer(deps.Logger, deps.Metrics.ObserveHTTP)
		srv.Addr = cli.Serve.Addr
		srv.Source = deps.Source
		srv.Parser = goquery.NewParser()
		srv.Hotels = deps.Hotels
		srv.Facts = deps.Facts
		srv.Mount("/metrics", deps.Metrics.Handler())

		if cli.Serve.Redis != "" {
			client, err := redis.NewClient(cli.Serve.Redis)
			if err != nil {
				return fmt.Errorf("failed to connect to redis: %w", err)
			}
			cache := redis.NewCache(client, redis.WithTTL(cli.Serve.CacheTTL))
			m.closers = append(m.closers, cache)
			srv.Cache = prometheus.NewEnvelopeCache(cache, deps.Metrics)
			srv.CacheKey = redis.Key
		}
		deps.Server = srv
	}

	return kongCtx.Run(deps)
}

// wirePipeline builds the page source and both extraction chains.
func (m *Main) wirePipeline(cli *CLI, deps *Dependencies) error {
	logger := deps.Logger
	parser := goquery.NewParser()
	hydration := extract.NewHydrationReader()

	fetcher := voyhttp.NewFetcher(voyhttp.WithTimeout(cli.Timeout))
	m.closers = append(m.closers, fetcher)

	var pages voygen.PageSource
	switch cli.Source {
	case SourceBrowser:
		manager, err := rod.NewBrowserManager(rod.WithHeadless(!cli.Headful))
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		m.closers = append(m.closers, manager)
		browser := rod.NewPageSource(manager, rod.WithGlobals(hydration.GlobalNames()...))
		deps.Sessions = browser
		pages = browser
	default:
		pages = voyhttp.NewPageSource(voyslog.NewLoggingFetcher(fetcher, logger), parser)
	}
	deps.Source = voyslog.NewLoggingPageSource(&RoutingSource{
		Files: fs.NewPageSource(parser),
		Web:   pages,
	}, logger)

	deps.Metrics = prometheus.NewMetrics()
	classifier := voyslog.NewLoggingClassifier(extract.NewClassifier(), logger)
	deps.NewHotelExtractor = func(resources voygen.ResourceFetcher) voygen.HotelExtractor {
		hotels := extract.NewHotelExtractor(classifier, extract.NewOrders(),
			hydration,
			extract.NewNetworkSampler(voyslog.NewLoggingResourceFetcher(resources, logger), etree.NewDecoder()),
			goquery.NewCardScraper(),
		)
		return prometheus.NewHotelExtractor(voyslog.NewLoggingHotelExtractor(hotels, logger), deps.Metrics)
	}
	deps.Hotels = deps.NewHotelExtractor(fetcher)

	var content voygen.Extractor = trafilatura.NewExtractor()
	if cli.Extractor == ExtractorReadability {
		content = readability.NewExtractor()
	}
	facts := extract.NewFactExtractor(content, htmltomarkdown.NewConverter())
	deps.Facts = prometheus.NewFactExtractor(voyslog.NewLoggingFactExtractor(facts, logger), deps.Metrics)
	return nil
}

// needsPages reports whether the command retrieves pages.
func needsPages(cmd string) bool {
	switch cmd {
	case "hotels", "facts", "batch", "serve":
		return true
	}
	return false
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultDBPath() string {
	if path := os.Getenv("VOYGEN_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "voygen.db"
	}
	dir := filepath.Join(home, ".voygen")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "voygen.db")
}
