package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/iamneilroberts/voygen-sub008/chi"
	"github.com/iamneilroberts/voygen-sub008/crawl"
	"github.com/iamneilroberts/voygen-sub008/prometheus"
	"github.com/iamneilroberts/voygen-sub008/rod"
)

// Page sources.
const (
	SourceHTTP    = "http"
	SourceBrowser = "browser"
)

// Main-content extractors used for the generic fact.
const (
	ExtractorTrafilatura = "trafilatura"
	ExtractorReadability = "readability"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Source voygen.PageSource
	Hotels voygen.HotelExtractor
	Facts  voygen.FactExtractor

	// Sessions, when set, keeps the browser tab open during hotel
	// extraction so the xhr tier re-fetches with the page's own session.
	Sessions          *rod.PageSource
	NewHotelExtractor func(resources voygen.ResourceFetcher) voygen.HotelExtractor

	HotelStore voygen.HotelService
	FactStore  voygen.FactService
	Envelopes  voygen.EnvelopeStore

	Batcher *crawl.Batcher
	Server  *chi.Server
	Metrics *prometheus.Metrics
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Source    string        `enum:"http,browser" default:"http" env:"VOYGEN_SOURCE" help:"Page source: http or browser. Local files are always read from disk"`
	Headful   bool          `env:"VOYGEN_HEADFUL" help:"Show the browser window"`
	Extractor string        `enum:"trafilatura,readability" default:"trafilatura" env:"VOYGEN_EXTRACTOR" help:"Main-content extractor for generic facts"`
	Timeout   time.Duration `default:"10s" env:"VOYGEN_TIMEOUT" help:"HTTP request timeout"`
	DB        string        `env:"VOYGEN_DB" help:"SQLite database path"`
	Out       string        `short:"o" env:"VOYGEN_OUT" help:"Directory to save envelopes in"`
	Verbose   bool          `short:"v" help:"Log debug output to stderr"`

	Hotels HotelsCmd `cmd:"" help:"Extract hotel rows from a results page"`
	Facts  FactsCmd  `cmd:"" help:"Extract travel facts from a page"`
	Batch  BatchCmd  `cmd:"" help:"Extract and merge hotel rows from several results pages"`
	Decode DecodeCmd `cmd:"" help:"Decode a saved envelope into records"`
	List   ListCmd   `cmd:"" help:"List stored hotels or facts"`
	Delete DeleteCmd `cmd:"" help:"Delete stored records for a source page"`
	Serve  ServeCmd  `cmd:"" help:"Serve the extraction API over HTTP"`
}

// HotelsCmd is the "hotels" subcommand.
type HotelsCmd struct {
	URL      string `arg:"" help:"Results page URL or local HTML file"`
	PageType string `name:"page-type" help:"Platform hint, such as navitrip or trisept"`
	MaxRows  int    `short:"n" name:"max-rows" help:"Maximum rows to extract (default 200)"`
	Selector string `name:"selector" help:"CSS selector for hotel cards"`
	Save     bool   `short:"s" help:"Store decoded hotels in the database"`
	Decoded  bool   `short:"d" help:"Print decoded hotels instead of the envelope"`
}

// FactsCmd is the "facts" subcommand.
type FactsCmd struct {
	URL      string   `arg:"" help:"Page URL or local HTML file"`
	Hint     string   `help:"Fact kind the text scan looks for: flight, hotel, event, reservation or place"`
	MaxChars int      `name:"max-chars" help:"Maximum visible text characters to scan (default 50000)"`
	Prefer   []string `short:"k" name:"prefer" help:"Preferred fact kinds (repeatable)"`
	Save     bool     `short:"s" help:"Store facts in the database"`
	Decoded  bool     `short:"d" help:"Print decoded facts instead of the envelope"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	URLs        []string `arg:"" name:"urls" help:"Results page URLs or local HTML files"`
	PageType    string   `name:"page-type" help:"Platform hint applied to every page"`
	MaxRows     int      `short:"n" name:"max-rows" help:"Maximum merged rows (default 200)"`
	Concurrency int      `short:"c" default:"4" help:"Pages processed at once"`
	RPS         float64  `default:"1" env:"VOYGEN_RPS" help:"Requests per second per domain; 0 disables limiting"`
	Bloom       bool     `help:"De-duplicate rows with a bloom filter"`
	Name        string   `help:"Name to save the merged envelope under (default: first URL)"`
	Save        bool     `short:"s" help:"Store merged hotels in the database"`
}

// DecodeCmd is the "decode" subcommand.
type DecodeCmd struct {
	Kind string `arg:"" enum:"hotels,facts" help:"Envelope kind: hotels or facts"`
	File string `arg:"" help:"Envelope JSON file, or - for stdin"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Kind          string  `arg:"" enum:"hotels,facts" help:"Record kind: hotels or facts"`
	SourceURL     string  `name:"from" help:"Only records from this page"`
	Name          string  `help:"Only hotels whose name contains this text"`
	Currency      string  `help:"Only hotels priced in this currency"`
	FactKind      string  `name:"fact-kind" help:"Only facts of this kind"`
	MinConfidence float64 `name:"min-confidence" help:"Only facts at or above this confidence"`
	Limit         int     `short:"l" help:"Maximum records to list"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Kind      string `arg:"" enum:"hotels,facts" help:"Record kind: hotels or facts"`
	SourceURL string `arg:"" help:"Source page URL"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr     string        `default:":8080" env:"VOYGEN_ADDR" help:"Listen address"`
	Redis    string        `env:"VOYGEN_REDIS" help:"Redis address or URL for the envelope cache"`
	CacheTTL time.Duration `name:"cache-ttl" default:"10m" help:"How long cached envelopes live"`
}
