package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/lepinkainen/dbknih/cmd/databazeknih"
	"github.com/lepinkainen/dbknih/internal/cache"
	"github.com/lepinkainen/dbknih/internal/config"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"
)

var (
	runIdentify = databazeknih.IdentifyWithParams
	runCover    = databazeknih.CoverWithParams
)

// CLI represents the complete command structure for the dbknih application
type CLI struct {
	// Global flags
	Overwrite  bool `help:"Overwrite existing output files"`
	Verbose    bool `short:"v" help:"Enable debug logging"`
	MaxResults int  `help:"Maximum number of search results to fetch (5-50, 0 uses the configured value)" default:"0"`

	// Datasette flags
	Datasette   bool   `help:"Write identified books to the Datasette database"`
	DatasetteDB string `help:"Path to SQLite database file" default:"./dbknih.db"`

	// Cache flags
	CacheDBFile string `help:"Path to cache SQLite database file" default:"./cache.db"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g., 720h for 30 days)" default:"720h"`
	CachePages  bool   `help:"Cache fetched pages in the cache database"`

	Identify IdentifyCmd `cmd:"" help:"Find book metadata on databazeknih.cz"`
	Cover    CoverCmd    `cmd:"" help:"Download a book cover from databazeknih.cz"`
	Cache    CacheCmd    `cmd:"" help:"Manage the cache database"`
}

// SessionFlags selects how pages are fetched
type SessionFlags struct {
	Browser  bool `help:"Fetch pages with a Chrome browser instead of plain HTTP"`
	Headless bool `help:"Run the browser without a window" default:"true" negatable:""`
}

// IdentifyCmd represents the identify command
type IdentifyCmd struct {
	Title       string   `short:"t" help:"Book title"`
	Author      []string `short:"a" help:"Author name (repeatable)"`
	ID          string   `name:"id" help:"databazeknih identifier, skips the search"`
	ISBN        string   `name:"isbn" help:"ISBN of the book"`
	JSON        string   `name:"json" help:"Write records to this JSON file"`
	Markdown    string   `help:"Write one markdown note per record into this directory"`
	Parquet     string   `help:"Write records to this parquet file"`
	Interactive bool     `short:"i" help:"Pick one record in an interactive list"`

	SessionFlags `embed:""`
}

// CoverCmd represents the cover command
type CoverCmd struct {
	Title  string   `short:"t" help:"Book title"`
	Author []string `short:"a" help:"Author name (repeatable)"`
	ID     string   `name:"id" help:"databazeknih identifier"`
	ISBN   string   `name:"isbn" help:"ISBN of the book"`
	Output string   `short:"o" help:"Path of the image file to write" required:""`
	Width  int      `help:"Resize the cover to this width in pixels (0 keeps the original)" default:"0"`

	SessionFlags `embed:""`
}

// CacheCmd groups the cache subcommands
type CacheCmd struct {
	Invalidate cache.InvalidateCacheCmd `cmd:"" help:"Clear one cache table"`
	Prune      cache.PruneCacheCmd      `cmd:"" help:"Remove entries older than the cache TTL"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging(false)
	initConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("dbknih"),
		kong.Description("Harvest book metadata and covers from databazeknih.cz."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	if cli.Verbose {
		initLogging(true)
	}
	updateGlobalConfig(&cli)

	err := kctx.Run()
	stop()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	config.SetDefaults()

	// Datasette defaults
	viper.SetDefault("datasette.enabled", false)
	viper.SetDefault("datasette.dbfile", "./dbknih.db")
	viper.SetDefault("datasette.mode", "local")

	// Cache defaults
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "720h") // 30 days
	viper.SetDefault("cache.pages", false)

	// DATABAZEKNIH_MAXRESULTS overrides databazeknih.maxresults
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			slog.Debug("Config file not found, using defaults")
		} else {
			slog.Error("Failed to read config file", "error", err)
		}
	}

	// Initialize global config
	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	config.SetOverwriteFiles(cli.Overwrite)
	if cli.MaxResults != 0 {
		config.SetMaxResults(cli.MaxResults)
	}

	// Update datasette config
	if cli.Datasette {
		viper.Set("datasette.enabled", true)
	}
	viper.Set("datasette.dbfile", cli.DatasetteDB)

	// Update cache config
	viper.Set("cache.dbfile", cli.CacheDBFile)
	viper.Set("cache.ttl", cli.CacheTTL)
	if cli.CachePages {
		viper.Set("cache.pages", true)
	}
}

func (s SessionFlags) params() databazeknih.SessionParams {
	return databazeknih.SessionParams{Browser: s.Browser, Headless: s.Headless}
}

func (i *IdentifyCmd) Run(ctx context.Context) error {
	return runIdentify(ctx, databazeknih.IdentifyParams{
		Title:       i.Title,
		Authors:     i.Author,
		ID:          i.ID,
		ISBN:        i.ISBN,
		JSONOutput:  i.JSON,
		MarkdownDir: i.Markdown,
		Parquet:     i.Parquet,
		Interactive: i.Interactive,
		Session:     i.params(),
	})
}

func (c *CoverCmd) Run(ctx context.Context) error {
	return runCover(ctx, databazeknih.CoverParams{
		Title:   c.Title,
		Authors: c.Author,
		ID:      c.ID,
		ISBN:    c.ISBN,
		Output:  c.Output,
		Width:   c.Width,
		Session: c.params(),
	})
}

func initLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}
