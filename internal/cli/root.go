package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"

	"github.com/mrlokans/highlights-notion-sync/internal/config"
)

// CLI represents the complete command structure for the application
type CLI struct {
	LogLevel string           `help:"Override LOG_LEVEL (debug, info, warn, error)"`
	Version  kong.VersionFlag `help:"Print version information and exit"`

	Sync  SyncCmd  `cmd:"" default:"1" help:"Sync Readwise highlights into the Notion database once (default)"`
	Serve ServeCmd `cmd:"" help:"Run scheduled syncs with an HTTP status server"`
	Check CheckCmd `cmd:"" help:"Verify the Readwise token and Notion database access"`
}

// Globals is bound into every command's Run method.
type Globals struct {
	Context context.Context
	Config  *config.Config
	Version string
	Out     io.Writer
}

func newParser(cli *CLI, version string, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("highlights-notion-sync"),
		kong.Description("Synchronize Readwise highlights into a Notion database, deduplicated by URL."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	}, options...)
	return kong.New(cli, options...)
}

// Execute parses os.Args, runs the selected command and returns the
// process exit code.
func Execute(version, commit string) int {
	initLogging(slog.LevelInfo)

	var cli CLI
	parser, err := newParser(&cli, fmt.Sprintf("%s (%s)", version, commit))
	if err != nil {
		slog.Error("Failed to build command line parser", "error", err)
		return 1
	}

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	cfg := config.NewConfig()
	if cli.LogLevel != "" {
		cfg.Log.Level = cli.LogLevel
	}
	initLogging(cfg.Log.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	globals := &Globals{
		Context: ctx,
		Config:  cfg,
		Version: version,
		Out:     os.Stdout,
	}
	if err := kctx.Run(globals); err != nil {
		slog.Error("Command failed", "error", err)
		return 1
	}
	return 0
}

func initLogging(level slog.Level) {
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
