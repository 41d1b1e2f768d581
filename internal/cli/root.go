package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/snapapi-hq/snapapi-go/internal/config"
	"github.com/snapapi-hq/snapapi-go/internal/logger"
	"github.com/snapapi-hq/snapapi-go/pkg/snapapi"
)

type command struct {
	name        string
	description string
	configure   func(fs *flag.FlagSet)
	run         func(ctx context.Context, app *AppContext, fs *flag.FlagSet, stdout io.Writer) error
	skipClient  bool
	offline     func() bool
}

// needsClient is evaluated after flag parsing; offline lets a flag such as
// devices -local run without an API key.
func (c command) needsClient() bool {
	if c.skipClient {
		return false
	}
	return c.offline == nil || !c.offline()
}

// AppContext exposes configuration, logging and the API client to commands.
type AppContext struct {
	Config *config.Config
	Logger logger.Logger
	Client *snapapi.Client
}

// RootCommand dispatches `snapapi <command> [flags]`.
type RootCommand struct {
	commands   map[string]command
	stdout     io.Writer
	stderr     io.Writer
	loadConfig func() (*config.Config, error)

	apiKey   string
	baseURL  string
	logLevel string
}

// NewRootCommand constructs the CLI dispatcher with all subcommands.
func NewRootCommand() *RootCommand {
	rc := &RootCommand{
		commands:   make(map[string]command),
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		loadConfig: config.Load,
	}

	rc.register(newRunCommand())
	rc.register(newPingCommand())
	rc.register(newUsageCommand())
	rc.register(newDevicesCommand())
	rc.register(newCapabilitiesCommand())
	rc.register(newScreenshotCommand())
	rc.register(newPDFCommand())
	rc.register(newVideoCommand())
	rc.register(newBatchCommand())
	rc.register(newExtractCommand())
	rc.register(newAnalyzeCommand())
	rc.register(newVersionCommand())

	return rc
}

func (rc *RootCommand) register(cmd command) {
	rc.commands[cmd.name] = cmd
}

// Execute parses global flags and dispatches to a subcommand.
func (rc *RootCommand) Execute(ctx context.Context, args []string) error {
	rootFlags := flag.NewFlagSet("snapapi", flag.ContinueOnError)
	rootFlags.SetOutput(rc.stderr)
	rootFlags.Usage = func() { rc.printHelp() }

	rootFlags.StringVar(&rc.apiKey, "api-key", "", "SnapAPI key (default: $SNAPAPI_API_KEY)")
	rootFlags.StringVar(&rc.baseURL, "base-url", "", "Override the API base URL")
	rootFlags.StringVar(&rc.logLevel, "log-level", "", "Override log level (debug, info, warn, error)")

	if err := rootFlags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	remaining := rootFlags.Args()
	if len(remaining) == 0 {
		rc.printHelp()
		return nil
	}

	subcommand, ok := rc.commands[remaining[0]]
	if !ok {
		fmt.Fprintf(rc.stderr, "Unknown command %q\n\n", remaining[0])
		rc.printHelp()
		return fmt.Errorf("unknown command %q", remaining[0])
	}

	fs := flag.NewFlagSet(subcommand.name, flag.ContinueOnError)
	fs.SetOutput(rc.stderr)
	fs.Usage = func() {
		fmt.Fprintf(rc.stderr, "Usage: snapapi %s [flags]\n", subcommand.name)
		if subcommand.description != "" {
			fmt.Fprintln(rc.stderr, subcommand.description)
		}
		fs.PrintDefaults()
	}
	if subcommand.configure != nil {
		subcommand.configure(fs)
	}
	if err := fs.Parse(remaining[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	app, err := rc.appContext(subcommand.needsClient())
	if err != nil {
		return err
	}
	defer logger.Close()

	return subcommand.run(ctx, app, fs, rc.stdout)
}

// appContext loads config, applies global overrides and routes logs to stderr
// so stdout only carries command output.
func (rc *RootCommand) appContext(withClient bool) (*AppContext, error) {
	cfg, err := rc.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if rc.apiKey != "" {
		cfg.APIKey = rc.apiKey
	}
	if rc.baseURL != "" {
		cfg.BaseURL = rc.baseURL
	}
	if rc.logLevel != "" {
		cfg.LogLevel = rc.logLevel
	}
	cfg.LogOutput = "stderr"

	log := logger.InitWriter(rc.stderr, cfg.LogLevel)
	app := &AppContext{Config: cfg, Logger: log}
	if !withClient {
		return app, nil
	}

	opts := []snapapi.Option{
		snapapi.WithLogger(log),
		snapapi.WithPollInterval(cfg.PollInterval),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, snapapi.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, snapapi.WithTimeout(cfg.Timeout))
	}
	if cfg.PollMaxAttempts > 0 {
		opts = append(opts, snapapi.WithMaxPollAttempts(cfg.PollMaxAttempts))
	}
	client, err := snapapi.New(cfg.APIKey, opts...)
	if err != nil {
		return nil, err
	}
	app.Client = client
	return app, nil
}

func (rc *RootCommand) printHelp() {
	fmt.Fprintf(rc.stderr, "snapapi - SnapAPI command line client\nVersion: %s\n\n", snapapi.Version)
	fmt.Fprintln(rc.stderr, "Usage: snapapi [global flags] <command> [command flags]")
	fmt.Fprintln(rc.stderr, "Global flags:")
	fmt.Fprintln(rc.stderr, "  -api-key string     SnapAPI key (default: $SNAPAPI_API_KEY)")
	fmt.Fprintln(rc.stderr, "  -base-url string    Override the API base URL")
	fmt.Fprintln(rc.stderr, "  -log-level string   Override log level (debug, info, warn, error)")
	fmt.Fprintln(rc.stderr, "")
	fmt.Fprintln(rc.stderr, "Available commands:")

	names := make([]string, 0, len(rc.commands))
	for name := range rc.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(rc.stderr, "  %-13s %s\n", name, rc.commands[name].description)
	}
}
