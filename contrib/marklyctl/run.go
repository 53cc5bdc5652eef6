package marklyctl

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	markly "github.com/marklyhq/markly.go"
	"github.com/marklyhq/markly.go/pkg/logger"
	"github.com/marklyhq/markly.go/session"
)

const usage = `Usage: marklyctl [global flags] <command> [command flags]

Commands:
  login        authenticate and persist the session token
  register     create an account and log in
  logout       discard the persisted session
  whoami       show the current user
  list         list bookmarks with client-side filtering
  get          show one bookmark
  add          save a bookmark
  edit         update a bookmark
  rm           delete a bookmark
  fav          toggle a bookmark's favorite flag
  summarize    generate an AI summary for a bookmark
  suggest      fetch AI suggestions, optionally saving one
  categories   list or add categories (with bookmark counts)
  collections  list or add collections (with bookmark counts)
  tags         list or add tags (sorted by popularity)
  stats        show dashboard totals

Global flags:
  -endpoint URL    API origin (env MARKLY_ENDPOINT)
  -config-dir DIR  token directory (env MARKLY_CONFIG_DIR)
  -verbose         debug logging
`

// app bundles everything a command needs.
type app struct {
	cfg    *Config
	client *markly.Client
	store  *session.Store
	stdout io.Writer
	stderr io.Writer
}

// Run parses args and dispatches to a subcommand. It is the whole CLI;
// main only supplies os values and the exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := NewConfig()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("marklyctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	fs.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "Markly API origin")
	fs.StringVar(&cfg.Dir, "config-dir", cfg.Dir, "directory holding the session token")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return fmt.Errorf("a command is required")
	}

	app, err := newApp(cfg, stdout, stderr)
	if err != nil {
		return err
	}
	return app.dispatch(ctx, rest[0], rest[1:])
}

func newApp(cfg *Config, stdout, stderr io.Writer) (*app, error) {
	level := zerolog.WarnLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	log, err := logger.New().ToWriter(stderr).Console().Level(level).Make()
	if err != nil {
		return nil, err
	}

	tokens := session.NewFileStore(cfg.Dir)
	client := markly.New(cfg.Endpoint,
		markly.WithTokenSource(tokens),
		markly.WithLogger(log),
	)
	store := session.New(client, tokens,
		session.WithLogger(log),
		session.WithNotifier(session.NotifierFunc(func(e session.Event) {
			if e.Success {
				fmt.Fprintln(stderr, e.Message)
			} else {
				fmt.Fprintln(stderr, "error:", e.Message)
			}
		})),
	)
	client.SetUnauthorizedHook(store.Invalidate)

	return &app{cfg: cfg, client: client, store: store, stdout: stdout, stderr: stderr}, nil
}

func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.cmdLogin(ctx, args)
	case "register":
		return a.cmdRegister(ctx, args)
	case "logout":
		return a.cmdLogout(args)
	case "whoami":
		return a.cmdWhoami(ctx, args)
	case "list":
		return a.cmdList(ctx, args)
	case "get":
		return a.cmdGet(ctx, args)
	case "add":
		return a.cmdAdd(ctx, args)
	case "edit":
		return a.cmdEdit(ctx, args)
	case "rm":
		return a.cmdRemove(ctx, args)
	case "fav":
		return a.cmdFavorite(ctx, args)
	case "summarize":
		return a.cmdSummarize(ctx, args)
	case "suggest":
		return a.cmdSuggest(ctx, args)
	case "categories":
		return a.cmdCategories(ctx, args)
	case "collections":
		return a.cmdCollections(ctx, args)
	case "tags":
		return a.cmdTags(ctx, args)
	case "stats":
		return a.cmdStats(ctx, args)
	default:
		fmt.Fprint(a.stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}
