// Package cli implements the pressroom and buildblog commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/eringen/pressroom"
	"github.com/eringen/pressroom/build"
	"github.com/eringen/pressroom/scaffold"
)

// Exit codes: 0=success, 1=failure, 2=usage.
const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// errUsage marks errors caused by the command line itself.
var errUsage = errors.New("usage")

// Env is what a command needs from the process.
type Env struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Version string
}

// SetMaxProcs aligns GOMAXPROCS with the container CPU quota. The error is
// ignored: it only fails when GOMAXPROCS is invalid and Go defaults apply.
func SetMaxProcs(verbose bool, stderr io.Writer) {
	logf := func(string, ...any) {}
	if verbose {
		logf = func(format string, args ...any) { fmt.Fprintf(stderr, format+"\n", args...) }
	}
	_, _ = maxprocs.Set(maxprocs.Logger(logf))
}

// Pressroom runs the pressroom command with args (without the program name).
func Pressroom(ctx context.Context, args []string, env Env) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}
	var err error
	switch args[0] {
	case "serve":
		err = serve(ctx, args[1:], env)
	case "build":
		err = runBuild(ctx, "pressroom build", args[1:], env)
	case "init":
		err = initSite(args[1:], env)
	case "admin":
		err = admin(ctx, args[1:], env)
	case "version":
		fmt.Fprintf(env.Stdout, "pressroom %s\n", env.Version)
	case "help", "-h", "--help":
		printUsage(env.Stdout)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return exitCode(err, env.Stderr)
}

// BuildBlog runs the standalone build command.
func BuildBlog(ctx context.Context, args []string, env Env) int {
	return exitCode(runBuild(ctx, "buildblog", args, env), env.Stderr)
}

func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, flag.ErrHelp):
		return ExitSuccess
	case errors.Is(err, errUsage):
		fmt.Fprintln(stderr, err)
		return ExitUsage
	default:
		fmt.Fprintln(stderr, "Error:", err)
		return ExitFailure
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `pressroom - blog backoffice and static pre-renderer

Usage:
  pressroom <command> [flags]

Commands:
  serve               Run the backoffice server
  build               Pre-render published articles into the site root
  init <dir>          Write a starter site into dir
  admin add <email>   Allow email to sign in to the backoffice
  version             Print the pressroom version
  help                Show this help message

Examples:
  pressroom init site --name "Elise & Mind" --url https://eliseandmind.com
  pressroom build --root site --workers 4
  pressroom admin add elise@example.com`)
}

// NotifyContext returns a context canceled on SIGINT or SIGTERM.
func NotifyContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

func serve(ctx context.Context, args []string, env Env) error {
	fs := flag.NewFlagSet("pressroom serve", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	site := fs.String("site", "", "site YAML file (default $SITE_CONFIG or site.yaml)")
	addr := fs.String("addr", "", "listen address (overrides $ADDR)")
	root := fs.String("root", "", "site root (overrides $SITE_ROOT)")
	if err := fs.Parse(args); err != nil {
		return usage(err)
	}

	cfg, err := pressroom.LoadConfig(*site)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *root != "" {
		cfg.SiteRoot = *root
		cfg.UploadsDir = ""
	}
	log := pressroom.NewLogger(env.Stderr, cfg.LogLevel, cfg.LogPretty)
	SetMaxProcs(cfg.LogLevel == "debug", env.Stderr)

	app := pressroom.New(cfg, log)
	return app.Start(ctx)
}

type buildFlags struct {
	root     string
	site     string
	source   string
	apiURL   string
	database string
	workers  int
	quiet    bool
	verbose  bool
}

func parseBuildFlags(name string, args []string, stderr io.Writer) (buildFlags, error) {
	var f buildFlags
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.root, "root", "", "site root holding the templates (overrides $SITE_ROOT)")
	fs.StringVar(&f.site, "site", "", "site YAML file (default $SITE_CONFIG or site.yaml)")
	fs.StringVar(&f.source, "source", "db", "content source: db or api")
	fs.StringVar(&f.apiURL, "api-url", "", "base URL of a running server (source api, default $SITE_URL)")
	fs.StringVar(&f.database, "database-url", "", "database (source db, overrides $DATABASE_URL)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent article renders (overrides $BUILD_WORKERS)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only print errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return f, usage(err)
	}
	if fs.NArg() > 0 {
		return f, fmt.Errorf("%w: unexpected argument %q", errUsage, fs.Arg(0))
	}
	if f.source != "db" && f.source != "api" {
		return f, fmt.Errorf("%w: --source must be db or api, got %q", errUsage, f.source)
	}
	if f.workers < 0 {
		return f, fmt.Errorf("%w: --workers must be positive", errUsage)
	}
	return f, nil
}

// runBuild performs one static build and fails when any article failed.
func runBuild(ctx context.Context, name string, args []string, env Env) error {
	f, err := parseBuildFlags(name, args, env.Stderr)
	if err != nil {
		return err
	}
	SetMaxProcs(f.verbose, env.Stderr)

	cfg, err := pressroom.LoadConfig(f.site)
	if err != nil {
		return err
	}
	if f.root != "" {
		cfg.SiteRoot = f.root
	}
	if f.database != "" {
		cfg.DatabaseURL = f.database
	}
	if f.workers > 0 {
		cfg.BuildWorkers = f.workers
	}
	level := cfg.LogLevel
	if f.verbose {
		level = "debug"
	}
	log := pressroom.NewLogger(env.Stderr, level, cfg.LogPretty)

	var src build.Source
	switch f.source {
	case "api":
		base := f.apiURL
		if base == "" {
			base = cfg.Site.URL
		}
		src = build.NewAPISource(base)
	default:
		store, err := pressroom.NewStore(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer store.Close()
		src = store
	}

	out := env.Stdout
	if f.quiet {
		out = io.Discard
	}
	b := &build.Builder{
		Source:  src,
		Root:    cfg.SiteRoot,
		Site:    cfg.Site,
		Workers: cfg.BuildWorkers,
		Log:     log,
		Out:     out,
	}
	rep, err := b.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, rep.Summary())
	if !rep.OK() {
		for _, fl := range rep.Failed {
			fmt.Fprintf(env.Stderr, "  %s: %v\n", fl.Path, fl.Err)
		}
		return fmt.Errorf("%d article(s) failed", len(rep.Failed))
	}
	return nil
}

func initSite(args []string, env Env) error {
	fs := flag.NewFlagSet("pressroom init", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	name := fs.String("name", "", "site name (default from the directory name)")
	url := fs.String("url", "", "public site URL")
	lang := fs.String("lang", "fr", "site language")
	if err := fs.Parse(args); err != nil {
		return usage(err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: pressroom init <dir>", errUsage)
	}
	dir := fs.Arg(0)

	blogJS, err := pressroom.EmbeddedAssets.ReadFile("embedded/blog.js")
	if err != nil {
		return err
	}
	created, err := scaffold.Write(dir, scaffold.Data{SiteName: *name, SiteURL: *url, Language: *lang},
		map[string][]byte{"js/blog.js": blogJS})
	for _, p := range created {
		fmt.Fprintf(env.Stdout, "  created %s\n", p)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(env.Stdout, "\nDone! Next steps:")
	fmt.Fprintln(env.Stdout, "  cp .env.example .env and fill in the Google client and session secret")
	fmt.Fprintln(env.Stdout, "  pressroom admin add <your email>")
	fmt.Fprintln(env.Stdout, "  pressroom serve")
	return nil
}

func admin(ctx context.Context, args []string, env Env) error {
	fs := flag.NewFlagSet("pressroom admin", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	database := fs.String("database-url", "", "database (overrides $DATABASE_URL)")
	if err := fs.Parse(args); err != nil {
		return usage(err)
	}
	if fs.NArg() != 2 || fs.Arg(0) != "add" {
		return fmt.Errorf("%w: pressroom admin add <email>", errUsage)
	}
	cfg, err := pressroom.LoadConfig("")
	if err != nil {
		return err
	}
	if *database != "" {
		cfg.DatabaseURL = *database
	}
	store, err := pressroom.NewStore(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()
	if err := store.AddAdmin(ctx, fs.Arg(1)); err != nil {
		return err
	}
	fmt.Fprintf(env.Stdout, "%s can now sign in\n", fs.Arg(1))
	return nil
}

func usage(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", errUsage, err)
}
