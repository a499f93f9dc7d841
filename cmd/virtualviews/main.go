package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/odvcencio/virtualviews/pkg/config"
	"github.com/odvcencio/virtualviews/pkg/logging"
)

// Version information - set via ldflags during build
var (
	version   = "0.1.0-dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// loadConfigFn allows tests to supply a config without touching the home
// directory.
var loadConfigFn = loadConfig

func main() {
	os.Exit(dispatch(os.Args[1:]))
}

func dispatch(args []string) int {
	if len(args) == 0 {
		return runCommand(runRunCommand, nil)
	}
	switch args[0] {
	case "--version", "-v", "version":
		printVersion()
		return 0
	case "--help", "-h", "help":
		printHelp()
		return 0
	case "run":
		return runCommand(runRunCommand, args[1:])
	case "dump":
		return runCommand(runDumpCommand, args[1:])
	case "publish":
		return runCommand(runPublishCommand, args[1:])
	case "config":
		return runCommand(runConfigCommand, args[1:])
	case "logs":
		return runCommand(runLogsCommand, args[1:])
	default:
		if strings.HasPrefix(args[0], "-") {
			fmt.Fprintf(stderr, "Error: unknown flag: %s\n", args[0])
		} else {
			fmt.Fprintf(stderr, "Error: unknown command: %s\n", args[0])
		}
		fmt.Fprintln(stderr, "Run 'virtualviews --help' for usage.")
		return 1
	}
}

func runCommand(handler func([]string) error, args []string) int {
	if err := handler(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCodeForError(err)
	}
	return 0
}

func printHelp() {
	fmt.Fprintln(stdout, "virtualviews - declarative native UI sample apps")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "USAGE:")
	fmt.Fprintln(stdout, "  virtualviews [COMMAND] [FLAGS]")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "COMMANDS:")
	fmt.Fprintln(stdout, "  run [-app name] [-split] [-metrics]  Run an app in the terminal (default)")
	fmt.Fprintln(stdout, "  dump [-app name] [-all] [-plain]     Render an app once and print the tree")
	fmt.Fprintln(stdout, "  publish <subject> <data>             Publish a message on the NATS bus")
	fmt.Fprintln(stdout, "  config show|path                     Show the effective config or its locations")
	fmt.Fprintln(stdout, "  logs [-n 20] [-session id]           Print recent session log events")
	fmt.Fprintln(stdout, "  version                              Print version information")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "APPS:")
	fmt.Fprintln(stdout, "  hello, counter, todos, gif")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Every command accepts -config <path> to load a single config file.")
}

func printVersion() {
	fmt.Fprintf(stdout, "virtualviews %s\n", version)
	if commit != "unknown" {
		fmt.Fprintf(stdout, "  Commit:     %s\n", commit)
	}
	if buildDate != "unknown" {
		fmt.Fprintf(stdout, "  Built:      %s\n", buildDate)
	}
	fmt.Fprintf(stdout, "  Go version: %s\n", runtime.Version())
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// appFlags are shared by run and dump.
type appFlags struct {
	configPath string
	app        string
	split      bool
}

func (f *appFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "config file (defaults to user and project config)")
	fs.StringVar(&f.app, "app", "", "app to run: hello, counter, todos or gif")
	fs.BoolVar(&f.split, "split", false, "show the todos app as a split view")
}

func (f *appFlags) load() (*config.Config, error) {
	cfg, err := loadConfigFn(f.configPath)
	if err != nil {
		return nil, withExitCode(err, 2)
	}
	if f.app != "" {
		cfg.App = f.app
	}
	if f.split {
		cfg.UI.Split = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, withExitCode(err, 2)
	}
	return cfg, nil
}

func runRunCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var flags appFlags
	flags.register(fs)
	metrics := fs.Bool("metrics", false, "serve /metrics, /healthz and /events while running")
	if err := fs.Parse(args); err != nil {
		return withExitCode(err, 2)
	}
	cfg, err := flags.load()
	if err != nil {
		return err
	}
	if *metrics {
		cfg.Metrics.Enabled = true
	}

	m := mode{interactive: isInteractiveTerminal(), out: stdout}
	return runSession(cfg, m)
}

func runDumpCommand(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var flags appFlags
	flags.register(fs)
	all := fs.Bool("all", false, "include hidden navigation levels and modals")
	plain := fs.Bool("plain", false, "print without styling")
	if err := fs.Parse(args); err != nil {
		return withExitCode(err, 2)
	}
	cfg, err := flags.load()
	if err != nil {
		return err
	}
	return runSession(cfg, mode{all: *all, plain: *plain, out: stdout})
}

func runConfigCommand(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file (defaults to user and project config)")
	if err := fs.Parse(args); err != nil {
		return withExitCode(err, 2)
	}
	subCmd := "show"
	if fs.NArg() > 0 {
		subCmd = fs.Arg(0)
	}

	switch subCmd {
	case "show":
		cfg, err := loadConfigFn(*configPath)
		if err != nil {
			return withExitCode(err, 2)
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	case "path":
		fmt.Fprintln(stdout, "Configuration file locations:")
		fmt.Fprintf(stdout, "  User:    %s\n", config.UserConfigPath())
		fmt.Fprintf(stdout, "  Project: %s\n", config.ProjectConfigPath())
		if cfg, err := loadConfigFn(*configPath); err == nil {
			fmt.Fprintf(stdout, "  Store:   %s\n", cfg.Store.Path)
			fmt.Fprintf(stdout, "  Logs:    %s\n", cfg.Logging.Dir)
		}
		return nil
	default:
		return withExitCode(fmt.Errorf("unknown config command: %s (use show or path)", subCmd), 2)
	}
}

func runLogsCommand(args []string) error {
	fs := flag.NewFlagSet("logs", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file (defaults to user and project config)")
	count := fs.Int("n", 20, "number of events to print")
	session := fs.String("session", "", "session id (defaults to the most recent session)")
	if err := fs.Parse(args); err != nil {
		return withExitCode(err, 2)
	}
	cfg, err := loadConfigFn(*configPath)
	if err != nil {
		return withExitCode(err, 2)
	}

	path := logging.SessionPath(cfg.Logging.Dir, *session)
	if *session == "" {
		if path, err = logging.LatestSession(cfg.Logging.Dir); err != nil {
			return err
		}
	}
	events, err := logging.ReadRecentEvents(path, *count)
	if err != nil {
		return err
	}
	for _, e := range events {
		fmt.Fprintf(stdout, "%s %-5s %-12s %-24s %s\n",
			e.Timestamp.Format("15:04:05.000"), e.Level, e.Category, e.EventType, e.Message)
	}
	return nil
}

func isInteractiveTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) &&
		term.IsTerminal(int(os.Stdout.Fd()))
}
