package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/odvcencio/virtualviews/pkg/apps/counter"
	"github.com/odvcencio/virtualviews/pkg/apps/gif"
	"github.com/odvcencio/virtualviews/pkg/apps/hello"
	"github.com/odvcencio/virtualviews/pkg/apps/todos"
	"github.com/odvcencio/virtualviews/pkg/bus"
	"github.com/odvcencio/virtualviews/pkg/config"
	"github.com/odvcencio/virtualviews/pkg/driver"
	"github.com/odvcencio/virtualviews/pkg/effect"
	"github.com/odvcencio/virtualviews/pkg/errors"
	"github.com/odvcencio/virtualviews/pkg/host"
	"github.com/odvcencio/virtualviews/pkg/logging"
	"github.com/odvcencio/virtualviews/pkg/native"
	"github.com/odvcencio/virtualviews/pkg/native/sim"
	"github.com/odvcencio/virtualviews/pkg/store"
	"github.com/odvcencio/virtualviews/pkg/telemetry"
)

// settleRounds bounds how many wait/drain rounds a dump performs before
// printing.
const settleRounds = 16

// mode selects how an app is shown.
type mode struct {
	interactive bool
	all         bool
	plain       bool
	out         io.Writer
}

// session holds the collaborators shared by one run of an app.
type session struct {
	cfg       *config.Config
	log       *logging.Logger
	store     *store.Store
	bus       bus.MessageBus
	hub       *telemetry.Hub
	tracer    *telemetry.TracerProvider
	traceFile *os.File
	tk        *sim.Toolkit
}

func openSession(cfg *config.Config) (*session, error) {
	s := &session{cfg: cfg, hub: telemetry.NewHub(), tk: sim.New()}
	id := logging.NewSessionID()

	log, err := logging.OpenLogger(cfg.Logging.Dir, id)
	if err != nil {
		return nil, err
	}
	if level, err := logging.ParseLevel(cfg.Logging.Level); err == nil {
		log.SetMinLevel(level)
	}
	s.log = log

	if s.store, err = store.Open(cfg.Store.Path); err != nil {
		s.Close()
		return nil, err
	}

	if cfg.Bus.Enabled {
		nb, err := bus.NewNATSBus(bus.Config{URL: cfg.Bus.URL, Name: cfg.Bus.Name, Timeout: cfg.Network.Timeout})
		if err != nil {
			s.Close()
			return nil, errors.Wrap(err, errors.ErrCodeBusConnect, "connect to bus").
				WithContext("url", cfg.Bus.URL).
				WithRemediation("start a NATS server or set bus.enabled: false")
		}
		s.bus = nb
	} else {
		s.bus = bus.NewMemoryBus()
	}

	if cfg.Tracing.Enabled {
		dir := filepath.Join(cfg.Logging.Dir, "traces")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.Close()
			return nil, err
		}
		if s.traceFile, err = os.Create(filepath.Join(dir, id+".jsonl")); err != nil {
			s.Close()
			return nil, err
		}
		if s.tracer, err = telemetry.NewTracerProvider(s.traceFile, "virtualviews", version); err != nil {
			s.Close()
			return nil, err
		}
	}

	log.Info(logging.CategoryHost, "session.opened", cfg.App, map[string]any{
		"store":   cfg.Store.Path,
		"bus":     cfg.Bus.Enabled,
		"tracing": cfg.Tracing.Enabled,
	})
	return s, nil
}

func (s *session) env(ctx context.Context) effect.Env {
	limit := rate.Inf
	if s.cfg.Network.RequestsPerSecond > 0 {
		limit = rate.Limit(s.cfg.Network.RequestsPerSecond)
	}
	return effect.Env{
		Dialogs:   s.tk.Dialogs(),
		HTTP:      &http.Client{Timeout: s.cfg.Network.Timeout},
		Clock:     native.SystemClock{},
		Store:     s.store,
		Bus:       s.bus,
		Limiter:   rate.NewLimiter(limit, max(s.cfg.Network.Burst, 1)),
		UserAgent: s.cfg.Network.UserAgent + "/" + version,
		Logger:    s.log,
		Context:   ctx,
	}
}

func (s *session) Close() {
	if s.tracer != nil {
		_ = s.tracer.Shutdown(context.Background())
	}
	if s.traceFile != nil {
		_ = s.traceFile.Close()
	}
	if s.bus != nil {
		_ = s.bus.Close()
	}
	if s.store != nil {
		_ = s.store.Close()
	}
	s.hub.Close()
	_ = s.log.Close()
}

func runSession(cfg *config.Config, m mode) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	return launch(ctx, s, m)
}

func launch(ctx context.Context, s *session, m mode) error {
	switch s.cfg.App {
	case "hello":
		return show(ctx, s, m, hello.Program())
	case "counter":
		return show(ctx, s, m, counter.Program(counter.Options{Tick: s.cfg.UI.Tick, Subject: s.cfg.Bus.SubjectPrefix}))
	case "todos":
		return show(ctx, s, m, todos.Program(todos.Options{Split: s.cfg.UI.Split}))
	case "gif":
		return show(ctx, s, m, gif.Program(gif.Options{Endpoint: s.cfg.Gif.Endpoint}))
	default:
		return withExitCode(errors.Newf(errors.ErrCodeUnknownApp, "unknown app %q", s.cfg.App), 2)
	}
}

func show[S any, M comparable](ctx context.Context, s *session, m mode, prog driver.Program[S, M]) error {
	if m.interactive {
		return interactive(ctx, s, prog)
	}
	return dump(ctx, s, m, prog)
}

// interactive runs the loop, the terminal host and, when enabled, the
// metrics server until the user quits or ctx is done.
func interactive[S any, M comparable](ctx context.Context, s *session, prog driver.Program[S, M]) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeHostTerminal, "open terminal")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	loop := driver.NewLoop()
	var d *driver.Driver[S, M]
	h := host.New(host.Options{
		Screen:  screen,
		Title:   "virtualviews: " + s.cfg.App,
		Root:    func() native.ViewController { return d.Root() },
		Dialogs: s.tk.Dialogs(),
		Post:    loop.Post,
		Logger:  s.log,
	})
	loop.Post(func() {
		d = driver.New(prog, loop, driver.Options{
			Toolkit: s.tk,
			Env:     s.env(ctx),
			Hub:     s.hub,
			OnIdle: func() {
				if d != nil {
					h.Redraw()
				}
			},
		})
	})

	g.Go(func() error { return ignoreCanceled(loop.Run(ctx)) })
	g.Go(func() error {
		defer cancel()
		return ignoreCanceled(h.Run(ctx))
	})
	if s.cfg.Metrics.Enabled {
		server := telemetry.NewServer(s.hub, prometheus.DefaultGatherer)
		g.Go(func() error {
			if err := server.Serve(ctx, s.cfg.Metrics.Listen); err != nil {
				return errors.Wrap(err, errors.ErrCodeHostServe, "serve metrics").
					WithContext("listen", s.cfg.Metrics.Listen)
			}
			return nil
		})
	}

	err = g.Wait()
	if d != nil {
		d.Close()
	}
	return err
}

// dump renders the app once, lets startup commands settle and prints the
// tree.
func dump[S any, M comparable](ctx context.Context, s *session, m mode, prog driver.Program[S, M]) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Network.Timeout)
	defer cancel()

	loop := driver.NewLoop()
	d := driver.New(prog, loop, driver.Options{Toolkit: s.tk, Env: s.env(ctx), Hub: s.hub})
	defer d.Close()
	for range settleRounds {
		d.Wait()
		if loop.Drain() == 0 {
			break
		}
	}

	var text string
	switch {
	case m.all:
		text = sim.Dump(d.Root())
	case m.plain:
		text = strings.Join(sim.Lines(d.Root()), "\n")
	default:
		text = sim.Render(d.Root())
	}
	fmt.Fprintln(m.out, text)
	for _, a := range s.tk.Dialogs().Alerts() {
		fmt.Fprintf(m.out, "alert: %s\n", a.Title)
	}
	return nil
}

func runPublishCommand(args []string) error {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file (defaults to user and project config)")
	raw := fs.Bool("raw", false, "do not prefix the subject with bus.subject_prefix")
	if err := fs.Parse(args); err != nil {
		return withExitCode(err, 2)
	}
	if fs.NArg() != 2 {
		return withExitCode(fmt.Errorf("usage: virtualviews publish [-raw] <subject> <data>"), 2)
	}
	cfg, err := loadConfigFn(*configPath)
	if err != nil {
		return withExitCode(err, 2)
	}
	if !cfg.Bus.Enabled {
		return withExitCode(errors.New(errors.ErrCodeBusConnect, "bus is disabled").
			WithRemediation("set bus.enabled: true or VIRTUALVIEWS_NATS_URL"), 2)
	}

	nb, err := bus.NewNATSBus(bus.Config{URL: cfg.Bus.URL, Name: cfg.Bus.Name + "-cli", Timeout: cfg.Network.Timeout})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeBusConnect, "connect to bus").WithContext("url", cfg.Bus.URL)
	}
	defer nb.Close()

	subject := fs.Arg(0)
	if !*raw {
		subject = bus.Join(cfg.Bus.SubjectPrefix, subject)
	}
	data := []byte(fs.Arg(1))
	if err := nb.Publish(subject, data); err != nil {
		return errors.Wrap(err, errors.ErrCodeBusPublish, "publish").WithContext("subject", subject)
	}
	if err := nb.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrCodeBusPublish, "flush").WithContext("subject", subject)
	}
	fmt.Fprintf(stdout, "published %d bytes to %s\n", len(data), subject)
	return nil
}
