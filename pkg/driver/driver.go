// Package driver owns the model and runs the update, render, subscribe and
// interpret cycle for one program on a Loop.
package driver

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/odvcencio/virtualviews/pkg/controller"
	"github.com/odvcencio/virtualviews/pkg/effect"
	"github.com/odvcencio/virtualviews/pkg/logging"
	"github.com/odvcencio/virtualviews/pkg/native"
	"github.com/odvcencio/virtualviews/pkg/reconcile"
	"github.com/odvcencio/virtualviews/pkg/telemetry"
)

// Program is an application: an initial model, a reducer, a projection to a
// controller tree and the subscriptions the model wants.
type Program[S any, M comparable] struct {
	Init S

	// Update must be pure. Effects go in the returned commands.
	Update        func(S, M) (S, []effect.Command[M])
	View          func(S) controller.Controller[M]
	Subscriptions func(S) []effect.Subscription[M]

	// Startup commands are interpreted once after the first render.
	Startup []effect.Command[M]
}

// Phase is the driver state.
type Phase int

const (
	PhaseConstructing Phase = iota
	PhaseIdle
	PhaseHandling
)

func (p Phase) String() string {
	switch p {
	case PhaseConstructing:
		return "constructing"
	case PhaseIdle:
		return "idle"
	case PhaseHandling:
		return "handling"
	default:
		return "unknown"
	}
}

// Options configures a Driver.
type Options struct {
	Toolkit native.Toolkit
	Env     effect.Env
	Hub     *telemetry.Hub

	// OnIdle runs on the loop at the end of every transition.
	OnIdle func()
}

// Driver runs a Program. Apart from Send, Do and Refresh its methods must be
// called on the loop.
type Driver[S any, M comparable] struct {
	program  Program[S, M]
	loop     *Loop
	opts     Options
	log      *logging.Logger
	ctx      context.Context
	renderer *reconcile.Renderer[M]
	interp   *effect.Interpreter[M]
	subs     *effect.Manager[M]

	model    S
	root     native.ViewController
	retained *reconcile.Retained
	phase    Phase
}

// New constructs the driver and performs the initial transition: first
// render, first subscription reconcile and the startup commands. Call it
// before the loop runs, or from a task on the loop.
func New[S any, M comparable](program Program[S, M], loop *Loop, opts Options) *Driver[S, M] {
	d := &Driver[S, M]{
		program: program,
		loop:    loop,
		opts:    opts,
		log:     opts.Env.Logger,
		ctx:     opts.Env.Context,
		model:   program.Init,
		phase:   PhaseConstructing,
	}
	if d.ctx == nil {
		d.ctx = context.Background()
	}
	d.renderer = reconcile.New(opts.Toolkit, d.Send)
	d.interp = effect.NewInterpreter[M](opts.Env)
	d.subs = effect.NewManager(opts.Env, d.Send)

	_, span := telemetry.StartSpan(d.ctx, "driver.start")
	d.render(span)
	d.reconcileSubscriptions()
	d.interpretAll(span, program.Startup)
	span.End()

	d.log.Info(logging.CategoryDriver, "driver.started", "initial render complete", map[string]any{
		"startup_commands": len(program.Startup),
	})
	d.idle()
	return d
}

// Send schedules m. It may be called from any goroutine.
func (d *Driver[S, M]) Send(m M) {
	d.loop.Post(func() { d.handle(m) })
}

// Do schedules fn to run on the loop between transitions.
func (d *Driver[S, M]) Do(fn func()) {
	d.loop.Post(fn)
}

// Refresh schedules a render of the current model without a message.
func (d *Driver[S, M]) Refresh() {
	d.loop.Post(func() {
		d.enter()
		_, span := telemetry.StartSpan(d.ctx, "driver.refresh")
		d.render(span)
		span.End()
		d.idle()
	})
}

// Root is the current native root, for the host to mount.
func (d *Driver[S, M]) Root() native.ViewController { return d.root }

func (d *Driver[S, M]) Model() S { return d.model }

func (d *Driver[S, M]) Phase() Phase { return d.phase }

// Wait blocks until in-flight commands have delivered their messages to the
// loop. Tests call it before Loop.Drain.
func (d *Driver[S, M]) Wait() { d.interp.Wait() }

// Close stops every subscription and releases the retained handles.
func (d *Driver[S, M]) Close() {
	d.subs.Close()
	metricSubscriptionsActive.Set(0)
	d.retained.Release()
	d.retained = nil
}

func (d *Driver[S, M]) enter() {
	if d.phase == PhaseHandling {
		panic("driver: message handled while another is in progress")
	}
	d.phase = PhaseHandling
}

func (d *Driver[S, M]) idle() {
	d.phase = PhaseIdle
	if d.opts.OnIdle != nil {
		d.opts.OnIdle()
	}
}

func (d *Driver[S, M]) handle(m M) {
	d.enter()
	started := time.Now()
	label := fmt.Sprintf("%T%+v", m, m)

	_, span := telemetry.StartSpan(d.ctx, "driver.handle",
		trace.WithAttributes(telemetry.AttrMessage.String(label)))

	model, cmds := d.program.Update(d.model, m)
	d.model = model
	d.render(span)
	d.reconcileSubscriptions()
	d.interpretAll(span, cmds)

	span.SetAttributes(telemetry.AttrCommands.Int(len(cmds)))
	span.End()

	metricMessagesHandled.Inc()
	d.opts.Hub.Publish(telemetry.Event{
		Type:      telemetry.EventMessageHandled,
		SessionID: d.log.SessionID(),
		Data: map[string]any{
			"message":  label,
			"commands": len(cmds),
			"duration": time.Since(started).String(),
		},
	})
	d.log.Debug(logging.CategoryDriver, "message.handled", label, map[string]any{"commands": len(cmds)})
	d.idle()
}

// render reconciles the current model. The new handles are installed before
// the old ones are released.
func (d *Driver[S, M]) render(span trace.Span) {
	started := time.Now()
	root, retained := d.renderer.Render(d.program.View(d.model), d.root)
	old := d.retained
	d.root, d.retained = root, retained
	old.Release()

	elapsed := time.Since(started)
	stats := d.renderer.Stats()
	recordRender(elapsed.Seconds(), stats)
	span.AddEvent("render", trace.WithAttributes(
		telemetry.AttrCreated.Int(stats.Created),
		telemetry.AttrReused.Int(stats.Reused),
	))
	d.opts.Hub.Publish(telemetry.Event{
		Type:      telemetry.EventRendered,
		SessionID: d.log.SessionID(),
		Data: map[string]any{
			"created":  stats.Created,
			"reused":   stats.Reused,
			"pushes":   stats.Pushes,
			"pops":     stats.Pops,
			"handles":  retained.Len(),
			"duration": elapsed.String(),
		},
	})
}

func (d *Driver[S, M]) reconcileSubscriptions() {
	if d.program.Subscriptions == nil {
		return
	}
	changes := d.subs.Reconcile(d.program.Subscriptions(d.model))
	metricSubscriptionsActive.Set(float64(d.subs.Active()))
	for _, name := range changes.Started {
		d.opts.Hub.Publish(telemetry.Event{
			Type:      telemetry.EventSubscriptionStarted,
			SessionID: d.log.SessionID(),
			Data:      map[string]any{"subscription": name},
		})
	}
	for _, name := range changes.Stopped {
		d.opts.Hub.Publish(telemetry.Event{
			Type:      telemetry.EventSubscriptionStopped,
			SessionID: d.log.SessionID(),
			Data:      map[string]any{"subscription": name},
		})
	}
}

func (d *Driver[S, M]) interpretAll(span trace.Span, cmds []effect.Command[M]) {
	for _, c := range cmds {
		name := effect.Name(c)
		d.interp.Interpret(c, d.root, d.Send)
		metricCommandsInterpreted.WithLabelValues(name).Inc()
		span.AddEvent("command", trace.WithAttributes(telemetry.AttrCommand.String(name)))
		d.opts.Hub.Publish(telemetry.Event{
			Type:      telemetry.EventCommandInterpreted,
			SessionID: d.log.SessionID(),
			Data:      map[string]any{"command": name},
		})
	}
}
