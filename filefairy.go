package filefairy

import (
	"context"
	"fmt"
	"github.com/hashicorp/golang-lru"
	"github.com/nlopes/slack"
	"github.com/orangeandblueleague/filefairy/config"
	"github.com/orangeandblueleague/filefairy/render"
	"github.com/orangeandblueleague/filefairy/schedule"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/api/global"
	"go.opentelemetry.io/otel/api/metric"
	"golang.org/x/sync/errgroup"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultLogPrefix = "filefairy: "
	defaultLogFlag   = log.Lshortfile | log.LstdFlags
	eventBufferSize  = 16
)

// ConnectionState is the state of the chat session
type ConnectionState int

// Connection states
const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
)

var connectionStateNames = map[ConnectionState]string{
	Disconnected: "disconnected",
	Connecting:   "connecting",
	Connected:    "connected",
}

func (cs ConnectionState) String() string {
	return connectionStateNames[cs]
}

// pluginStatus is the state of a plugin's registry entry. A failed plugin stays registered
// but is never invoked again
type pluginStatus int

const (
	active pluginStatus = iota
	failed
)

type entry struct {
	*Plugin

	status  pluginStatus
	failure error
}

type eventKind int

const (
	messageEvent eventKind = iota
	tickEvent
	dailyEvent
)

var eventKinds = []eventKind{messageEvent, tickEvent, dailyEvent}

func (k eventKind) String() string {
	switch k {
	case messageEvent:
		return "message"
	case tickEvent:
		return "tick"
	case dailyEvent:
		return "daily"
	}

	return "unknown"
}

// event is what the dispatch loop consumes. Messages, ticks and the daily signal all go through
// the same channel so that only one of them is ever being processed
type event struct {
	kind eventKind
	msg  Message
	at   time.Time
}

// Filefairy is the bot engine: it owns the plugin registry and the chat session and dispatches
// every event to the plugins from a single goroutine
type Filefairy struct {
	name      string
	config    *viper.Viper
	entries   []*entry
	byName    map[string]*entry
	transport Transport
	chat      Chat
	renderer  render.Renderer
	publisher render.Publisher
	seen      *lru.ARCCache
	conn      atomic.Int32
	closers   []io.Closer
	events    chan event
	started   bool

	// ctx is the context of the current Run, handed to tasks and publishing
	ctx        context.Context
	publishing sync.WaitGroup

	controlChannel string
	verbose        bool
	maxNotifyDepth int
	outputDir      string

	logger *log.Logger
	log    *sLogger
	meter  metric.Meter
	*instrumenter
}

// Option defines an option for a Filefairy
type Option func(*Filefairy)

// OptionLog sets a logger for Filefairy
func OptionLog(logger *log.Logger) func(*Filefairy) {
	return func(ff *Filefairy) {
		ff.logger = logger
	}
}

// OptionLogfile sets a logfile for Filefairy while using the other default logging prefix and options
func OptionLogfile(logfile *os.File) func(*Filefairy) {
	return func(ff *Filefairy) {
		ff.logger = log.New(logfile, defaultLogPrefix, defaultLogFlag)
	}
}

// OptionWithMeter sets the opentelemetry meter to use for the filefairy engine's metrics
func OptionWithMeter(meter metric.Meter) func(*Filefairy) {
	return func(ff *Filefairy) {
		ff.meter = meter
	}
}

// OptionTransport sets the chat transport. Without it, a slack transport is created with the
// configured token
func OptionTransport(t Transport) func(*Filefairy) {
	return func(ff *Filefairy) {
		ff.transport = t
	}
}

// OptionRenderer sets the renderer used for the pages of Renderable plugins. Without it,
// nothing is rendered
func OptionRenderer(r render.Renderer) func(*Filefairy) {
	return func(ff *Filefairy) {
		ff.renderer = r
	}
}

// OptionPublisher sets the publisher of rendered pages. Without it, pages are only written locally
func OptionPublisher(p render.Publisher) func(*Filefairy) {
	return func(ff *Filefairy) {
		ff.publisher = p
	}
}

// New creates a new filefairy engine from a name, a configuration and options
func New(name string, v *viper.Viper, options ...Option) (ff *Filefairy, err error) {
	ff = new(Filefairy)
	ff.name = name
	ff.config = v
	ff.byName = make(map[string]*entry)
	ff.entries = make([]*entry, 0)
	ff.events = make(chan event, eventBufferSize)
	ff.ctx = context.Background()
	ff.logger = log.New(os.Stdout, defaultLogPrefix, defaultLogFlag)

	for _, opt := range options {
		opt(ff)
	}

	debug := v.GetBool(config.DebugKey)
	ff.log = NewSLogger(ff.logger, debug)

	if ff.meter == nil {
		ff.meter = global.MeterProvider().Meter(name)
	}
	ff.instrumenter = newInstrumenter(name, ff.meter)

	ff.seen, err = lru.NewARC(v.GetInt(config.MessageDedupeCacheSizeKey))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create message dedupe cache")
	}

	ff.controlChannel = v.GetString(config.ControlChannelKey)
	ff.verbose = v.GetBool(config.VerboseKey)
	ff.maxNotifyDepth = v.GetInt(config.MaxNotifyDepthKey)
	ff.outputDir = v.GetString(config.RenderOutputDirKey)

	if ff.transport == nil {
		api := slack.New(
			v.GetString(config.TokenKey),
			slack.OptionDebug(debug),
			slack.OptionLog(log.New(ff.logger.Writer(), "slack: ", defaultLogFlag)),
		)
		ff.transport = NewSlackTransport(api, ff.log.Tagged("slack"))
	}

	ff.chat = newChatWithTelemetry(ff.transport, name, ff.meter)

	return ff, nil
}

// RegisterPlugin registers a plugin with the engine. This should be invoked prior to calling Run.
// The plugin's Logger and Chat are injected. A plugin with a name already registered is an error
func (ff *Filefairy) RegisterPlugin(p *Plugin) (err error) {
	if err = p.validate(); err != nil {
		return err
	}

	if _, exists := ff.byName[p.Name]; exists {
		return errors.Wrapf(ErrDuplicatePlugin, "[%s]", p.Name)
	}

	logger := ff.log.Tagged(p.Name)
	p.Logger = logger
	p.Chat = ff.chat
	if p.State != nil {
		p.State.setLogger(logger)
	}

	e := &entry{Plugin: p}
	ff.entries = append(ff.entries, e)
	ff.byName[p.Name] = e

	ff.log.Debugf("Registered plugin [%s] with capabilities [%s]", p.Name, p.Capabilities())
	return nil
}

// Plugin returns the registered plugin with the given name
func (ff *Filefairy) Plugin(name string) (p *Plugin, ok bool) {
	e, ok := ff.byName[name]
	if !ok {
		return nil, false
	}

	return e.Plugin, true
}

// Close closes all closers registered with the engine. The first error is returned but every
// closer is closed
func (ff *Filefairy) Close() (err error) {
	for _, c := range ff.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	return err
}

// Run connects to chat and dispatches events to plugins until ctx is done
func (ff *Filefairy) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err = ff.start(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	ticker := time.NewTicker(ff.config.GetDuration(config.TickIntervalKey))
	defer ticker.Stop()

	if dailyAt := ff.config.GetString(config.DailyAtKey); dailyAt != "" {
		timeLoc, err := config.GetTimeLocation(ff.config)
		if err != nil {
			return err
		}

		sc := schedule.NewScheduler(timeLoc)
		if err = sc.Add(schedule.Daily(dailyAt), func() { ff.enqueue(gctx, event{kind: dailyEvent, at: time.Now()}) }); err != nil {
			return err
		}

		ff.log.Debugf("Daily notification scheduled, next at [%s]", sc.NextRun())
		sc.Start()
		defer sc.Stop()
	}

	g.Go(func() error {
		return ff.pumpMessages(gctx)
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case t := <-ticker.C:
				ff.enqueue(gctx, event{kind: tickEvent, at: t})
			}
		}
	})

	g.Go(func() error {
		return ff.loop(gctx)
	})

	err = g.Wait()
	ff.publishing.Wait()

	if c, ok := ff.transport.(io.Closer); ok {
		if cerr := c.Close(); cerr != nil {
			ff.log.Printf("Failed to close chat session: %v", cerr)
		}
	}
	ff.setConnectionState(Disconnected)

	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

// start registers the status plugin, opens the first chat session and runs the plugins' setup
func (ff *Filefairy) start(ctx context.Context) (err error) {
	ff.ctx = ctx

	if !ff.started {
		if err = ff.RegisterPlugin(newStatusPlugin(ff)); err != nil {
			return err
		}
		ff.started = true
	}

	ff.ensureConnected(ctx)
	ff.setup(time.Now())

	return nil
}

// pumpMessages forwards the transport's messages to the dispatch loop
func (ff *Filefairy) pumpMessages(ctx context.Context) (err error) {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m := <-ff.transport.Events():
			ff.enqueue(ctx, event{kind: messageEvent, msg: m, at: time.Now()})
		}
	}
}

func (ff *Filefairy) enqueue(ctx context.Context, ev event) {
	select {
	case ff.events <- ev:
	case <-ctx.Done():
	}
}

// loop is the only goroutine touching the registry, the plugins and the chat session
func (ff *Filefairy) loop(ctx context.Context) (err error) {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-ff.events:
			ff.handle(ctx, ev)
		}
	}
}

// handle dispatches one event and renders the plugins whose state changed while doing so
func (ff *Filefairy) handle(ctx context.Context, ev event) {
	eventsSeen := ff.coreMetrics.eventsSeen[ev.kind]
	eventsSeen.Add(ctx, 1)

	revisions := ff.revisions()
	d := measure(func() {
		switch ev.kind {
		case messageEvent:
			ff.dispatchMessage(ev.msg)
		case tickEvent:
			ff.ensureConnected(ctx)
			ff.tick(ev.at)
		case dailyEvent:
			ff.broadcast(nil, Daily, 0)
		}
	})
	dispatchLatency := ff.coreMetrics.dispatchLatencyMillis[ev.kind]
	dispatchLatency.Record(ctx, d.Milliseconds())

	ff.renderChanged(revisions, ev.at)
}

// ensureConnected opens a chat session if there is none or if the current one died. A failed
// attempt leaves the engine disconnected until the next tick
func (ff *Filefairy) ensureConnected(ctx context.Context) {
	if ff.ConnectionState() == Connected {
		if ff.transport.Alive() {
			return
		}

		ff.log.Printf("Chat session died, reconnecting")
		ff.coreMetrics.reconnects.Add(ctx, 1)
	}

	ff.setConnectionState(Connecting)
	url, err := ff.transport.Connect(ctx)
	if err != nil {
		ff.setConnectionState(Disconnected)
		ff.log.Printf("Failed to connect, will retry on next tick: %v", err)
		return
	}

	ff.setConnectionState(Connected)
	ff.log.Printf("Connected to [%s]", url)
}

// ConnectionState returns the state of the chat session. It is safe to call while Run is
// running
func (ff *Filefairy) ConnectionState() ConnectionState {
	return ConnectionState(ff.conn.Load())
}

func (ff *Filefairy) setConnectionState(cs ConnectionState) {
	ff.conn.Store(int32(cs))
}

func (ff *Filefairy) setup(now time.Time) {
	for _, e := range ff.entries {
		if e.Setup == nil || !e.active() {
			continue
		}

		r := ff.invoke(e, "setup", e.Setup)
		ff.apply(e, r, 0)
	}

	for _, e := range ff.entries {
		if e.active() && e.Has(Renderable) {
			ff.render(e, now)
		}
	}
}

func (ff *Filefairy) tick(now time.Time) {
	for _, e := range ff.entries {
		if !e.active() || !e.Has(Runnable) {
			continue
		}

		r := ff.invoke(e, "run", func() (*Response, error) {
			return e.Run(RunContext{Now: now})
		})
		ff.apply(e, r, 0)
	}
}

func (ff *Filefairy) dispatchMessage(m Message) {
	if m.Timestamp != "" {
		id := m.Channel + "/" + m.Timestamp
		if ff.seen.Contains(id) {
			ff.log.Debugf("Dropping already processed message [%s]", id)
			return
		}
		ff.seen.Add(id, true)
	}

	if selfID := ff.transport.SelfID(); selfID != "" && (m.User == selfID || m.BotID == selfID) {
		ff.log.Debugf("Ignoring message from user [%s] because that's \"us\"", m.User)
		return
	}

	for _, e := range ff.entries {
		if !e.active() || !e.Has(Messageable) {
			continue
		}

		msg := m
		r := ff.invoke(e, "message", func() (*Response, error) {
			return e.HandleMessage(&msg, ff.controlChannel)
		})
		ff.apply(e, r, 0)
	}
}

// broadcast invokes the notify handler of every active plugin except origin. Responses of the
// notified plugins are applied one level deeper and notifications past maxNotifyDepth are dropped
func (ff *Filefairy) broadcast(origin *entry, n Notification, depth int) {
	if depth >= ff.maxNotifyDepth {
		ff.log.Printf("Dropping notification [%s] from [%s] at depth %d (max %d)", n, entryName(origin), depth, ff.maxNotifyDepth)
		return
	}

	ff.coreMetrics.notificationsSent.Add(ff.ctx, 1)
	for _, e := range ff.entries {
		if e == origin || !e.active() || !e.Has(Notifiable) {
			continue
		}

		r := ff.invoke(e, "notify", func() (*Response, error) {
			return e.OnNotify(n)
		})
		ff.apply(e, r, depth+1)
	}
}

// apply applies a response: patches first, then tasks and finally notifications
func (ff *Filefairy) apply(origin *entry, r *Response, depth int) {
	if r.IsEmpty() {
		return
	}

	for _, p := range r.Patches {
		ff.applyPatch(origin, p)
	}

	for _, t := range r.Tasks {
		ff.runTask(origin, t)
	}

	for _, n := range r.Notify {
		ff.broadcast(origin, n, depth)
	}
}

// applyPatch merges the patch into its destination's state and writes it. Patches to unknown or
// stateless plugins are skipped
func (ff *Filefairy) applyPatch(origin *entry, p Patch) {
	if p.Data == nil {
		return
	}

	if err := p.Validate(); err != nil {
		ff.log.Printf("Skipping patch from [%s]: %v", entryName(origin), err)
		return
	}

	dest, ok := ff.byName[p.Destination]
	if !ok || dest.State == nil {
		ff.log.Printf("Skipping patch from [%s] to [%s]: no such plugin with state", entryName(origin), p.Destination)
		return
	}

	if err := mergePatch(dest.State.Data(), p.Key, p.Data); err != nil {
		ff.log.Printf("Skipping patch from [%s] to [%s]: %v", entryName(origin), p.Destination, err)
		return
	}

	if err := dest.State.Write(); err != nil {
		ff.log.Printf("Failed to persist patch from [%s] to [%s]: %v", entryName(origin), p.Destination, err)
		return
	}

	ff.coreMetrics.patchesApplied.Add(ff.ctx, 1)
	ff.log.Debugf("Applied patch from [%s] to [%s] at [%s]", entryName(origin), p.Destination, p.Key)
}

// runTask runs a deferred task. A failing task quarantines the plugin that returned it
func (ff *Filefairy) runTask(origin *entry, t Task) {
	if t.Fn == nil {
		return
	}

	err := protect(func() error {
		return t.Fn(ff.ctx)
	})

	if err != nil && origin != nil {
		ff.quarantine(origin, errors.Wrap(err, fmt.Sprintf("task [%s] (%s) failed", t.Description, t.ID)))
	}
}

// invoke calls a plugin handler. Errors and panics quarantine the plugin and result in a nil Response
func (ff *Filefairy) invoke(e *entry, what string, handler func() (*Response, error)) (r *Response) {
	pm := ff.getOrCreatePluginMetrics(e.Name)

	var err error
	d := measure(func() {
		err = protect(func() (herr error) {
			r, herr = handler()
			return herr
		})
	})

	pm.invocationCount.Add(ff.ctx, 1)
	pm.processingTimeMillis.Record(ff.ctx, d.Milliseconds())

	if err != nil {
		ff.quarantine(e, errors.Wrap(err, fmt.Sprintf("%s handler of [%s] failed", what, e.Name)))
		return nil
	}

	return r
}

// quarantine transitions a plugin to failed for the rest of the process lifetime
func (ff *Filefairy) quarantine(e *entry, err error) {
	if e.status == failed {
		return
	}

	e.status = failed
	e.failure = err

	pm := ff.getOrCreatePluginMetrics(e.Name)
	pm.failureCount.Add(ff.ctx, 1)

	ff.log.Printf("Plugin [%s] failed and won't be invoked again: %+v", e.Name, err)

	if ff.verbose && ff.controlChannel != "" && ff.ConnectionState() == Connected {
		if _, perr := ff.chat.Post(ff.controlChannel, fmt.Sprintf("Plugin `%s` failed and was disabled:\n```%+v```", e.Name, err)); perr != nil {
			ff.log.Printf("Failed to announce failure of [%s]: %v", e.Name, perr)
		}
	}
}

// protect runs fn and converts a panic into an error
func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
		}
	}()

	return fn()
}

func (e *entry) active() bool {
	return e.status == active && e.Enabled()
}

func entryName(e *entry) string {
	if e == nil {
		return "filefairy"
	}

	return e.Name
}
